package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/tictactoe-bot/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-bot/internal/entity"
	"github.com/rocketscienceinc/tictactoe-bot/internal/usecase"
)

var errBadParam = errors.New("bad request parameter")

type sessionManager interface {
	CreateSession(ctx context.Context, chatID int64, initiator *entity.Participant) (*entity.Session, error)
	CreateAgentSession(ctx context.Context, chatID int64, initiator *entity.Participant) (*entity.Session, error)
	JoinOrMove(ctx context.Context, req usecase.MoveRequest) (*usecase.MoveResult, error)
	ResetSession(ctx context.Context, chatID int64) bool
	Session(chatID int64) (*entity.Session, error)
	BindMessage(chatID int64, sessionID string, messageID int64) error
}

type viewRenderer interface {
	Render(session *entity.Session) entity.View
}

type statsReader interface {
	GetStats(ctx context.Context, chatID int64, top int) (*entity.ChatStats, error)
}

type banList interface {
	Ban(ctx context.Context, userID int64) error
	Unban(ctx context.Context, userID int64) error
	IsBanned(ctx context.Context, userID int64) (bool, error)
}

type eventStream interface {
	Stream(ctx context.Context, chatID int64) (<-chan entity.View, error)
}

type handlers struct {
	logger *slog.Logger

	games    sessionManager
	renderer viewRenderer
	stats    statsReader
	bans     banList
	events   eventStream

	topPlayers int
}

type userRequest struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type createRequest struct {
	User userRequest `json:"user"`
}

type moveRequest struct {
	User      userRequest `json:"user"`
	Cell      int         `json:"cell"`
	SessionID string      `json:"session_id"`
	MessageID int64       `json:"message_id"`
}

type bindRequest struct {
	SessionID string `json:"session_id"`
	MessageID int64  `json:"message_id"`
}

type gameResponse struct {
	Session *entity.Session `json:"session"`
	View    entity.View     `json:"view"`
}

type moveResponse struct {
	gameResponse
	Joined bool          `json:"joined"`
	Moves  []entity.Move `json:"moves"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Notice string `json:"notice,omitempty"`
	Detach bool   `json:"detach,omitempty"`
}

func (that *handlers) createGame(w http.ResponseWriter, r *http.Request) {
	that.create(w, r, that.games.CreateSession)
}

func (that *handlers) createAgentGame(w http.ResponseWriter, r *http.Request) {
	that.create(w, r, that.games.CreateAgentSession)
}

func (that *handlers) create(
	w http.ResponseWriter,
	r *http.Request,
	start func(ctx context.Context, chatID int64, initiator *entity.Participant) (*entity.Session, error),
) {
	ctx := r.Context()

	chatID, err := intParam(r, "chatID")
	if err != nil {
		that.writeError(w, err)
		return
	}

	var req createRequest
	if err = decode(r, &req); err != nil {
		that.writeError(w, err)
		return
	}

	user, err := that.participant(ctx, req.User)
	if err != nil {
		that.writeError(w, err)
		return
	}

	session, err := start(ctx, chatID, user)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusCreated, that.gameView(session))
}

func (that *handlers) getGame(w http.ResponseWriter, r *http.Request) {
	chatID, err := intParam(r, "chatID")
	if err != nil {
		that.writeError(w, err)
		return
	}

	session, err := that.games.Session(chatID)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, that.gameView(session))
}

func (that *handlers) resetGame(w http.ResponseWriter, r *http.Request) {
	chatID, err := intParam(r, "chatID")
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.games.ResetSession(r.Context(), chatID)

	w.WriteHeader(http.StatusNoContent)
}

func (that *handlers) bindMessage(w http.ResponseWriter, r *http.Request) {
	chatID, err := intParam(r, "chatID")
	if err != nil {
		that.writeError(w, err)
		return
	}

	var req bindRequest
	if err = decode(r, &req); err != nil {
		that.writeError(w, err)
		return
	}

	if err = that.games.BindMessage(chatID, req.SessionID, req.MessageID); err != nil {
		that.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *handlers) move(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	chatID, err := intParam(r, "chatID")
	if err != nil {
		that.writeError(w, err)
		return
	}

	var req moveRequest
	if err = decode(r, &req); err != nil {
		that.writeError(w, err)
		return
	}

	user, err := that.participant(ctx, req.User)
	if err != nil {
		that.writeError(w, err)
		return
	}

	result, err := that.games.JoinOrMove(ctx, usecase.MoveRequest{
		ChatID:    chatID,
		Actor:     user,
		Cell:      req.Cell,
		SessionID: req.SessionID,
		MessageID: req.MessageID,
	})
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, moveResponse{
		gameResponse: that.gameView(result.Session),
		Joined:       result.Joined,
		Moves:        result.Moves,
	})
}

func (that *handlers) getStats(w http.ResponseWriter, r *http.Request) {
	chatID, err := intParam(r, "chatID")
	if err != nil {
		that.writeError(w, err)
		return
	}

	stats, err := that.stats.GetStats(r.Context(), chatID, that.topPlayers)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, stats)
}

func (that *handlers) ban(w http.ResponseWriter, r *http.Request) {
	that.updateBan(w, r, that.bans.Ban)
}

func (that *handlers) unban(w http.ResponseWriter, r *http.Request) {
	that.updateBan(w, r, that.bans.Unban)
}

func (that *handlers) updateBan(w http.ResponseWriter, r *http.Request, update func(ctx context.Context, userID int64) error) {
	userID, err := intParam(r, "userID")
	if err != nil {
		that.writeError(w, err)
		return
	}

	if err = update(r.Context(), userID); err != nil {
		that.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// participant - resolves the acting user and rejects banned ones.
func (that *handlers) participant(ctx context.Context, req userRequest) (*entity.Participant, error) {
	if req.ID == 0 {
		return nil, apperror.ErrUnknownUser
	}

	banned, err := that.bans.IsBanned(ctx, req.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check ban: %w", err)
	}

	if banned {
		return nil, apperror.ErrBanned
	}

	return entity.NewHuman(req.ID, req.Name), nil
}

func (that *handlers) gameView(session *entity.Session) gameResponse {
	return gameResponse{
		Session: session,
		View:    that.renderer.Render(session),
	}
}

func intParam(r *http.Request, name string) (int64, error) {
	value, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", errBadParam, name)
	}

	return value, nil
}

func decode(r *http.Request, target any) error {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		return fmt.Errorf("%w: %w", errBadParam, err)
	}

	return nil
}

func (that *handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}

// writeError - maps domain errors to HTTP statuses.
func (that *handlers) writeError(w http.ResponseWriter, err error) {
	resp := errorResponse{Error: err.Error()}
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, errBadParam), errors.Is(err, apperror.ErrUnknownUser):
		status = http.StatusBadRequest
	case errors.Is(err, apperror.ErrBanned):
		status = http.StatusForbidden
		resp.Notice = "You are banned and cannot play."
	case errors.Is(err, apperror.ErrNoSession):
		status = http.StatusNotFound
		resp.Notice = "Game not found."
	case errors.Is(err, apperror.ErrSessionConflict):
		status = http.StatusConflict
		resp.Notice = "A game is already running in this chat."
	case errors.Is(err, apperror.ErrStaleReference):
		status = http.StatusGone
		resp.Notice = "This is an old game. Start a new one."
		resp.Detach = true
	case errors.Is(err, apperror.ErrInvalidMove):
		status = http.StatusUnprocessableEntity
		resp.Notice = moveNotice(err)
	}

	if status == http.StatusInternalServerError {
		that.logger.Error("request failed", "error", err)
	}

	that.writeJSON(w, status, resp)
}

func moveNotice(err error) string {
	switch {
	case errors.Is(err, apperror.ErrGameFinished):
		return "The game is over."
	case errors.Is(err, apperror.ErrCellOccupied):
		return "This cell is already taken."
	case errors.Is(err, apperror.ErrSeatTaken):
		return "You already play the other side."
	case errors.Is(err, apperror.ErrNotYourTurn):
		return "It is not your turn."
	default:
		return "Invalid move."
	}
}
