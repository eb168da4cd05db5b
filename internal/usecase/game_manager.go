package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-bot/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-bot/internal/entity"
	"github.com/rocketscienceinc/tictactoe-bot/internal/scheduler"
	"github.com/rocketscienceinc/tictactoe-bot/internal/tictactoe"
)

const (
	defaultJoinTimeout = 90 * time.Second
	notifyTimeout      = 10 * time.Second
)

type timerScheduler interface {
	ScheduleOnce(name string, delay time.Duration, fn func()) scheduler.Handle
}

type renderer interface {
	Render(session *entity.Session) entity.View
}

type notifier interface {
	Notify(ctx context.Context, view entity.View) error
}

type statsRecorder interface {
	RecordStats(ctx context.Context, chatID int64, outcome entity.Outcome, winner *entity.Participant) error
	RegisterChat(ctx context.Context, chatID int64) error
}

// MoveRequest is a button press on a chat's board.
// SessionID and MessageID identify what the pressed keyboard belongs to; zero values skip the check.
type MoveRequest struct {
	ChatID    int64
	Actor     *entity.Participant
	Cell      int
	SessionID string
	MessageID int64
}

type MoveResult struct {
	Session *entity.Session
	Outcome entity.Outcome
	Line    []int
	Moves   []entity.Move
	Joined  bool
}

type Config struct {
	JoinTimeout time.Duration
	AgentName   string
}

type Option func(*SessionManager)

// WithMarks replaces the random choice of the initiator's symbol.
func WithMarks(marks func() (entity.Symbol, entity.Symbol)) Option {
	return func(that *SessionManager) {
		that.marks = marks
	}
}

func WithClock(now func() time.Time) Option {
	return func(that *SessionManager) {
		that.now = now
	}
}

// SessionManager owns the game of every chat. Each chat is guarded by its own lock;
// rendering, notifications and stats are sent after the lock is released.
type SessionManager struct {
	logger *slog.Logger

	scheduler timerScheduler
	renderer  renderer
	notifier  notifier
	stats     statsRecorder

	joinTimeout time.Duration
	agent       *entity.Participant
	marks       func() (entity.Symbol, entity.Symbol)
	now         func() time.Time
	newID       func() string

	mu       sync.Mutex
	sessions map[int64]*entity.Session
	locks    map[int64]*sync.Mutex
}

func NewSessionManager(
	logger *slog.Logger,
	conf Config,
	scheduler timerScheduler,
	renderer renderer,
	notifier notifier,
	stats statsRecorder,
	opts ...Option,
) *SessionManager {
	if conf.JoinTimeout <= 0 {
		conf.JoinTimeout = defaultJoinTimeout
	}

	manager := &SessionManager{
		logger: logger.With("component", "session_manager"),

		scheduler: scheduler,
		renderer:  renderer,
		notifier:  notifier,
		stats:     stats,

		joinTimeout: conf.JoinTimeout,
		agent:       entity.NewAgent(conf.AgentName),
		marks:       entity.RandomMarks,
		now:         time.Now,
		newID:       uuid.NewString,

		sessions: make(map[int64]*entity.Session),
		locks:    make(map[int64]*sync.Mutex),
	}

	for _, opt := range opts {
		opt(manager)
	}

	return manager
}

// CreateSession starts a human-vs-human game. The initiator gets a random symbol
// and moves first; the other seat goes to whoever presses a cell next.
func (that *SessionManager) CreateSession(ctx context.Context, chatID int64, initiator *entity.Participant) (*entity.Session, error) {
	log := that.logger.With("method", "CreateSession", "chatID", chatID)

	if initiator == nil || initiator.IsAgent() {
		return nil, apperror.ErrUnknownUser
	}

	snapshot, err := that.create(chatID, func(session *entity.Session) {
		mark, _ := that.marks()
		session.Seat(mark, initiator)
		session.Turn = mark

		sessionID := session.ID
		session.PendingTimeout = that.scheduler.ScheduleOnce("join_timeout", that.joinTimeout, func() {
			that.expire(chatID, sessionID)
		})
	})
	if err != nil {
		log.Warn("failed to create game", "error", err)
		return nil, err
	}

	log.Info("game created", "sessionID", snapshot.ID, "initiator", initiator.ID, "symbol", snapshot.Turn)

	that.registerChat(ctx, chatID)
	that.notify(ctx, snapshot)

	return snapshot, nil
}

// CreateAgentSession starts a game against the agent. The human always plays X.
func (that *SessionManager) CreateAgentSession(ctx context.Context, chatID int64, initiator *entity.Participant) (*entity.Session, error) {
	log := that.logger.With("method", "CreateAgentSession", "chatID", chatID)

	if initiator == nil || initiator.IsAgent() {
		return nil, apperror.ErrUnknownUser
	}

	snapshot, err := that.create(chatID, func(session *entity.Session) {
		session.Seat(entity.SymbolX, initiator)
		session.Seat(entity.SymbolO, that.agent)
		session.Turn = entity.SymbolX
		session.Status = entity.StatusOngoing
	})
	if err != nil {
		log.Warn("failed to create game", "error", err)
		return nil, err
	}

	log.Info("game against agent created", "sessionID", snapshot.ID, "initiator", initiator.ID)

	that.registerChat(ctx, chatID)
	that.notify(ctx, snapshot)

	return snapshot, nil
}

func (that *SessionManager) create(chatID int64, setup func(session *entity.Session)) (*entity.Session, error) {
	unlock := that.lockChat(chatID)
	defer unlock()

	if existing, ok := that.load(chatID); ok {
		if !existing.IsFinished() {
			return nil, apperror.ErrSessionConflict
		}

		existing.CancelTimeout()
	}

	session := entity.NewSession(that.newID(), chatID, that.now())
	setup(session)
	that.store(session)

	return session.Clone(), nil
}

// JoinOrMove applies a button press. Rejected presses leave the session untouched.
func (that *SessionManager) JoinOrMove(ctx context.Context, req MoveRequest) (*MoveResult, error) {
	log := that.logger.With("method", "JoinOrMove", "chatID", req.ChatID)

	result, err := that.applyMove(req)
	if err != nil {
		log.Debug("move rejected", "actor", req.Actor, "cell", req.Cell, "error", err)
		return nil, err
	}

	if result.Joined {
		log.Info("second player joined", "sessionID", result.Session.ID, "actor", req.Actor)
	}

	if result.Outcome.IsTerminal() {
		log.Info("game finished", "sessionID", result.Session.ID, "outcome", result.Outcome)
		that.recordStats(ctx, result.Session)
	}

	that.notify(ctx, result.Session)

	return result, nil
}

func (that *SessionManager) applyMove(req MoveRequest) (*MoveResult, error) {
	unlock := that.lockChat(req.ChatID)
	defer unlock()

	session, ok := that.load(req.ChatID)
	if !ok {
		return nil, apperror.ErrNoSession
	}

	if isStale(session, req) {
		return nil, apperror.ErrStaleReference
	}

	if err := validateMove(session, req.Actor, req.Cell); err != nil {
		return nil, apperror.InvalidMove(err)
	}

	result := &MoveResult{}

	symbol := session.Turn
	if session.TurnOwner() == nil {
		session.Seat(symbol, req.Actor)
		session.CancelTimeout()
		session.Status = entity.StatusOngoing
		result.Joined = true
	}

	that.play(session, symbol, req.Cell, result)

	for !session.IsFinished() && session.TurnOwner().IsAgent() {
		cell, found := tictactoe.BestMove(session.Board, session.Turn, session.Turn.Opponent())
		if !found {
			break
		}

		that.play(session, session.Turn, cell, result)
	}

	session.UpdatedAt = that.now()
	result.Session = session.Clone()

	return result, nil
}

func isStale(session *entity.Session, req MoveRequest) bool {
	if req.SessionID != "" && req.SessionID != session.ID {
		return true
	}

	return req.MessageID != 0 && session.MessageID != 0 && req.MessageID != session.MessageID
}

// validateMove - checks if the actor may mark the cell.
func validateMove(session *entity.Session, actor *entity.Participant, cell int) error {
	if actor == nil || actor.IsAgent() {
		return apperror.ErrNotYourTurn
	}

	if session.IsFinished() {
		return apperror.ErrGameFinished
	}

	if !entity.ValidCell(cell) {
		return apperror.ErrInvalidCell
	}

	if !session.Board.IsEmpty(cell) {
		return apperror.ErrCellOccupied
	}

	owner := session.TurnOwner()
	if owner == nil {
		// one identity may not hold both seats
		if session.Players[session.Turn.Opponent()].Is(actor) {
			return apperror.ErrSeatTaken
		}
		return nil
	}

	if !owner.Is(actor) {
		return apperror.ErrNotYourTurn
	}

	return nil
}

// play marks the cell and either finishes the session or passes the turn.
func (that *SessionManager) play(session *entity.Session, symbol entity.Symbol, cell int, result *MoveResult) {
	session.Board[cell].Mark = symbol
	session.LastMove = &cell
	result.Moves = append(result.Moves, entity.Move{Cell: cell, Symbol: symbol, Agent: session.Players[symbol].IsAgent()})

	outcome, line := tictactoe.Detect(session.Board)
	if outcome.IsTerminal() {
		session.Finish(outcome, line)
		result.Outcome = outcome
		result.Line = line
		return
	}

	session.Turn = symbol.Opponent()
}

// ResetSession drops the chat's game and its pending timeout. It reports whether a game existed.
func (that *SessionManager) ResetSession(_ context.Context, chatID int64) bool {
	unlock := that.lockChat(chatID)
	defer unlock()

	session, ok := that.load(chatID)
	if !ok {
		return false
	}

	session.CancelTimeout()
	that.delete(chatID)

	that.logger.Info("game reset", "chatID", chatID, "sessionID", session.ID)

	return true
}

// Session returns a snapshot of the chat's game.
func (that *SessionManager) Session(chatID int64) (*entity.Session, error) {
	unlock := that.lockChat(chatID)
	defer unlock()

	session, ok := that.load(chatID)
	if !ok {
		return nil, apperror.ErrNoSession
	}

	return session.Clone(), nil
}

// BindMessage remembers which chat message shows the session's board.
func (that *SessionManager) BindMessage(chatID int64, sessionID string, messageID int64) error {
	unlock := that.lockChat(chatID)
	defer unlock()

	session, ok := that.load(chatID)
	if !ok {
		return apperror.ErrNoSession
	}

	if session.ID != sessionID {
		return apperror.ErrStaleReference
	}

	session.MessageID = messageID

	return nil
}

// expire is the join timeout callback. It acts only if the session it was
// scheduled for is still current and still missing its second player.
func (that *SessionManager) expire(chatID int64, sessionID string) {
	log := that.logger.With("method", "expire", "chatID", chatID, "sessionID", sessionID)

	snapshot, expired := that.expireLocked(chatID, sessionID)
	if !expired {
		log.Debug("timeout ignored, game moved on")
		return
	}

	log.Info("nobody joined, game cancelled")

	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	that.notify(ctx, snapshot)
}

func (that *SessionManager) expireLocked(chatID int64, sessionID string) (*entity.Session, bool) {
	unlock := that.lockChat(chatID)
	defer unlock()

	session, ok := that.load(chatID)
	if !ok || session.ID != sessionID || session.IsFinished() || !session.HasFreeSeat() {
		return nil, false
	}

	session.PendingTimeout = nil
	session.Expire()
	session.UpdatedAt = that.now()

	return session.Clone(), true
}

func (that *SessionManager) notify(ctx context.Context, snapshot *entity.Session) {
	if err := that.notifier.Notify(ctx, that.renderer.Render(snapshot)); err != nil {
		that.logger.Error("failed to notify chat", "chatID", snapshot.ChatID, "error", err)
	}
}

func (that *SessionManager) recordStats(ctx context.Context, snapshot *entity.Session) {
	if err := that.stats.RecordStats(ctx, snapshot.ChatID, snapshot.Outcome, snapshot.Winner()); err != nil {
		that.logger.Error("failed to record stats", "chatID", snapshot.ChatID, "error", err)
	}
}

func (that *SessionManager) registerChat(ctx context.Context, chatID int64) {
	if err := that.stats.RegisterChat(ctx, chatID); err != nil {
		that.logger.Error("failed to register chat", "chatID", chatID, "error", err)
	}
}

// lockChat acquires the chat's lock and returns its release function.
func (that *SessionManager) lockChat(chatID int64) func() {
	that.mu.Lock()
	lock, ok := that.locks[chatID]
	if !ok {
		lock = &sync.Mutex{}
		that.locks[chatID] = lock
	}
	that.mu.Unlock()

	lock.Lock()

	return lock.Unlock
}

func (that *SessionManager) load(chatID int64) (*entity.Session, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	session, ok := that.sessions[chatID]

	return session, ok
}

func (that *SessionManager) store(session *entity.Session) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.sessions[session.ChatID] = session
}

func (that *SessionManager) delete(chatID int64) {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.sessions, chatID)
}
