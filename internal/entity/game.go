package entity

import (
	"errors"
	"fmt"
	"math/rand"
	"time"
)

const (
	StatusFinished = "finished"
	StatusOngoing  = "ongoing"
	StatusWaiting  = "waiting"
)

var ErrUnknownGameStatus = errors.New("unknown game status")

// Canceler is a pending one-shot callback that can be revoked.
type Canceler interface {
	Cancel() bool
}

// Session is one chat's game, from creation until it is finished or reset.
type Session struct {
	ID       string                  `json:"id"`
	ChatID   int64                   `json:"chat_id"`
	Board    Board                   `json:"board"`
	Turn     Symbol                  `json:"turn"`
	Status   string                  `json:"status"`
	Players  map[Symbol]*Participant `json:"players"`
	Outcome  Outcome                 `json:"outcome,omitempty"`
	Line     []int                   `json:"line,omitempty"`
	LastMove *int                    `json:"last_move,omitempty"`
	TimedOut bool                    `json:"timed_out,omitempty"`

	MessageID int64     `json:"message_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	PendingTimeout Canceler `json:"-"`
}

func NewSession(id string, chatID int64, now time.Time) *Session {
	return &Session{
		ID:        id,
		ChatID:    chatID,
		Board:     NewBoard(),
		Turn:      SymbolX,
		Status:    StatusWaiting,
		Players:   map[Symbol]*Participant{SymbolX: nil, SymbolO: nil},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (that *Session) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Session) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *Session) IsWaiting() bool {
	return that.Status == StatusWaiting
}

func (that *Session) ConfirmActive() error {
	switch {
	case that.IsWaiting(), that.IsOngoing():
		return nil
	case that.IsFinished():
		return fmt.Errorf("session %s is finished", that.ID)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownGameStatus, that.Status)
	}
}

// TurnOwner is the participant seated on the symbol to move, nil if the seat is free.
func (that *Session) TurnOwner() *Participant {
	return that.Players[that.Turn]
}

func (that *Session) SymbolOf(participant *Participant) (Symbol, bool) {
	for _, symbol := range []Symbol{SymbolX, SymbolO} {
		if that.Players[symbol].Is(participant) {
			return symbol, true
		}
	}

	return NoSymbol, false
}

func (that *Session) Seat(symbol Symbol, participant *Participant) {
	that.Players[symbol] = participant
}

func (that *Session) HasFreeSeat() bool {
	return that.Players[SymbolX] == nil || that.Players[SymbolO] == nil
}

// Finish ends the session with the given outcome. A finished session never changes status again.
func (that *Session) Finish(outcome Outcome, line []int) {
	if that.IsFinished() {
		return
	}

	that.Status = StatusFinished
	that.Outcome = outcome
	that.Line = line
}

// Expire finishes a session nobody joined.
func (that *Session) Expire() {
	if that.IsFinished() {
		return
	}

	that.Status = StatusFinished
	that.TimedOut = true
}

// CancelTimeout revokes the pending join timeout. Safe to call any number of times.
func (that *Session) CancelTimeout() {
	if that.PendingTimeout == nil {
		return
	}

	that.PendingTimeout.Cancel()
	that.PendingTimeout = nil
}

func (that *Session) Winner() *Participant {
	symbol, ok := that.Outcome.Winner()
	if !ok {
		return nil
	}

	return that.Players[symbol]
}

// Clone returns a snapshot that shares no mutable state with the session.
func (that *Session) Clone() *Session {
	clone := *that
	clone.PendingTimeout = nil

	clone.Players = make(map[Symbol]*Participant, len(that.Players))
	for symbol, participant := range that.Players {
		if participant != nil {
			p := *participant
			clone.Players[symbol] = &p
		} else {
			clone.Players[symbol] = nil
		}
	}

	if that.Line != nil {
		clone.Line = append([]int(nil), that.Line...)
	}

	if that.LastMove != nil {
		lastMove := *that.LastMove
		clone.LastMove = &lastMove
	}

	return &clone
}

// RandomMarks picks the initiator's symbol uniformly and returns it with the opponent's.
func RandomMarks() (Symbol, Symbol) {
	if rand.Intn(2) == 0 { //nolint: gosec // it's ok
		return SymbolX, SymbolO
	}
	return SymbolO, SymbolX
}

// Move is one mark applied to a session's board.
type Move struct {
	Cell   int    `json:"cell"`
	Symbol Symbol `json:"symbol"`
	Agent  bool   `json:"agent,omitempty"`
}
