package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrSessionConflict = errors.New("game is already running in this chat")
	ErrStaleReference  = errors.New("action targets a superseded game")
	ErrNoSession       = errors.New("no game in this chat")
	ErrInvalidMove     = errors.New("invalid move")
	ErrBanned          = errors.New("user is banned")
	ErrUnknownUser     = errors.New("unknown user")
)

// Reasons a move is rejected. Each is reported wrapped in ErrInvalidMove.
var (
	ErrGameFinished = errors.New("game is already finished")
	ErrNotYourTurn  = errors.New("it's not your turn")
	ErrCellOccupied = errors.New("cell is already occupied")
	ErrInvalidCell  = errors.New("invalid cell index")
	ErrSeatTaken    = errors.New("you already play the other side")
)

// InvalidMove wraps a rejection reason so callers can match both the class and the reason.
func InvalidMove(reason error) error {
	return fmt.Errorf("%w: %w", ErrInvalidMove, reason)
}
