package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingCanceler struct {
	calls int
}

func (that *countingCanceler) Cancel() bool {
	that.calls++
	return that.calls == 1
}

func TestSessionStatusMethods(t *testing.T) {
	t.Run("IsFinished returns true when session status is finished", func(t *testing.T) {
		// Given: a session with StatusFinished
		session := &Session{Status: StatusFinished}

		// Then: it should report finished only
		assert.True(t, session.IsFinished())
		assert.False(t, session.IsOngoing())
		assert.False(t, session.IsWaiting())
	})

	t.Run("IsWaiting returns true for a new session", func(t *testing.T) {
		// Given: a freshly created session
		session := NewSession("s1", 1, time.Now())

		// Then: it waits for the second player
		assert.True(t, session.IsWaiting())
		assert.True(t, session.HasFreeSeat())
		assert.Equal(t, BoardSize, len(session.Board.EmptyCells()))
	})
}

func TestSession_ConfirmActive(t *testing.T) {
	t.Run("Returns nil when session is waiting or ongoing", func(t *testing.T) {
		require.NoError(t, (&Session{Status: StatusWaiting}).ConfirmActive())
		require.NoError(t, (&Session{Status: StatusOngoing}).ConfirmActive())
	})

	t.Run("Returns error for unknown session status", func(t *testing.T) {
		// Given: a session with unknown status
		session := &Session{Status: "unknown"}

		// When: checking if the session is active
		err := session.ConfirmActive()

		// Then: it should return ErrUnknownGameStatus
		require.ErrorIs(t, err, ErrUnknownGameStatus)
	})

	t.Run("Returns error when session is finished", func(t *testing.T) {
		require.Error(t, (&Session{Status: StatusFinished}).ConfirmActive())
	})
}

func TestSession_Finish(t *testing.T) {
	t.Run("Finish records outcome and line", func(t *testing.T) {
		// Given: an ongoing session
		session := NewSession("s1", 1, time.Now())
		session.Status = StatusOngoing

		// When: the session is finished with a win for X
		session.Finish(OutcomeX, []int{0, 1, 2})

		// Then: the outcome is stored
		assert.True(t, session.IsFinished())
		assert.Equal(t, OutcomeX, session.Outcome)
		assert.Equal(t, []int{0, 1, 2}, session.Line)
	})

	t.Run("Expire does not override a finished session", func(t *testing.T) {
		// Given: a session that already ended in a draw
		session := NewSession("s1", 1, time.Now())
		session.Finish(OutcomeDraw, nil)

		// When: the join timeout expires it
		session.Expire()

		// Then: the draw stays and the session is not marked timed out
		assert.Equal(t, OutcomeDraw, session.Outcome)
		assert.False(t, session.TimedOut)
	})
}

func TestSession_CancelTimeout(t *testing.T) {
	// Given: a session with a pending timeout
	canceler := &countingCanceler{}
	session := NewSession("s1", 1, time.Now())
	session.PendingTimeout = canceler

	// When: cancelling twice
	session.CancelTimeout()
	session.CancelTimeout()

	// Then: the handle is cancelled once and cleared
	assert.Equal(t, 1, canceler.calls)
	assert.Nil(t, session.PendingTimeout)
}

func TestSession_Clone(t *testing.T) {
	// Given: a session with a seated player and a move
	session := NewSession("s1", 1, time.Now())
	session.Seat(SymbolX, NewHuman(10, "alice"))
	require.NoError(t, session.Board.Mark(4, SymbolX))
	lastMove := 4
	session.LastMove = &lastMove
	session.PendingTimeout = &countingCanceler{}

	// When: the session is cloned and the clone is mutated
	clone := session.Clone()
	clone.Players[SymbolX].Name = "mallory"
	clone.Seat(SymbolO, NewHuman(11, "bob"))
	require.NoError(t, clone.Board.Mark(0, SymbolO))
	*clone.LastMove = 0

	// Then: the original is untouched
	assert.Equal(t, "alice", session.Players[SymbolX].Name)
	assert.Nil(t, session.Players[SymbolO])
	assert.True(t, session.Board.IsEmpty(0))
	assert.Equal(t, 4, *session.LastMove)
	assert.Nil(t, clone.PendingTimeout)
}

func TestSession_SymbolOf(t *testing.T) {
	// Given: a session with a human and the agent seated
	session := NewSession("s1", 1, time.Now())
	session.Seat(SymbolX, NewHuman(10, "alice"))
	session.Seat(SymbolO, NewAgent("AI"))

	// Then: both identities resolve to their symbols
	symbol, ok := session.SymbolOf(NewHuman(10, ""))
	require.True(t, ok)
	assert.Equal(t, SymbolX, symbol)

	symbol, ok = session.SymbolOf(NewAgent(""))
	require.True(t, ok)
	assert.Equal(t, SymbolO, symbol)

	_, ok = session.SymbolOf(NewHuman(99, "eve"))
	assert.False(t, ok)
}

func TestBoard(t *testing.T) {
	t.Run("New board keeps 1-9 placeholders", func(t *testing.T) {
		board := NewBoard()
		for i, cell := range board {
			assert.Equal(t, i+1, cell.Index)
			assert.True(t, cell.IsEmpty())
		}
	})

	t.Run("Mark rejects invalid cells", func(t *testing.T) {
		board := NewBoard()

		assert.ErrorIs(t, board.Mark(9, SymbolX), ErrInvalidCell)
		assert.ErrorIs(t, board.Mark(-1, SymbolX), ErrInvalidCell)
	})

	t.Run("Mark keeps cell identity", func(t *testing.T) {
		board := NewBoard()

		require.NoError(t, board.Mark(3, SymbolO))

		assert.Equal(t, Cell{Index: 4, Mark: SymbolO}, board[3])
		assert.Equal(t, []int{0, 1, 2, 4, 5, 6, 7, 8}, board.EmptyCells())
		assert.False(t, board.IsFull())
	})
}

func TestParticipant_Is(t *testing.T) {
	assert.True(t, NewHuman(1, "a").Is(NewHuman(1, "b")))
	assert.False(t, NewHuman(1, "a").Is(NewHuman(2, "a")))
	assert.True(t, NewAgent("AI").Is(NewAgent("bot")))
	assert.False(t, NewAgent("AI").Is(NewHuman(0, "")))

	var nobody *Participant
	assert.False(t, nobody.Is(NewHuman(1, "a")))
	assert.Equal(t, "player_7", NewHuman(7, "").DisplayName())
}

func TestRandomMarks(t *testing.T) {
	for range 20 {
		first, second := RandomMarks()
		assert.Equal(t, first.Opponent(), second)
	}
}
