package tictactoe

import "github.com/rocketscienceinc/tictactoe-bot/internal/entity"

// WinCombos lists the winning triples in priority order: rows, columns, diagonals.
var WinCombos = [][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Detect evaluates the board. It returns the winner and the winning line, a draw
// with no line when the board is full, or OutcomeNone while the game goes on.
func Detect(board entity.Board) (entity.Outcome, []int) {
	for _, combo := range WinCombos {
		a, b, c := board[combo[0]], board[combo[1]], board[combo[2]]
		if !a.IsEmpty() && a.Mark == b.Mark && b.Mark == c.Mark {
			return entity.OutcomeOf(a.Mark), []int{combo[0], combo[1], combo[2]}
		}
	}

	// the game will continue until all the squares are full
	if !board.IsFull() {
		return entity.OutcomeNone, nil
	}

	return entity.OutcomeDraw, nil
}
