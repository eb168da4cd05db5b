package entity

import (
	"errors"
	"fmt"
)

const (
	SymbolX Symbol = "X"
	SymbolO Symbol = "O"

	NoSymbol Symbol = ""
)

const BoardSize = 9

var ErrInvalidCell = errors.New("invalid cell index")

// Symbol is the mark a player puts on the board.
type Symbol string

func (that Symbol) Opponent() Symbol {
	switch that {
	case SymbolX:
		return SymbolO
	case SymbolO:
		return SymbolX
	default:
		return NoSymbol
	}
}

// Cell is either empty, showing its 1-9 placeholder, or marked with a symbol.
type Cell struct {
	Index int    `json:"index"`
	Mark  Symbol `json:"mark,omitempty"`
}

func (that Cell) IsEmpty() bool {
	return that.Mark == NoSymbol
}

type Board [BoardSize]Cell

func NewBoard() Board {
	var board Board
	for i := range board {
		board[i] = Cell{Index: i + 1}
	}

	return board
}

// Mark puts symbol on the cell with the given 0-8 index.
func (that *Board) Mark(cell int, symbol Symbol) error {
	if !ValidCell(cell) {
		return fmt.Errorf("%w: cell %d", ErrInvalidCell, cell)
	}

	that[cell].Mark = symbol

	return nil
}

func (that *Board) IsEmpty(cell int) bool {
	return ValidCell(cell) && that[cell].IsEmpty()
}

// EmptyCells returns the indexes of unplayed cells in ascending order.
func (that *Board) EmptyCells() []int {
	cells := make([]int, 0, BoardSize)
	for i, cell := range that {
		if cell.IsEmpty() {
			cells = append(cells, i)
		}
	}

	return cells
}

func (that *Board) IsFull() bool {
	for _, cell := range that {
		if cell.IsEmpty() {
			return false
		}
	}

	return true
}

func ValidCell(cell int) bool {
	return cell >= 0 && cell < BoardSize
}
