package tictactoe

import "github.com/rocketscienceinc/tictactoe-bot/internal/entity"

const (
	scoreWin  = 1
	scoreLoss = -1
	scoreDraw = 0
)

// BestMove picks the agent's move with a full minimax search. It returns false
// when the board has no empty cell. Equal scores go to the lowest index, except
// that a move winning on the spot is always preferred.
func BestMove(board entity.Board, agent, opponent entity.Symbol) (int, bool) {
	cells := board.EmptyCells()
	if len(cells) == 0 {
		return -1, false
	}

	for _, cell := range cells {
		next := board
		next[cell].Mark = agent
		if outcome, _ := Detect(next); outcome == entity.OutcomeOf(agent) {
			return cell, true
		}
	}

	_, cell := minimax(board, true, agent, opponent)

	return cell, cell >= 0
}

func minimax(board entity.Board, maximizing bool, agent, opponent entity.Symbol) (int, int) {
	switch outcome, _ := Detect(board); outcome {
	case entity.OutcomeNone:
	case entity.OutcomeDraw:
		return scoreDraw, -1
	case entity.OutcomeOf(agent):
		return scoreWin, -1
	default:
		return scoreLoss, -1
	}

	mover, best := opponent, scoreWin+1
	if maximizing {
		mover, best = agent, scoreLoss-1
	}

	bestCell := -1
	for _, cell := range board.EmptyCells() {
		next := board
		next[cell].Mark = mover

		score, _ := minimax(next, !maximizing, agent, opponent)
		if (maximizing && score > best) || (!maximizing && score < best) {
			best, bestCell = score, cell
		}
	}

	return best, bestCell
}
