package tictactoe

import (
	"math/rand/v2"

	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
)

// NoMove is returned by ComputeComputerMove when there is nothing to play.
const NoMove = -1

// Chooser picks an index in [0, n). It is only called with n > 0. Results
// outside the range are wrapped back into it.
type Chooser func(n int) int

// RandomChooser picks uniformly.
func RandomChooser(n int) int {
	return rand.IntN(n) //nolint: gosec // game randomness
}

// Engine owns a single round. Callers only ever see copies of its state.
type Engine struct {
	round  entity.Round
	choose Chooser
}

func NewEngine(humanMark entity.Mark, choose Chooser) *Engine {
	return Restore(entity.NewRound(humanMark), choose)
}

// Restore rebuilds an engine around a previously snapshotted round.
func Restore(round entity.Round, choose Chooser) *Engine {
	if choose == nil {
		choose = RandomChooser
	}

	return &Engine{
		round:  round.Clone(),
		choose: choose,
	}
}

// AttemptMove places the mark of the side to move on cell. It returns false and
// leaves the round untouched for an out-of-range or occupied cell, or once the
// round is over.
func (that *Engine) AttemptMove(cell int) bool {
	if that.round.IsFinished() {
		return false
	}

	if cell < 0 || cell >= len(that.round.Board) {
		return false
	}

	if that.round.Board[cell] != entity.EmptyCell {
		return false
	}

	that.round.Board[cell] = that.round.Turn
	that.evaluateOutcome()

	if !that.round.IsFinished() {
		that.round.Turn = that.round.Turn.Opponent()
	}

	return true
}

func (that *Engine) evaluateOutcome() {
	that.round.Outcome = outcomeOf(that.round.Board)
}

func outcomeOf(board entity.Board) entity.Outcome {
	if line, mark, ok := board.WinningLine(); ok {
		return entity.WonBy(mark, line)
	}

	if board.IsFull() {
		return entity.Tied()
	}

	return entity.InProgress()
}

// ComputeComputerMove picks the computer's reply: an immediate win, otherwise a
// block of the human's immediate win, otherwise a random empty cell.
func (that *Engine) ComputeComputerMove() int {
	if that.round.IsFinished() {
		return NoMove
	}

	empty := that.round.Board.EmptyCells()
	if len(empty) == 0 {
		return NoMove
	}

	if cell, ok := findWinningCell(that.round.Board, empty, that.round.ComputerMark); ok {
		return cell
	}

	if cell, ok := findWinningCell(that.round.Board, empty, that.round.HumanMark); ok {
		return cell
	}

	return empty[pick(that.choose, len(empty))]
}

// pick folds whatever the chooser returns into [0, n).
func pick(choose Chooser, n int) int {
	i := choose(n) % n
	if i < 0 {
		i += n
	}

	return i
}

// findWinningCell scans empty cells in ascending order and plays each one on a
// copy of the board.
func findWinningCell(board entity.Board, empty []int, mark entity.Mark) (int, bool) {
	for _, cell := range empty {
		hypothetical := board
		hypothetical[cell] = mark

		if _, winner, ok := hypothetical.WinningLine(); ok && winner == mark {
			return cell, true
		}
	}

	return NoMove, false
}

// ApplyComputerMove is a no-op when there is no move to make.
func (that *Engine) ApplyComputerMove() {
	cell := that.ComputeComputerMove()
	if cell == NoMove {
		return
	}

	that.AttemptMove(cell)
}

func (that *Engine) Round() entity.Round {
	return that.round.Clone()
}

func (that *Engine) Board() entity.Board {
	return that.round.Board
}

func (that *Engine) Turn() entity.Mark {
	return that.round.Turn
}

func (that *Engine) Outcome() entity.Outcome {
	return that.round.Outcome.Clone()
}

func (that *Engine) HumanMark() entity.Mark {
	return that.round.HumanMark
}

func (that *Engine) ComputerMark() entity.Mark {
	return that.round.ComputerMark
}
