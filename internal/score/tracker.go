package score

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
)

var ErrOutcomeNotTerminal = errors.New("outcome is not terminal")

// Tracker accumulates finished rounds of one session. History only grows.
type Tracker struct {
	history entity.ScoreHistory
}

func NewTracker(history entity.ScoreHistory) *Tracker {
	tracker := &Tracker{history: make(entity.ScoreHistory, 0, len(history))}
	for _, outcome := range history {
		tracker.history = append(tracker.history, outcome.Clone())
	}

	return tracker
}

func (that *Tracker) RecordOutcome(outcome entity.Outcome) error {
	if !outcome.IsTerminal() {
		return fmt.Errorf("%w: %s", ErrOutcomeNotTerminal, outcome.Status)
	}

	that.history = append(that.history, outcome.Clone())

	return nil
}

// Tally maps marks to "you" and "cpu" using humanMark, the current round's
// human mark.
func (that *Tracker) Tally(humanMark entity.Mark) entity.Tally {
	var tally entity.Tally

	for _, outcome := range that.history {
		switch {
		case outcome.Status == entity.StatusTied:
			tally.Ties++
		case outcome.IsWonBy(humanMark):
			tally.HumanWins++
		case outcome.IsWonBy(humanMark.Opponent()):
			tally.ComputerWins++
		}
	}

	return tally
}

func (that *Tracker) History() entity.ScoreHistory {
	return NewTracker(that.history).history
}

func (that *Tracker) Len() int {
	return len(that.history)
}
