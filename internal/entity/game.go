package entity

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Mark is the symbol a player puts on the board. PlayerX always moves first.
type Mark string

const (
	PlayerX   Mark = "X"
	PlayerO   Mark = "O"
	EmptyCell Mark = ""
)

const (
	StatusInProgress Status = "in_progress"
	StatusWon        Status = "won"
	StatusTied       Status = "tied"
)

var (
	ErrInvalidMark = errors.New("invalid mark")

	WinCombos = [8][3]int{
		{0, 1, 2},
		{3, 4, 5},
		{6, 7, 8},
		{0, 3, 6},
		{1, 4, 7},
		{2, 5, 8},
		{0, 4, 8},
		{2, 4, 6},
	}
)

// ParseMark accepts "x"/"X"/"o"/"O".
func ParseMark(value string) (Mark, error) {
	switch Mark(strings.ToUpper(strings.TrimSpace(value))) {
	case PlayerX:
		return PlayerX, nil
	case PlayerO:
		return PlayerO, nil
	default:
		return EmptyCell, fmt.Errorf("%w: %q", ErrInvalidMark, value)
	}
}

func (that Mark) IsValid() bool {
	return that == PlayerX || that == PlayerO
}

func (that Mark) Opponent() Mark {
	if that == PlayerX {
		return PlayerO
	}
	return PlayerX
}

// Board is the 3x3 grid stored row-major.
type Board [9]Mark

func (that Board) EmptyCells() []int {
	cells := make([]int, 0, len(that))
	for i, cell := range that {
		if cell == EmptyCell {
			cells = append(cells, i)
		}
	}
	return cells
}

func (that Board) IsFull() bool {
	for _, cell := range that {
		if cell == EmptyCell {
			return false
		}
	}
	return true
}

// WinningLine returns the first uniformly marked combo in WinCombos order.
func (that Board) WinningLine() ([3]int, Mark, bool) {
	for _, combo := range WinCombos {
		a, b, c := that[combo[0]], that[combo[1]], that[combo[2]]
		if a != EmptyCell && a == b && b == c {
			return combo, a, true
		}
	}
	return [3]int{}, EmptyCell, false
}

type Status string

func (that Status) IsTerminal() bool {
	return that == StatusWon || that == StatusTied
}

// Outcome of a round. Line holds the winning cells when Status is StatusWon.
type Outcome struct {
	Status Status `json:"status"`
	Winner Mark   `json:"winner,omitempty"`
	Line   []int  `json:"line,omitempty"`
}

func InProgress() Outcome {
	return Outcome{Status: StatusInProgress}
}

func WonBy(mark Mark, line [3]int) Outcome {
	return Outcome{Status: StatusWon, Winner: mark, Line: line[:]}
}

func Tied() Outcome {
	return Outcome{Status: StatusTied}
}

func (that Outcome) IsTerminal() bool {
	return that.Status.IsTerminal()
}

func (that Outcome) IsWonBy(mark Mark) bool {
	return that.Status == StatusWon && that.Winner == mark
}

func (that Outcome) Clone() Outcome {
	that.Line = slices.Clone(that.Line)
	return that
}

// Round is one game from an empty board to a terminal outcome.
type Round struct {
	Board        Board   `json:"board"`
	HumanMark    Mark    `json:"human_mark"`
	ComputerMark Mark    `json:"computer_mark"`
	Turn         Mark    `json:"turn"`
	Outcome      Outcome `json:"outcome"`
}

func NewRound(humanMark Mark) Round {
	if !humanMark.IsValid() {
		humanMark = PlayerX
	}

	return Round{
		HumanMark:    humanMark,
		ComputerMark: humanMark.Opponent(),
		Turn:         PlayerX,
		Outcome:      InProgress(),
	}
}

func (that Round) Clone() Round {
	that.Outcome = that.Outcome.Clone()
	return that
}

func (that Round) IsFinished() bool {
	return that.Outcome.IsTerminal()
}

func (that Round) IsHumanTurn() bool {
	return !that.IsFinished() && that.Turn == that.HumanMark
}

func (that Round) IsComputerTurn() bool {
	return !that.IsFinished() && that.Turn == that.ComputerMark
}
