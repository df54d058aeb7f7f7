package entity

import "time"

// ScoreHistory is the append-only list of finished round outcomes of one session.
type ScoreHistory []Outcome

type Tally struct {
	HumanWins    int `json:"human_wins"`
	ComputerWins int `json:"computer_wins"`
	Ties         int `json:"ties"`
}

// Session is what the shell keeps for one browser page load.
type Session struct {
	ID        string       `json:"id"`
	HumanMark Mark         `json:"human_mark"`
	Round     Round        `json:"round"`
	History   ScoreHistory `json:"history"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

func NewSession(id string, humanMark Mark, now time.Time) *Session {
	round := NewRound(humanMark)

	return &Session{
		ID:        id,
		HumanMark: round.HumanMark,
		Round:     round,
		History:   ScoreHistory{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}
