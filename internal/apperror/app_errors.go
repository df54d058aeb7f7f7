package apperror

import "errors"

var (
	ErrGameFinished     = errors.New("round is already finished")
	ErrNotYourTurn      = errors.New("it's not your turn")
	ErrIllegalMove      = errors.New("illegal move")
	ErrRoundInProgress  = errors.New("round is still in progress")
	ErrNoAvailableMoves = errors.New("no available moves")
	ErrSessionNotFound  = errors.New("session not found")
)
