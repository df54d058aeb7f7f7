package websocket

import (
	"encoding/json"
	"errors"

	"github.com/rocketscienceinc/tictactoe-solo/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
)

const (
	actionSessionNew = "session:new"
	actionSessionGet = "session:get"
	actionSessionEnd = "session:end"
	actionGameTurn   = "game:turn"
	actionGameBot    = "game:computer"
	actionGameNext   = "game:next"
	actionScoreTally = "score:tally"
	actionError      = "error"
)

var (
	ErrUnknownAction    = errors.New("unknown action")
	ErrBadPayload       = errors.New("malformed payload")
	ErrMissingSessionID = errors.New("session_id is required")
	ErrMissingCell      = errors.New("cell is required")
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type RequestPayload struct {
	SessionID string      `json:"session_id,omitempty"`
	Mark      entity.Mark `json:"mark,omitempty"`
	Cell      *int        `json:"cell,omitempty"`
}

type ResponsePayload struct {
	Session *entity.Session `json:"session,omitempty"`
	Tally   *entity.Tally   `json:"tally,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// publicErrors are reported to clients as is; anything else is hidden.
var publicErrors = []error{
	apperror.ErrGameFinished,
	apperror.ErrNotYourTurn,
	apperror.ErrIllegalMove,
	apperror.ErrRoundInProgress,
	apperror.ErrNoAvailableMoves,
	apperror.ErrSessionNotFound,
	entity.ErrInvalidMark,
	ErrUnknownAction,
	ErrBadPayload,
	ErrMissingSessionID,
	ErrMissingCell,
}

func publicError(err error) (error, bool) {
	for _, target := range publicErrors {
		if errors.Is(err, target) {
			return target, true
		}
	}

	return nil, false
}

func isPublic(err error) bool {
	_, ok := publicError(err)
	return ok
}

func errorText(err error) string {
	if target, ok := publicError(err); ok {
		return target.Error()
	}

	return "internal error"
}
