package websocket

import (
	"context"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
	"github.com/rocketscienceinc/tictactoe-solo/internal/score"
)

func (that *Server) handleSessionNew(ctx context.Context, payload RequestPayload) (ResponsePayload, error) {
	mark := payload.Mark
	if mark == entity.EmptyCell {
		mark = entity.PlayerX
	}

	session, err := that.gameUseCase.StartSession(ctx, mark)
	if err != nil {
		return ResponsePayload{}, fmt.Errorf("failed to start session: %w", err)
	}

	that.logger.Info("session started", "sessionID", session.ID, "humanMark", session.HumanMark)

	return sessionResponse(session), nil
}

func (that *Server) handleSessionGet(ctx context.Context, payload RequestPayload) (ResponsePayload, error) {
	if payload.SessionID == "" {
		return ResponsePayload{}, ErrMissingSessionID
	}

	session, err := that.gameUseCase.GetSession(ctx, payload.SessionID)
	if err != nil {
		return ResponsePayload{}, err
	}

	return sessionResponse(session), nil
}

func (that *Server) handleSessionEnd(ctx context.Context, payload RequestPayload) (ResponsePayload, error) {
	if payload.SessionID == "" {
		return ResponsePayload{}, ErrMissingSessionID
	}

	if err := that.gameUseCase.EndSession(ctx, payload.SessionID); err != nil {
		return ResponsePayload{}, err
	}

	that.logger.Info("session ended", "sessionID", payload.SessionID)

	return ResponsePayload{}, nil
}

func (that *Server) handleGameTurn(ctx context.Context, payload RequestPayload) (ResponsePayload, error) {
	if payload.SessionID == "" {
		return ResponsePayload{}, ErrMissingSessionID
	}

	if payload.Cell == nil {
		return ResponsePayload{}, ErrMissingCell
	}

	session, err := that.gameUseCase.MakeTurn(ctx, payload.SessionID, *payload.Cell)

	return sessionResponse(session), err
}

func (that *Server) handleGameComputer(ctx context.Context, payload RequestPayload) (ResponsePayload, error) {
	if payload.SessionID == "" {
		return ResponsePayload{}, ErrMissingSessionID
	}

	session, err := that.gameUseCase.BotTurn(ctx, payload.SessionID)

	return sessionResponse(session), err
}

func (that *Server) handleGameNext(ctx context.Context, payload RequestPayload) (ResponsePayload, error) {
	if payload.SessionID == "" {
		return ResponsePayload{}, ErrMissingSessionID
	}

	session, err := that.gameUseCase.NextRound(ctx, payload.SessionID)

	return sessionResponse(session), err
}

func (that *Server) handleScoreTally(ctx context.Context, payload RequestPayload) (ResponsePayload, error) {
	if payload.SessionID == "" {
		return ResponsePayload{}, ErrMissingSessionID
	}

	tally, err := that.gameUseCase.Tally(ctx, payload.SessionID)
	if err != nil {
		return ResponsePayload{}, err
	}

	return ResponsePayload{Tally: &tally}, nil
}

// sessionResponse carries the session with its tally. A nil session gives an
// empty payload.
func sessionResponse(session *entity.Session) ResponsePayload {
	if session == nil {
		return ResponsePayload{}
	}

	tally := score.NewTracker(session.History).Tally(session.Round.HumanMark)

	return ResponsePayload{
		Session: session,
		Tally:   &tally,
	}
}
