package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/tictactoe-solo/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
	"github.com/rocketscienceinc/tictactoe-solo/internal/score"
	"github.com/rocketscienceinc/tictactoe-solo/internal/tictactoe"
)

type GamePlayService interface {
	MakeTurn(ctx context.Context, sessionID string, cell int) (*entity.Session, error)
	BotTurn(ctx context.Context, sessionID string) (*entity.Session, error)
	NextRound(ctx context.Context, sessionID string) (*entity.Session, error)

	Tally(ctx context.Context, sessionID string) (entity.Tally, error)
}

type gamePlayService struct {
	logger *slog.Logger

	sessionService SessionService
	botService     BotService

	// serializes load-modify-store so one move per session is in flight
	mu sync.Mutex
}

func NewGamePlayService(logger *slog.Logger, sessionService SessionService, botService BotService) GamePlayService {
	return &gamePlayService{
		logger:         logger.With("component", "gameplay"),
		sessionService: sessionService,
		botService:     botService,
	}
}

func (that *gamePlayService) MakeTurn(ctx context.Context, sessionID string, cell int) (*entity.Session, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	session, err := that.sessionService.GetSessionByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session by id: %w", err)
	}

	if session.Round.IsFinished() {
		return session, apperror.ErrGameFinished
	}

	if !session.Round.IsHumanTurn() {
		return session, apperror.ErrNotYourTurn
	}

	engine := tictactoe.Restore(session.Round, nil)
	if !engine.AttemptMove(cell) {
		return session, fmt.Errorf("%w: cell %d", apperror.ErrIllegalMove, cell)
	}

	session.Round = engine.Round()

	if err = that.finishTurn(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

func (that *gamePlayService) BotTurn(ctx context.Context, sessionID string) (*entity.Session, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	session, err := that.sessionService.GetSessionByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session by id: %w", err)
	}

	if session.Round.IsFinished() {
		return session, apperror.ErrGameFinished
	}

	if !session.Round.IsComputerTurn() {
		return session, apperror.ErrNotYourTurn
	}

	if err = that.botService.MakeTurn(&session.Round); err != nil {
		return session, fmt.Errorf("bot failed to make turn: %w", err)
	}

	if err = that.finishTurn(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

// finishTurn records a round that just ended and stores the session.
func (that *gamePlayService) finishTurn(ctx context.Context, session *entity.Session) error {
	log := that.logger.With("method", "finishTurn", "sessionID", session.ID)

	if session.Round.IsFinished() {
		tracker := score.NewTracker(session.History)
		if err := tracker.RecordOutcome(session.Round.Outcome); err != nil {
			return fmt.Errorf("failed to record outcome: %w", err)
		}
		session.History = tracker.History()

		log.Info("round finished",
			"status", session.Round.Outcome.Status,
			"winner", session.Round.Outcome.Winner,
			"rounds", tracker.Len(),
		)
	}

	if err := that.sessionService.UpdateSession(ctx, session); err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}

	return nil
}

func (that *gamePlayService) NextRound(ctx context.Context, sessionID string) (*entity.Session, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	session, err := that.sessionService.GetSessionByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session by id: %w", err)
	}

	if !session.Round.IsFinished() {
		return session, apperror.ErrRoundInProgress
	}

	session.Round = tictactoe.NewEngine(session.HumanMark, nil).Round()

	if err = that.sessionService.UpdateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	return session, nil
}

func (that *gamePlayService) Tally(ctx context.Context, sessionID string) (entity.Tally, error) {
	session, err := that.sessionService.GetSessionByID(ctx, sessionID)
	if err != nil {
		return entity.Tally{}, fmt.Errorf("failed to get session by id: %w", err)
	}

	return score.NewTracker(session.History).Tally(session.Round.HumanMark), nil
}
