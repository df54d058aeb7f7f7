package usecase

import (
	"context"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
)

// GameUseCase is what both transports talk to.
type GameUseCase interface {
	StartSession(ctx context.Context, humanMark entity.Mark) (*entity.Session, error)
	GetSession(ctx context.Context, sessionID string) (*entity.Session, error)
	EndSession(ctx context.Context, sessionID string) error

	MakeTurn(ctx context.Context, sessionID string, cell int) (*entity.Session, error)
	BotTurn(ctx context.Context, sessionID string) (*entity.Session, error)
	NextRound(ctx context.Context, sessionID string) (*entity.Session, error)

	Tally(ctx context.Context, sessionID string) (entity.Tally, error)
}

type sessionService interface {
	CreateSession(ctx context.Context, humanMark entity.Mark) (*entity.Session, error)
	GetSessionByID(ctx context.Context, id string) (*entity.Session, error)
	DeleteSession(ctx context.Context, id string) error
}

type gamePlayService interface {
	MakeTurn(ctx context.Context, sessionID string, cell int) (*entity.Session, error)
	BotTurn(ctx context.Context, sessionID string) (*entity.Session, error)
	NextRound(ctx context.Context, sessionID string) (*entity.Session, error)
	Tally(ctx context.Context, sessionID string) (entity.Tally, error)
}

type gameUseCase struct {
	sessionService  sessionService
	gamePlayService gamePlayService
}

func NewGameUseCase(sessionService sessionService, gamePlayService gamePlayService) GameUseCase {
	return &gameUseCase{
		sessionService:  sessionService,
		gamePlayService: gamePlayService,
	}
}

func (that *gameUseCase) StartSession(ctx context.Context, humanMark entity.Mark) (*entity.Session, error) {
	if !humanMark.IsValid() {
		return nil, fmt.Errorf("%w: %q", entity.ErrInvalidMark, humanMark)
	}

	session, err := that.sessionService.CreateSession(ctx, humanMark)
	if err != nil {
		return nil, fmt.Errorf("could not create session: %w", err)
	}

	return session, nil
}

func (that *gameUseCase) GetSession(ctx context.Context, sessionID string) (*entity.Session, error) {
	session, err := that.sessionService.GetSessionByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return session, nil
}

func (that *gameUseCase) EndSession(ctx context.Context, sessionID string) error {
	if err := that.sessionService.DeleteSession(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}

	return nil
}

func (that *gameUseCase) MakeTurn(ctx context.Context, sessionID string, cell int) (*entity.Session, error) {
	session, err := that.gamePlayService.MakeTurn(ctx, sessionID, cell)
	if err != nil {
		return session, fmt.Errorf("failed to make turn: %w", err)
	}

	return session, nil
}

func (that *gameUseCase) BotTurn(ctx context.Context, sessionID string) (*entity.Session, error) {
	session, err := that.gamePlayService.BotTurn(ctx, sessionID)
	if err != nil {
		return session, fmt.Errorf("failed to make bot turn: %w", err)
	}

	return session, nil
}

func (that *gameUseCase) NextRound(ctx context.Context, sessionID string) (*entity.Session, error) {
	session, err := that.gamePlayService.NextRound(ctx, sessionID)
	if err != nil {
		return session, fmt.Errorf("failed to start next round: %w", err)
	}

	return session, nil
}

func (that *gameUseCase) Tally(ctx context.Context, sessionID string) (entity.Tally, error) {
	tally, err := that.gamePlayService.Tally(ctx, sessionID)
	if err != nil {
		return entity.Tally{}, fmt.Errorf("failed to get tally: %w", err)
	}

	return tally, nil
}
