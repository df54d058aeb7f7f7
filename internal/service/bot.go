package service

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-solo/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
	"github.com/rocketscienceinc/tictactoe-solo/internal/tictactoe"
)

type BotService interface {
	MakeTurn(round *entity.Round) error
}

type botService struct {
	choose tictactoe.Chooser
}

// NewBotService returns the computer opponent. A nil chooser means uniform random.
func NewBotService(choose tictactoe.Chooser) BotService {
	return &botService{
		choose: choose,
	}
}

func (that *botService) MakeTurn(round *entity.Round) error {
	engine := tictactoe.Restore(*round, that.choose)

	cell := engine.ComputeComputerMove()
	if cell == tictactoe.NoMove {
		return apperror.ErrNoAvailableMoves
	}

	if !engine.AttemptMove(cell) {
		return fmt.Errorf("%w: computer picked cell %d", apperror.ErrIllegalMove, cell)
	}

	*round = engine.Round()

	return nil
}
