package service

import (
	"errors"
	"fmt"

	"github.com/gridplay/tictactoe-backend/internal/engine"
	"github.com/gridplay/tictactoe-backend/internal/entity"
	"github.com/gridplay/tictactoe-backend/internal/tictactoe"
)

var (
	ErrBotNotFound      = errors.New("bot player not found")
	ErrNoAvailableMoves = errors.New("no available moves")
)

type BotService interface {
	MakeTurn(game *entity.Game) error
}

type botService struct{}

func NewBotService() BotService {
	return &botService{}
}

// MakeTurn plays the bot's move. The cell comes from the exhaustive
// alpha-beta search, so the bot plays game-theoretically optimal moves and
// can at worst be drawn against.
func (that *botService) MakeTurn(game *entity.Game) error {
	botPlayer := game.BotPlayer()
	if botPlayer == nil {
		return ErrBotNotFound
	}

	cell := engine.BestMove(&game.Board, botPlayer.Mark)
	if cell == engine.NoMove {
		return ErrNoAvailableMoves
	}

	if err := tictactoe.MakeTurn(game, botPlayer.Mark, cell); err != nil {
		return fmt.Errorf("bot failed to make turn: %w", err)
	}

	return nil
}
