package service

import (
	"testing"

	"github.com/gridplay/tictactoe-backend/internal/engine"
	"github.com/gridplay/tictactoe-backend/internal/entity"
	"github.com/gridplay/tictactoe-backend/internal/tictactoe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBotGame(board engine.Board, botMark, turn string) *entity.Game {
	game := entity.NewGame("game-1", entity.WithBotType)
	game.Board = board
	game.Status = entity.StatusOngoing
	game.Turn = turn
	game.Players = []*entity.Player{
		{ID: "human", Mark: engine.Opponent(botMark), GameID: game.ID},
		entity.NewBotPlayer(game.ID, botMark),
	}

	return game
}

func TestBotService_MakeTurn(t *testing.T) {
	botService := NewBotService()

	t.Run("Takes the winning move over the block", func(t *testing.T) {
		// Given: X on 0 and 4, the bot's O on 6 and 7, bot to move
		game := newBotGame(engine.Board{
			engine.PlayerX, "", "",
			"", engine.PlayerX, "",
			engine.PlayerO, engine.PlayerO, "",
		}, engine.PlayerO, engine.PlayerO)

		// When: the bot makes its turn
		err := botService.MakeTurn(game)
		require.NoError(t, err)

		// Then: the bot completes its bottom row and wins
		assert.Equal(t, engine.PlayerO, game.Board[8])
		assert.Equal(t, entity.StatusFinished, game.Status)
		assert.Equal(t, engine.PlayerO, game.Winner)
		require.NotNil(t, game.WinningLine)
		assert.Equal(t, engine.WinLine{6, 7, 8}, *game.WinningLine)
	})

	t.Run("Blocks the opponent's immediate threat", func(t *testing.T) {
		// Given: X threatens the top row, bot plays O
		game := newBotGame(engine.Board{
			engine.PlayerX, engine.PlayerX, "",
			"", engine.PlayerO, "",
			"", "", "",
		}, engine.PlayerO, engine.PlayerO)

		// When: the bot makes its turn
		err := botService.MakeTurn(game)
		require.NoError(t, err)

		// Then: the bot blocks on cell 2
		assert.Equal(t, engine.PlayerO, game.Board[2])
		assert.Equal(t, entity.StatusOngoing, game.Status)
	})

	t.Run("Never loses against a naive opponent", func(t *testing.T) {
		for _, botMark := range []string{engine.PlayerX, engine.PlayerO} {
			// Given: a fresh game, the naive human always plays the
			// lowest-index empty cell
			game := newBotGame(engine.Board{}, botMark, engine.PlayerX)
			humanMark := engine.Opponent(botMark)

			// When: the game is played out
			for game.IsOngoing() {
				if game.Turn == botMark {
					require.NoError(t, botService.MakeTurn(game))
					continue
				}

				cell := game.Board.EmptyCells()[0]
				require.NoError(t, tictactoe.MakeTurn(game, humanMark, cell))
			}

			// Then: the bot did not lose
			assert.NotEqual(t, humanMark, game.Winner, "bot lost as %s", botMark)
		}
	})

	t.Run("Fails when the game has no bot player", func(t *testing.T) {
		// Given: a game between two humans
		game := entity.NewGame("game-2", entity.PrivateType)
		game.Status = entity.StatusOngoing
		game.Players = []*entity.Player{
			{ID: "p1", Mark: engine.PlayerX},
			{ID: "p2", Mark: engine.PlayerO},
		}

		// When: the bot service is asked to move
		err := botService.MakeTurn(game)

		// Then: ErrBotNotFound is returned
		assert.ErrorIs(t, err, ErrBotNotFound)
	})
}
