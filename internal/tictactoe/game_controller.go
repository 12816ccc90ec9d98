// Package tictactoe is the turn controller: it sits between the transports
// and the game core, enforcing the game lifecycle before a move reaches the
// board.
package tictactoe

import (
	"fmt"

	"github.com/gridplay/tictactoe-backend/internal/apperror"
	"github.com/gridplay/tictactoe-backend/internal/entity"
)

// MakeTurn applies one move by player to the game. Lifecycle violations
// (finished game, playing out of turn) are rejected here; cell validation
// is the board's own, so an occupied or out-of-range cell surfaces as
// engine.ErrInvalidMove. On success the game status, winner and winning
// line are re-derived from the board.
func MakeTurn(gameInstance *entity.Game, player string, cell int) error {
	if gameInstance.IsFinished() {
		return apperror.ErrGameFinished
	}

	if gameInstance.Turn != player {
		return apperror.ErrNotYourTurn
	}

	if err := gameInstance.Board.ApplyMove(cell, player); err != nil {
		return fmt.Errorf("invalid turn: %w", err)
	}

	gameInstance.UpdateGameState()

	return nil
}
