package repository

import (
	"testing"

	"github.com/gridplay/tictactoe-backend/internal/engine"
	"github.com/gridplay/tictactoe-backend/internal/entity"
	"github.com/gridplay/tictactoe-backend/testing/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayerRepository_CreateOrUpdate(t *testing.T) {
	ctx, st := suite.New(t)

	playerRepo := NewPlayerRepository(st.Storage)

	// Given: a player with an assigned mark
	player := &entity.Player{ID: "abc123", Mark: engine.PlayerX}

	// When: CreateOrUpdate is called
	err := playerRepo.CreateOrUpdate(ctx, player)

	// Then: no error should be returned
	require.NoError(t, err)
}

func TestPlayerRepository_GetByID(t *testing.T) {
	t.Run("GetByID_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		playerRepo := NewPlayerRepository(st.Storage)

		// Given: a stored player bound to a game
		player := &entity.Player{ID: "abc123", Mark: engine.PlayerO, GameID: "game-1"}
		require.NoError(t, playerRepo.CreateOrUpdate(ctx, player))

		// When: the player is fetched by id
		stored, err := playerRepo.GetByID(ctx, "abc123")

		// Then: the stored player round-trips unchanged
		require.NoError(t, err)
		assert.Equal(t, player, stored)
	})

	t.Run("GetByID_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		playerRepo := NewPlayerRepository(st.Storage)

		// When: an unknown id is fetched
		_, err := playerRepo.GetByID(ctx, "missing")

		// Then: ErrPlayerNotFound is returned
		assert.ErrorIs(t, err, ErrPlayerNotFound)
	})
}
