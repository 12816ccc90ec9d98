package websocket

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gridplay/tictactoe-backend/internal/apperror"
	"github.com/gridplay/tictactoe-backend/internal/engine"
	"github.com/gridplay/tictactoe-backend/internal/entity"
)

const gameStatusLeave = "leave"

func (that *Server) handleConnect(ctx context.Context, msg *Message, bufrw *bufio.ReadWriter) error {
	log := that.logger.With("method", "handleConnect")

	var payloadReq Payload
	if len(msg.Payload) > 0 {
		if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
			return fmt.Errorf("failed to unmarshal payload: %w", err)
		}
	}

	playerID := ""
	if payloadReq.Player != nil {
		playerID = payloadReq.Player.ID
	}

	player, err := that.gamePlay.GetOrCreatePlayer(ctx, playerID)
	if err != nil {
		log.Error("failed to get or create player", "error", err)
		return that.sendErrorResponse(bufrw, msg.Action, "failed to create a new player")
	}

	that.registerConnection(player.ID, bufrw)

	payloadResp := Payload{Player: player}

	if player.GameID != "" {
		game, err := that.gamePlay.GetGameByPlayerID(ctx, player.ID)
		if err != nil {
			log.Error("failed to get game", "gameID", player.GameID, "error", err)
			return that.sendErrorResponse(bufrw, msg.Action, "failed to get the game")
		}

		payloadResp.Game = maskGameDetails(game)
	}

	if err = that.sendMessage(bufrw, msg.Action, payloadResp); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	log.Info("successfully connected player", "playerID", player.ID)

	return nil
}

func (that *Server) handleNewGame(ctx context.Context, msg *Message, bufrw *bufio.ReadWriter) error {
	log := that.logger.With("method", "handleNewGame")

	payloadReq, err := that.decodePayload(msg, bufrw, true)
	if err != nil || payloadReq == nil {
		return err
	}

	that.registerConnection(payloadReq.Player.ID, bufrw)

	var game *entity.Game
	if payloadReq.Game.IsPublic() {
		game, err = that.gamePlay.CreateOrJoinToPublicGame(ctx, payloadReq.Player.ID, payloadReq.Game.Type)
	} else {
		game, err = that.gamePlay.GetOrCreateGame(ctx, payloadReq.Player.ID, payloadReq.Game.Type)
	}

	if err != nil {
		log.Error("failed to create or join game", "type", payloadReq.Game.Type, "error", err)
		return that.sendErrorResponse(bufrw, msg.Action, "failed to create a new game")
	}

	that.broadcastGame(msg.Action, game)

	log.Info("game ready", "gameID", game.ID)

	return nil
}

func (that *Server) handleJoinGame(ctx context.Context, msg *Message, bufrw *bufio.ReadWriter) error {
	log := that.logger.With("method", "handleJoinGame")

	payloadReq, err := that.decodePayload(msg, bufrw, true)
	if err != nil || payloadReq == nil {
		return err
	}

	that.registerConnection(payloadReq.Player.ID, bufrw)

	game, err := that.gamePlay.JoinGameByID(ctx, payloadReq.Game.ID, payloadReq.Player.ID)
	if err != nil {
		log.Error("failed to join game", "gameID", payloadReq.Game.ID, "error", err)
		return that.sendErrorResponse(bufrw, msg.Action, fmt.Sprintf("game %s: %v", payloadReq.Game.ID, err))
	}

	that.broadcastGame(msg.Action, game)

	log.Info("player joined game", "gameID", game.ID, "playerID", payloadReq.Player.ID)

	return nil
}

func (that *Server) handleGameTurn(ctx context.Context, msg *Message, bufrw *bufio.ReadWriter) error {
	log := that.logger.With("method", "handleGameTurn")

	payloadReq, err := that.decodePayload(msg, bufrw, false)
	if err != nil || payloadReq == nil {
		return err
	}

	if payloadReq.Cell == nil {
		log.Error("cell is missing in payload")
		return that.sendErrorResponse(bufrw, msg.Action, "cell is required")
	}

	that.registerConnection(payloadReq.Player.ID, bufrw)

	game, err := that.gamePlay.MakeTurn(ctx, payloadReq.Player.ID, *payloadReq.Cell)

	switch {
	case errors.Is(err, engine.ErrInvalidMove),
		errors.Is(err, apperror.ErrNotYourTurn),
		errors.Is(err, apperror.ErrGameIsNotStarted),
		errors.Is(err, apperror.ErrGameFinished):
		return that.sendErrorResponse(bufrw, msg.Action, err.Error())
	case err != nil:
		log.Error("failed to make turn", "error", err)
		return that.sendErrorResponse(bufrw, msg.Action, "failed to make turn")
	}

	that.broadcastGame(msg.Action, game)

	log.Info("player made a turn", "gameID", game.ID, "playerID", payloadReq.Player.ID)

	return nil
}

func (that *Server) handleGameLeave(ctx context.Context, msg *Message, bufrw *bufio.ReadWriter) error {
	log := that.logger.With("method", "handleGameLeave")

	payloadReq, err := that.decodePayload(msg, bufrw, false)
	if err != nil || payloadReq == nil {
		return err
	}

	that.registerConnection(payloadReq.Player.ID, bufrw)

	game, err := that.gamePlay.GetGameByPlayerID(ctx, payloadReq.Player.ID)
	if err != nil {
		log.Error("failed to find game", "error", err)
		return that.sendErrorResponse(bufrw, msg.Action, "game doesn't exist")
	}

	if err = that.gamePlay.EndGame(ctx, game); err != nil {
		log.Error("failed to end game", "error", err)
		return that.sendErrorResponse(bufrw, msg.Action, "failed to end game")
	}

	for _, player := range game.Players {
		if player.IsBot() {
			continue
		}

		conn, ok := that.connection(player.ID)
		if !ok {
			continue
		}

		payloadResp := Payload{
			Player: player,
			Game:   maskGameDetails(game),
		}
		payloadResp.Game.Status = gameStatusLeave

		if err = that.sendMessage(conn, msg.Action, payloadResp); err != nil {
			log.Error("failed to send game update", "error", err)
		}
	}

	log.Info("player left game", "gameID", game.ID, "playerID", payloadReq.Player.ID)

	return nil
}

// decodePayload unmarshals the request payload and validates the fields
// every game action needs. A nil result with a nil error means the error
// response was already sent to the client.
func (that *Server) decodePayload(msg *Message, bufrw *bufio.ReadWriter, needGame bool) (*Payload, error) {
	log := that.logger.With("method", "decodePayload")

	var payloadReq Payload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if payloadReq.Player == nil {
		log.Error("player is missing in payload", "action", msg.Action)
		return nil, that.sendErrorResponse(bufrw, msg.Action, "player is required")
	}

	if needGame && payloadReq.Game == nil {
		log.Error("game is missing in payload", "action", msg.Action)
		return nil, that.sendErrorResponse(bufrw, msg.Action, "game is required")
	}

	return &payloadReq, nil
}

// broadcastGame sends the updated game to every connected human player.
func (that *Server) broadcastGame(action string, game *entity.Game) {
	log := that.logger.With("method", "broadcastGame", "gameID", game.ID)

	for _, player := range game.Players {
		if player.IsBot() {
			continue
		}

		conn, ok := that.connection(player.ID)
		if !ok {
			log.Warn("connection not found for player", "playerID", player.ID)
			continue
		}

		payloadResp := Payload{
			Player: player,
			Game:   maskGameDetails(game),
		}

		if err := that.sendMessage(conn, action, payloadResp); err != nil {
			log.Error("failed to send game update", "playerID", player.ID, "error", err)
		}
	}
}

func (that *Server) connection(playerID string) (*bufio.ReadWriter, bool) {
	that.connectionsMutex.RLock()
	defer that.connectionsMutex.RUnlock()

	conn, ok := that.connections[playerID]
	return conn, ok
}

// maskGameDetails hides the opponent roster from the game payload.
func maskGameDetails(game *entity.Game) *entity.Game {
	masked := *game
	masked.Players = nil
	masked.Type = ""
	return &masked
}

func (that *Server) sendErrorResponse(bufrw *bufio.ReadWriter, action, errorMsg string) error {
	payload := Payload{Error: errorMsg}
	if err := that.sendMessage(bufrw, action, payload); err != nil {
		return fmt.Errorf("failed to send error response: %w", err)
	}

	return nil
}
