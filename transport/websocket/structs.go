package websocket

import (
	"encoding/json"

	"github.com/gridplay/tictactoe-backend/internal/entity"
)

// Message is one client/server exchange: an action name routing to a
// handler plus its JSON payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type Payload struct {
	Player *entity.Player `json:"player,omitempty"`
	Game   *entity.Game   `json:"game,omitempty"`
	Cell   *int           `json:"cell,omitempty"`
	Error  string         `json:"error,omitempty"`
}
