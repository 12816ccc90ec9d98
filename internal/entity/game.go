package entity

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/gridplay/tictactoe-backend/internal/apperror"
	"github.com/gridplay/tictactoe-backend/internal/engine"
)

const (
	StatusFinished = "finished"
	StatusOngoing  = "ongoing"
	StatusWaiting  = "waiting"

	// PlayerTie marks a drawn game in the Winner field.
	PlayerTie = "-"
)

const (
	PublicType  = "public"
	PrivateType = "private"
	WithBotType = "bot"
)

var ErrUnknownGameStatus = errors.New("unknown game status")

// Game is the aggregate stored per session: the board plus everything the
// board alone does not carry (players, lifecycle status, assigned marks).
// Winner, WinningLine and Status are refreshed from the board after every
// move; the board itself stays the single source of truth.
type Game struct {
	ID          string          `json:"id"`
	Board       engine.Board    `json:"board"`
	Winner      string          `json:"winner,omitempty"`
	WinningLine *engine.WinLine `json:"winning_line,omitempty"`
	Status      string          `json:"status"`
	Turn        string          `json:"player_turn,omitempty"`
	Players     []*Player       `json:"players,omitempty"`
	Type        string          `json:"type,omitempty"`
}

func NewGame(id, gameType string) *Game {
	return &Game{
		ID:     id,
		Board:  engine.Board{},
		Turn:   engine.PlayerX,
		Status: StatusWaiting,
		Type:   gameType,
	}
}

// UpdateGameState re-derives the lifecycle fields from the board after a
// move by the player currently on turn.
func (that *Game) UpdateGameState() {
	switch status := that.Board.Status(); status.State {
	// one player completed a line
	case engine.StateWon:
		line := status.Line
		that.Winner = status.Winner
		that.WinningLine = &line
		that.Status = StatusFinished
		that.Turn = ""
	// full board, nobody won
	case engine.StateDraw:
		that.Winner = PlayerTie
		that.Status = StatusFinished
		that.Turn = ""
	// game continues, other player is on turn
	default:
		that.Status = StatusOngoing
		that.Turn = engine.Opponent(that.Turn)
	}
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Game) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *Game) IsWaiting() bool {
	return that.Status == StatusWaiting
}

func (that *Game) ConfirmOngoingState() error {
	switch {
	case that.IsWaiting():
		return apperror.ErrGameIsNotStarted
	case that.IsFinished():
		return apperror.ErrGameFinished
	case that.IsOngoing():
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownGameStatus, that.Status)
	}
}

func (that *Game) IsPublic() bool {
	return that.Type == PublicType
}

func (that *Game) IsWithBot() bool {
	return that.Type == WithBotType
}

// BotPlayer returns the automated player of the game, or nil.
func (that *Game) BotPlayer() *Player {
	for _, player := range that.Players {
		if player.IsBot() {
			return player
		}
	}

	return nil
}

func (that *Game) GetRandomMarks() (string, string) {
	if rand.Intn(2) == 0 { //nolint: gosec // mark assignment is not security sensitive
		return engine.PlayerX, engine.PlayerO
	}
	return engine.PlayerO, engine.PlayerX
}
