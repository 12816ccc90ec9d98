package engine

import (
	"errors"
	"fmt"
)

const (
	PlayerX = "X"
	PlayerO = "O"

	EmptyCell = ""
)

const (
	StateInProgress = "in_progress"
	StateWon        = "won"
	StateDraw       = "draw"
)

// ErrInvalidMove is the only error the board can produce: the target cell
// is out of range or already occupied. The board is unchanged on failure.
var ErrInvalidMove = errors.New("invalid move")

// WinLine is one of the eight index triples that decide a game.
type WinLine [3]int

// WinLines enumerates rows, columns and diagonals in a fixed order. The
// order pins which line Winner reports when scanning a finished board.
var WinLines = [8]WinLine{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Board is the 3x3 grid in row-major order:
//
//	0 1 2
//	3 4 5
//	6 7 8
//
// A cell holds a player mark or EmptyCell.
type Board [9]string

// GameStatus is derived from the board on demand, never stored.
// Line is meaningful only when State is StateWon.
type GameStatus struct {
	State  string
	Winner string
	Line   WinLine
}

// ApplyMove occupies the cell at pos with mark.
func (that *Board) ApplyMove(pos int, mark string) error {
	if pos < 0 || pos >= len(that) {
		return fmt.Errorf("%w: cell %d is out of range", ErrInvalidMove, pos)
	}

	if that[pos] != EmptyCell {
		return fmt.Errorf("%w: cell %d is already occupied", ErrInvalidMove, pos)
	}

	that[pos] = mark

	return nil
}

// UndoMove resets the cell at pos to empty. It exists for the search to
// backtrack and is not a game-history undo.
func (that *Board) UndoMove(pos int) {
	that[pos] = EmptyCell
}

// EmptyCells returns the free positions in ascending index order. The order
// defines move exploration order, and with it the lowest-index tie-break of
// the search.
func (that *Board) EmptyCells() []int {
	cells := make([]int, 0, len(that))
	for i, cell := range that {
		if cell == EmptyCell {
			cells = append(cells, i)
		}
	}

	return cells
}

// Winner returns the first line fully occupied by mark. Under legal
// alternating play at most one player has a completed line.
func (that *Board) Winner(mark string) (WinLine, bool) {
	for _, line := range WinLines {
		if that[line[0]] == mark && that[line[1]] == mark && that[line[2]] == mark {
			return line, true
		}
	}

	return WinLine{}, false
}

// Status classifies the board: won if either player completed a line, draw
// if no empty cells remain, in progress otherwise.
func (that *Board) Status() GameStatus {
	for _, line := range WinLines {
		first := that[line[0]]
		if first != EmptyCell && first == that[line[1]] && first == that[line[2]] {
			return GameStatus{State: StateWon, Winner: first, Line: line}
		}
	}

	for _, cell := range that {
		if cell == EmptyCell {
			return GameStatus{State: StateInProgress}
		}
	}

	return GameStatus{State: StateDraw}
}

// Opponent returns the mark of the other player.
func Opponent(mark string) string {
	if mark == PlayerX {
		return PlayerO
	}

	return PlayerX
}
