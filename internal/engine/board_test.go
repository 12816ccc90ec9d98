package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoard_ApplyMove(t *testing.T) {
	t.Run("Occupies an empty cell", func(t *testing.T) {
		// Given: an empty board
		board := Board{}

		// When: X moves to cell 4
		err := board.ApplyMove(4, PlayerX)

		// Then: the cell holds the mark
		require.NoError(t, err)
		assert.Equal(t, PlayerX, board[4])
	})

	t.Run("Rejects an occupied cell and leaves the board unchanged", func(t *testing.T) {
		// Given: a board with X on cell 0
		board := Board{}
		require.NoError(t, board.ApplyMove(0, PlayerX))

		// When: O moves to the same cell
		err := board.ApplyMove(0, PlayerO)

		// Then: ErrInvalidMove is returned and the cell keeps X
		require.ErrorIs(t, err, ErrInvalidMove)
		assert.Equal(t, Board{PlayerX, "", "", "", "", "", "", "", ""}, board)
	})

	t.Run("Rejects out of range cells", func(t *testing.T) {
		// Given: an empty board
		board := Board{}

		// When: moves target cells outside 0..8
		errHigh := board.ApplyMove(9, PlayerX)
		errLow := board.ApplyMove(-1, PlayerX)

		// Then: both fail with ErrInvalidMove and the board stays empty
		require.ErrorIs(t, errHigh, ErrInvalidMove)
		require.ErrorIs(t, errLow, ErrInvalidMove)
		assert.Equal(t, Board{}, board)
	})
}

func TestBoard_UndoMove(t *testing.T) {
	// Given: a board with X on cell 3
	board := Board{}
	require.NoError(t, board.ApplyMove(3, PlayerX))

	// When: the move is undone
	board.UndoMove(3)

	// Then: the board is empty again
	assert.Equal(t, Board{}, board)
}

func TestBoard_EmptyCells(t *testing.T) {
	t.Run("Empty board yields all cells ascending", func(t *testing.T) {
		board := Board{}

		assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8}, board.EmptyCells())
	})

	t.Run("Occupied cells are skipped, order stays ascending", func(t *testing.T) {
		// Given: marks scattered over the board
		board := Board{PlayerX, "", PlayerO, "", PlayerX, "", "", PlayerO, ""}

		// When: empty cells are enumerated
		cells := board.EmptyCells()

		// Then: only the free positions remain, in ascending index order
		assert.Equal(t, []int{1, 3, 5, 6, 8}, cells)
	})

	t.Run("Full board yields nothing", func(t *testing.T) {
		board := Board{PlayerO, PlayerX, PlayerO, PlayerO, PlayerX, PlayerX, PlayerX, PlayerO, PlayerX}

		assert.Empty(t, board.EmptyCells())
	})
}

func TestBoard_Winner(t *testing.T) {
	t.Run("Reports the completed line", func(t *testing.T) {
		// Given: X owns the first column
		board := Board{PlayerX, PlayerO, "", PlayerX, PlayerO, "", PlayerX, "", ""}

		// When: checking for an X win
		line, won := board.Winner(PlayerX)

		// Then: the column line is reported
		require.True(t, won)
		assert.Equal(t, WinLine{0, 3, 6}, line)

		// Then: O has no completed line
		_, won = board.Winner(PlayerO)
		assert.False(t, won)
	})

	t.Run("No line on an ongoing board", func(t *testing.T) {
		board := Board{PlayerX, PlayerO, PlayerX, "", PlayerO, "", PlayerX, "", ""}

		_, won := board.Winner(PlayerX)
		assert.False(t, won)
	})
}

func TestBoard_Status(t *testing.T) {
	t.Run("Won", func(t *testing.T) {
		// Given: O owns the top row
		board := Board{PlayerO, PlayerO, PlayerO, PlayerX, PlayerX, "", "", "", ""}

		// When: the status is derived
		status := board.Status()

		// Then: the game is won by O on the top row
		require.Equal(t, StateWon, status.State)
		assert.Equal(t, PlayerO, status.Winner)
		assert.Equal(t, WinLine{0, 1, 2}, status.Line)
	})

	t.Run("Draw", func(t *testing.T) {
		// Given: a full board with no completed line
		board := Board{PlayerO, PlayerX, PlayerO, PlayerO, PlayerX, PlayerX, PlayerX, PlayerO, PlayerO}

		// When: the status is derived
		status := board.Status()

		// Then: the game is a draw with no winner
		require.Equal(t, StateDraw, status.State)
		assert.Empty(t, status.Winner)
	})

	t.Run("In progress", func(t *testing.T) {
		board := Board{PlayerX, "", "", "", PlayerO, "", "", "", ""}

		assert.Equal(t, StateInProgress, board.Status().State)
	})
}

// Every reachable board falls into exactly one state, and a won board
// reports a line fully owned by its winner.
func TestBoard_StatusClassifiesEveryReachableBoard(t *testing.T) {
	seen := make(map[Board]bool)

	var walk func(board *Board, mark string)
	walk = func(board *Board, mark string) {
		if seen[*board] {
			return
		}
		seen[*board] = true

		status := board.Status()
		switch status.State {
		case StateWon:
			require.Contains(t, []string{PlayerX, PlayerO}, status.Winner)
			for _, pos := range status.Line {
				require.Equal(t, status.Winner, board[pos])
			}
		case StateDraw:
			require.Empty(t, board.EmptyCells())
			require.Empty(t, status.Winner)
		case StateInProgress:
			require.NotEmpty(t, board.EmptyCells())
		default:
			t.Fatalf("unknown state %q for board %v", status.State, *board)
		}

		if status.State != StateInProgress {
			return
		}

		for _, cell := range board.EmptyCells() {
			board[cell] = mark
			walk(board, Opponent(mark))
			board.UndoMove(cell)
		}
	}

	board := Board{}
	walk(&board, PlayerX)

	// all distinct legal positions were visited
	assert.Greater(t, len(seen), 5000)
}

func TestOpponent(t *testing.T) {
	assert.Equal(t, PlayerO, Opponent(PlayerX))
	assert.Equal(t, PlayerX, Opponent(PlayerO))
}
