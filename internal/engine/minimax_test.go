package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// plainMinimax mirrors Evaluate without pruning. It is the reference the
// pruned search is checked against: same score, same lowest-index move.
func plainMinimax(board *Board, maximizing bool) (int, int) {
	if _, won := board.Winner(PlayerO); won {
		return ScoreOWins, NoMove
	}
	if _, won := board.Winner(PlayerX); won {
		return ScoreXWins, NoMove
	}

	cells := board.EmptyCells()
	if len(cells) == 0 {
		return ScoreDraw, NoMove
	}

	mark, best := PlayerX, math.MaxInt
	if maximizing {
		mark, best = PlayerO, math.MinInt
	}

	bestMove := NoMove
	for _, cell := range cells {
		board[cell] = mark
		score, _ := plainMinimax(board, !maximizing)
		board.UndoMove(cell)

		if maximizing && score > best {
			best, bestMove = score, cell
		}
		if !maximizing && score < best {
			best, bestMove = score, cell
		}
	}

	return best, bestMove
}

func evaluateRoot(board *Board, mark string) (int, int) {
	return Evaluate(board, mark == PlayerO, math.MinInt, math.MaxInt)
}

// Pruning never changes the result: for every reachable position the pruned
// search returns the same score and the same first-found optimal move as
// the exhaustive one.
func TestEvaluate_MatchesPlainMinimaxOnEveryReachableBoard(t *testing.T) {
	seen := make(map[Board]bool)

	var walk func(board *Board, mark string)
	walk = func(board *Board, mark string) {
		if seen[*board] {
			return
		}
		seen[*board] = true

		wantScore, wantMove := plainMinimax(board, mark == PlayerO)
		gotScore, gotMove := evaluateRoot(board, mark)

		require.Equal(t, wantScore, gotScore, "score mismatch on %v, %s to move", *board, mark)
		require.Equal(t, wantMove, gotMove, "move mismatch on %v, %s to move", *board, mark)

		if board.Status().State != StateInProgress {
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
}

func TestEvaluate_EmptyBoardIsADraw(t *testing.T) {
	// Given: an empty board, X to move
	board := Board{}

	// When: the position is evaluated
	score, move := evaluateRoot(&board, PlayerX)

	// Then: optimal play from both sides is a draw, and the first of the
	// equal-scoring openings is kept
	assert.Equal(t, ScoreDraw, score)
	assert.Equal(t, 0, move)
}

func TestEvaluate_TerminalPositions(t *testing.T) {
	t.Run("O already won", func(t *testing.T) {
		board := Board{PlayerO, PlayerO, PlayerO, PlayerX, PlayerX, "", "", "", ""}

		score, move := evaluateRoot(&board, PlayerX)

		assert.Equal(t, ScoreOWins, score)
		assert.Equal(t, NoMove, move)
	})

	t.Run("X already won", func(t *testing.T) {
		board := Board{PlayerX, PlayerX, PlayerX, PlayerO, PlayerO, "", "", "", ""}

		score, move := evaluateRoot(&board, PlayerO)

		assert.Equal(t, ScoreXWins, score)
		assert.Equal(t, NoMove, move)
	})

	t.Run("Full board draw", func(t *testing.T) {
		board := Board{PlayerO, PlayerX, PlayerO, PlayerO, PlayerX, PlayerX, PlayerX, PlayerO, PlayerO}

		score, move := evaluateRoot(&board, PlayerX)

		assert.Equal(t, ScoreDraw, score)
		assert.Equal(t, NoMove, move)
	})
}

func TestBestMove_TakesTheWinOverTheBlock(t *testing.T) {
	t.Run("O completes its own row instead of blocking", func(t *testing.T) {
		// Given: X on 0 and 4, O on 6 and 7, O to move
		board := Board{PlayerX, "", "", "", PlayerX, "", PlayerO, PlayerO, ""}

		// When: O picks its move
		move := BestMove(&board, PlayerO)

		// Then: O finishes the bottom row instead of blocking the diagonal
		assert.Equal(t, 8, move)
	})

	t.Run("X completes its row even though O threatens too", func(t *testing.T) {
		// Given: X on 0 and 1, O on 3 and 4, X to move
		board := Board{PlayerX, PlayerX, "", PlayerO, PlayerO, "", "", "", ""}

		// When: X picks its move
		move := BestMove(&board, PlayerX)

		// Then: X takes its own win over blocking O's row
		assert.Equal(t, 2, move)
	})
}

func TestBestMove_BlocksAnImmediateThreat(t *testing.T) {
	// Given: X threatens the top row, O to move with no win of its own
	board := Board{PlayerX, PlayerX, "", "", PlayerO, "", "", "", ""}

	// When: O picks its move
	move := BestMove(&board, PlayerO)

	// Then: O blocks on cell 2
	assert.Equal(t, 2, move)
}

func TestBestMove_LeavesTheBoardUntouched(t *testing.T) {
	// Given: a mid-game position
	board := Board{PlayerX, "", "", "", PlayerO, "", "", "", PlayerX}
	before := board

	// When: the search runs
	_ = BestMove(&board, PlayerO)

	// Then: every tentative move was undone
	assert.Equal(t, before, board)
}

func TestSelfPlay_OptimalPlayersAlwaysDraw(t *testing.T) {
	// Given: an empty board, both sides playing BestMove
	board := Board{}
	mark := PlayerX

	// When: the game is played out
	for board.Status().State == StateInProgress {
		move := BestMove(&board, mark)
		require.NoError(t, board.ApplyMove(move, mark))
		mark = Opponent(mark)
	}

	// Then: the game is a draw
	assert.Equal(t, StateDraw, board.Status().State)
}

func TestSelfPlay_MaximizerNeverLosesAfterAnyOpening(t *testing.T) {
	for opening := 0; opening < 9; opening++ {
		// Given: X opened anywhere, optimal play from there on
		board := Board{}
		require.NoError(t, board.ApplyMove(opening, PlayerX))

		mark := PlayerO
		for board.Status().State == StateInProgress {
			move := BestMove(&board, mark)
			require.NoError(t, board.ApplyMove(move, mark))
			mark = Opponent(mark)
		}

		// Then: O did not lose the game
		assert.NotEqual(t, PlayerX, board.Status().Winner, "O lost after opening %d", opening)
	}
}
