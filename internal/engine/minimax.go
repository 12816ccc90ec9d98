package engine

import "math"

// Score domain of the search. The game is small enough to enumerate
// exhaustively, so no other values are ever produced. O is the maximizing
// player, X the minimizing one.
const (
	ScoreOWins = 1
	ScoreDraw  = 0
	ScoreXWins = -1
)

// NoMove is returned as the move for terminal positions, where there is
// nothing left to play. Callers must not apply it.
const NoMove = -1

// Evaluate runs minimax with alpha-beta pruning over the board and returns
// the game-theoretic score together with the optimal cell for the side to
// move. The mover is derived from maximizing: O when true, X otherwise.
//
// The board is mutated in place and restored before every return: each
// candidate move is applied, the child evaluated with the same alpha/beta
// bounds and the flipped side, then undone. Best score and move are updated
// only on strict improvement, so the first of several equal-scoring moves
// in ascending cell order is kept. Once alpha >= beta the remaining
// siblings cannot change the result and the loop stops.
func Evaluate(board *Board, maximizing bool, alpha, beta int) (int, int) {
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

	mark := PlayerX
	if maximizing {
		mark = PlayerO
	}

	bestMove := NoMove

	for _, cell := range cells {
		// cells come straight from EmptyCells, no validation needed
		board[cell] = mark
		score, _ := Evaluate(board, !maximizing, alpha, beta)
		board.UndoMove(cell)

		if maximizing && score > alpha {
			alpha = score
			bestMove = cell
		}

		if !maximizing && score < beta {
			beta = score
			bestMove = cell
		}

		if alpha >= beta {
			break
		}
	}

	if maximizing {
		return alpha, bestMove
	}

	return beta, bestMove
}

// BestMove returns the optimal cell for mark on the given board, or NoMove
// if the position is already terminal.
func BestMove(board *Board, mark string) int {
	_, move := Evaluate(board, mark == PlayerO, math.MinInt, math.MaxInt)
	return move
}
