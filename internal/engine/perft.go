package engine

import "github.com/lgbarn/chessrules-go/internal/chess"

// Perft counts the leaf nodes of the legal move tree to the given depth.
// The board is left unchanged.
func Perft(board *chess.Board, depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	moves := AllLegalMoves(board)
	if depth == 1 {
		return uint64(len(moves))
	}

	var nodes uint64
	for _, m := range moves {
		undo := ApplyMove(board, m)
		nodes += Perft(board, depth-1)
		RevertMove(board, m, undo)
	}
	return nodes
}

// Divide returns the perft count below each legal move, keyed by the
// move's coordinate form.
func Divide(board *chess.Board, depth int) map[string]uint64 {
	result := make(map[string]uint64)
	if depth <= 0 {
		return result
	}
	for _, m := range AllLegalMoves(board) {
		undo := ApplyMove(board, m)
		result[m.UCI()] = Perft(board, depth-1)
		RevertMove(board, m, undo)
	}
	return result
}
