package engine

import "github.com/lgbarn/chessrules-go/internal/chess"

// IsCheckmate returns true if the side to move is in check with no legal move.
func IsCheckmate(board *chess.Board) bool {
	return IsInCheck(board, board.ToMove) && !HasLegalMoves(board)
}

// IsStalemate returns true if the side to move is not in check but has
// no legal move.
func IsStalemate(board *chess.Board) bool {
	return !IsInCheck(board, board.ToMove) && !HasLegalMoves(board)
}

// HasInsufficientMaterial returns true if neither side can possibly mate.
// The recognised cases are:
//   - K vs K
//   - K+B vs K and K+N vs K
//   - K+B vs K+B with both bishops on squares of the same colour
func HasInsufficientMaterial(board *chess.Board) bool {
	var minors []chess.Square
	for row := 0; row < chess.BoardSize; row++ {
		for col := 0; col < chess.BoardSize; col++ {
			piece := board.Squares[row][col]
			switch chess.ExtractPiece(piece) {
			case chess.Empty, chess.King:
				continue
			case chess.Knight, chess.Bishop:
				minors = append(minors, chess.Square{Row: row, Col: col})
			default:
				return false
			}
		}
	}

	switch len(minors) {
	case 0, 1:
		return true
	case 2:
		a, b := board.Get(minors[0]), board.Get(minors[1])
		return chess.ExtractPiece(a) == chess.Bishop && chess.ExtractPiece(b) == chess.Bishop &&
			chess.ExtractColour(a) != chess.ExtractColour(b) &&
			minors[0].IsLight() == minors[1].IsLight()
	default:
		return false
	}
}

// CheckStatusAfter returns whether the side to move is in check or mated.
// It is used to annotate a move just played.
func CheckStatusAfter(board *chess.Board) chess.CheckStatus {
	if !IsInCheck(board, board.ToMove) {
		return chess.NoCheck
	}
	if HasLegalMoves(board) {
		return chess.Check
	}
	return chess.Checkmate
}
