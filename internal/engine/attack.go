package engine

import "github.com/lgbarn/chessrules-go/internal/chess"

// Offsets are {row, col} deltas.
var (
	knightOffsets = [8][2]int{{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2}, {1, -2}, {1, 2}, {2, -1}, {2, 1}}
	kingOffsets   = [8][2]int{{-1, -1}, {-1, 0}, {-1, 1}, {0, -1}, {0, 1}, {1, -1}, {1, 0}, {1, 1}}
	diagonalDirs  = [4][2]int{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
	straightDirs  = [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
)

// IsInCheck returns true if the given colour's king is attacked.
// A side without a king is never in check.
func IsInCheck(board *chess.Board, colour chess.Colour) bool {
	king, ok := board.FindKing(colour)
	if !ok {
		return false
	}
	return IsAttacked(board, king, colour.Opposite())
}

// IsAttacked returns true if any piece of colour by attacks sq.
// Pawns, knights and the king are tested before the sliding rays.
func IsAttacked(board *chess.Board, sq chess.Square, by chess.Colour) bool {
	// A pawn attacks diagonally forward, so the attacker stands one row
	// behind the target from its own point of view.
	pawn := chess.MakeColouredPiece(by, chess.Pawn)
	pawnRow := -chess.ColourOffset(by)
	if board.Get(sq.Offset(pawnRow, -1)) == pawn || board.Get(sq.Offset(pawnRow, 1)) == pawn {
		return true
	}

	knight := chess.MakeColouredPiece(by, chess.Knight)
	for _, d := range knightOffsets {
		if board.Get(sq.Offset(d[0], d[1])) == knight {
			return true
		}
	}

	king := chess.MakeColouredPiece(by, chess.King)
	for _, d := range kingOffsets {
		if board.Get(sq.Offset(d[0], d[1])) == king {
			return true
		}
	}

	queen := chess.MakeColouredPiece(by, chess.Queen)
	rook := chess.MakeColouredPiece(by, chess.Rook)
	for _, d := range straightDirs {
		if p := firstPieceOnRay(board, sq, d); p == rook || p == queen {
			return true
		}
	}

	bishop := chess.MakeColouredPiece(by, chess.Bishop)
	for _, d := range diagonalDirs {
		if p := firstPieceOnRay(board, sq, d); p == bishop || p == queen {
			return true
		}
	}

	return false
}

// firstPieceOnRay walks from sq in direction d and returns the first
// piece met, or Empty if the ray leaves the board.
func firstPieceOnRay(board *chess.Board, sq chess.Square, d [2]int) chess.Piece {
	for s := sq.Offset(d[0], d[1]); s.Valid(); s = s.Offset(d[0], d[1]) {
		if p := board.Get(s); p != chess.Empty {
			return p
		}
	}
	return chess.Empty
}
