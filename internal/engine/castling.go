package engine

import "github.com/lgbarn/chessrules-go/internal/chess"

// Castling columns on the home row.
const (
	kingStartCol       = 4
	kingsideRookCol    = 7
	queensideRookCol   = 0
	kingsideKingToCol  = 6
	queensideKingToCol = 2
	kingsideRookToCol  = 5
	queensideRookToCol = 3
)

// castlingMoves returns the castling moves available to the king on from.
// The rights flag is trusted to mean the king and rook have not moved.
func castlingMoves(board *chess.Board, from chess.Square, king chess.Piece) []chess.Move {
	colour := chess.ExtractColour(king)
	row := chess.HomeRow(colour)
	if from != (chess.Square{Row: row, Col: kingStartCol}) {
		return nil
	}

	var moves []chess.Move
	canKingside := board.Castling.Has(chess.KingsideRight(colour)) &&
		pathClear(board, row, kingStartCol+1, kingsideRookCol-1)
	canQueenside := board.Castling.Has(chess.QueensideRight(colour)) &&
		pathClear(board, row, queensideRookCol+1, kingStartCol-1)
	if !canKingside && !canQueenside {
		return nil
	}

	enemy := colour.Opposite()
	if IsAttacked(board, from, enemy) {
		return nil
	}

	if canKingside &&
		!IsAttacked(board, chess.Square{Row: row, Col: kingsideRookToCol}, enemy) &&
		!IsAttacked(board, chess.Square{Row: row, Col: kingsideKingToCol}, enemy) {
		moves = append(moves, chess.Move{
			From: from, To: chess.Square{Row: row, Col: kingsideKingToCol},
			Piece: king, Class: chess.KingsideCastle,
		})
	}
	if canQueenside &&
		!IsAttacked(board, chess.Square{Row: row, Col: queensideRookToCol}, enemy) &&
		!IsAttacked(board, chess.Square{Row: row, Col: queensideKingToCol}, enemy) {
		moves = append(moves, chess.Move{
			From: from, To: chess.Square{Row: row, Col: queensideKingToCol},
			Piece: king, Class: chess.QueensideCastle,
		})
	}
	return moves
}

// pathClear reports whether every square on row between the columns
// (inclusive) is empty.
func pathClear(board *chess.Board, row, fromCol, toCol int) bool {
	for col := fromCol; col <= toCol; col++ {
		if board.Get(chess.Square{Row: row, Col: col}) != chess.Empty {
			return false
		}
	}
	return true
}

// CastlingRookSquares returns where the rook starts and ends for a
// castling move of the given class.
func CastlingRookSquares(colour chess.Colour, class chess.MoveClass) (from, to chess.Square) {
	row := chess.HomeRow(colour)
	if class == chess.KingsideCastle {
		return chess.Square{Row: row, Col: kingsideRookCol}, chess.Square{Row: row, Col: kingsideRookToCol}
	}
	return chess.Square{Row: row, Col: queensideRookCol}, chess.Square{Row: row, Col: queensideRookToCol}
}

// cornerRight returns the castling flag tied to a rook's original corner,
// or NoCastling for any other square.
func cornerRight(sq chess.Square) chess.CastlingRights {
	switch sq {
	case chess.Square{Row: chess.HomeRow(chess.White), Col: kingsideRookCol}:
		return chess.WhiteKingside
	case chess.Square{Row: chess.HomeRow(chess.White), Col: queensideRookCol}:
		return chess.WhiteQueenside
	case chess.Square{Row: chess.HomeRow(chess.Black), Col: kingsideRookCol}:
		return chess.BlackKingside
	case chess.Square{Row: chess.HomeRow(chess.Black), Col: queensideRookCol}:
		return chess.BlackQueenside
	}
	return chess.NoCastling
}

// updateCastlingRights clears the flags a move destroys: both of the
// mover's flags when the king moves, and the flag of any rook corner the
// move leaves or lands on.
func updateCastlingRights(rights chess.CastlingRights, m chess.Move) chess.CastlingRights {
	if chess.ExtractPiece(m.Piece) == chess.King {
		colour := chess.ExtractColour(m.Piece)
		rights = rights.Clear(chess.KingsideRight(colour) | chess.QueensideRight(colour))
	}
	return rights.Clear(cornerRight(m.From) | cornerRight(m.To))
}

// castlingRightsConsistent reports whether every flag in rights has its
// king and rook on their original squares.
func castlingRightsConsistent(board *chess.Board, rights chess.CastlingRights) bool {
	for _, colour := range []chess.Colour{chess.White, chess.Black} {
		row := chess.HomeRow(colour)
		king := board.Get(chess.Square{Row: row, Col: kingStartCol}) == chess.MakeColouredPiece(colour, chess.King)
		rook := chess.MakeColouredPiece(colour, chess.Rook)
		if rights.Has(chess.KingsideRight(colour)) &&
			(!king || board.Get(chess.Square{Row: row, Col: kingsideRookCol}) != rook) {
			return false
		}
		if rights.Has(chess.QueensideRight(colour)) &&
			(!king || board.Get(chess.Square{Row: row, Col: queensideRookCol}) != rook) {
			return false
		}
	}
	return true
}
