package engine

import (
	"fmt"

	"github.com/lgbarn/chessrules-go/internal/chess"
	"github.com/lgbarn/chessrules-go/internal/errors"
)

// PseudoMoves returns the moves the piece on from could make if its own
// king's safety were ignored. Castling moves are only generated when the
// king does not start in, pass through or land on an attacked square.
func PseudoMoves(board *chess.Board, from chess.Square) []chess.Move {
	piece := board.Get(from)
	if piece == chess.Empty {
		return nil
	}

	switch chess.ExtractPiece(piece) {
	case chess.Pawn:
		return pawnMoves(board, from, piece)
	case chess.Knight:
		return stepMoves(board, from, piece, knightOffsets[:])
	case chess.King:
		moves := stepMoves(board, from, piece, kingOffsets[:])
		return append(moves, castlingMoves(board, from, piece)...)
	case chess.Bishop:
		return slideMoves(board, from, piece, diagonalDirs[:])
	case chess.Rook:
		return slideMoves(board, from, piece, straightDirs[:])
	case chess.Queen:
		moves := slideMoves(board, from, piece, straightDirs[:])
		return append(moves, slideMoves(board, from, piece, diagonalDirs[:])...)
	default:
		return nil
	}
}

// LegalMoves returns the legal moves of the piece on from. Only pieces
// of the side to move have legal moves.
func LegalMoves(board *chess.Board, from chess.Square) []chess.Move {
	piece := board.Get(from)
	if piece == chess.Empty || chess.ExtractColour(piece) != board.ToMove {
		return nil
	}

	pseudo := PseudoMoves(board, from)
	legal := pseudo[:0]
	for _, m := range pseudo {
		if isSafe(board, m) {
			legal = append(legal, m)
		}
	}
	return legal
}

// AllLegalMoves returns every legal move for the side to move, ordered
// by origin square from a8 to h1.
func AllLegalMoves(board *chess.Board) []chess.Move {
	var moves []chess.Move
	for row := 0; row < chess.BoardSize; row++ {
		for col := 0; col < chess.BoardSize; col++ {
			moves = append(moves, LegalMoves(board, chess.Square{Row: row, Col: col})...)
		}
	}
	return moves
}

// HasLegalMoves returns true if the side to move has at least one legal move.
func HasLegalMoves(board *chess.Board) bool {
	for row := 0; row < chess.BoardSize; row++ {
		for col := 0; col < chess.BoardSize; col++ {
			from := chess.Square{Row: row, Col: col}
			piece := board.Get(from)
			if piece == chess.Empty || chess.ExtractColour(piece) != board.ToMove {
				continue
			}
			for _, m := range PseudoMoves(board, from) {
				if isSafe(board, m) {
					return true
				}
			}
		}
	}
	return false
}

// MatchMove finds the legal move from one square to another. A move onto
// the far rank that names no promotion piece gives ErrAmbiguousPromotion;
// anything else that matches no legal move gives ErrIllegalMove.
func MatchMove(board *chess.Board, from, to chess.Square, promotion chess.Piece) (chess.Move, error) {
	var candidates []chess.Move
	for _, m := range LegalMoves(board, from) {
		if m.To == to {
			candidates = append(candidates, m)
		}
	}
	if len(candidates) == 0 {
		return chess.Move{}, fmt.Errorf("%s%s: %w", from, to, errors.ErrIllegalMove)
	}

	if candidates[0].IsPromotion() && promotion == chess.Empty {
		return chess.Move{}, fmt.Errorf("%s%s: %w", from, to, errors.ErrAmbiguousPromotion)
	}
	for _, m := range candidates {
		if m.Promotion == promotion {
			return m, nil
		}
	}
	return chess.Move{}, fmt.Errorf("%s%s promoting to %v: %w", from, to, promotion, errors.ErrIllegalMove)
}

// isSafe tries a pseudo-legal move on the live board and reports whether
// it leaves the mover's own king unattacked. The board is restored exactly.
func isSafe(board *chess.Board, m chess.Move) bool {
	colour := chess.ExtractColour(m.Piece)
	undo := ApplyMove(board, m)
	safe := !IsInCheck(board, colour)
	RevertMove(board, m, undo)
	return safe
}

func pawnMoves(board *chess.Board, from chess.Square, pawn chess.Piece) []chess.Move {
	colour := chess.ExtractColour(pawn)
	dir := chess.ColourOffset(colour)
	var moves []chess.Move

	one := from.Offset(dir, 0)
	if one.Valid() && board.Get(one) == chess.Empty {
		moves = appendPawnMove(moves, from, one, pawn, chess.Empty)
		two := from.Offset(2*dir, 0)
		if from.Row == chess.PawnStartRow(colour) && board.Get(two) == chess.Empty {
			moves = append(moves, chess.Move{From: from, To: two, Piece: pawn, Class: chess.PawnMove})
		}
	}

	for _, dc := range []int{-1, 1} {
		to := from.Offset(dir, dc)
		if !to.Valid() {
			continue
		}
		target := board.Get(to)
		if target != chess.Empty && chess.ExtractColour(target) != colour {
			moves = appendPawnMove(moves, from, to, pawn, target)
			continue
		}
		if target == chess.Empty && board.EnPassant && to == board.EPSquare {
			victim := board.Get(chess.Square{Row: from.Row, Col: to.Col})
			if victim == chess.MakeColouredPiece(colour.Opposite(), chess.Pawn) {
				moves = append(moves, chess.Move{
					From: from, To: to, Piece: pawn, Captured: victim, Class: chess.EnPassantPawnMove,
				})
			}
		}
	}
	return moves
}

// appendPawnMove adds a pawn move, expanding it into the four promotions
// when it reaches the far rank.
func appendPawnMove(moves []chess.Move, from, to chess.Square, pawn, captured chess.Piece) []chess.Move {
	if to.Row != chess.PromotionRow(chess.ExtractColour(pawn)) {
		return append(moves, chess.Move{From: from, To: to, Piece: pawn, Captured: captured, Class: chess.PawnMove})
	}
	for _, promo := range chess.PromotionPieces {
		moves = append(moves, chess.Move{
			From: from, To: to, Piece: pawn, Captured: captured,
			Promotion: promo, Class: chess.PawnMoveWithPromotion,
		})
	}
	return moves
}

func stepMoves(board *chess.Board, from chess.Square, piece chess.Piece, offsets [][2]int) []chess.Move {
	colour := chess.ExtractColour(piece)
	var moves []chess.Move
	for _, d := range offsets {
		to := from.Offset(d[0], d[1])
		if !to.Valid() {
			continue
		}
		target := board.Get(to)
		if target != chess.Empty && chess.ExtractColour(target) == colour {
			continue
		}
		moves = append(moves, chess.Move{From: from, To: to, Piece: piece, Captured: target, Class: chess.PieceMove})
	}
	return moves
}

func slideMoves(board *chess.Board, from chess.Square, piece chess.Piece, dirs [][2]int) []chess.Move {
	colour := chess.ExtractColour(piece)
	var moves []chess.Move
	for _, d := range dirs {
		for to := from.Offset(d[0], d[1]); to.Valid(); to = to.Offset(d[0], d[1]) {
			target := board.Get(to)
			if target == chess.Empty {
				moves = append(moves, chess.Move{From: from, To: to, Piece: piece, Class: chess.PieceMove})
				continue
			}
			if chess.ExtractColour(target) != colour {
				moves = append(moves, chess.Move{From: from, To: to, Piece: piece, Captured: target, Class: chess.PieceMove})
			}
			break
		}
	}
	return moves
}
