package engine

import "github.com/lgbarn/chessrules-go/internal/chess"

// ApplyMove plays a move on the board in place and returns the record
// needed to revert it. The move is not checked for legality; it must come
// from the move generator.
func ApplyMove(board *chess.Board, m chess.Move) chess.Undo {
	undo := chess.Undo{
		Captured:      chess.Empty,
		CapturedOn:    chess.NoSquare,
		Castling:      board.Castling,
		EnPassant:     board.EnPassant,
		EPSquare:      board.EPSquare,
		HalfmoveClock: board.HalfmoveClock,
		MoveNumber:    board.MoveNumber,
	}

	colour := chess.ExtractColour(m.Piece)
	piece := board.Get(m.From)

	capturedOn := m.CapturedSquare()
	if captured := board.Get(capturedOn); captured != chess.Empty && capturedOn != m.From {
		undo.Captured = captured
		undo.CapturedOn = capturedOn
		board.Set(capturedOn, chess.Empty)
	}

	board.Set(m.From, chess.Empty)
	if m.Promotion != chess.Empty {
		piece = chess.MakeColouredPiece(colour, m.Promotion)
	}
	board.Set(m.To, piece)

	if m.IsCastle() {
		rookFrom, rookTo := CastlingRookSquares(colour, m.Class)
		board.Set(rookTo, board.Get(rookFrom))
		board.Set(rookFrom, chess.Empty)
	}

	board.Castling = updateCastlingRights(board.Castling, m)

	// The en passant target only survives the ply right after a double push.
	board.SetEnPassant(chess.NoSquare)
	isPawn := chess.ExtractPiece(m.Piece) == chess.Pawn
	if isPawn && abs(m.To.Row-m.From.Row) == 2 {
		board.SetEnPassant(chess.Square{Row: (m.From.Row + m.To.Row) / 2, Col: m.From.Col})
	}

	if isPawn || undo.Captured != chess.Empty {
		board.HalfmoveClock = 0
	} else {
		board.HalfmoveClock++
	}
	if colour == chess.Black {
		board.MoveNumber++
	}
	board.ToMove = colour.Opposite()

	return undo
}

// RevertMove takes back a move played with ApplyMove, restoring every
// square and all position metadata from undo.
func RevertMove(board *chess.Board, m chess.Move, undo chess.Undo) {
	colour := chess.ExtractColour(m.Piece)

	if m.IsCastle() {
		rookFrom, rookTo := CastlingRookSquares(colour, m.Class)
		board.Set(rookFrom, board.Get(rookTo))
		board.Set(rookTo, chess.Empty)
	}

	piece := board.Get(m.To)
	if m.Promotion != chess.Empty {
		piece = chess.MakeColouredPiece(colour, chess.Pawn)
	}
	board.Set(m.To, chess.Empty)
	board.Set(m.From, piece)

	if undo.Captured != chess.Empty {
		board.Set(undo.CapturedOn, undo.Captured)
	}

	board.Castling = undo.Castling
	board.EnPassant = undo.EnPassant
	board.EPSquare = undo.EPSquare
	board.HalfmoveClock = undo.HalfmoveClock
	board.MoveNumber = undo.MoveNumber
	board.ToMove = colour
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
