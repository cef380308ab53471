package chess

// Move represents a single chess move between two squares.
type Move struct {
	// Source and destination squares.
	From Square
	To   Square

	// The piece type promoted to (Empty if not a promotion).
	Promotion Piece

	// The coloured piece being moved.
	Piece Piece

	// The coloured piece captured (Empty if no capture). For en passant
	// this is the pawn removed from beside the destination.
	Captured Piece

	// Class of move (pawn move, piece move, castle, etc.).
	Class MoveClass
}

// IsCapture returns true if this move is a capture.
func (m Move) IsCapture() bool {
	return m.Captured != Empty || m.Class == EnPassantPawnMove
}

// IsEnPassant returns true if this move captures en passant.
func (m Move) IsEnPassant() bool {
	return m.Class == EnPassantPawnMove
}

// IsPromotion returns true if this move is a pawn promotion.
func (m Move) IsPromotion() bool {
	return m.Class == PawnMoveWithPromotion
}

// IsCastle returns true if this move is a castling move.
func (m Move) IsCastle() bool {
	switch m.Class {
	case KingsideCastle, QueensideCastle:
		return true
	default:
		return false
	}
}

// CapturedSquare returns the square the captured piece stood on. It
// differs from To only for en passant.
func (m Move) CapturedSquare() Square {
	if m.Class == EnPassantPawnMove {
		return Square{Row: m.From.Row, Col: m.To.Col}
	}
	return m.To
}

// UCI returns the coordinate form of the move, e.g. "e2e4" or "e7e8q".
func (m Move) UCI() string {
	s := m.From.String() + m.To.String()
	if m.Promotion != Empty {
		s += string(rune(m.Promotion.Letter() + ('a' - 'A')))
	}
	return s
}

// String returns the coordinate form of the move.
func (m Move) String() string {
	return m.UCI()
}

// Undo captures the board state a move destroys, so that the move can be
// reverted exactly.
type Undo struct {
	Captured      Piece
	CapturedOn    Square
	Castling      CastlingRights
	EnPassant     bool
	EPSquare      Square
	HalfmoveClock uint
	MoveNumber    uint
}

// HistoryEntry records one applied move of a game.
type HistoryEntry struct {
	Move Move

	// Moved is the coloured piece that moved (a pawn for promotions).
	Moved Piece

	// Captured is the coloured piece removed, if any, and where it stood.
	Captured   Piece
	CapturedOn Square

	// Undo holds the castling rights, en passant target, half-move clock
	// and full-move number as they were before the move.
	Undo Undo

	// SAN is the move in Standard Algebraic Notation, including any
	// check or mate suffix.
	SAN string

	// CheckStatus is whether the move gave check or checkmate.
	CheckStatus CheckStatus
}

// IsCheck reports whether the move left the opponent in check.
func (h *HistoryEntry) IsCheck() bool {
	return h.CheckStatus != NoCheck
}

// IsCheckmate reports whether the move delivered checkmate.
func (h *HistoryEntry) IsCheckmate() bool {
	return h.CheckStatus == Checkmate
}
