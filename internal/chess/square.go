package chess

// Square identifies a board square by row and column, each in [0,7].
// Row 0 is the eighth rank and column 0 is the a-file.
type Square struct {
	Row int
	Col int
}

// NoSquare is the sentinel for "no square", e.g. no en passant target.
var NoSquare = Square{Row: -1, Col: -1}

// NewSquare creates a square from a file character ('a'-'h') and a rank
// character ('1'-'8'). Characters outside those ranges give NoSquare.
func NewSquare(file, rank byte) Square {
	if file < FirstCol || file > LastCol || rank < FirstRank || rank > LastRank {
		return NoSquare
	}
	return Square{Row: int(LastRank - rank), Col: int(file - ColBase)}
}

// ParseSquare parses algebraic notation such as "e4".
func ParseSquare(s string) (Square, bool) {
	if len(s) != 2 {
		return NoSquare, false
	}
	sq := NewSquare(s[0], s[1])
	return sq, sq.Valid()
}

// Valid reports whether the square lies on the board.
func (s Square) Valid() bool {
	return s.Row >= 0 && s.Row < BoardSize && s.Col >= 0 && s.Col < BoardSize
}

// Offset returns the square shifted by the given row and column deltas.
// The result may be off the board; check with Valid.
func (s Square) Offset(dRow, dCol int) Square {
	return Square{Row: s.Row + dRow, Col: s.Col + dCol}
}

// File returns the file character ('a'-'h').
func (s Square) File() byte {
	return byte(ColBase + s.Col)
}

// Rank returns the rank character ('1'-'8').
func (s Square) Rank() byte {
	return byte(LastRank - s.Row)
}

// IsLight reports whether the square is a light square (h1 and a8 are light).
func (s Square) IsLight() bool {
	return (s.Row+s.Col)%2 == 0
}

// String returns the algebraic name of the square, or "-" when off the board.
func (s Square) String() string {
	if !s.Valid() {
		return "-"
	}
	return string([]byte{s.File(), s.Rank()})
}

// CastlingRights is a set of the four independent castling flags.
type CastlingRights uint8

const (
	WhiteKingside CastlingRights = 1 << iota
	WhiteQueenside
	BlackKingside
	BlackQueenside

	NoCastling  CastlingRights = 0
	AllCastling                = WhiteKingside | WhiteQueenside | BlackKingside | BlackQueenside
)

// Has reports whether every flag in r is set.
func (c CastlingRights) Has(r CastlingRights) bool {
	return c&r == r && r != 0
}

// Clear returns the rights with the flags in r removed.
func (c CastlingRights) Clear(r CastlingRights) CastlingRights {
	return c &^ r
}

// String renders the rights in FEN form ("KQkq" subset or "-").
func (c CastlingRights) String() string {
	var buf []byte
	if c.Has(WhiteKingside) {
		buf = append(buf, 'K')
	}
	if c.Has(WhiteQueenside) {
		buf = append(buf, 'Q')
	}
	if c.Has(BlackKingside) {
		buf = append(buf, 'k')
	}
	if c.Has(BlackQueenside) {
		buf = append(buf, 'q')
	}
	if len(buf) == 0 {
		return "-"
	}
	return string(buf)
}

// KingsideRight returns the kingside flag for a colour.
func KingsideRight(colour Colour) CastlingRights {
	if colour == White {
		return WhiteKingside
	}
	return BlackKingside
}

// QueensideRight returns the queenside flag for a colour.
func QueensideRight(colour Colour) CastlingRights {
	if colour == White {
		return WhiteQueenside
	}
	return BlackQueenside
}
