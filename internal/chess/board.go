package chess

// Board represents a chess board with all state needed for the game.
// It holds no rules knowledge; see package engine for that.
type Board struct {
	// The board squares, indexed [row][col] with row 0 the eighth rank.
	Squares [BoardSize][BoardSize]Piece

	// Who has the next move.
	ToMove Colour

	// The full-move number, starting at 1 and incremented after Black moves.
	MoveNumber uint

	// Castling availability. A flag stays set only while the king and the
	// corresponding rook have never left their original squares.
	Castling CastlingRights

	// Is EnPassant capture possible? If so then EPSquare holds the square
	// passed over by the double pawn push.
	EnPassant bool
	EPSquare  Square

	// The half-move clock since the last pawn move or capture.
	HalfmoveClock uint
}

// NewBoard creates a new empty board with White to move.
func NewBoard() *Board {
	return &Board{
		ToMove:     White,
		MoveNumber: 1,
		EPSquare:   NoSquare,
	}
}

// SetupInitialPosition sets up the standard chess starting position.
func (b *Board) SetupInitialPosition() {
	b.Squares = [BoardSize][BoardSize]Piece{}

	backRank := []Piece{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for col := 0; col < BoardSize; col++ {
		b.Squares[0][col] = B(backRank[col])
		b.Squares[1][col] = B(Pawn)
		b.Squares[6][col] = W(Pawn)
		b.Squares[7][col] = W(backRank[col])
	}

	b.Castling = AllCastling
	b.ToMove = White
	b.MoveNumber = 1
	b.EnPassant = false
	b.EPSquare = NoSquare
	b.HalfmoveClock = 0
}

// Get returns the piece on the square, or Empty when the square is off
// the board.
func (b *Board) Get(sq Square) Piece {
	if !sq.Valid() {
		return Empty
	}
	return b.Squares[sq.Row][sq.Col]
}

// Set places a piece on the square. Squares off the board are ignored.
func (b *Board) Set(sq Square, piece Piece) {
	if !sq.Valid() {
		return
	}
	b.Squares[sq.Row][sq.Col] = piece
}

// Copy creates a deep copy of the board.
func (b *Board) Copy() *Board {
	newBoard := &Board{}
	*newBoard = *b
	return newBoard
}

// FindKing returns the square of the colour's king. The boolean is false
// when the colour has no king on the board.
func (b *Board) FindKing(colour Colour) (Square, bool) {
	king := MakeColouredPiece(colour, King)
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			if b.Squares[row][col] == king {
				return Square{Row: row, Col: col}, true
			}
		}
	}
	return NoSquare, false
}

// CountPiece returns how many copies of the coloured piece are on the board.
func (b *Board) CountPiece(piece Piece) int {
	n := 0
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			if b.Squares[row][col] == piece {
				n++
			}
		}
	}
	return n
}

// EnPassantTarget returns the en passant target square, or NoSquare.
func (b *Board) EnPassantTarget() Square {
	if !b.EnPassant {
		return NoSquare
	}
	return b.EPSquare
}

// SetEnPassant sets or clears the en passant target square.
func (b *Board) SetEnPassant(sq Square) {
	if sq.Valid() {
		b.EnPassant = true
		b.EPSquare = sq
		return
	}
	b.EnPassant = false
	b.EPSquare = NoSquare
}
