package engine

import (
	"errors"
	"testing"

	"github.com/lgbarn/chessrules-go/internal/chess"
	chesserrors "github.com/lgbarn/chessrules-go/internal/errors"
)

func sq(t testing.TB, name string) chess.Square {
	t.Helper()
	s, ok := chess.ParseSquare(name)
	if !ok {
		t.Fatalf("ParseSquare(%q) failed", name)
	}
	return s
}

func mustBoard(t testing.TB, fen string) *chess.Board {
	t.Helper()
	board, err := NewBoardFromFEN(fen)
	if err != nil {
		t.Fatalf("NewBoardFromFEN(%q) failed: %v", fen, err)
	}
	return board
}

func TestNewBoardFromFEN(t *testing.T) {
	tests := []struct {
		name    string
		fen     string
		checkFn func(*testing.T, *chess.Board) bool
	}{
		{
			name: "initial position",
			fen:  InitialFEN,
			checkFn: func(t *testing.T, b *chess.Board) bool {
				return b.Get(sq(t, "e1")) == chess.W(chess.King) &&
					b.Get(sq(t, "e8")) == chess.B(chess.King) &&
					b.Get(sq(t, "e2")) == chess.W(chess.Pawn) &&
					b.Get(sq(t, "e7")) == chess.B(chess.Pawn) &&
					b.ToMove == chess.White &&
					b.Castling == chess.AllCastling
			},
		},
		{
			name: "after 1.e4",
			fen:  "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1",
			checkFn: func(t *testing.T, b *chess.Board) bool {
				return b.Get(sq(t, "e4")) == chess.W(chess.Pawn) &&
					b.Get(sq(t, "e2")) == chess.Empty &&
					b.ToMove == chess.Black &&
					b.EnPassantTarget() == sq(t, "e3")
			},
		},
		{
			name: "clocks",
			fen:  "rnbqkbnr/pp1ppppp/8/2p5/4P3/8/PPPP1PPP/RNBQKBNR w KQkq c6 0 2",
			checkFn: func(t *testing.T, b *chess.Board) bool {
				return b.HalfmoveClock == 0 && b.MoveNumber == 2 && b.EnPassantTarget() == sq(t, "c6")
			},
		},
		{
			name: "missing clocks default",
			fen:  "4k3/8/8/8/8/8/8/4K3 w - -",
			checkFn: func(t *testing.T, b *chess.Board) bool {
				return b.HalfmoveClock == 0 && b.MoveNumber == 1 && b.Castling == chess.NoCastling
			},
		},
		{
			name: "partial castling rights",
			fen:  "r3k3/8/8/8/8/8/8/4K2R w Kq - 3 20",
			checkFn: func(t *testing.T, b *chess.Board) bool {
				return b.Castling == chess.WhiteKingside|chess.BlackQueenside &&
					b.HalfmoveClock == 3 && b.MoveNumber == 20
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			board := mustBoard(t, tt.fen)
			if !tt.checkFn(t, board) {
				t.Errorf("board from %q did not match expectations", tt.fen)
			}
		})
	}
}

func TestNewBoardFromFEN_Invalid(t *testing.T) {
	tests := []struct {
		name string
		fen  string
	}{
		{"empty", ""},
		{"too few fields", "4k3/8/8/8/8/8/8/4K3 w"},
		{"too many fields", "4k3/8/8/8/8/8/8/4K3 w - - 0 1 extra"},
		{"seven ranks", "rnbqkbnr/pppppppp/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"},
		{"nine files", "rnbqkbnr/ppppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"},
		{"short rank", "rnbqkbnr/ppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"},
		{"unknown piece", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNX w KQkq - 0 1"},
		{"no white king", "4k3/8/8/8/8/8/8/8 w - - 0 1"},
		{"two white kings", "4k3/8/8/8/8/8/8/3KK3 w - - 0 1"},
		{"pawn on back rank", "4k2P/8/8/8/8/8/8/4K3 w - - 0 1"},
		{"bad side to move", "4k3/8/8/8/8/8/8/4K3 x - - 0 1"},
		{"bad castling letter", "4k3/8/8/8/8/8/8/4K3 w X - 0 1"},
		{"duplicate castling letter", "r3k2r/8/8/8/8/8/8/R3K2R w KK - 0 1"},
		{"castling without rook", "4k3/8/8/8/8/8/8/4K3 w K - 0 1"},
		{"castling with moved king", "4k3/8/8/8/8/8/8/3K3R w K - 0 1"},
		{"en passant wrong rank", "4k3/8/8/8/4P3/8/8/4K3 b - e4 0 1"},
		{"en passant without pawn", "4k3/8/8/8/8/8/8/4K3 b - e3 0 1"},
		{"en passant for wrong side", "4k3/8/8/8/4P3/8/8/4K3 w - e3 0 1"},
		{"en passant with occupied origin", "4k3/8/8/8/4P3/8/4P3/4K3 b - e3 0 1"},
		{"adjacent digits", "4k3/8/8/8/44/8/8/4K3 w - - 0 1"},
		{"adjacent digits in full rank", "4k3/8/8/8/8/8/8/4K12 w - - 0 1"},
		{"bad en passant square", "4k3/8/8/8/8/8/8/4K3 w - z9 0 1"},
		{"negative halfmove clock", "4k3/8/8/8/8/8/8/4K3 w - - -1 1"},
		{"zero fullmove number", "4k3/8/8/8/8/8/8/4K3 w - - 0 0"},
		{"non-numeric clock", "4k3/8/8/8/8/8/8/4K3 w - - x 1"},
		{"side not to move in check", "4k3/8/8/8/8/8/8/4R1K1 w - - 0 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			board, err := NewBoardFromFEN(tt.fen)
			if err == nil {
				t.Fatalf("NewBoardFromFEN(%q) = %v, want error", tt.fen, BoardToFEN(board))
			}
			if !errors.Is(err, chesserrors.ErrInvalidFEN) {
				t.Errorf("error %v does not wrap ErrInvalidFEN", err)
			}
		})
	}
}

func TestBoardToFEN_RoundTrip(t *testing.T) {
	fens := []string{
		InitialFEN,
		"rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1",
		"rnbqkbnr/pp1ppppp/8/2p5/4P3/8/PPPP1PPP/RNBQKBNR w KQkq c6 0 2",
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
		"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
		"8/8/8/4k3/8/4K3/8/8 b - - 99 150",
	}

	for _, fen := range fens {
		t.Run(fen, func(t *testing.T) {
			if got := BoardToFEN(mustBoard(t, fen)); got != fen {
				t.Errorf("BoardToFEN() = %q, want %q", got, fen)
			}
		})
	}
}

func TestBoardToFEN_Initial(t *testing.T) {
	if got := BoardToFEN(NewInitialBoard()); got != InitialFEN {
		t.Errorf("BoardToFEN(NewInitialBoard()) = %q, want %q", got, InitialFEN)
	}
}

func TestPositionKey(t *testing.T) {
	want := "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq -"
	if got := PositionKey(NewInitialBoard()); got != want {
		t.Errorf("PositionKey() = %q, want %q", got, want)
	}

	// Clocks do not take part in the key.
	a := mustBoard(t, "4k3/8/8/8/8/8/8/4K3 w - - 0 1")
	b := mustBoard(t, "4k3/8/8/8/8/8/8/4K3 w - - 12 40")
	if PositionKey(a) != PositionKey(b) {
		t.Errorf("PositionKey differs only by clocks: %q vs %q", PositionKey(a), PositionKey(b))
	}
}

func TestNewBoardForGame(t *testing.T) {
	game := chess.NewGame()
	board, err := NewBoardForGame(game)
	if err != nil {
		t.Fatalf("NewBoardForGame() error = %v", err)
	}
	if BoardToFEN(board) != InitialFEN {
		t.Errorf("NewBoardForGame() without FEN tag = %q, want initial position", BoardToFEN(board))
	}

	game.SetTag(chess.FENTag, "4k3/8/8/8/8/8/8/4K3 w - - 0 1")
	board, err = NewBoardForGame(game)
	if err != nil {
		t.Fatalf("NewBoardForGame() error = %v", err)
	}
	if board.Get(sq(t, "d1")) != chess.Empty || board.Get(sq(t, "e1")) != chess.W(chess.King) {
		t.Errorf("NewBoardForGame() did not honour the FEN tag")
	}

	game.SetTag(chess.FENTag, "not a fen")
	if _, err := NewBoardForGame(game); !errors.Is(err, chesserrors.ErrInvalidFEN) {
		t.Errorf("NewBoardForGame() with bad FEN error = %v, want ErrInvalidFEN", err)
	}
}
