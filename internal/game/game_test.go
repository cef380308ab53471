package game_test

import (
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/lgbarn/chessrules-go/internal/chess"
	"github.com/lgbarn/chessrules-go/internal/engine"
	chesserrors "github.com/lgbarn/chessrules-go/internal/errors"
	"github.com/lgbarn/chessrules-go/internal/game"
	"github.com/lgbarn/chessrules-go/internal/testutil"
)

func sq(t *testing.T, name string) chess.Square {
	t.Helper()
	s, ok := chess.ParseSquare(name)
	if !ok {
		t.Fatalf("bad square %q", name)
	}
	return s
}

func TestNew_StartingPosition(t *testing.T) {
	g := game.New()

	testutil.AssertEqual(t, g.FEN(), engine.InitialFEN)
	testutil.AssertEqual(t, g.StartFEN(), engine.InitialFEN)
	testutil.AssertEqual(t, len(g.LegalMoves()), 20)
	testutil.AssertEqual(t, g.Turn(), chess.White)
	testutil.AssertEqual(t, g.Status(), game.InProgress)
	testutil.AssertEqual(t, g.Result(), "*")
	testutil.AssertEqual(t, g.RepetitionCount(), 1)
	testutil.AssertFalse(t, g.IsGameOver())
}

func TestMakeMove_Basic(t *testing.T) {
	g := game.New()

	entry, err := g.MakeMove(sq(t, "e2"), sq(t, "e4"), chess.Empty)
	if err != nil {
		t.Fatalf("MakeMove(e2e4) error = %v", err)
	}
	testutil.AssertEqual(t, entry.SAN, "e4")
	testutil.AssertEqual(t, entry.Moved, chess.W(chess.Pawn))
	testutil.AssertEqual(t, entry.Undo.Castling, chess.CastlingRights(chess.AllCastling))
	testutil.AssertEqual(t, g.FEN(), "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1")
	testutil.AssertEqual(t, g.PlyCount(), 1)
}

func TestMakeMove_Rejected(t *testing.T) {
	tests := []struct {
		name      string
		fen       string
		from, to  string
		promotion chess.Piece
		wantErr   error
	}{
		{"empty square", engine.InitialFEN, "e4", "e5", chess.Empty, chesserrors.ErrIllegalMove},
		{"wrong colour", engine.InitialFEN, "e7", "e5", chess.Empty, chesserrors.ErrIllegalMove},
		{"not a legal destination", engine.InitialFEN, "e2", "e5", chess.Empty, chesserrors.ErrIllegalMove},
		{"leaves king in check", "4k3/4r3/8/8/8/8/4B3/4K3 w - - 0 1", "e2", "d3", chess.Empty, chesserrors.ErrIllegalMove},
		{"promotion missing", "7k/4P3/8/8/8/8/8/4K3 w - - 0 1", "e7", "e8", chess.Empty, chesserrors.ErrAmbiguousPromotion},
		{"promotion on ordinary move", engine.InitialFEN, "e2", "e4", chess.Queen, chesserrors.ErrIllegalMove},
		{"promotion to king", "7k/4P3/8/8/8/8/8/4K3 w - - 0 1", "e7", "e8", chess.King, chesserrors.ErrIllegalMove},
		{"game over", "8/8/8/4k3/8/4K3/8/8 w - - 0 1", "e3", "d3", chess.Empty, chesserrors.ErrGameOver},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := testutil.MustLoadFEN(t, tt.fen)
			before := g.FEN()

			entry, err := g.MakeMove(sq(t, tt.from), sq(t, tt.to), tt.promotion)
			testutil.AssertNil(t, entry)
			testutil.AssertErrorIs(t, err, tt.wantErr)

			var moveErr *chesserrors.MoveError
			if !errors.As(err, &moveErr) {
				t.Fatalf("error %v is not a *MoveError", err)
			}
			testutil.AssertEqual(t, moveErr.PlyNum, 1)
			testutil.AssertEqual(t, moveErr.FEN, before)

			testutil.AssertEqual(t, g.FEN(), before, "position changed by a rejected move")
			testutil.AssertEqual(t, g.PlyCount(), 0)
		})
	}
}

func TestMakeMoveUCIAndSAN(t *testing.T) {
	g := game.New()

	if _, err := g.MakeMoveUCI("g1f3"); err != nil {
		t.Fatalf("MakeMoveUCI error = %v", err)
	}
	if _, err := g.MakeMoveSAN("Nf6"); err != nil {
		t.Fatalf("MakeMoveSAN error = %v", err)
	}
	testutil.AssertEqual(t, g.SANMoves(), []string{"Nf3", "Nf6"})
	testutil.AssertEqual(t, g.UCIMoves(), []string{"g1f3", "g8f6"})

	_, err := g.MakeMoveUCI("g1")
	testutil.AssertErrorIs(t, err, chesserrors.ErrInvalidSAN)
	_, err = g.MakeMoveSAN("Qxf7")
	testutil.AssertErrorIs(t, err, chesserrors.ErrIllegalMove)
}

func TestScholarsMate(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	g := game.New(game.WithLogger(zap.New(core)))

	testutil.MustPlay(t, g, "e2e4", "e7e5", "Bc4", "Nc6", "Qh5", "Nf6", "Qxf7#")

	testutil.AssertTrue(t, g.IsCheckmate())
	testutil.AssertTrue(t, g.IsGameOver())
	testutil.AssertTrue(t, g.IsCheck())
	testutil.AssertFalse(t, g.IsDraw())
	testutil.AssertEqual(t, g.Status(), game.Checkmate)
	testutil.AssertEqual(t, g.Result(), chess.WhiteWins)

	winner, ok := g.Winner()
	testutil.AssertTrue(t, ok)
	testutil.AssertEqual(t, winner, chess.White)

	board := g.Board()
	testutil.AssertEqual(t, len(engine.AllLegalMoves(&board)), 0)
	testutil.AssertEqual(t, len(g.LegalMoves()), 0)

	last := g.History()[g.PlyCount()-1]
	testutil.AssertEqual(t, last.SAN, "Qxf7#")
	testutil.AssertTrue(t, last.IsCheckmate())
	testutil.AssertEqual(t, last.Captured, chess.B(chess.Pawn))

	_, err := g.MakeMoveSAN("Ke7")
	testutil.AssertErrorIs(t, err, chesserrors.ErrGameOver)

	testutil.AssertEqual(t, logs.FilterMessage("game over").Len(), 1)
}

func TestStalemate(t *testing.T) {
	g := testutil.MustLoadFEN(t, "7k/8/8/5Q2/8/8/8/K7 w - - 0 1")
	testutil.MustPlay(t, g, "Qg6")

	testutil.AssertTrue(t, g.IsStalemate())
	testutil.AssertFalse(t, g.IsCheckmate())
	testutil.AssertFalse(t, g.IsCheck())
	testutil.AssertTrue(t, g.IsDraw())
	testutil.AssertEqual(t, g.Result(), chess.DrawResult)

	_, ok := g.Winner()
	testutil.AssertFalse(t, ok)
}

func TestLoneKingsAreDrawn(t *testing.T) {
	g := testutil.MustLoadFEN(t, "8/8/8/4k3/8/4K3/8/8 w - - 0 1")

	testutil.AssertTrue(t, g.IsDraw())
	testutil.AssertEqual(t, g.Status(), game.DrawByInsufficientMaterial)
	testutil.AssertNil(t, g.LegalMoves())
}

func TestInsufficientMaterialAfterCapture(t *testing.T) {
	g := testutil.MustLoadFEN(t, "4k3/8/8/8/8/8/3q4/4K3 w - - 0 1")
	testutil.AssertFalse(t, g.IsDraw())

	testutil.MustPlay(t, g, "Kxd2")
	testutil.AssertEqual(t, g.Status(), game.DrawByInsufficientMaterial)
}

func TestFiftyMoveRule(t *testing.T) {
	g := testutil.MustLoadFEN(t, "4k3/8/8/8/8/8/8/R3K3 w - - 99 80")
	testutil.AssertEqual(t, g.Status(), game.InProgress)

	testutil.MustPlay(t, g, "Ra2")
	testutil.AssertEqual(t, g.Status(), game.DrawByFiftyMove)

	if _, err := g.Undo(); err != nil {
		t.Fatalf("Undo error = %v", err)
	}
	testutil.AssertEqual(t, g.Status(), game.InProgress)
}

func TestThreefoldRepetition(t *testing.T) {
	g := game.New()
	shuffle := []string{"Nf3", "Nf6", "Ng1", "Ng8"}

	for ply := 0; ply < 8; ply++ {
		testutil.MustPlay(t, g, shuffle[ply%4])
		if ply < 7 {
			testutil.AssertFalse(t, g.IsDraw(), "draw declared at ply %d", ply+1)
		}
	}

	testutil.AssertEqual(t, g.Status(), game.DrawByRepetition)
	testutil.AssertEqual(t, g.RepetitionCount(), 3)
	testutil.AssertEqual(t, g.Result(), chess.DrawResult)

	if _, err := g.Undo(); err != nil {
		t.Fatalf("Undo error = %v", err)
	}
	testutil.AssertEqual(t, g.Status(), game.InProgress)
	testutil.AssertEqual(t, g.RepetitionCount(), 2)
}

func TestRepetitionRespectsCastlingRights(t *testing.T) {
	g := game.New()
	testutil.MustPlay(t, g, "e4", "e5")
	afterPawns := g.FEN()

	cycle := []string{"Ke2", "Ke7", "Ke1", "Ke8"}
	testutil.MustPlay(t, g, cycle...)
	testutil.AssertEqual(t, g.RepetitionCount(), 1, "lost castling rights make a new position")
	testutil.AssertTrue(t, g.FEN() != afterPawns)

	testutil.MustPlay(t, g, cycle...)
	testutil.AssertEqual(t, g.RepetitionCount(), 2)
	testutil.AssertFalse(t, g.IsDraw())

	testutil.MustPlay(t, g, cycle...)
	testutil.AssertEqual(t, g.Status(), game.DrawByRepetition)
}

func TestEnPassantWindow(t *testing.T) {
	const fen = "4k3/8/8/8/3p4/8/4P3/4K3 w - - 0 1"

	t.Run("capture immediately", func(t *testing.T) {
		g := testutil.MustLoadFEN(t, fen)
		testutil.MustPlay(t, g, "e2e4")

		entry, err := g.MakeMoveUCI("d4e3")
		if err != nil {
			t.Fatalf("en passant rejected: %v", err)
		}
		testutil.AssertEqual(t, entry.SAN, "dxe3")
		testutil.AssertEqual(t, entry.Captured, chess.W(chess.Pawn))
		testutil.AssertEqual(t, entry.CapturedOn, sq(t, "e4"))
		testutil.AssertEqual(t, g.FEN(), "4k3/8/8/8/8/4p3/8/4K3 w - - 0 2")

		if _, err := g.Undo(); err != nil {
			t.Fatalf("Undo error = %v", err)
		}
		testutil.AssertEqual(t, g.FEN(), "4k3/8/8/8/3pP3/8/8/4K3 b - e3 0 1")
	})

	t.Run("window closes after one ply", func(t *testing.T) {
		g := testutil.MustLoadFEN(t, fen)
		testutil.MustPlay(t, g, "e2e4", "Kd7", "Kd1")

		_, err := g.MakeMoveUCI("d4e3")
		testutil.AssertErrorIs(t, err, chesserrors.ErrIllegalMove)
	})
}

func TestCastling(t *testing.T) {
	const fen = "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1"

	t.Run("both sides legal", func(t *testing.T) {
		g := testutil.MustLoadFEN(t, fen)
		testutil.MustPlay(t, g, "O-O", "O-O-O")
		testutil.AssertEqual(t, g.FEN(), "2kr3r/8/8/8/8/8/8/R4RK1 w - - 2 2")
		testutil.AssertEqual(t, g.SANMoves(), []string{"O-O", "O-O-O"})
	})

	t.Run("rook move clears one right", func(t *testing.T) {
		g := testutil.MustLoadFEN(t, fen)
		testutil.MustPlay(t, g, "h1h2")
		testutil.AssertContains(t, g.FEN(), " Qkq ")

		testutil.MustPlay(t, g, "Rh7", "h2h1", "h7h8")
		testutil.AssertContains(t, g.FEN(), " Qq ")
		_, err := g.MakeMoveUCI("e1g1")
		testutil.AssertErrorIs(t, err, chesserrors.ErrIllegalMove)
	})

	t.Run("captured rook clears the owner's right", func(t *testing.T) {
		g := testutil.MustLoadFEN(t, fen)
		testutil.MustPlay(t, g, "Rxa8+")
		testutil.AssertContains(t, g.FEN(), " Kk ")
	})

	t.Run("undo restores exact rights", func(t *testing.T) {
		g := testutil.MustLoadFEN(t, fen)
		testutil.MustPlay(t, g, "Kf1")
		testutil.AssertContains(t, g.FEN(), " kq ")
		if _, err := g.Undo(); err != nil {
			t.Fatalf("Undo error = %v", err)
		}
		testutil.AssertEqual(t, g.FEN(), fen)
	})

	t.Run("not through an attacked square", func(t *testing.T) {
		g := testutil.MustLoadFEN(t, "4k3/8/8/8/8/8/5r2/R3K2R w KQ - 0 1")
		_, err := g.MakeMoveUCI("e1g1")
		testutil.AssertErrorIs(t, err, chesserrors.ErrIllegalMove)

		testutil.MustPlay(t, g, "e1c1")
		board := g.Board()
		testutil.AssertEqual(t, board.Get(sq(t, "d1")), chess.W(chess.Rook))
	})

	t.Run("not out of check", func(t *testing.T) {
		g := testutil.MustLoadFEN(t, "4k3/8/8/8/8/8/4r3/R3K2R w KQ - 0 1")
		for _, uci := range []string{"e1g1", "e1c1"} {
			_, err := g.MakeMoveUCI(uci)
			testutil.AssertErrorIs(t, err, chesserrors.ErrIllegalMove, uci)
		}
	})
}

func TestPromotion(t *testing.T) {
	g := testutil.MustLoadFEN(t, "7k/4P3/8/8/8/8/8/4K3 w - - 0 1")

	entry, err := g.MakeMove(sq(t, "e7"), sq(t, "e8"), chess.Queen)
	if err != nil {
		t.Fatalf("MakeMove error = %v", err)
	}
	testutil.AssertEqual(t, entry.SAN, "e8=Q+")
	testutil.AssertTrue(t, entry.IsCheck())
	board := g.Board()
	testutil.AssertEqual(t, board.Get(sq(t, "e8")), chess.W(chess.Queen))
}

// TestMakeUndoRestoresFEN plays and takes back every legal move of a
// set of positions, checking the position is restored exactly.
func TestMakeUndoRestoresFEN(t *testing.T) {
	fens := []string{
		engine.InitialFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
		"rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq f6 0 3",
	}

	for _, fen := range fens {
		t.Run(fen, func(t *testing.T) {
			g := testutil.MustLoadFEN(t, fen)
			for _, m := range g.LegalMoves() {
				if _, err := g.Move(m); err != nil {
					t.Fatalf("Move(%s) error = %v", m, err)
				}
				if _, err := g.Undo(); err != nil {
					t.Fatalf("Undo after %s error = %v", m, err)
				}
				if got := g.FEN(); got != fen {
					t.Fatalf("after %s and undo FEN = %q, want %q", m, got, fen)
				}
				testutil.AssertEqual(t, g.RepetitionCount(), 1)
			}
		})
	}
}

// TestFENRoundTrip plays a deterministic game and checks every position
// reloads to the same FEN.
func TestFENRoundTrip(t *testing.T) {
	g := game.New()
	for ply := 0; ply < 80 && !g.IsGameOver(); ply++ {
		moves := g.LegalMoves()
		testutil.MustPlay(t, g, moves[(ply*11+3)%len(moves)].UCI())

		reloaded := testutil.MustLoadFEN(t, g.FEN())
		testutil.AssertEqual(t, reloaded.FEN(), g.FEN())
	}
}

func TestUndoRedo(t *testing.T) {
	g := game.New()

	_, err := g.Undo()
	testutil.AssertErrorIs(t, err, chesserrors.ErrNoHistory)
	_, err = g.Redo()
	testutil.AssertErrorIs(t, err, chesserrors.ErrNoHistory)

	testutil.MustPlay(t, g, "e4", "e5", "Nf3")
	afterThree := g.FEN()
	for i := 0; i < 3; i++ {
		if _, err := g.Undo(); err != nil {
			t.Fatalf("Undo %d error = %v", i, err)
		}
	}
	testutil.AssertEqual(t, g.FEN(), engine.InitialFEN)

	entry, err := g.Redo()
	if err != nil {
		t.Fatalf("Redo error = %v", err)
	}
	testutil.AssertEqual(t, entry.SAN, "e4")
	testutil.AssertTrue(t, g.CanRedo(), "redo must keep the remaining undone moves")

	for g.CanRedo() {
		if _, err := g.Redo(); err != nil {
			t.Fatalf("Redo error = %v", err)
		}
	}
	testutil.AssertEqual(t, g.FEN(), afterThree)

	// A new move discards the redo stack.
	if _, err := g.Undo(); err != nil {
		t.Fatalf("Undo error = %v", err)
	}
	testutil.MustPlay(t, g, "Nc3")
	testutil.AssertFalse(t, g.CanRedo())
}

func TestUndoFromCheckmate(t *testing.T) {
	g := game.New()
	testutil.MustPlay(t, g, "f3", "e5", "g4", "Qh4#")
	testutil.AssertTrue(t, g.IsCheckmate())

	if _, err := g.Undo(); err != nil {
		t.Fatalf("Undo error = %v", err)
	}
	testutil.AssertEqual(t, g.Status(), game.InProgress)
	testutil.MustPlay(t, g, "Nc6")
}

func TestLoadFEN(t *testing.T) {
	g := game.New()
	testutil.MustPlay(t, g, "e4")
	before := g.FEN()

	err := g.LoadFEN("not a fen")
	testutil.AssertErrorIs(t, err, chesserrors.ErrInvalidFEN)
	testutil.AssertEqual(t, g.FEN(), before, "failed LoadFEN must keep the position")
	testutil.AssertEqual(t, g.PlyCount(), 1)

	const fen = "4k3/8/8/8/8/8/4P3/4K3 w - - 0 1"
	testutil.AssertNoError(t, g.LoadFEN(fen))
	testutil.AssertEqual(t, g.FEN(), fen)
	testutil.AssertEqual(t, g.PlyCount(), 0)
	testutil.AssertEqual(t, g.RepetitionCount(), 1)
	testutil.AssertFalse(t, g.CanRedo())

	g.Reset()
	testutil.AssertEqual(t, g.FEN(), engine.InitialFEN)
}

func TestLegalMovesFrom(t *testing.T) {
	g := game.New()

	testutil.AssertEqual(t, len(g.LegalMovesFrom(sq(t, "g1"))), 2)
	testutil.AssertEqual(t, len(g.LegalMovesFrom(sq(t, "e2"))), 2)
	testutil.AssertEqual(t, len(g.LegalMovesFrom(sq(t, "e4"))), 0)
	testutil.AssertEqual(t, len(g.LegalMovesFrom(sq(t, "g8"))), 0, "black pieces cannot move on White's turn")
}

func TestPGN(t *testing.T) {
	g := game.New()
	testutil.MustPlay(t, g, "e4", "e5", "Bc4", "Nc6", "Qh5", "Nf6", "Qxf7#")

	pgn := g.PGN(map[string]string{"White": "Fischer", "Black": "Spassky", "Result": "*"})
	testutil.AssertContains(t, pgn, `[White "Fischer"]`)
	testutil.AssertContains(t, pgn, `[Result "1-0"]`)
	testutil.AssertContains(t, pgn, "1. e4 e5 2. Bc4 Nc6 3. Qh5 Nf6 4. Qxf7# 1-0\n")
	testutil.AssertNotContains(t, pgn, "[FEN")

	loaded := game.New()
	if err := loaded.LoadPGN(strings.NewReader(pgn)); err != nil {
		t.Fatalf("LoadPGN error = %v", err)
	}
	testutil.AssertEqual(t, loaded.FEN(), g.FEN())
	testutil.AssertEqual(t, loaded.SANMoves(), g.SANMoves())
	testutil.AssertTrue(t, loaded.IsCheckmate())
}

func TestPGN_FromPosition(t *testing.T) {
	const fen = "4k3/8/8/8/8/8/4P3/4K3 b - - 0 30"
	g := testutil.MustLoadFEN(t, fen)
	testutil.MustPlay(t, g, "Kd7", "e4")

	pgn := g.PGN(nil)
	testutil.AssertContains(t, pgn, `[SetUp "1"]`)
	testutil.AssertContains(t, pgn, `[FEN "`+fen+`"]`)
	testutil.AssertContains(t, pgn, "30... Kd7 31. e4 *")

	loaded := game.New()
	testutil.AssertNoError(t, loaded.LoadPGN(strings.NewReader(pgn)))
	testutil.AssertEqual(t, loaded.StartFEN(), fen)
	testutil.AssertEqual(t, loaded.FEN(), g.FEN())
}

func TestLoadPGN_Errors(t *testing.T) {
	tests := []struct {
		name    string
		pgn     string
		wantErr error
	}{
		{"no game", "", chesserrors.ErrParseFailure},
		{"malformed", "1. e4 @", chesserrors.ErrParseFailure},
		{"illegal move", "1. e4 e5 2. Ke3 *", chesserrors.ErrIllegalMove},
		{"bad FEN tag", "[FEN \"8/8/8/8/8/8/8/8 w - - 0 1\"]\n\n*", chesserrors.ErrInvalidFEN},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := game.New()
			testutil.MustPlay(t, g, "d4")
			before := g.FEN()

			err := g.LoadPGN(strings.NewReader(tt.pgn))
			testutil.AssertErrorIs(t, err, tt.wantErr)
			testutil.AssertEqual(t, g.FEN(), before)
		})
	}
}

func TestStatusString(t *testing.T) {
	tests := map[game.Status]string{
		game.InProgress:                 "in_progress",
		game.Checkmate:                  "checkmate",
		game.Stalemate:                  "stalemate",
		game.DrawByRepetition:           "draw_by_repetition",
		game.DrawByFiftyMove:            "draw_by_fifty_move",
		game.DrawByInsufficientMaterial: "draw_by_insufficient_material",
		game.Status(42):                 "unknown",
	}
	for status, want := range tests {
		testutil.AssertEqual(t, status.String(), want)
	}
}

func TestClone(t *testing.T) {
	g := game.New()
	testutil.MustPlay(t, g, "e4", "e5", "Nf3")
	if _, err := g.Undo(); err != nil {
		t.Fatalf("Undo error = %v", err)
	}
	fen := g.FEN()

	c := g.Clone()
	testutil.MustPlay(t, c, "Nc3", "Nc6")
	if _, err := c.Undo(); err != nil {
		t.Fatalf("Undo error = %v", err)
	}

	testutil.AssertEqual(t, g.FEN(), fen)
	testutil.AssertEqual(t, g.SANMoves(), []string{"e4", "e5"})
	testutil.AssertTrue(t, g.CanRedo(), "original keeps its redo stack")
	testutil.AssertEqual(t, g.RepetitionCount(), 1)

	entry, err := g.Redo()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, entry.SAN, "Nf3")
	testutil.AssertEqual(t, c.SANMoves(), []string{"e4", "e5", "Nc3"})
}
