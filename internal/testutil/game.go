package testutil

import (
	"strings"
	"testing"

	"github.com/lgbarn/chessrules-go/internal/chess"
	"github.com/lgbarn/chessrules-go/internal/game"
	"github.com/lgbarn/chessrules-go/internal/parser"
)

// ParseTestGames parses a PGN string and returns all games found.
// Returns nil if parsing fails or no games are found.
func ParseTestGames(pgn string) []*chess.Game {
	games, err := parser.NewParser(strings.NewReader(pgn)).ParseAllGames()
	if err != nil || len(games) == 0 {
		return nil
	}
	return games
}

// MustParseGame parses a PGN string and returns the first game.
// It calls t.Fatal if parsing fails or no games are found.
func MustParseGame(t testing.TB, pgn string) *chess.Game {
	t.Helper()
	games := ParseTestGames(pgn)
	if len(games) == 0 {
		t.Fatalf("failed to parse test game:\n%s", pgn)
	}
	return games[0]
}

// MustLoadFEN creates a game from a FEN position.
// It calls t.Fatal if the FEN is rejected.
func MustLoadFEN(t testing.TB, fen string, opts ...game.Option) *game.Game {
	t.Helper()
	g, err := game.NewFromFEN(fen, opts...)
	if err != nil {
		t.Fatalf("NewFromFEN(%q) failed: %v", fen, err)
	}
	return g
}

// MustPlay plays moves given in coordinate notation or SAN, in order.
// It calls t.Fatal on the first move that is rejected.
func MustPlay(t testing.TB, g *game.Game, moves ...string) {
	t.Helper()
	for i, text := range moves {
		var err error
		if isCoordinate(text) {
			_, err = g.MakeMoveUCI(text)
		} else {
			_, err = g.MakeMoveSAN(text)
		}
		if err != nil {
			t.Fatalf("move %d (%s) failed: %v", i+1, text, err)
		}
	}
}

// isCoordinate reports whether text looks like "e2e4" or "e7e8q".
func isCoordinate(text string) bool {
	if len(text) != 4 && len(text) != 5 {
		return false
	}
	_, ok1 := chess.ParseSquare(text[0:2])
	_, ok2 := chess.ParseSquare(text[2:4])
	return ok1 && ok2
}
