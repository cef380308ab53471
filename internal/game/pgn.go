package game

import (
	"fmt"
	"io"
	"strings"

	"github.com/lgbarn/chessrules-go/internal/chess"
	"github.com/lgbarn/chessrules-go/internal/engine"
	"github.com/lgbarn/chessrules-go/internal/errors"
	"github.com/lgbarn/chessrules-go/internal/notation"
	"github.com/lgbarn/chessrules-go/internal/parser"
)

// Record returns the game as a PGN record carrying the given tags. The
// result is taken from the game status, and a FEN tag is added when the
// game did not start from the standard position.
func (g *Game) Record(tags map[string]string) *chess.Game {
	record := chess.NewGame()
	for name, value := range tags {
		record.SetTag(name, value)
	}
	if g.startFEN != engine.InitialFEN {
		record.SetTag(chess.FENTag, g.startFEN)
	} else if record.FEN() != "" {
		delete(record.Tags, chess.FENTag)
	}
	record.Moves = g.SANMoves()
	record.Result = g.Result()
	record.SetTag(chess.ResultTag, record.Result)
	return record
}

// PGN renders the game as PGN text with the given tags.
func (g *Game) PGN(tags map[string]string) string {
	var sb strings.Builder
	_ = g.WritePGN(&sb, tags, notation.DefaultLineLength)
	return sb.String()
}

// WritePGN writes the game as PGN, wrapping movetext at lineLength.
func (g *Game) WritePGN(w io.Writer, tags map[string]string, lineLength int) error {
	return notation.WritePGN(w, g.Record(tags), lineLength)
}

// LoadPGN replaces the game with the first game read from r, replaying
// its moves from the starting position or its FEN tag. On error the
// current game is left untouched.
func (g *Game) LoadPGN(r io.Reader) error {
	record, err := parser.NewParser(r).ParseGame()
	if err != nil {
		return err
	}
	if record == nil {
		return fmt.Errorf("no game found: %w", errors.ErrParseFailure)
	}

	replayed, err := FromRecord(record, WithLogger(g.logger))
	if err != nil {
		return err
	}
	*g = *replayed
	return nil
}

// FromRecord replays a PGN record into a new game. The first move that
// does not replay is reported as a *errors.MoveError.
func FromRecord(record *chess.Game, opts ...Option) (*Game, error) {
	g := New(opts...)
	board, err := engine.NewBoardForGame(record)
	if err != nil {
		return nil, err
	}
	g.start(board)

	for _, san := range record.Moves {
		if _, err := g.MakeMoveSAN(san); err != nil {
			return nil, err
		}
	}
	return g, nil
}
