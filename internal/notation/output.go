package notation

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/lgbarn/chessrules-go/internal/chess"
	"github.com/lgbarn/chessrules-go/internal/engine"
)

// DefaultLineLength is the movetext wrap column used when none is given.
const DefaultLineLength = 80

// OutputWriter handles formatted output with line length control.
type OutputWriter struct {
	w             io.Writer
	lineLength    int
	maxLineLength int
	needsSpace    bool
	err           error
}

// NewOutputWriter creates a new output writer.
func NewOutputWriter(w io.Writer, maxLineLength int) *OutputWriter {
	if maxLineLength <= 0 {
		maxLineLength = DefaultLineLength
	}
	return &OutputWriter{
		w:             w,
		maxLineLength: maxLineLength,
	}
}

// Write writes a token, preceded by a space or a line break as the
// line length allows.
func (o *OutputWriter) Write(s string) {
	if o.needsSpace && len(s) > 0 {
		if o.lineLength+1+len(s) > o.maxLineLength {
			o.print("\n")
			o.lineLength = 0
		} else {
			o.print(" ")
			o.lineLength++
		}
	}

	o.print(s)
	o.lineLength += len(s)
	o.needsSpace = true
}

// NewLine starts a new line.
func (o *OutputWriter) NewLine() {
	o.print("\n")
	o.lineLength = 0
	o.needsSpace = false
}

// Err returns the first error met while writing.
func (o *OutputWriter) Err() error {
	return o.err
}

func (o *OutputWriter) print(s string) {
	if o.err != nil {
		return
	}
	_, o.err = io.WriteString(o.w, s)
}

// WritePGN writes a game as PGN: the seven tag roster (missing values as
// "?"), the SetUp and FEN tags for a non-standard start, the remaining
// tags sorted by name, a blank line and the numbered movetext ending in
// the result. The Result tag always agrees with game.Result.
func WritePGN(w io.Writer, game *chess.Game, lineLength int) error {
	result := game.Result
	if !chess.IsResultToken(result) {
		result = chess.InProgress
	}

	if err := writeTags(w, game, result); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return err
	}
	return writeMoves(w, game, result, lineLength)
}

func writeTags(w io.Writer, game *chess.Game, result string) error {
	var sb strings.Builder

	for _, tag := range chess.SevenTagRoster {
		value := game.GetTag(tag)
		if tag == chess.ResultTag {
			value = result
		}
		if value == "" {
			value = "?"
		}
		fmt.Fprintf(&sb, "[%s \"%s\"]\n", tag, escapeTagValue(value))
	}

	fen := game.FEN()
	if fen != "" && fen != engine.InitialFEN {
		fmt.Fprintf(&sb, "[%s \"1\"]\n", chess.SetupTag)
		fmt.Fprintf(&sb, "[%s \"%s\"]\n", chess.FENTag, escapeTagValue(fen))
	}

	var extra []string
	for tag := range game.Tags {
		if chess.IsSevenTagRosterTag(tag) || tag == chess.SetupTag || tag == chess.FENTag {
			continue
		}
		extra = append(extra, tag)
	}
	sort.Strings(extra)
	for _, tag := range extra {
		fmt.Fprintf(&sb, "[%s \"%s\"]\n", tag, escapeTagValue(game.Tags[tag]))
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// escapeTagValue escapes special characters in tag values.
func escapeTagValue(s string) string {
	if !strings.ContainsAny(s, "\\\"") {
		return s
	}
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	return s
}

// writeMoves writes numbered movetext. Numbering follows the starting
// position of the game: its full-move number and side to move.
func writeMoves(w io.Writer, game *chess.Game, result string, lineLength int) error {
	ow := NewOutputWriter(w, lineLength)

	moveNum := uint(1)
	isWhite := true
	if fen := game.FEN(); fen != "" {
		if board, err := engine.NewBoardFromFEN(fen); err == nil {
			moveNum = board.MoveNumber
			isWhite = board.ToMove == chess.White
		}
	}

	for i, san := range game.Moves {
		if isWhite {
			ow.Write(fmt.Sprintf("%d.", moveNum))
		} else if i == 0 {
			ow.Write(fmt.Sprintf("%d...", moveNum))
		}
		ow.Write(san)

		if !isWhite {
			moveNum++
		}
		isWhite = !isWhite
	}

	ow.Write(result)
	ow.NewLine()
	return ow.Err()
}
