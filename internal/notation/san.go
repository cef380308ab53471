// Package notation converts moves and games to and from text: Standard
// Algebraic Notation, coordinate (UCI) notation, PGN and JSON.
package notation

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/lgbarn/chessrules-go/internal/chess"
	"github.com/lgbarn/chessrules-go/internal/engine"
	"github.com/lgbarn/chessrules-go/internal/errors"
)

// Castling move text.
const (
	KingsideCastleSAN  = "O-O"
	QueensideCastleSAN = "O-O-O"
)

// SAN returns the Standard Algebraic Notation of a legal move on the
// board it is about to be played on. The check or mate suffix is not
// included; it depends on the position after the move.
func SAN(board *chess.Board, m chess.Move) string {
	switch m.Class {
	case chess.KingsideCastle:
		return KingsideCastleSAN
	case chess.QueensideCastle:
		return QueensideCastleSAN
	}

	var sb strings.Builder
	piece := chess.ExtractPiece(m.Piece)

	if piece == chess.Pawn {
		if m.IsCapture() {
			sb.WriteByte(m.From.File())
			sb.WriteByte('x')
		}
		sb.WriteString(m.To.String())
		if m.Promotion != chess.Empty {
			sb.WriteByte('=')
			sb.WriteByte(m.Promotion.Letter())
		}
		return sb.String()
	}

	sb.WriteByte(piece.Letter())
	sb.WriteString(disambiguation(board, m))
	if m.IsCapture() {
		sb.WriteByte('x')
	}
	sb.WriteString(m.To.String())
	return sb.String()
}

// disambiguation returns the origin file, rank or square needed to tell m
// apart from other legal moves of an identical piece to the same square.
// The file is preferred, then the rank, then both.
func disambiguation(board *chess.Board, m chess.Move) string {
	var rivals []chess.Square
	for _, other := range engine.AllLegalMoves(board) {
		if other.Piece == m.Piece && other.To == m.To && other.From != m.From {
			rivals = append(rivals, other.From)
		}
	}
	if len(rivals) == 0 {
		return ""
	}

	sameFile, sameRank := false, false
	for _, r := range rivals {
		if r.Col == m.From.Col {
			sameFile = true
		}
		if r.Row == m.From.Row {
			sameRank = true
		}
	}
	switch {
	case !sameFile:
		return string(m.From.File())
	case !sameRank:
		return string(m.From.Rank())
	default:
		return m.From.String()
	}
}

// ParseSAN resolves move text against the legal moves of the board.
// Check and annotation suffixes (+ # ! ?) are ignored, castling may be
// written with zeros, and superfluous disambiguation is accepted.
func ParseSAN(board *chess.Board, text string) (chess.Move, error) {
	s := strings.TrimRight(strings.TrimSpace(text), "+#!?")
	s = strings.ReplaceAll(s, "0", "O")
	if s == "" {
		return chess.Move{}, fmt.Errorf("empty move: %w", errors.ErrInvalidSAN)
	}

	if s == KingsideCastleSAN || s == QueensideCastleSAN {
		class := chess.KingsideCastle
		if s == QueensideCastleSAN {
			class = chess.QueensideCastle
		}
		for _, m := range engine.AllLegalMoves(board) {
			if m.Class == class {
				return m, nil
			}
		}
		return chess.Move{}, fmt.Errorf("%s: %w", text, errors.ErrIllegalMove)
	}

	pattern, err := parseSANPattern(s)
	if err != nil {
		return chess.Move{}, fmt.Errorf("%q: %w", text, err)
	}

	var matches []chess.Move
	for _, m := range engine.AllLegalMoves(board) {
		if pattern.matches(m) {
			matches = append(matches, m)
		}
	}

	switch {
	case len(matches) == 0:
		return chess.Move{}, fmt.Errorf("%s: %w", text, errors.ErrIllegalMove)
	case len(matches) == 1:
		return matches[0], nil
	case pattern.promotion == chess.Empty && matches[0].IsPromotion():
		return chess.Move{}, fmt.Errorf("%s: %w", text, errors.ErrAmbiguousPromotion)
	default:
		return chess.Move{}, fmt.Errorf("%s is ambiguous: %w", text, errors.ErrInvalidSAN)
	}
}

// sanPattern is the parsed shape of a SAN move: the piece type, the
// destination and whatever parts of the origin were given.
type sanPattern struct {
	piece     chess.Piece
	to        chess.Square
	fromFile  int // -1 if not given
	fromRank  int // -1 if not given
	promotion chess.Piece
}

func (p sanPattern) matches(m chess.Move) bool {
	if chess.ExtractPiece(m.Piece) != p.piece || m.To != p.to || m.IsCastle() {
		return false
	}
	if p.fromFile >= 0 && m.From.Col != p.fromFile {
		return false
	}
	if p.fromRank >= 0 && m.From.Row != p.fromRank {
		return false
	}
	if p.promotion != chess.Empty && m.Promotion != p.promotion {
		return false
	}
	return true
}

func parseSANPattern(s string) (sanPattern, error) {
	p := sanPattern{piece: chess.Pawn, fromFile: -1, fromRank: -1}

	// Promotion: "e8=Q", "e8=q" or "e8Q". Without the '=' the letter must
	// be uppercase, since a lowercase b is a file.
	if i := strings.IndexByte(s, '='); i >= 0 {
		if i != len(s)-2 {
			return p, errors.ErrInvalidSAN
		}
		p.promotion = promotionPiece(unicode.ToUpper(rune(s[i+1])))
		if p.promotion == chess.Empty {
			return p, errors.ErrInvalidSAN
		}
		s = s[:i]
	} else if n := len(s); n >= 3 && s[n-2] >= '1' && s[n-2] <= '8' {
		if promo := promotionPiece(rune(s[n-1])); promo != chess.Empty {
			p.promotion = promo
			s = s[:n-1]
		}
	}

	if len(s) > 0 && strings.IndexByte("KQRBN", s[0]) >= 0 {
		p.piece = engine.ConvertFENCharToPiece(s[0])
		s = s[1:]
	}
	if p.promotion != chess.Empty && p.piece != chess.Pawn {
		return p, errors.ErrInvalidSAN
	}

	if len(s) < 2 {
		return p, errors.ErrInvalidSAN
	}
	to, ok := chess.ParseSquare(s[len(s)-2:])
	if !ok {
		return p, errors.ErrInvalidSAN
	}
	p.to = to

	hints := strings.NewReplacer("x", "", ":", "", "-", "").Replace(s[:len(s)-2])
	if len(hints) > 2 {
		return p, errors.ErrInvalidSAN
	}
	for i := 0; i < len(hints); i++ {
		c := hints[i]
		switch {
		case c >= chess.FirstCol && c <= chess.LastCol:
			p.fromFile = int(c - chess.ColBase)
		case c >= chess.FirstRank && c <= chess.LastRank:
			p.fromRank = int(chess.LastRank - c)
		default:
			return p, errors.ErrInvalidSAN
		}
	}

	// A pawn move without an origin file is a push along its own file.
	if p.piece == chess.Pawn && p.fromFile < 0 {
		p.fromFile = p.to.Col
	}
	return p, nil
}

// promotionPiece maps an uppercase promotion letter to a piece type.
func promotionPiece(c rune) chess.Piece {
	switch c {
	case 'Q', 'R', 'B', 'N':
		return engine.ConvertFENCharToPiece(byte(c))
	default:
		return chess.Empty
	}
}
