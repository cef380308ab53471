package notation

import (
	"fmt"
	"strings"

	"github.com/lgbarn/chessrules-go/internal/chess"
	"github.com/lgbarn/chessrules-go/internal/engine"
	"github.com/lgbarn/chessrules-go/internal/errors"
)

// ParseUCI splits a coordinate move such as "e2e4" or "e7e8q" into its
// origin, destination and promotion piece. It does not check legality.
func ParseUCI(text string) (from, to chess.Square, promotion chess.Piece, err error) {
	s := strings.TrimSpace(text)
	if len(s) != 4 && len(s) != 5 {
		return chess.NoSquare, chess.NoSquare, chess.Empty, fmt.Errorf("%q: %w", text, errors.ErrInvalidSAN)
	}

	var ok bool
	if from, ok = chess.ParseSquare(strings.ToLower(s[0:2])); !ok {
		return chess.NoSquare, chess.NoSquare, chess.Empty, fmt.Errorf("%q: bad origin: %w", text, errors.ErrInvalidSAN)
	}
	if to, ok = chess.ParseSquare(strings.ToLower(s[2:4])); !ok {
		return chess.NoSquare, chess.NoSquare, chess.Empty, fmt.Errorf("%q: bad destination: %w", text, errors.ErrInvalidSAN)
	}

	if len(s) == 5 {
		switch s[4] {
		case 'q', 'r', 'b', 'n', 'Q', 'R', 'B', 'N':
			promotion = engine.ConvertFENCharToPiece(s[4])
		default:
			return chess.NoSquare, chess.NoSquare, chess.Empty, fmt.Errorf("%q: bad promotion piece: %w", text, errors.ErrInvalidSAN)
		}
	}
	return from, to, promotion, nil
}

// ParseMove accepts either coordinate notation or SAN and resolves it to
// a legal move of the board.
func ParseMove(board *chess.Board, text string) (chess.Move, error) {
	if from, to, promo, err := ParseUCI(text); err == nil {
		return engine.MatchMove(board, from, to, promo)
	}
	return ParseSAN(board, text)
}

// ParsePromotion maps a promotion name or letter ("q", "queen", "N") to a
// piece type. The empty string gives Empty.
func ParsePromotion(s string) (chess.Piece, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return chess.Empty, nil
	case "q", "queen":
		return chess.Queen, nil
	case "r", "rook":
		return chess.Rook, nil
	case "b", "bishop":
		return chess.Bishop, nil
	case "n", "knight":
		return chess.Knight, nil
	default:
		return chess.Empty, fmt.Errorf("promotion %q: %w", s, errors.ErrInvalidSAN)
	}
}
