// Package engine implements the rules of chess on top of package chess:
// attack detection, move generation, move application and FEN.
package engine

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/lgbarn/chessrules-go/internal/chess"
	"github.com/lgbarn/chessrules-go/internal/errors"
)

// InitialFEN is the FEN string for the standard starting position.
const InitialFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ConvertFENCharToPiece converts a FEN character to a piece type.
func ConvertFENCharToPiece(c byte) chess.Piece {
	switch c {
	case 'K', 'k':
		return chess.King
	case 'Q', 'q':
		return chess.Queen
	case 'R', 'r':
		return chess.Rook
	case 'N', 'n':
		return chess.Knight
	case 'B', 'b':
		return chess.Bishop
	case 'P', 'p':
		return chess.Pawn
	default:
		return chess.Empty
	}
}

// ColouredPieceToFENLetter returns the FEN letter for a coloured piece,
// lowercase for Black.
func ColouredPieceToFENLetter(colouredPiece chess.Piece) byte {
	letter := chess.ExtractPiece(colouredPiece).Letter()
	if chess.ExtractColour(colouredPiece) == chess.Black {
		letter = byte(unicode.ToLower(rune(letter)))
	}
	return letter
}

// NewBoardFromFEN creates a board from a FEN string. The position is
// validated strictly; the half-move clock and full-move number may be
// omitted and then default to 0 and 1.
func NewBoardFromFEN(fen string) (*chess.Board, error) {
	parts := strings.Fields(fen)
	if len(parts) < 4 || len(parts) > 6 {
		return nil, fmt.Errorf("expected 4 to 6 fields, got %d: %w", len(parts), errors.ErrInvalidFEN)
	}

	board := chess.NewBoard()

	if err := parsePiecePositions(board, parts[0]); err != nil {
		return nil, err
	}
	if err := validatePieces(board); err != nil {
		return nil, err
	}
	if err := parseSideToMove(board, parts[1]); err != nil {
		return nil, err
	}
	if err := parseCastlingRights(board, parts[2]); err != nil {
		return nil, err
	}
	if err := parseEnPassant(board, parts[3]); err != nil {
		return nil, err
	}
	if err := parseClocks(board, parts[4:]); err != nil {
		return nil, err
	}
	if IsInCheck(board, board.ToMove.Opposite()) {
		return nil, fmt.Errorf("side not to move is in check: %w", errors.ErrInvalidFEN)
	}

	return board, nil
}

// parsePiecePositions parses the piece placement field of a FEN string.
func parsePiecePositions(board *chess.Board, positions string) error {
	ranks := strings.Split(positions, "/")
	if len(ranks) != chess.BoardSize {
		return fmt.Errorf("expected %d ranks, got %d: %w", chess.BoardSize, len(ranks), errors.ErrInvalidFEN)
	}

	for row, rank := range ranks {
		col := 0
		for i := 0; i < len(rank); i++ {
			c := rank[i]
			if c >= '1' && c <= '8' {
				if i > 0 && rank[i-1] >= '1' && rank[i-1] <= '8' {
					return fmt.Errorf("rank %c has adjacent digits: %w", chess.LastRank-row, errors.ErrInvalidFEN)
				}
				col += int(c - '0')
				continue
			}
			piece := ConvertFENCharToPiece(c)
			if piece == chess.Empty {
				return fmt.Errorf("invalid piece character %q: %w", c, errors.ErrInvalidFEN)
			}
			if col >= chess.BoardSize {
				return fmt.Errorf("rank %c has too many files: %w", chess.LastRank-row, errors.ErrInvalidFEN)
			}
			colour := chess.White
			if unicode.IsLower(rune(c)) {
				colour = chess.Black
			}
			board.Set(chess.Square{Row: row, Col: col}, chess.MakeColouredPiece(colour, piece))
			col++
		}
		if col != chess.BoardSize {
			return fmt.Errorf("rank %c does not describe %d files: %w",
				chess.LastRank-row, chess.BoardSize, errors.ErrInvalidFEN)
		}
	}
	return nil
}

// validatePieces checks the king count and that no pawn sits on a back rank.
func validatePieces(board *chess.Board) error {
	for _, colour := range []chess.Colour{chess.White, chess.Black} {
		if n := board.CountPiece(chess.MakeColouredPiece(colour, chess.King)); n != 1 {
			return fmt.Errorf("%v has %d kings: %w", colour, n, errors.ErrInvalidFEN)
		}
	}
	for _, row := range []int{0, chess.BoardSize - 1} {
		for col := 0; col < chess.BoardSize; col++ {
			if chess.ExtractPiece(board.Squares[row][col]) == chess.Pawn {
				return fmt.Errorf("pawn on %v: %w", chess.Square{Row: row, Col: col}, errors.ErrInvalidFEN)
			}
		}
	}
	return nil
}

// parseSideToMove parses the side to move field.
func parseSideToMove(board *chess.Board, side string) error {
	switch side {
	case "w":
		board.ToMove = chess.White
	case "b":
		board.ToMove = chess.Black
	default:
		return fmt.Errorf("invalid side to move %q: %w", side, errors.ErrInvalidFEN)
	}
	return nil
}

// parseCastlingRights parses the castling availability field.
func parseCastlingRights(board *chess.Board, field string) error {
	board.Castling = chess.NoCastling
	if field == "-" {
		return nil
	}

	for _, c := range field {
		var r chess.CastlingRights
		switch c {
		case 'K':
			r = chess.WhiteKingside
		case 'Q':
			r = chess.WhiteQueenside
		case 'k':
			r = chess.BlackKingside
		case 'q':
			r = chess.BlackQueenside
		default:
			return fmt.Errorf("invalid castling field %q: %w", field, errors.ErrInvalidFEN)
		}
		if board.Castling.Has(r) {
			return fmt.Errorf("duplicate castling flag %q: %w", c, errors.ErrInvalidFEN)
		}
		board.Castling |= r
	}

	if !castlingRightsConsistent(board, board.Castling) {
		return fmt.Errorf("castling rights %s without king and rook in place: %w", field, errors.ErrInvalidFEN)
	}
	return nil
}

// parseEnPassant parses the en passant target square field. The target
// must lie behind a pawn that could just have made a double push.
func parseEnPassant(board *chess.Board, field string) error {
	board.SetEnPassant(chess.NoSquare)
	if field == "-" {
		return nil
	}

	sq, ok := chess.ParseSquare(field)
	if !ok {
		return fmt.Errorf("invalid en passant square %q: %w", field, errors.ErrInvalidFEN)
	}

	mover := board.ToMove.Opposite()
	wantRow := chess.PawnStartRow(mover) + chess.ColourOffset(mover)
	pushed := sq.Offset(chess.ColourOffset(mover), 0)
	origin := sq.Offset(-chess.ColourOffset(mover), 0)
	if sq.Row != wantRow || board.Get(sq) != chess.Empty || board.Get(origin) != chess.Empty ||
		board.Get(pushed) != chess.MakeColouredPiece(mover, chess.Pawn) {
		return fmt.Errorf("en passant square %s does not follow a double push: %w", field, errors.ErrInvalidFEN)
	}

	board.SetEnPassant(sq)
	return nil
}

// parseClocks parses the optional halfmove clock and fullmove number fields.
func parseClocks(board *chess.Board, fields []string) error {
	board.HalfmoveClock = 0
	board.MoveNumber = 1

	if len(fields) >= 1 {
		n, err := strconv.ParseUint(fields[0], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid halfmove clock %q: %w", fields[0], errors.ErrInvalidFEN)
		}
		board.HalfmoveClock = uint(n)
	}
	if len(fields) >= 2 {
		n, err := strconv.ParseUint(fields[1], 10, 32)
		if err != nil || n < 1 {
			return fmt.Errorf("invalid fullmove number %q: %w", fields[1], errors.ErrInvalidFEN)
		}
		board.MoveNumber = uint(n)
	}
	return nil
}

// BoardToFEN converts a board to a FEN string.
func BoardToFEN(board *chess.Board) string {
	return fmt.Sprintf("%s %d %d", PositionKey(board), board.HalfmoveClock, board.MoveNumber)
}

// PositionKey returns the first four FEN fields: placement, side to move,
// castling rights and en passant square. Two positions with equal keys
// count as the same position for repetition.
func PositionKey(board *chess.Board) string {
	var sb strings.Builder

	writePiecePositions(&sb, board)
	sb.WriteByte(' ')
	if board.ToMove == chess.White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}
	sb.WriteByte(' ')
	sb.WriteString(board.Castling.String())
	sb.WriteByte(' ')
	sb.WriteString(board.EnPassantTarget().String())

	return sb.String()
}

// writePiecePositions writes the piece placement to the builder.
func writePiecePositions(sb *strings.Builder, board *chess.Board) {
	for row := 0; row < chess.BoardSize; row++ {
		emptyCount := 0
		for col := 0; col < chess.BoardSize; col++ {
			piece := board.Squares[row][col]
			if piece == chess.Empty {
				emptyCount++
				continue
			}
			if emptyCount > 0 {
				sb.WriteByte(byte('0' + emptyCount))
				emptyCount = 0
			}
			sb.WriteByte(ColouredPieceToFENLetter(piece))
		}
		if emptyCount > 0 {
			sb.WriteByte(byte('0' + emptyCount))
		}
		if row < chess.BoardSize-1 {
			sb.WriteByte('/')
		}
	}
}

// NewInitialBoard creates a board with the standard starting position.
func NewInitialBoard() *chess.Board {
	board := chess.NewBoard()
	board.SetupInitialPosition()
	return board
}

// NewBoardForGame creates the starting board of a PGN game, honouring its
// FEN tag when present.
func NewBoardForGame(game *chess.Game) (*chess.Board, error) {
	if fen := game.FEN(); fen != "" {
		return NewBoardFromFEN(fen)
	}
	return NewInitialBoard(), nil
}
