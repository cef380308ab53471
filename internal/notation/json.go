package notation

import (
	"strings"

	"github.com/lgbarn/chessrules-go/internal/chess"
	"github.com/lgbarn/chessrules-go/internal/engine"
	"github.com/lgbarn/chessrules-go/internal/errors"
)

// JSONGame represents a game in JSON format.
type JSONGame struct {
	Tags       map[string]string `json:"tags"`
	Moves      []JSONMove        `json:"moves,omitempty"`
	Result     string            `json:"result"`
	PlyCount   int               `json:"plyCount"`
	InitialFEN string            `json:"initialFEN,omitempty"`
	FinalFEN   string            `json:"finalFEN"`
}

// JSONMove represents a move in JSON format.
type JSONMove struct {
	MoveNumber int    `json:"moveNumber,omitempty"`
	Color      string `json:"color"` // "white" or "black"
	SAN        string `json:"san"`
	UCI        string `json:"uci"`
	From       string `json:"from"`
	To         string `json:"to"`
	Piece      string `json:"piece"`
	Captured   string `json:"captured,omitempty"`
	Promotion  string `json:"promotion,omitempty"`
	FEN        string `json:"fen"`
}

// JSONOutput holds multiple games for array output.
type JSONOutput struct {
	Games []*JSONGame `json:"games"`
}

// GameToJSON replays a game and converts it to JSON form, with the
// position after every move.
func GameToJSON(game *chess.Game) (*JSONGame, error) {
	board, err := engine.NewBoardForGame(game)
	if err != nil {
		return nil, err
	}

	jg := &JSONGame{
		Tags:     copyTags(game.Tags),
		Moves:    make([]JSONMove, 0, len(game.Moves)),
		Result:   game.Result,
		PlyCount: len(game.Moves),
	}
	if jg.Result == "" {
		jg.Result = chess.InProgress
	}
	if game.FEN() != "" {
		jg.InitialFEN = engine.BoardToFEN(board)
	}

	for i, text := range game.Moves {
		m, err := ParseSAN(board, text)
		if err != nil {
			return nil, &errors.MoveError{Err: err, PlyNum: i + 1, MoveText: text, FEN: engine.BoardToFEN(board)}
		}
		jm := JSONMove{
			Color: strings.ToLower(board.ToMove.String()),
			SAN:   SAN(board, m),
			UCI:   m.UCI(),
			From:  m.From.String(),
			To:    m.To.String(),
			Piece: pieceTypeName(chess.ExtractPiece(m.Piece)),
		}
		if board.ToMove == chess.White {
			jm.MoveNumber = int(board.MoveNumber)
		}
		if m.Captured != chess.Empty {
			jm.Captured = pieceTypeName(chess.ExtractPiece(m.Captured))
		}
		if m.Promotion != chess.Empty {
			jm.Promotion = pieceTypeName(m.Promotion)
		}

		engine.ApplyMove(board, m)
		jm.SAN += engine.CheckStatusAfter(board).Suffix()
		jm.FEN = engine.BoardToFEN(board)
		jg.Moves = append(jg.Moves, jm)
	}

	jg.FinalFEN = engine.BoardToFEN(board)
	return jg, nil
}

// copyTags copies game tags and ensures seven tag roster has values.
func copyTags(tags map[string]string) map[string]string {
	result := make(map[string]string, len(tags)+len(chess.SevenTagRoster))
	for k, v := range tags {
		result[k] = v
	}
	for _, tag := range chess.SevenTagRoster {
		if _, ok := result[tag]; !ok {
			result[tag] = "?"
		}
	}
	return result
}

// pieceTypeName returns the piece type as a string.
func pieceTypeName(p chess.Piece) string {
	switch p {
	case chess.Pawn:
		return "pawn"
	case chess.Knight:
		return "knight"
	case chess.Bishop:
		return "bishop"
	case chess.Rook:
		return "rook"
	case chess.Queen:
		return "queen"
	case chess.King:
		return "king"
	default:
		return ""
	}
}
