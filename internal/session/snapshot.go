package session

import (
	"github.com/lgbarn/chessrules-go/internal/chess"
	"github.com/lgbarn/chessrules-go/internal/engine"
	"github.com/lgbarn/chessrules-go/internal/game"
)

// Snapshot is a read-only view of a session at one point in time.
type Snapshot struct {
	ID      string      `json:"id"`
	FEN     string      `json:"fen"`
	Turn    string      `json:"turn"`
	Status  game.Status `json:"status"`
	Result  string      `json:"result"`
	Check   bool        `json:"check"`
	History []string    `json:"history"`

	// Board lists the ranks from 8 down to 1, one FEN letter per square
	// and '.' for empty squares.
	Board []string `json:"board"`
}

func snapshotOf(id string, g *game.Game) *Snapshot {
	return &Snapshot{
		ID:      id,
		FEN:     g.FEN(),
		Turn:    g.Turn().String(),
		Status:  g.Status(),
		Result:  g.Result(),
		Check:   g.IsCheck(),
		History: g.SANMoves(),
		Board:   boardRows(g.Board()),
	}
}

func boardRows(b chess.Board) []string {
	rows := make([]string, 0, len(b.Squares))
	for _, rank := range b.Squares {
		row := make([]byte, len(rank))
		for col, p := range rank {
			if p == chess.Empty {
				row[col] = '.'
				continue
			}
			row[col] = engine.ColouredPieceToFENLetter(p)
		}
		rows = append(rows, string(row))
	}
	return rows
}

// SyncResult reports how a move from a remote peer was applied.
type SyncResult struct {
	*Snapshot

	// Resynced is true when the move could not be replayed and the
	// session was reset to the peer's position.
	Resynced bool `json:"resynced"`
}
