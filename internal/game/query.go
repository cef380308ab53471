package game

import (
	"github.com/lgbarn/chessrules-go/internal/chess"
	"github.com/lgbarn/chessrules-go/internal/engine"
)

// LegalMoves returns every legal move for the side to move, or none once
// the game is over.
func (g *Game) LegalMoves() []chess.Move {
	if g.status.IsTerminal() {
		return nil
	}
	return engine.AllLegalMoves(g.board)
}

// LegalMovesFrom returns the legal moves of the piece on sq. It is empty
// for an empty square, a piece of the side not to move, or a finished game.
func (g *Game) LegalMovesFrom(sq chess.Square) []chess.Move {
	if g.status.IsTerminal() {
		return nil
	}
	return engine.LegalMoves(g.board, sq)
}

// FEN returns the current position.
func (g *Game) FEN() string {
	return engine.BoardToFEN(g.board)
}

// StartFEN returns the position the game started from.
func (g *Game) StartFEN() string {
	return g.startFEN
}

// Board returns a copy of the current board.
func (g *Game) Board() chess.Board {
	return *g.board
}

// Turn returns the side to move.
func (g *Game) Turn() chess.Colour {
	return g.board.ToMove
}

// IsCheck reports whether the side to move is in check.
func (g *Game) IsCheck() bool {
	return engine.IsInCheck(g.board, g.board.ToMove)
}

// IsCheckmate reports whether the side to move has been mated.
func (g *Game) IsCheckmate() bool {
	return g.status == Checkmate
}

// IsStalemate reports whether the side to move is stalemated.
func (g *Game) IsStalemate() bool {
	return g.status == Stalemate
}

// IsDraw reports whether the game ended drawn, stalemate included.
func (g *Game) IsDraw() bool {
	return g.status.IsDraw()
}

// IsGameOver reports whether the game has ended.
func (g *Game) IsGameOver() bool {
	return g.status.IsTerminal()
}

// Status returns the game status.
func (g *Game) Status() Status {
	return g.status
}

// Winner returns the winning side. The boolean is false unless the game
// ended in checkmate.
func (g *Game) Winner() (chess.Colour, bool) {
	return g.winner, g.status == Checkmate
}

// Result returns the PGN result token for the current status.
func (g *Game) Result() string {
	return resultToken(g.status, g.winner)
}

// History returns a copy of the moves played, oldest first.
func (g *Game) History() []chess.HistoryEntry {
	return append([]chess.HistoryEntry(nil), g.history...)
}

// PlyCount returns the number of moves played.
func (g *Game) PlyCount() int {
	return len(g.history)
}

// CanRedo reports whether there is an undone move to replay.
func (g *Game) CanRedo() bool {
	return len(g.redo) > 0
}

// SANMoves returns the moves played in SAN, with check suffixes.
func (g *Game) SANMoves() []string {
	moves := make([]string, len(g.history))
	for i, entry := range g.history {
		moves[i] = entry.SAN
	}
	return moves
}

// UCIMoves returns the moves played in coordinate notation.
func (g *Game) UCIMoves() []string {
	moves := make([]string, len(g.history))
	for i, entry := range g.history {
		moves[i] = entry.Move.UCI()
	}
	return moves
}

// RepetitionCount returns how many times the current position has been
// reached in this game.
func (g *Game) RepetitionCount() int {
	return g.positions[engine.PositionKey(g.board)]
}
