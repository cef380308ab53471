// Package game tracks a single game of chess: the position, the move
// history with exact undo and redo, repetition counts and the game status.
//
// A Game is not safe for concurrent use. Each session owns exactly one.
package game

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/lgbarn/chessrules-go/internal/chess"
	"github.com/lgbarn/chessrules-go/internal/engine"
	"github.com/lgbarn/chessrules-go/internal/errors"
	"github.com/lgbarn/chessrules-go/internal/notation"
)

const (
	// Half-moves without a pawn move or capture that draw the game.
	fiftyMoveLimit = 100

	// Occurrences of one position that draw the game.
	repetitionLimit = 3
)

// Game is the state machine for one game.
type Game struct {
	board    *chess.Board
	startFEN string

	status Status
	winner chess.Colour

	history []chess.HistoryEntry
	redo    []chess.HistoryEntry

	// positions counts how often each position key has been reached.
	positions map[string]int

	logger *zap.Logger
}

// Option configures a Game.
type Option func(*Game)

// WithLogger sets the logger for rejected moves and game-over events.
func WithLogger(logger *zap.Logger) Option {
	return func(g *Game) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// New creates a game at the standard starting position.
func New(opts ...Option) *Game {
	g := &Game{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(g)
	}
	g.Reset()
	return g
}

// NewFromFEN creates a game starting from a FEN position.
func NewFromFEN(fen string, opts ...Option) (*Game, error) {
	g := New(opts...)
	if err := g.LoadFEN(fen); err != nil {
		return nil, err
	}
	return g, nil
}

// Reset starts a new game from the standard starting position.
func (g *Game) Reset() {
	g.start(engine.NewInitialBoard())
}

// LoadFEN starts a new game from a FEN position. On error the current
// game is left untouched.
func (g *Game) LoadFEN(fen string) error {
	board, err := engine.NewBoardFromFEN(fen)
	if err != nil {
		return err
	}
	g.start(board)
	return nil
}

// Clone returns an independent copy of the game, including its undo and
// redo stacks. The logger is shared.
func (g *Game) Clone() *Game {
	c := *g
	c.board = g.board.Copy()
	c.history = append([]chess.HistoryEntry(nil), g.history...)
	c.redo = append([]chess.HistoryEntry(nil), g.redo...)
	c.positions = make(map[string]int, len(g.positions))
	for k, v := range g.positions {
		c.positions[k] = v
	}
	return &c
}

// start replaces all state with a fresh game from board.
func (g *Game) start(board *chess.Board) {
	g.board = board
	g.startFEN = engine.BoardToFEN(board)
	g.history = nil
	g.redo = nil
	g.positions = map[string]int{engine.PositionKey(board): 1}
	g.updateStatus()
}

// MakeMove plays the legal move from one square to another. Promotion
// names the piece type a pawn reaching the last rank becomes; it must be
// chess.Empty for any other move. Nothing changes when the move is
// rejected.
func (g *Game) MakeMove(from, to chess.Square, promotion chess.Piece) (*chess.HistoryEntry, error) {
	text := chess.Move{From: from, To: to, Promotion: promotion}.UCI()
	if err := g.checkNotOver(text); err != nil {
		return nil, err
	}

	m, err := engine.MatchMove(g.board, from, to, promotion)
	if err != nil {
		return nil, g.reject(text, err)
	}
	return g.commit(m), nil
}

// MakeMoveUCI plays a move in coordinate notation, e.g. "e2e4" or "e7e8q".
func (g *Game) MakeMoveUCI(text string) (*chess.HistoryEntry, error) {
	from, to, promotion, err := notation.ParseUCI(text)
	if err != nil {
		return nil, g.reject(text, err)
	}
	return g.MakeMove(from, to, promotion)
}

// MakeMoveSAN plays a move in Standard Algebraic Notation, e.g. "Nf3".
func (g *Game) MakeMoveSAN(text string) (*chess.HistoryEntry, error) {
	if err := g.checkNotOver(text); err != nil {
		return nil, err
	}
	m, err := notation.ParseSAN(g.board, text)
	if err != nil {
		return nil, g.reject(text, err)
	}
	return g.commit(m), nil
}

// Move plays a move value, typically one returned by LegalMoves.
func (g *Game) Move(m chess.Move) (*chess.HistoryEntry, error) {
	return g.MakeMove(m.From, m.To, m.Promotion)
}

// commit plays a move on behalf of the caller and starts a new line of
// play, discarding any moves that could have been redone.
func (g *Game) commit(m chess.Move) *chess.HistoryEntry {
	entry := g.play(m)
	g.redo = nil
	return entry
}

// play applies a legal move and records it.
func (g *Game) play(m chess.Move) *chess.HistoryEntry {
	entry := chess.HistoryEntry{
		Move:       m,
		Moved:      m.Piece,
		Captured:   m.Captured,
		CapturedOn: chess.NoSquare,
		SAN:        notation.SAN(g.board, m),
	}
	if m.IsCapture() {
		entry.CapturedOn = m.CapturedSquare()
	}

	entry.Undo = engine.ApplyMove(g.board, m)
	g.checkInvariants()

	g.positions[engine.PositionKey(g.board)]++
	g.updateStatus()

	entry.CheckStatus = engine.CheckStatusAfter(g.board)
	entry.SAN += entry.CheckStatus.Suffix()
	g.history = append(g.history, entry)

	if g.status.IsTerminal() {
		g.logger.Info("game over",
			zap.Stringer("status", g.status),
			zap.String("result", g.Result()),
			zap.Int("ply", len(g.history)),
			zap.String("fen", engine.BoardToFEN(g.board)))
	}
	return &entry
}

// Undo takes back the last move.
func (g *Game) Undo() (*chess.HistoryEntry, error) {
	if len(g.history) == 0 {
		return nil, errors.ErrNoHistory
	}

	entry := g.history[len(g.history)-1]
	g.history = g.history[:len(g.history)-1]

	key := engine.PositionKey(g.board)
	if g.positions[key]--; g.positions[key] <= 0 {
		delete(g.positions, key)
	}
	engine.RevertMove(g.board, entry.Move, entry.Undo)
	g.updateStatus()

	g.redo = append(g.redo, entry)
	return &entry, nil
}

// Redo replays the last undone move. Unlike MakeMove it does not clear
// the redo stack, so further undone moves stay available.
func (g *Game) Redo() (*chess.HistoryEntry, error) {
	if len(g.redo) == 0 {
		return nil, errors.ErrNoHistory
	}
	next := g.redo[len(g.redo)-1]

	if err := g.checkNotOver(next.Move.UCI()); err != nil {
		return nil, err
	}
	m, err := engine.MatchMove(g.board, next.Move.From, next.Move.To, next.Move.Promotion)
	if err != nil {
		return nil, g.reject(next.Move.UCI(), err)
	}

	g.redo = g.redo[:len(g.redo)-1]
	return g.play(m), nil
}

// checkNotOver rejects a move when the game has ended.
func (g *Game) checkNotOver(text string) error {
	if g.status.IsTerminal() {
		return g.reject(text, fmt.Errorf("%s: %w", g.status, errors.ErrGameOver))
	}
	return nil
}

// reject wraps a move failure with the ply and position it was tried at.
func (g *Game) reject(text string, err error) error {
	fen := engine.BoardToFEN(g.board)
	g.logger.Debug("move rejected",
		zap.String("move", text),
		zap.String("fen", fen),
		zap.Error(err))
	return &errors.MoveError{
		Err:      err,
		PlyNum:   len(g.history) + 1,
		MoveText: text,
		FEN:      fen,
	}
}

// updateStatus recomputes the status for the side to move.
func (g *Game) updateStatus() {
	b := g.board
	g.winner = chess.White

	switch {
	case !engine.HasLegalMoves(b):
		if engine.IsInCheck(b, b.ToMove) {
			g.status = Checkmate
			g.winner = b.ToMove.Opposite()
		} else {
			g.status = Stalemate
		}
	case b.HalfmoveClock >= fiftyMoveLimit:
		g.status = DrawByFiftyMove
	case g.positions[engine.PositionKey(b)] >= repetitionLimit:
		g.status = DrawByRepetition
	case engine.HasInsufficientMaterial(b):
		g.status = DrawByInsufficientMaterial
	default:
		g.status = InProgress
	}
}

// checkInvariants panics when a side does not have exactly one king.
// Only an engine bug can cause it.
func (g *Game) checkInvariants() {
	for _, colour := range []chess.Colour{chess.White, chess.Black} {
		if n := g.board.CountPiece(chess.MakeColouredPiece(colour, chess.King)); n != 1 {
			panic(fmt.Errorf("%w: %s has %d kings in %s",
				errors.ErrInvariantViolation, colour, n, engine.BoardToFEN(g.board)))
		}
	}
}
