// Package session hosts many games at once. Each session owns one
// game.Game behind its own mutex and is persisted to a Store after every
// change, so a restarted process can pick it up again.
package session

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lgbarn/chessrules-go/internal/chess"
	"github.com/lgbarn/chessrules-go/internal/engine"
	"github.com/lgbarn/chessrules-go/internal/errors"
	"github.com/lgbarn/chessrules-go/internal/game"
	"github.com/lgbarn/chessrules-go/internal/notation"
)

// MoveRequest names a move in one of three forms. UCI wins over SAN,
// which wins over From/To/Promotion.
type MoveRequest struct {
	From      string `json:"from,omitempty"`
	To        string `json:"to,omitempty"`
	Promotion string `json:"promotion,omitempty"`
	UCI       string `json:"uci,omitempty"`
	SAN       string `json:"san,omitempty"`
}

func (r MoveRequest) String() string {
	switch {
	case r.UCI != "":
		return r.UCI
	case r.SAN != "":
		return r.SAN
	}
	return r.From + r.To + r.Promotion
}

type session struct {
	mu      sync.Mutex
	game    *game.Game
	tags    map[string]string
	deleted bool
}

// Manager owns the live sessions.
type Manager struct {
	store      Store
	logger     *zap.Logger
	lineLength int
	now        func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger. Each game logs with a session_id field.
func WithLogger(logger *zap.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithLineLength sets the movetext width used by PGN.
func WithLineLength(n int) Option {
	return func(m *Manager) { m.lineLength = n }
}

// NewManager creates a Manager persisting to store.
func NewManager(store Store, opts ...Option) *Manager {
	m := &Manager{
		store:      store,
		logger:     zap.NewNop(),
		lineLength: notation.DefaultLineLength,
		now:        time.Now,
		sessions:   make(map[string]*session),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create starts a session from startFEN, or from the initial position
// when startFEN is empty.
func (m *Manager) Create(ctx context.Context, startFEN string, tags map[string]string) (*Snapshot, error) {
	id := uuid.NewString()
	opts := []game.Option{game.WithLogger(m.logger.With(zap.String("session_id", id)))}

	var g *game.Game
	if startFEN == "" {
		g = game.New(opts...)
	} else {
		var err error
		if g, err = game.NewFromFEN(startFEN, opts...); err != nil {
			return nil, err
		}
	}

	s := &session{game: g, tags: copyTags(tags)}
	if err := m.save(ctx, id, s); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()

	m.logger.Info("session created", zap.String("session_id", id), zap.String("fen", g.FEN()))
	return snapshotOf(id, g), nil
}

// Get returns the current state of a session.
func (m *Manager) Get(ctx context.Context, id string) (*Snapshot, error) {
	var snap *Snapshot
	err := m.with(ctx, id, func(s *session) error {
		snap = snapshotOf(id, s.game)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// LegalMoves lists the legal moves of a session in UCI notation,
// restricted to moves from square when it is not empty.
func (m *Manager) LegalMoves(ctx context.Context, id, square string) ([]string, error) {
	var from chess.Square
	if square != "" {
		var ok bool
		if from, ok = chess.ParseSquare(square); !ok {
			return nil, errors.Wrapf(errors.ErrInvalidSAN, "square %q", square)
		}
	}

	moves := []string{}
	err := m.with(ctx, id, func(s *session) error {
		var legal []chess.Move
		if square == "" {
			legal = s.game.LegalMoves()
		} else {
			legal = s.game.LegalMovesFrom(from)
		}
		for _, mv := range legal {
			moves = append(moves, mv.UCI())
		}
		return nil
	})
	return moves, err
}

// Move applies a local move.
func (m *Manager) Move(ctx context.Context, id string, req MoveRequest) (*Snapshot, error) {
	var snap *Snapshot
	err := m.with(ctx, id, func(s *session) error {
		return m.commit(ctx, id, s, func(g *game.Game) error {
			if _, err := applyRequest(g, req); err != nil {
				return err
			}
			snap = snapshotOf(id, g)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// ApplyRemote replays a move received from a peer. If the move cannot be
// played, or the result differs from the peer's position, the session is
// reset to authoritativeFEN. An empty authoritativeFEN disables the
// fallback and the move error is returned.
func (m *Manager) ApplyRemote(ctx context.Context, id string, req MoveRequest, authoritativeFEN string) (*SyncResult, error) {
	var want string
	if authoritativeFEN != "" {
		board, err := engine.NewBoardFromFEN(authoritativeFEN)
		if err != nil {
			return nil, err
		}
		want = syncKey(board)
	}

	var res *SyncResult
	err := m.with(ctx, id, func(s *session) error {
		return m.commit(ctx, id, s, func(g *game.Game) error {
			_, moveErr := applyRequest(g, req)
			resync := moveErr != nil
			if moveErr == nil && want != "" {
				board := g.Board()
				resync = syncKey(&board) != want
			}

			if resync {
				if authoritativeFEN == "" {
					return moveErr
				}
				if err := g.LoadFEN(authoritativeFEN); err != nil {
					return err
				}
				m.logger.Warn("session resynced",
					zap.String("session_id", id),
					zap.String("move", req.String()),
					zap.String("fen", authoritativeFEN),
					zap.NamedError("cause", moveErr))
			}
			res = &SyncResult{Snapshot: snapshotOf(id, g), Resynced: resync}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Undo takes back the last move of a session.
func (m *Manager) Undo(ctx context.Context, id string) (*Snapshot, error) {
	var snap *Snapshot
	err := m.with(ctx, id, func(s *session) error {
		return m.commit(ctx, id, s, func(g *game.Game) error {
			if _, err := g.Undo(); err != nil {
				return err
			}
			snap = snapshotOf(id, g)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// WritePGN writes the session's game as PGN.
func (m *Manager) WritePGN(ctx context.Context, id string, w io.Writer) error {
	return m.with(ctx, id, func(s *session) error {
		return s.game.WritePGN(w, s.tags, m.lineLength)
	})
}

// Delete ends a session and removes it from the store. Calls already
// waiting on the session fail with ErrSessionNotFound.
func (m *Manager) Delete(ctx context.Context, id string) error {
	err := m.with(ctx, id, func(s *session) error {
		if err := m.store.Delete(ctx, id); err != nil {
			return err
		}
		s.deleted = true

		m.mu.Lock()
		if m.sessions[id] == s {
			delete(m.sessions, id)
		}
		m.mu.Unlock()
		return nil
	})
	if err != nil {
		return err
	}
	m.logger.Info("session deleted", zap.String("session_id", id))
	return nil
}

// with runs fn holding the session's lock.
func (m *Manager) with(ctx context.Context, id string, fn func(*session) error) error {
	s, err := m.acquire(ctx, id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleted {
		return errors.Wrapf(errors.ErrSessionNotFound, "session %s", id)
	}
	return fn(s)
}

// commit runs change on a copy of the session's game and keeps the copy
// only once it has been saved. A failed change or save leaves the session
// as it was.
func (m *Manager) commit(ctx context.Context, id string, s *session, change func(*game.Game) error) error {
	prev := s.game
	s.game = prev.Clone()
	if err := change(s.game); err != nil {
		s.game = prev
		return err
	}
	if err := m.save(ctx, id, s); err != nil {
		s.game = prev
		m.logger.Error("session save failed, change rolled back",
			zap.String("session_id", id), zap.Error(err))
		return err
	}
	return nil
}

// acquire returns the live session, loading it from the store if this
// process has not seen it yet.
func (m *Manager) acquire(ctx context.Context, id string) (*session, error) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	m.mu.Unlock()
	if ok {
		return s, nil
	}

	rec, err := m.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	s, err = m.rehydrate(rec)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.sessions[id]; ok {
		return existing, nil
	}
	m.sessions[id] = s
	return s, nil
}

// rehydrate rebuilds a game by replaying the stored moves. If the replay
// fails the stored FEN is loaded instead and the history is lost.
func (m *Manager) rehydrate(rec *Record) (*session, error) {
	logger := m.logger.With(zap.String("session_id", rec.ID))

	g, err := replay(rec, logger)
	if err != nil {
		logger.Warn("replay failed, loading stored position", zap.Error(err), zap.String("fen", rec.FEN))
		if g, err = game.NewFromFEN(rec.FEN, game.WithLogger(logger)); err != nil {
			return nil, fmt.Errorf("session %s: %w", rec.ID, err)
		}
	}
	return &session{game: g, tags: rec.Tags}, nil
}

func replay(rec *Record, logger *zap.Logger) (*game.Game, error) {
	g, err := game.NewFromFEN(rec.StartFEN, game.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	for _, mv := range rec.Moves {
		if _, err := g.MakeMoveUCI(mv); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func (m *Manager) save(ctx context.Context, id string, s *session) error {
	return m.store.Save(ctx, &Record{
		ID:        id,
		StartFEN:  s.game.StartFEN(),
		Moves:     s.game.UCIMoves(),
		FEN:       s.game.FEN(),
		Status:    s.game.Status().String(),
		Tags:      s.tags,
		UpdatedAt: m.now().UTC(),
	})
}

func applyRequest(g *game.Game, req MoveRequest) (*chess.HistoryEntry, error) {
	switch {
	case req.UCI != "":
		return g.MakeMoveUCI(req.UCI)
	case req.SAN != "":
		return g.MakeMoveSAN(req.SAN)
	}

	from, ok := chess.ParseSquare(req.From)
	if !ok {
		return nil, errors.Wrapf(errors.ErrInvalidSAN, "from square %q", req.From)
	}
	to, ok := chess.ParseSquare(req.To)
	if !ok {
		return nil, errors.Wrapf(errors.ErrInvalidSAN, "to square %q", req.To)
	}
	promotion, err := notation.ParsePromotion(req.Promotion)
	if err != nil {
		return nil, err
	}
	return g.MakeMove(from, to, promotion)
}

// syncKey identifies a position by placement, side to move and castling
// rights. Peers disagree on when to record an en passant square, so it is
// left out.
func syncKey(b *chess.Board) string {
	key := engine.PositionKey(b)
	return key[:strings.LastIndexByte(key, ' ')]
}

func copyTags(tags map[string]string) map[string]string {
	if len(tags) == 0 {
		return nil
	}
	c := make(map[string]string, len(tags))
	for k, v := range tags {
		c[k] = v
	}
	return c
}
