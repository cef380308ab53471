package session

import (
	"context"
	"sync"
	"time"

	"github.com/lgbarn/chessrules-go/internal/errors"
)

// Record is the persisted form of a session. The game is rebuilt by
// replaying Moves from StartFEN; FEN is kept to recover when the replay
// fails.
type Record struct {
	ID        string            `json:"id"`
	StartFEN  string            `json:"start_fen"`
	Moves     []string          `json:"moves"`
	FEN       string            `json:"fen"`
	Status    string            `json:"status"`
	Tags      map[string]string `json:"tags,omitempty"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func (r *Record) clone() *Record {
	c := *r
	c.Moves = append([]string(nil), r.Moves...)
	if r.Tags != nil {
		c.Tags = make(map[string]string, len(r.Tags))
		for k, v := range r.Tags {
			c.Tags[k] = v
		}
	}
	return &c
}

// Store persists session records.
// Load returns an error wrapping ErrSessionNotFound for unknown ids.
type Store interface {
	Save(ctx context.Context, rec *Record) error
	Load(ctx context.Context, id string) (*Record, error)
	Delete(ctx context.Context, id string) error
}

// MemoryStore keeps records in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*Record
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*Record)}
}

func (s *MemoryStore) Save(_ context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.ID] = rec.clone()
	return nil
}

func (s *MemoryStore) Load(_ context.Context, id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	if !ok {
		return nil, errors.Wrapf(errors.ErrSessionNotFound, "session %s", id)
	}
	return rec.clone(), nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, id)
	return nil
}

// Len reports the number of stored records.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
