// Package worker replays PGN games through the rules engine on a pool of
// goroutines.
package worker

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/lgbarn/chessrules-go/internal/chess"
	"github.com/lgbarn/chessrules-go/internal/game"
)

// Job is one parsed game to check.
type Job struct {
	Record *chess.Game
	Index  int // Position in the input, for reordering
	Source string
}

// Outcome is the result of checking one Job.
type Outcome struct {
	Job

	Plies  int
	Status game.Status
	FEN    string

	// Result is the result implied by the final position, "*" while the
	// game is still in progress.
	Result string

	// ResultMismatch is set when the game ended on the board and the
	// recorded result disagrees.
	ResultMismatch bool

	Err error
}

// OK reports whether the game replayed cleanly with a consistent result.
func (o Outcome) OK() bool {
	return o.Err == nil && !o.ResultMismatch
}

// CheckFunc processes one job.
type CheckFunc func(Job) Outcome

// Pool runs a CheckFunc over submitted jobs on a fixed set of workers.
type Pool struct {
	numWorkers int
	bufferSize int
	jobs       chan Job
	outcomes   chan Outcome
	check      CheckFunc
	wg         sync.WaitGroup
	stopped    atomic.Bool
}

// PoolOption configures a Pool.
type PoolOption func(*Pool)

// WithWorkers sets the number of worker goroutines.
func WithWorkers(n int) PoolOption {
	return func(p *Pool) {
		if n >= 1 {
			p.numWorkers = n
		}
	}
}

// WithBufferSize sets the channel buffer size.
func WithBufferSize(size int) PoolOption {
	return func(p *Pool) {
		if size >= 1 {
			p.bufferSize = size
		}
	}
}

// NewPool creates a pool running check. Without options it has one
// worker and a buffer of 10.
func NewPool(check CheckFunc, opts ...PoolOption) *Pool {
	p := &Pool{
		numWorkers: 1,
		bufferSize: 10,
		check:      check,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.jobs = make(chan Job, p.bufferSize)
	p.outcomes = make(chan Outcome, p.bufferSize)
	return p
}

// Start launches the workers. Cancelling ctx stops them from taking on
// further jobs; queued jobs are drained unprocessed.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.work(ctx)
	}
}

func (p *Pool) work(ctx context.Context) {
	defer p.wg.Done()

	for job := range p.jobs {
		if p.stopped.Load() || ctx.Err() != nil {
			continue
		}
		p.outcomes <- p.check(job)
	}
}

// Submit queues a job, blocking while the buffer is full. It gives up
// when ctx is done.
func (p *Pool) Submit(ctx context.Context, job Job) error {
	select {
	case p.jobs <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TrySubmit queues a job without blocking. It returns false when the
// buffer is full or the pool is stopped.
func (p *Pool) TrySubmit(job Job) bool {
	if p.stopped.Load() {
		return false
	}
	select {
	case p.jobs <- job:
		return true
	default:
		return false
	}
}

// Stop makes the workers skip the jobs still queued.
func (p *Pool) Stop() {
	p.stopped.Store(true)
}

// IsStopped reports whether Stop has been called.
func (p *Pool) IsStopped() bool {
	return p.stopped.Load()
}

// Close stops accepting jobs, waits for the workers and closes Results.
func (p *Pool) Close() {
	close(p.jobs)
	p.wg.Wait()
	close(p.outcomes)
}

// Results returns the outcome channel. It is closed by Close.
func (p *Pool) Results() <-chan Outcome {
	return p.outcomes
}

// NumWorkers returns the number of workers in the pool.
func (p *Pool) NumWorkers() int {
	return p.numWorkers
}
