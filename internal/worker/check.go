package worker

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/lgbarn/chessrules-go/internal/chess"
	"github.com/lgbarn/chessrules-go/internal/game"
)

// Replay plays a game record move by move through a fresh game.
func Replay(job Job) Outcome {
	out := Outcome{Job: job, Result: chess.InProgress}

	g, err := game.FromRecord(job.Record)
	if err != nil {
		out.Err = err
		return out
	}

	out.Plies = g.PlyCount()
	out.Status = g.Status()
	out.FEN = g.FEN()
	out.Result = g.Result()
	if g.IsGameOver() && job.Record.Result != out.Result {
		out.ResultMismatch = true
	}
	return out
}

// CheckAll replays every job on a pool sized by opts and returns the
// outcomes ordered by Index. Jobs not reached before ctx is cancelled are
// missing from the result.
func CheckAll(ctx context.Context, jobs []Job, logger *zap.Logger, opts ...PoolOption) []Outcome {
	if logger == nil {
		logger = zap.NewNop()
	}
	pool := NewPool(Replay, opts...)
	pool.Start(ctx)

	go func() {
		defer pool.Close()
		for i, job := range jobs {
			if err := pool.Submit(ctx, job); err != nil {
				logger.Warn("check cancelled", zap.Int("submitted", i), zap.Error(err))
				return
			}
		}
	}()

	outcomes := make([]Outcome, 0, len(jobs))
	for out := range pool.Results() {
		if !out.OK() {
			logger.Debug("game failed check", zap.Int("index", out.Index), zap.Error(out.Err),
				zap.String("source", out.Source), zap.Bool("result_mismatch", out.ResultMismatch))
		}
		outcomes = append(outcomes, out)
	}
	sort.Slice(outcomes, func(i, j int) bool { return outcomes[i].Index < outcomes[j].Index })
	return outcomes
}
