package main

import (
	"context"
	stderrors "errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/lgbarn/chessrules-go/internal/chess"
	"github.com/lgbarn/chessrules-go/internal/config"
	"github.com/lgbarn/chessrules-go/internal/engine"
	"github.com/lgbarn/chessrules-go/internal/game"
	"github.com/lgbarn/chessrules-go/internal/httpapi"
	"github.com/lgbarn/chessrules-go/internal/notation"
	"github.com/lgbarn/chessrules-go/internal/parser"
	"github.com/lgbarn/chessrules-go/internal/session"
	"github.com/lgbarn/chessrules-go/internal/worker"
)

// parseFlags parses a subcommand's flags, mapping -h to success.
func parseFlags(fs *flag.FlagSet, args []string) (int, bool) {
	if err := fs.Parse(args); err != nil {
		if stderrors.Is(err, flag.ErrHelp) {
			return exitOK, false
		}
		return exitUsage, false
	}
	return exitOK, true
}

func runPerft(_ context.Context, e *env, args []string) int {
	fs, opts := newPerftFlags(e.stderr)
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if opts.depth < 0 {
		fmt.Fprintf(e.stderr, "perft: depth must not be negative\n")
		return exitUsage
	}

	fen := opts.fen
	if fen == "" {
		fen = engine.InitialFEN
	}
	board, err := engine.NewBoardFromFEN(fen)
	if err != nil {
		fmt.Fprintf(e.stderr, "perft: %v\n", err)
		return exitFailure
	}

	start := time.Now()
	var nodes uint64
	if opts.divide {
		counts := engine.Divide(board, opts.depth)
		moves := make([]string, 0, len(counts))
		for mv := range counts {
			moves = append(moves, mv)
		}
		sort.Strings(moves)
		for _, mv := range moves {
			fmt.Fprintf(e.stdout, "%s: %d\n", mv, counts[mv])
			nodes += counts[mv]
		}
		fmt.Fprintln(e.stdout)
	} else {
		nodes = engine.Perft(board, opts.depth)
	}
	fmt.Fprintf(e.stdout, "%d\n", nodes)

	e.logger.Debug("perft",
		zap.String("fen", fen),
		zap.Int("depth", opts.depth),
		zap.Uint64("nodes", nodes),
		zap.Duration("elapsed", time.Since(start)))
	return exitOK
}

func runPlay(_ context.Context, e *env, args []string) int {
	fs, opts := newPlayFlags(e.stderr, e.cfg)
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	gameOpts := []game.Option{game.WithLogger(e.logger)}
	g := game.New(gameOpts...)
	if opts.fen != "" {
		var err error
		if g, err = game.NewFromFEN(opts.fen, gameOpts...); err != nil {
			fmt.Fprintf(e.stderr, "play: %v\n", err)
			return exitFailure
		}
	}

	for _, text := range fs.Args() {
		var err error
		if isCoordinateMove(text) {
			_, err = g.MakeMoveUCI(text)
		} else {
			_, err = g.MakeMoveSAN(text)
		}
		if err != nil {
			fmt.Fprintf(e.stderr, "play: %v\n", err)
			return exitFailure
		}
	}

	if opts.json {
		jw := notation.NewJSONWriterSingle(e.stdout)
		if err := jw.WriteGame(g.Record(nil)); err != nil {
			fmt.Fprintf(e.stderr, "play: %v\n", err)
			return exitFailure
		}
		return exitOK
	}

	fmt.Fprintf(e.stdout, "FEN: %s\n", g.FEN())
	fmt.Fprintf(e.stdout, "Status: %s\n\n", g.Status())
	if err := g.WritePGN(e.stdout, nil, opts.lineLength); err != nil {
		fmt.Fprintf(e.stderr, "play: %v\n", err)
		return exitFailure
	}
	return exitOK
}

// isCoordinateMove reports whether text parses as a coordinate move.
// "b1c3" style text is never valid SAN, so there is no ambiguity.
func isCoordinateMove(text string) bool {
	_, _, _, err := notation.ParseUCI(text)
	return err == nil
}

func runCheck(ctx context.Context, e *env, args []string) int {
	fs, opts := newCheckFlags(e.stderr, e.cfg)
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	jobs, parseFailures := readJobs(e, fs.Args())
	outcomes := worker.CheckAll(ctx, jobs, e.logger,
		worker.WithWorkers(opts.workers),
		worker.WithBufferSize(e.cfg.Worker.BufferSize))

	var out notation.GameWriter
	if opts.outputFile != "" {
		f, err := os.Create(opts.outputFile)
		if err != nil {
			fmt.Fprintf(e.stderr, "check: %v\n", err)
			return exitFailure
		}
		defer f.Close()
		out = notation.NewPGNWriter(f, e.cfg.PGN.LineLength)
	}

	failed := parseFailures
	for _, o := range outcomes {
		if o.OK() {
			if out != nil {
				if err := out.WriteGame(o.Record); err != nil {
					fmt.Fprintf(e.stderr, "check: %v\n", err)
					return exitFailure
				}
			}
			continue
		}
		failed++
		if opts.quiet {
			continue
		}
		desc := describeGame(o)
		if o.Err != nil {
			fmt.Fprintf(e.stdout, "%s: %v\n", desc, o.Err)
		} else {
			fmt.Fprintf(e.stdout, "%s: result %s does not match final position (%s, %s)\n",
				desc, o.Record.Result, o.Status, o.Result)
		}
	}
	if out != nil {
		if err := out.Close(); err != nil {
			fmt.Fprintf(e.stderr, "check: %v\n", err)
			return exitFailure
		}
	}

	fmt.Fprintf(e.stderr, "%d game(s) checked, %d failed.\n", len(outcomes)+parseFailures, failed)
	if failed > 0 {
		return exitFailure
	}
	return exitOK
}

// readJobs parses every game of the named files, or stdin when none are
// given. Files that cannot be opened and games that do not parse count as
// failures.
func readJobs(e *env, files []string) ([]worker.Job, int) {
	var jobs []worker.Job
	failures := 0

	parse := func(name string, r io.Reader) {
		p := parser.NewParser(r)
		p.SetSource(name)
		for {
			rec, err := p.ParseGame()
			if err != nil {
				failures++
				fmt.Fprintf(e.stdout, "%v\n", err)
				continue
			}
			if rec == nil {
				return
			}
			jobs = append(jobs, worker.Job{Record: rec, Index: len(jobs), Source: name})
		}
	}

	if len(files) == 0 {
		parse("stdin", e.stdin)
		return jobs, failures
	}
	for _, name := range files {
		f, err := os.Open(name) //nolint:gosec // G304: user-specified input files are intentional
		if err != nil {
			failures++
			fmt.Fprintf(e.stderr, "check: %v\n", err)
			continue
		}
		parse(name, f)
		_ = f.Close()
	}
	return jobs, failures
}

func describeGame(o worker.Outcome) string {
	desc := fmt.Sprintf("%s:%d", o.Source, o.Record.StartLine)
	if event := o.Record.Tags[chess.EventTag]; event != "" && event != "?" {
		desc += fmt.Sprintf(" (%s)", event)
	}
	return desc
}

func runServe(ctx context.Context, e *env, args []string) int {
	fs, opts := newServeFlags(e.stderr)
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	opts.apply(e.cfg)
	if err := e.cfg.Validate(); err != nil {
		fmt.Fprintf(e.stderr, "serve: %v\n", err)
		return exitFailure
	}

	store, closeStore, err := openStore(ctx, e.cfg.Session)
	if err != nil {
		e.logger.Error("session store unavailable", zap.Error(err))
		return exitFailure
	}
	defer func() { _ = closeStore() }()

	manager := session.NewManager(store,
		session.WithLogger(e.logger),
		session.WithLineLength(e.cfg.PGN.LineLength))
	srv := httpapi.NewServer(e.cfg.Server, httpapi.NewRouter(manager, e.logger))

	errCh := make(chan error, 1)
	go func() {
		e.logger.Info("listening", zap.String("addr", srv.Addr), zap.String("store", e.cfg.Session.Store))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !stderrors.Is(err, http.ErrServerClosed) {
			e.logger.Error("server failed", zap.Error(err))
			return exitFailure
		}
	case <-ctx.Done():
		e.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), e.cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			e.logger.Error("shutdown failed", zap.Error(err))
			return exitFailure
		}
	}
	return exitOK
}

// openStore builds the session store named by cfg.
func openStore(ctx context.Context, cfg config.SessionConfig) (session.Store, func() error, error) {
	if cfg.Store == config.RedisStore {
		store, err := session.DialRedis(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	}
	return session.NewMemoryStore(), func() error { return nil }, nil
}
