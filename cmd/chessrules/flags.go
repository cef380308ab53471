// flags.go - Command-line flag definitions and configuration
package main

import (
	"flag"
	"io"

	"github.com/lgbarn/chessrules-go/internal/config"
)

// globalOptions are accepted before the subcommand name.
type globalOptions struct {
	configFile string
	logLevel   string
	logFormat  string
	version    bool
}

func newGlobalFlags(stderr io.Writer) (*flag.FlagSet, *globalOptions) {
	opts := &globalOptions{}
	fs := flag.NewFlagSet("chessrules", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configFile, "config", "", "YAML configuration file")
	fs.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	fs.StringVar(&opts.logFormat, "log-format", "", "Log format: console or json")
	fs.BoolVar(&opts.version, "version", false, "Print version and exit")
	fs.Usage = func() { usage(stderr, fs) }
	return fs, opts
}

// applyFlags lets explicit flags win over file and environment settings.
func applyFlags(cfg *config.Config, opts *globalOptions) {
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if opts.logFormat != "" {
		cfg.Log.Format = opts.logFormat
	}
}

type perftOptions struct {
	fen    string
	depth  int
	divide bool
}

func newPerftFlags(stderr io.Writer) (*flag.FlagSet, *perftOptions) {
	opts := &perftOptions{}
	fs := flag.NewFlagSet("perft", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.fen, "fen", "", "Start position (default: initial position)")
	fs.IntVar(&opts.depth, "depth", 3, "Search depth in plies")
	fs.BoolVar(&opts.divide, "divide", false, "Print the node count below each root move")
	return fs, opts
}

type playOptions struct {
	fen        string
	json       bool
	lineLength int
}

func newPlayFlags(stderr io.Writer, cfg *config.Config) (*flag.FlagSet, *playOptions) {
	opts := &playOptions{}
	fs := flag.NewFlagSet("play", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.fen, "fen", "", "Start position (default: initial position)")
	fs.BoolVar(&opts.json, "json", false, "Print the game as JSON instead of PGN")
	fs.IntVar(&opts.lineLength, "w", cfg.PGN.LineLength, "Maximum PGN line length")
	return fs, opts
}

type checkOptions struct {
	workers    int
	outputFile string
	quiet      bool
}

func newCheckFlags(stderr io.Writer, cfg *config.Config) (*flag.FlagSet, *checkOptions) {
	opts := &checkOptions{}
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.IntVar(&opts.workers, "j", cfg.Worker.Count, "Number of parallel workers")
	fs.StringVar(&opts.outputFile, "o", "", "Write the games that pass to this file")
	fs.BoolVar(&opts.quiet, "q", false, "Only print the summary")
	return fs, opts
}

type serveOptions struct {
	addr  string
	redis string
}

func newServeFlags(stderr io.Writer) (*flag.FlagSet, *serveOptions) {
	opts := &serveOptions{}
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.addr, "addr", "", "Listen address (overrides server.addr)")
	fs.StringVar(&opts.redis, "redis", "", "Redis address; enables the redis session store")
	return fs, opts
}

func (o *serveOptions) apply(cfg *config.Config) {
	if o.addr != "" {
		cfg.Server.Addr = o.addr
	}
	if o.redis != "" {
		cfg.Session.Store = config.RedisStore
		cfg.Session.RedisAddr = o.redis
	}
}
