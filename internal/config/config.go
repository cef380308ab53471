// Package config provides configuration for chessrules: logging, PGN
// output, session storage, the HTTP server and the validation worker pool.
package config

import (
	"fmt"
	"runtime"
	"time"

	"github.com/lgbarn/chessrules-go/internal/errors"
)

// Session store backends.
const (
	MemoryStore = "memory"
	RedisStore  = "redis"
)

// Log formats.
const (
	ConsoleFormat = "console"
	JSONFormat    = "json"
)

// LogConfig holds settings for the zap logger.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`

	// Format is console or json.
	Format string `yaml:"format"`

	// File, when set, receives a copy of every log line.
	File string `yaml:"file"`

	// Caller adds the calling file and line to each entry.
	Caller bool `yaml:"caller"`
}

// PGNConfig holds settings related to PGN output.
type PGNConfig struct {
	// LineLength is the maximum movetext line length.
	LineLength int `yaml:"line_length"`
}

// SessionConfig holds settings for game session storage.
type SessionConfig struct {
	// Store is memory or redis.
	Store string `yaml:"store"`

	RedisAddr string `yaml:"redis_addr"`
	RedisDB   int    `yaml:"redis_db"`

	// KeyPrefix namespaces session keys in Redis.
	KeyPrefix string `yaml:"key_prefix"`

	// TTL is how long an idle session is kept. Zero keeps it forever.
	TTL time.Duration `yaml:"ttl"`
}

// ServerConfig holds settings for the HTTP server.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// WorkerConfig holds settings for the PGN validation pool.
type WorkerConfig struct {
	Count      int `yaml:"count"`
	BufferSize int `yaml:"buffer_size"`
}

// Config holds all program configuration.
type Config struct {
	Log     LogConfig     `yaml:"log"`
	PGN     PGNConfig     `yaml:"pgn"`
	Session SessionConfig `yaml:"session"`
	Server  ServerConfig  `yaml:"server"`
	Worker  WorkerConfig  `yaml:"worker"`
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: ConsoleFormat,
		},
		PGN: PGNConfig{
			LineLength: 80,
		},
		Session: SessionConfig{
			Store:     MemoryStore,
			RedisAddr: "localhost:6379",
			KeyPrefix: "chessrules:session:",
			TTL:       24 * time.Hour,
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Worker: WorkerConfig{
			Count:      runtime.NumCPU(),
			BufferSize: 64,
		},
	}
}

// Validate checks the configuration for inconsistent or out-of-range values.
func (c *Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return invalid("log.level %q must be debug, info, warn or error", c.Log.Level)
	}
	if c.Log.Format != ConsoleFormat && c.Log.Format != JSONFormat {
		return invalid("log.format %q must be console or json", c.Log.Format)
	}
	if c.PGN.LineLength < 0 {
		return invalid("pgn.line_length must not be negative")
	}
	switch c.Session.Store {
	case MemoryStore:
	case RedisStore:
		if c.Session.RedisAddr == "" {
			return invalid("session.redis_addr is required for the redis store")
		}
	default:
		return invalid("session.store %q must be memory or redis", c.Session.Store)
	}
	if c.Session.TTL < 0 {
		return invalid("session.ttl must not be negative")
	}
	if c.Server.Addr == "" {
		return invalid("server.addr is required")
	}
	if c.Worker.Count < 1 {
		return invalid("worker.count must be at least 1")
	}
	if c.Worker.BufferSize < 1 {
		return invalid("worker.buffer_size must be at least 1")
	}
	return nil
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", errors.ErrInvalidConfig, fmt.Sprintf(format, args...))
}
