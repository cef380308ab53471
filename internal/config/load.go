package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lgbarn/chessrules-go/internal/errors"
)

// EnvPrefix is the prefix of environment variables that override file
// settings.
const EnvPrefix = "CHESSRULES_"

// Load reads a YAML configuration file on top of the defaults, applies
// environment overrides and validates the result. An empty path skips the
// file.
func Load(path string) (*Config, error) {
	cfg := NewConfig()
	if path != "" {
		data, err := os.ReadFile(path) //nolint:gosec // G304: path comes from the operator
		if err != nil {
			return nil, errors.Wrapf(err, "read config %s", path)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(errors.ErrInvalidConfig, "parse %s: %v", path, err)
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides settings from CHESSRULES_* variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	env := func(name string) (string, bool) {
		v, ok := lookup(EnvPrefix + name)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := env("LOG_LEVEL"); ok {
		c.Log.Level = strings.ToLower(v)
	}
	if v, ok := env("LOG_FORMAT"); ok {
		c.Log.Format = strings.ToLower(v)
	}
	if v, ok := env("LOG_FILE"); ok {
		c.Log.File = v
	}
	if v, ok := env("SESSION_STORE"); ok {
		c.Session.Store = strings.ToLower(v)
	}
	if v, ok := env("REDIS_ADDR"); ok {
		c.Session.RedisAddr = v
	}
	if v, ok := env("SERVER_ADDR"); ok {
		c.Server.Addr = v
	}

	if v, ok := env("REDIS_DB"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return invalid("%sREDIS_DB: %v", EnvPrefix, err)
		}
		c.Session.RedisDB = n
	}
	if v, ok := env("SESSION_TTL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return invalid("%sSESSION_TTL: %v", EnvPrefix, err)
		}
		c.Session.TTL = d
	}
	if v, ok := env("WORKERS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return invalid("%sWORKERS: %v", EnvPrefix, err)
		}
		c.Worker.Count = n
	}
	return nil
}
