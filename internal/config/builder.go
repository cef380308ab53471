package config

import "time"

// ConfigBuilder provides a fluent API for building Config instances.
type ConfigBuilder struct {
	cfg *Config
}

// NewConfigBuilder creates a new ConfigBuilder with default values.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{
		cfg: NewConfig(),
	}
}

// Build returns the built Config.
func (b *ConfigBuilder) Build() *Config {
	return b.cfg
}

// WithLogLevel sets the log level.
func (b *ConfigBuilder) WithLogLevel(level string) *ConfigBuilder {
	b.cfg.Log.Level = level
	return b
}

// WithLogFormat sets the log encoding, console or json.
func (b *ConfigBuilder) WithLogFormat(format string) *ConfigBuilder {
	b.cfg.Log.Format = format
	return b
}

// WithLogFile tees log output to a file.
func (b *ConfigBuilder) WithLogFile(path string) *ConfigBuilder {
	b.cfg.Log.File = path
	return b
}

// WithLineLength sets the maximum PGN line length.
func (b *ConfigBuilder) WithLineLength(length int) *ConfigBuilder {
	b.cfg.PGN.LineLength = length
	return b
}

// WithMemoryStore keeps sessions in process memory.
func (b *ConfigBuilder) WithMemoryStore() *ConfigBuilder {
	b.cfg.Session.Store = MemoryStore
	return b
}

// WithRedisStore keeps sessions in Redis at addr.
func (b *ConfigBuilder) WithRedisStore(addr string, db int) *ConfigBuilder {
	b.cfg.Session.Store = RedisStore
	b.cfg.Session.RedisAddr = addr
	b.cfg.Session.RedisDB = db
	return b
}

// WithSessionTTL sets how long idle sessions are kept.
func (b *ConfigBuilder) WithSessionTTL(ttl time.Duration) *ConfigBuilder {
	b.cfg.Session.TTL = ttl
	return b
}

// WithServerAddr sets the HTTP listen address.
func (b *ConfigBuilder) WithServerAddr(addr string) *ConfigBuilder {
	b.cfg.Server.Addr = addr
	return b
}

// WithWorkers sets the number of validation workers.
func (b *ConfigBuilder) WithWorkers(n int) *ConfigBuilder {
	b.cfg.Worker.Count = n
	return b
}
