// Package config loads Taskdeck configuration from an optional YAML file
// overlaid with environment variables. Environment always wins.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config holds everything the process needs at startup.
type Config struct {
	Redis    RedisConfig    `yaml:"redis"`
	Dispatch DispatchConfig `yaml:"dispatch"`
	Log      LogConfig      `yaml:"log"`
}

// RedisConfig tunes the backing-store connection.
// The address is resolved with precedence REDIS_URL > TASKDECK_REDIS_ADDR >
// config file > localhost default.
type RedisConfig struct {
	URL         string        `yaml:"-"            env:"REDIS_URL"`
	Addr        string        `yaml:"addr"         env:"TASKDECK_REDIS_ADDR"`
	Password    string        `yaml:"password"     env:"TASKDECK_REDIS_PASSWORD"`
	DB          int           `yaml:"db"           env:"TASKDECK_REDIS_DB"`
	PoolSize    int           `yaml:"pool_size"    env:"TASKDECK_POOL_SIZE"`
	DialTimeout time.Duration `yaml:"dial_timeout" env:"TASKDECK_DIAL_TIMEOUT"`
	ReadTimeout time.Duration `yaml:"read_timeout" env:"TASKDECK_READ_TIMEOUT"`
}

// DispatchConfig tunes the dispatch pipeline.
type DispatchConfig struct {
	// CallTimeout bounds a single tool call end to end. Zero disables the
	// deadline entirely; "none" in the environment maps to zero.
	CallTimeout    Timeout       `yaml:"call_timeout"    env:"TASKDECK_CALL_TIMEOUT"`
	HealthInterval time.Duration `yaml:"health_interval" env:"TASKDECK_HEALTH_INTERVAL"`
}

// LogConfig controls logger construction.
type LogConfig struct {
	Level  string `yaml:"level"  env:"TASKDECK_LOG_LEVEL"`
	Format string `yaml:"format" env:"TASKDECK_LOG_FORMAT"`
}

// Timeout is a duration that distinguishes "not configured" from an
// explicit "none". Callers read Duration(); zero means no deadline.
type Timeout struct {
	value time.Duration
	set   bool
}

// Duration returns the configured timeout; zero disables deadlines.
func (t Timeout) Duration() time.Duration { return t.value }

// UnmarshalText implements env and yaml decoding. Accepts any Go duration
// string, or "none"/"0" to disable the deadline.
func (t *Timeout) UnmarshalText(text []byte) error {
	s := string(text)
	if s == "none" || s == "0" {
		*t = Timeout{set: true}
		return nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	if d < 0 {
		return fmt.Errorf("timeout must not be negative: %s", s)
	}
	*t = Timeout{value: d, set: true}
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler in terms of UnmarshalText.
func (t *Timeout) UnmarshalYAML(node *yaml.Node) error {
	return t.UnmarshalText([]byte(node.Value))
}

const (
	defaultRedisAddr      = "localhost:6379"
	defaultPoolSize       = 10
	defaultDialTimeout    = 5 * time.Second
	defaultReadTimeout    = 3 * time.Second
	defaultCallTimeout    = 30 * time.Second
	defaultHealthInterval = 5 * time.Second
)

// Load builds the configuration. If path is non-empty the YAML file is read
// first; environment variables then override whatever the file set, and
// anything still unset falls back to the defaults above.
func Load(path string) (Config, error) {
	var cfg Config

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Redis.Addr == "" {
		c.Redis.Addr = defaultRedisAddr
	}
	if c.Redis.PoolSize == 0 {
		c.Redis.PoolSize = defaultPoolSize
	}
	if c.Redis.DialTimeout == 0 {
		c.Redis.DialTimeout = defaultDialTimeout
	}
	if c.Redis.ReadTimeout == 0 {
		c.Redis.ReadTimeout = defaultReadTimeout
	}
	if !c.Dispatch.CallTimeout.set {
		c.Dispatch.CallTimeout = Timeout{value: defaultCallTimeout, set: true}
	}
	if c.Dispatch.HealthInterval == 0 {
		c.Dispatch.HealthInterval = defaultHealthInterval
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

func (c Config) validate() error {
	if c.Redis.PoolSize < 1 {
		return errors.New("redis pool size must be at least 1")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q (want text or json)", c.Log.Format)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}
	return nil
}

// SlogLevel maps the configured level string onto slog's levels.
// Unknown strings are rejected by validate, so this defaults to info.
func (c LogConfig) SlogLevel() slog.Level {
	switch c.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
