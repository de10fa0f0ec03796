// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

// Log output formats
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config holds settings shared by the hook components
type Config struct {
	LogLevel          slog.Level    `env:"HOOKABLE_LOG_LEVEL"           envDefault:"info"`
	LogFormat         string        `env:"HOOKABLE_LOG_FORMAT"          envDefault:"text"`
	LuaCallTimeout    time.Duration `env:"HOOKABLE_LUA_CALL_TIMEOUT"    envDefault:"1s"`
	MemoizeMaxEntries int           `env:"HOOKABLE_MEMOIZE_MAX_ENTRIES" envDefault:"1024"`
	JournalMaxEntries int           `env:"HOOKABLE_JOURNAL_MAX_ENTRIES" envDefault:"10000"`
}

// Default returns the configuration used when the environment sets nothing
func Default() Config {
	return Config{
		LogLevel:          slog.LevelInfo,
		LogFormat:         FormatText,
		LuaCallTimeout:    time.Second,
		MemoizeMaxEntries: 1024,
		JournalMaxEntries: 10000,
	}
}

// Load parses the environment over the defaults and validates the result
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting
func (c Config) Validate() error {
	switch c.LogFormat {
	case FormatText, FormatJSON:
	default:
		return fmt.Errorf("config: unknown log format %q", c.LogFormat)
	}
	if c.LuaCallTimeout <= 0 {
		return fmt.Errorf("config: lua call timeout must be positive, got %s", c.LuaCallTimeout)
	}
	if c.MemoizeMaxEntries <= 0 {
		return fmt.Errorf("config: memoize max entries must be positive, got %d", c.MemoizeMaxEntries)
	}
	if c.JournalMaxEntries <= 0 {
		return fmt.Errorf("config: journal max entries must be positive, got %d", c.JournalMaxEntries)
	}
	return nil
}

// Logger builds a slog logger writing to w in the configured format and level
func (c Config) Logger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if c.LogFormat == FormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
