package config

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("HOOKABLE_LOG_LEVEL", "debug")
	t.Setenv("HOOKABLE_LOG_FORMAT", "json")
	t.Setenv("HOOKABLE_LUA_CALL_TIMEOUT", "250ms")
	t.Setenv("HOOKABLE_MEMOIZE_MAX_ENTRIES", "16")
	t.Setenv("HOOKABLE_JOURNAL_MAX_ENTRIES", "32")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Config{
		LogLevel:          slog.LevelDebug,
		LogFormat:         FormatJSON,
		LuaCallTimeout:    250 * time.Millisecond,
		MemoizeMaxEntries: 16,
		JournalMaxEntries: 32,
	}, cfg)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad level", "HOOKABLE_LOG_LEVEL", "loud"},
		{"bad format", "HOOKABLE_LOG_FORMAT", "xml"},
		{"bad duration", "HOOKABLE_LUA_CALL_TIMEOUT", "soon"},
		{"zero timeout", "HOOKABLE_LUA_CALL_TIMEOUT", "0s"},
		{"bad number", "HOOKABLE_MEMOIZE_MAX_ENTRIES", "many"},
		{"negative journal", "HOOKABLE_JOURNAL_MAX_ENTRIES", "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLogger(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		logger := Default().Logger(&buf)

		logger.Debug("hidden")
		logger.Info("shown", "key", "value")

		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "msg=shown key=value")
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		cfg := Default()
		cfg.LogFormat = FormatJSON
		cfg.LogLevel = slog.LevelDebug
		cfg.Logger(&buf).Debug("shown", "key", "value")

		var line map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		assert.Equal(t, "shown", line["msg"])
		assert.Equal(t, "value", line["key"])
		assert.Equal(t, "DEBUG", line["level"])
	})
}
