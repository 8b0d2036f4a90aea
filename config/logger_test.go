package config

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	t.Run("production writes json", func(t *testing.T) {
		var buf bytes.Buffer
		newLogger(&buf, "production", "").Info("hello", "city", "Paris")
		var rec map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
		assert.Equal(t, "hello", rec["msg"])
		assert.Equal(t, "Paris", rec["city"])
	})
	t.Run("development writes text", func(t *testing.T) {
		var buf bytes.Buffer
		newLogger(&buf, "", "").Info("hello")
		assert.Contains(t, buf.String(), "msg=hello")
	})
	t.Run("level filter", func(t *testing.T) {
		var buf bytes.Buffer
		l := newLogger(&buf, "development", "warn")
		assert.False(t, l.Enabled(context.Background(), slog.LevelInfo))
		assert.True(t, l.Enabled(context.Background(), slog.LevelWarn))
		debug := newLogger(&buf, "development", "debug")
		assert.True(t, debug.Enabled(context.Background(), slog.LevelDebug))
	})
}
