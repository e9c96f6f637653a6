package observability

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.input), "ParseLevel(%q)", tt.input)
	}
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "info", "json")

	logger.Info("run complete", "rows", 4)
	logger.Debug("suppressed")

	var m map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &m))
	assert.Equal(t, "run complete", m["msg"])
	assert.InDelta(t, 4, m["rows"], 0)
	assert.NotContains(t, buf.String(), "suppressed")
}

func TestNewLogger_Text(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "debug", "text")

	logger.Debug("fetching", "url", "https://example.test")

	assert.Contains(t, buf.String(), "msg=fetching")
	assert.Contains(t, buf.String(), "url=https://example.test")
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, "success", Outcome(""))
	assert.Equal(t, "fetch_error", Outcome("fetch"))
	assert.Equal(t, "empty_error", Outcome("empty"))
}
