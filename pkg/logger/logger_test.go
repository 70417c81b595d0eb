package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{" DEBUG ", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ParseLogLevel(tt.in))
		})
	}
}

func TestNewStructuredLoggerTo(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := NewStructuredLoggerTo(&buf, "agrodash", "v1.2.3", "warn")

	log.Info("dropped")
	log.Warn("kept", "entry", "alerts")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "kept", rec["msg"])
	assert.Equal(t, "agrodash", rec["module"])
	assert.Equal(t, "v1.2.3", rec["version"])
	assert.Equal(t, "alerts", rec["entry"])
	assert.NotContains(t, rec, "source")
}

func TestOrDefault(t *testing.T) {
	t.Parallel()

	assert.Same(t, slog.Default(), OrDefault(nil))

	l := NewDiscardLogger()
	assert.Same(t, l, OrDefault(l))
}
