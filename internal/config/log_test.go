package config

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"", slog.LevelInfo},
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"Warn", slog.LevelWarn},
		{"error", slog.LevelError},
	}

	for _, tt := range tests {
		level, err := parseLogLevel(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.expected, level, tt.input)
	}

	_, err := parseLogLevel("verbose")
	require.EqualError(t, err, "invalid log level: verbose")
}

func TestNewLoggerJSON(t *testing.T) {
	var buffer bytes.Buffer

	logger, err := newLogger(&buffer, "warn", "json")
	require.NoError(t, err)

	logger.Info("dropped")
	logger.Warn("kept", "depth", 3)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buffer.Bytes(), &entry))
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, 3.0, entry["depth"])
}

func TestNewLoggerInvalidFormat(t *testing.T) {
	_, err := newLogger(&bytes.Buffer{}, "", "xml")
	require.Error(t, err)
}
