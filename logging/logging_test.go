package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"forecast-service/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerJSON(t *testing.T) {
	out := &bytes.Buffer{}
	logger, err := NewLogger(config.LoggingConfig{Level: "warn", Format: "json"}, out)
	require.NoError(t, err)

	logger.Info().Msg("dropped")
	logger.Warn().Str("api", "City Search").Msg("kept")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &line))
	assert.Equal(t, "kept", line["message"])
	assert.Equal(t, "City Search", line["api"])
	assert.Equal(t, "warn", line["level"])
	assert.NotContains(t, out.String(), "dropped")
}

func TestNewLoggerText(t *testing.T) {
	out := &bytes.Buffer{}
	logger, err := NewLogger(config.LoggingConfig{Format: "text"}, out)
	require.NoError(t, err)

	logger.Info().Msg("hello")
	assert.Contains(t, out.String(), "hello")
	assert.False(t, json.Valid(bytes.TrimSpace(out.Bytes())))
}

func TestNewLoggerInvalidLevel(t *testing.T) {
	_, err := NewLogger(config.LoggingConfig{Level: "loud"}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestNewLoggerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "service.log")
	logger, err := NewLogger(config.LoggingConfig{Format: "json", File: path}, &bytes.Buffer{})
	require.NoError(t, err)

	logger.Error().Msg("to file")

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &line))
	assert.Equal(t, "to file", line["message"])
	assert.Equal(t, "error", line["level"])
}

func TestNewLoggerWritesTextFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "service.log")
	logger, err := NewLogger(config.LoggingConfig{Format: "text", File: path}, &bytes.Buffer{})
	require.NoError(t, err)

	logger.Error().Msg("to file")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
	assert.False(t, json.Valid(bytes.TrimSpace(data)))
}
