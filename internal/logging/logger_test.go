package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
}

func TestNewProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "production", "info")

	logger.Debug("hidden")
	logger.Info("Item created", "item_id", "abc")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var record map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &record))
	assert.Equal(t, "Item created", record["msg"])
	assert.Equal(t, "abc", record["item_id"])
}

func TestNewDevelopmentUsesTint(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "development", "debug")

	logger.Debug("generation cache hit", "provider", "gemini")

	out := buf.String()
	assert.Contains(t, out, "generation cache hit")
	assert.Contains(t, out, "provider")
	assert.False(t, json.Valid([]byte(strings.TrimSpace(out))))
}
