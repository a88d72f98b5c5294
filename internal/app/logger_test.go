package app

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&Config{LogLevel: "warn", LogFormat: "text"}, &buf)

	logger.Debug("below the threshold")
	logger.Info("also below")
	logger.Warn("at the threshold")

	out := buf.String()
	assert.NotContains(t, out, "below the threshold")
	assert.NotContains(t, out, "also below")
	assert.Contains(t, out, "at the threshold")
}

func TestNewLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&Config{LogLevel: "info", LogFormat: "json"}, &buf)

	logger.Info("structured line")

	line := strings.TrimSpace(buf.String())
	require.NotEmpty(t, line)
	assert.True(t, strings.HasPrefix(line, "{"), "json format must produce JSON records, got %q", line)
	assert.Contains(t, line, `"structured line"`)
}

func TestNewLogger_UnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&Config{LogLevel: "loudest", LogFormat: "text"}, &buf)

	logger.Debug("still hidden")
	logger.Info("still visible")

	out := buf.String()
	assert.NotContains(t, out, "still hidden")
	assert.Contains(t, out, "still visible")
}
