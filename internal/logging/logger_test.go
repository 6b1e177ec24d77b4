package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(Config{Level: "info", Format: FormatJSON, Output: &buf})
	require.NoError(t, err)

	logger.Info("inventory written")
	require.NoError(t, logger.Sync())

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "inventory written", entry["msg"])
	assert.Equal(t, "info", entry["level"])
}

func TestNewLogger_AutoIsJSONWhenNotTerminal(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(Config{Level: "info", Format: FormatAuto, Output: &buf})
	require.NoError(t, err)

	logger.Info("hello")
	assert.True(t, json.Valid(bytes.TrimSpace(buf.Bytes())))
}

func TestNewLogger_Console(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(Config{Level: "debug", Format: FormatConsole, Output: &buf})
	require.NoError(t, err)

	logger.Debug("tunnel ready")
	assert.Contains(t, buf.String(), "DEBUG")
	assert.Contains(t, buf.String(), "tunnel ready")
}

func TestNewLogger_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(Config{Level: "warn", Format: FormatJSON, Output: &buf})
	require.NoError(t, err)

	logger.Info("quiet")
	assert.Empty(t, buf.String())

	logger.Warn("loud")
	assert.Contains(t, buf.String(), "loud")
}

func TestNewLogger_InvalidConfig(t *testing.T) {
	_, err := NewLogger(Config{Level: "verbose"})
	assert.Error(t, err)

	_, err = NewLogger(Config{Level: "info", Format: "xml", Output: &bytes.Buffer{}})
	assert.Error(t, err)
}

func TestNewLogr(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(Config{Level: "info", Format: FormatJSON, Output: &buf})
	require.NoError(t, err)

	log := NewLogr(logger).WithValues(KeyStep, "inventory")
	log.Info("step finished", KeyPath, "hosts.yaml")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "inventory", entry[KeyStep])
	assert.Equal(t, "hosts.yaml", entry[KeyPath])
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"", zapcore.InfoLevel},
		{"DEBUG", zapcore.DebugLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestContext(t *testing.T) {
	assert.NotPanics(t, func() {
		FromContext(context.Background()).Info("discarded")
	})

	var buf bytes.Buffer
	logger := MustNewLogger(Config{Level: "info", Format: FormatJSON, Output: &buf})
	ctx := WithLogger(context.Background(), NewLogr(logger))
	FromContext(ctx).Info("from context")
	assert.Contains(t, buf.String(), "from context")
}
