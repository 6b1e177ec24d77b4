// Package logging builds the structured run log.
//
// kspray logs through zap; packages below cmd/ accept a logr.Logger so they
// stay independent of the backend.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Format selects the log encoding.
type Format string

const (
	// FormatAuto picks console on a terminal and JSON otherwise.
	FormatAuto Format = "auto"

	// FormatConsole is human-readable output.
	FormatConsole Format = "console"

	// FormatJSON is one JSON object per line, for CI systems.
	FormatJSON Format = "json"
)

// Config holds the configuration for the logger.
type Config struct {
	// Level is the minimum enabled logging level (debug, info, warn, error).
	Level string

	// Format is the log encoding.
	Format Format

	// Output receives log lines. Defaults to stderr.
	Output io.Writer
}

// DefaultConfig returns the configuration used before kspray.yaml is read.
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Format: FormatAuto,
		Output: os.Stderr,
	}
}

// NewLogger creates a new zap logger based on the provided configuration.
func NewLogger(cfg Config) (*zap.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	format, err := resolveFormat(cfg.Format, out)
	if err != nil {
		return nil, err
	}

	var encoder zapcore.Encoder
	if format == FormatJSON {
		encoderConfig := zap.NewProductionEncoderConfig()
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoderConfig := zap.NewDevelopmentEncoderConfig()
		encoderConfig.EncodeCaller = nil
		if isTerminal(out) {
			encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(zapcore.AddSync(out)), zap.NewAtomicLevelAt(level))
	return zap.New(core), nil
}

// NewLogr wraps a zap logger as a logr.Logger.
func NewLogr(logger *zap.Logger) logr.Logger {
	return zapr.NewLogger(logger)
}

// ParseLevel converts a string level to zapcore.Level.
func ParseLevel(level string) (zapcore.Level, error) {
	if level == "" {
		return zapcore.InfoLevel, nil
	}
	return zapcore.ParseLevel(strings.ToLower(level))
}

// MustNewLogger creates a new logger and panics if there's an error.
// This should only be used during application startup.
func MustNewLogger(cfg Config) *zap.Logger {
	logger, err := NewLogger(cfg)
	if err != nil {
		panic(fmt.Sprintf("failed to create logger: %v", err))
	}
	return logger
}

func resolveFormat(format Format, out io.Writer) (Format, error) {
	switch format {
	case FormatConsole, FormatJSON:
		return format, nil
	case FormatAuto, "":
		if isTerminal(out) {
			return FormatConsole, nil
		}
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("invalid log format %q", format)
	}
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// IsTerminal reports whether stdout is an interactive terminal.
func IsTerminal() bool {
	return isTerminal(os.Stdout)
}
