// Package logging builds the JSON slog loggers used across the service.
//
// Logs go to stderr and carry "module" and "version" attributes. Debug level
// adds source locations.
//
//	logging.SetDefaultStructuredLoggerWithLevel("recipes", version, "debug")
//	slog.Info("server starting", "port", 8080)
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// EnvLogLevel names the environment variable holding the default level.
const EnvLogLevel = "LOG_LEVEL"

// ParseLogLevel converts a case-insensitive level name to a slog.Level.
// Unknown or empty names yield slog.LevelInfo.
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewStructuredLogger returns a JSON logger writing to stderr.
func NewStructuredLogger(module, version, level string) *slog.Logger {
	return newLogger(os.Stderr, module, version, level)
}

func newLogger(w io.Writer, module, version, level string) *slog.Logger {
	lvl := ParseLogLevel(level)
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     lvl,
		AddSource: lvl <= slog.LevelDebug,
	})
	return slog.New(handler).With(
		slog.String("module", module),
		slog.String("version", version),
	)
}

// SetDefaultStructuredLogger installs a default logger whose level comes
// from LOG_LEVEL.
func SetDefaultStructuredLogger(module, version string) {
	SetDefaultStructuredLoggerWithLevel(module, version, os.Getenv(EnvLogLevel))
}

// SetDefaultStructuredLoggerWithLevel installs a default logger with an
// explicit level.
func SetDefaultStructuredLoggerWithLevel(module, version, level string) {
	slog.SetDefault(NewStructuredLogger(module, version, level))
}
