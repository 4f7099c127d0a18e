// Package logging configures the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// EnvKeyLogLevel selects the minimum log level (debug, info, warn, error).
const EnvKeyLogLevel = "LOG_LEVEL"

// Setup installs a JSON slog handler writing to stdout as the default logger.
func Setup() {
	slog.SetDefault(New(os.Stdout, ParseLevel(os.Getenv(EnvKeyLogLevel))))
}

// New returns a JSON logger writing to w at the given level.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// ParseLevel converts a level name to slog.Level. Unknown names mean info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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
