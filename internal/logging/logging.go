// Package logging builds the structured loggers used across the service.
package logging

import (
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
)

// New creates a JSON logger writing to stderr. The module name and version
// are attached to every record. AddSource is enabled at debug level only.
func New(module, version, level string) *slog.Logger {
	return NewWithWriter(os.Stderr, module, version, level)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(w io.Writer, module, version, level string) *slog.Logger {
	lev := ParseLevel(level)
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     lev,
		AddSource: lev <= slog.LevelDebug,
	})).With("module", module, "version", version)
}

// StdLogger adapts logger for APIs that need a *log.Logger, such as
// http.Server.ErrorLog.
func StdLogger(logger *slog.Logger, level slog.Level) *log.Logger {
	return slog.NewLogLogger(logger.Handler(), level)
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// ParseLevel converts a level name into a slog.Level. Unknown names map to info.
func ParseLevel(level string) slog.Level {
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
