// Package logging configures colored structured logging with tint.
//
// Usage:
//
//	logging.Setup(os.Stderr, "debug")        // level by name
//	logger := logging.New(w, slog.LevelInfo) // without touching the default
//
// Level names: debug, info, warn, error (anything else means info).
package logging

import (
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Setup installs a colored logger writing to w as the slog default and
// returns it.
func Setup(w io.Writer, levelName string) *slog.Logger {
	logger := New(w, ParseLevel(levelName))
	slog.SetDefault(logger)
	return logger
}

// New returns a tint logger at the given level.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		AddSource:  level <= slog.LevelDebug,
	}))
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
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
