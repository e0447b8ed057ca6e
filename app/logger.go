package app

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger builds a slog.Logger writing to stderr according to s.
func Logger(s LogSettings) *slog.Logger {
	return NewLogger(os.Stderr, s)
}

// NewLogger is Logger with an explicit writer.
func NewLogger(w io.Writer, s LogSettings) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(s.Level)}
	if strings.EqualFold(s.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Discard is the logger used when a component is handed nil.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func parseLevel(level string) slog.Level {
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
