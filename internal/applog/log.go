// Package applog builds the structured logger shared by the scanner,
// comparator, and priority-handler workers, following the
// config-struct-with-optional-*slog.Logger pattern used for worker
// configuration elsewhere in the corpus.
package applog

import (
	"io"
	"log/slog"
	"os"
)

// Config controls where logs go and at what level.
type Config struct {
	Level  slog.Level
	Output io.Writer
}

// New builds a *slog.Logger writing text-handler output, defaulting to
// stderr so it never interleaves with the TUI's own stdout frame output.
func New(cfg Config) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	handler := slog.NewTextHandler(out, &slog.HandlerOptions{Level: cfg.Level})
	return slog.New(handler)
}

// ParseLevel maps a CLI --log-level flag value to a slog.Level, defaulting
// to Info for anything unrecognized.
func ParseLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
