package cli

import (
	"io"
	"log/slog"
)

// NewLogger returns a text logger at the configured level, or debug when
// verbose is set.
func NewLogger(w io.Writer, level slog.Level, verbose bool) *slog.Logger {
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
