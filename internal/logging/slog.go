package logging

import (
	"io"
	"log/slog"

	"github.com/taboola/cassandra-count/types"
)

// Compile-time assertion that *slog.Logger implements types.Logger.
var _ types.Logger = (*slog.Logger)(nil)

// LevelForVerbosity maps the command-line debug verbosity to a slog level.
//
//   - 0: warnings and errors only
//   - 1: run-level progress (strategy, split totals)
//   - 2: per-window and per-split detail
func LevelForVerbosity(verbosity int) slog.Level {
	switch {
	case verbosity >= 2:
		return slog.LevelDebug
	case verbosity == 1:
		return slog.LevelInfo
	}

	return slog.LevelWarn
}

// New creates a text logger writing to w at the level implied by verbosity.
//
// Parameters:
//   - w: Destination, normally os.Stderr so stdout carries only the result line
//   - verbosity: Debug verbosity 0, 1 or 2
//
// Returns:
//   - *slog.Logger: A logger implementing types.Logger
func New(w io.Writer, verbosity int) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: LevelForVerbosity(verbosity),
	}))
}
