package types

// Logger is the structured logger used throughout cassandra-count.
//
// Messages carry alternating key/value pairs. *slog.Logger satisfies this interface
// directly, as does zap.SugaredLogger's "w" family through a thin wrapper.
//
// Example:
//
//	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
//	counter, _ := count.New(cfg, count.WithLogger(logger))
type Logger interface {
	// Debug logs per-split and per-window detail.
	Debug(msg string, keysAndValues ...any)

	// Info logs run-level progress such as the chosen strategy and split count.
	Info(msg string, keysAndValues ...any)

	// Warn logs recoverable anomalies, e.g. a table without size estimates.
	Warn(msg string, keysAndValues ...any)

	// Error logs failures that abort the run.
	Error(msg string, keysAndValues ...any)
}
