package count

import (
	"errors"
	"fmt"
	"time"

	"github.com/taboola/cassandra-count/internal/logging"
	"github.com/taboola/cassandra-count/internal/metrics"
	"github.com/taboola/cassandra-count/planner"
	"github.com/taboola/cassandra-count/scatter"
	"github.com/taboola/cassandra-count/types"
)

// DefaultSplitSizeBytes is the default target data size per split in size-estimate mode.
const DefaultSplitSizeBytes = 2 * 1024 * 1024

// Config is the validated, immutable configuration of a run.
type Config struct {
	// Keyspace and Table name the counted table. Required.
	Keyspace string
	Table    string

	// BeginToken and EndToken, when both set, restrict the count to (BeginToken, EndToken].
	BeginToken *types.Token
	EndToken   *types.Token

	// NumSplits controls splitting: 0 splits every natural range evenly, > 0 is a target
	// split count and < 0 derives split counts from size estimates.
	NumSplits int

	// SplitSizeBytes is the target data size per split when NumSplits < 0.
	SplitSizeBytes int64

	// NumFutures is the maximum number of concurrently outstanding count queries.
	NumFutures int

	// ReadTimeout bounds every count query.
	ReadTimeout time.Duration

	// Consistency is the consistency level of the count queries.
	Consistency types.Consistency

	// CancelOnFailure cancels the other in-flight queries of a window as soon as one
	// fails, instead of letting them finish.
	CancelOnFailure bool
}

// DefaultConfig returns a Config with sensible defaults.
//
// Keyspace and Table must still be set.
//
// Returns:
//   - Config: Configuration with default settings
func DefaultConfig() Config {
	return Config{
		NumSplits:      0,
		SplitSizeBytes: DefaultSplitSizeBytes,
		NumFutures:     scatter.DefaultWindowSize,
		ReadTimeout:    scatter.DefaultQueryTimeout,
		Consistency:    types.LocalOne,
	}
}

// Validate reports the first problem with the configuration as a configuration error.
func (c Config) Validate() error {
	var problem error
	switch {
	case c.Keyspace == "":
		problem = errors.New("keyspace is required")
	case c.Table == "":
		problem = errors.New("table is required")
	case (c.BeginToken == nil) != (c.EndToken == nil):
		problem = errors.New("begin token and end token must be given together")
	case c.BeginToken != nil && *c.BeginToken >= *c.EndToken:
		problem = fmt.Errorf("begin token %s must be less than end token %s", *c.BeginToken, *c.EndToken)
	case c.NumFutures < 1:
		problem = fmt.Errorf("number of futures must be at least 1, got %d", c.NumFutures)
	case c.SplitSizeBytes < 0:
		problem = fmt.Errorf("split size must not be negative, got %d", c.SplitSizeBytes)
	case c.NumSplits < 0 && c.BeginToken == nil && c.SplitSizeBytes == 0:
		problem = errors.New("split size must be positive when splitting by size estimates")
	case c.ReadTimeout <= 0:
		problem = fmt.Errorf("read timeout must be positive, got %s", c.ReadTimeout)
	}

	if problem != nil {
		return types.NewConfigurationError("validate", problem)
	}

	return nil
}

// plannerConfig returns the planner view of the configuration.
func (c Config) plannerConfig() planner.Config {
	return planner.Config{
		Keyspace:       c.Keyspace,
		Table:          c.Table,
		Begin:          c.BeginToken,
		End:            c.EndToken,
		NumSplits:      c.NumSplits,
		SplitSizeBytes: c.SplitSizeBytes,
	}
}

// StateObserver is notified of every run state transition.
type StateObserver func(from, to types.RunState)

// options holds the collaborators of a Counter.
type options struct {
	logger    types.Logger
	metrics   types.MetricsCollector
	reporters []Reporter
	source    planner.Source
	observer  StateObserver
}

func defaultOptions() options {
	return options{
		logger:  logging.NewNopLogger(),
		metrics: metrics.NewNopMetrics(),
	}
}

// Option configures a Counter.
type Option func(*options)

// WithLogger sets the logger for run progress.
//
// *slog.Logger satisfies types.Logger.
//
// Parameters:
//   - logger: Logger implementation; nil keeps the no-op default
//
// Returns:
//   - Option: Configuration option
func WithLogger(logger types.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetrics sets the metrics collector.
//
// Example with VictoriaMetrics:
//
//	collector := vm.New(vm.WithPrefix("cassandra_count"))
//	counter, _ := count.New(cfg, count.WithMetrics(collector))
//
// Parameters:
//   - collector: MetricsCollector implementation; nil keeps the no-op default
//
// Returns:
//   - Option: Configuration option
func WithMetrics(collector types.MetricsCollector) Option {
	return func(o *options) {
		if collector != nil {
			o.metrics = collector
		}
	}
}

// WithReporter adds a reporter that receives the result of every completed run.
// Reporters run in the order they were added.
func WithReporter(r Reporter) Option {
	return func(o *options) {
		if r != nil {
			o.reporters = append(o.reporters, r)
		}
	}
}

// WithSource overrides where token ranges and size estimates come from.
//
// By default they are read from the system tables through the run's session.
func WithSource(source planner.Source) Option {
	return func(o *options) {
		o.source = source
	}
}

// WithStateObserver registers a callback for run state transitions.
func WithStateObserver(fn StateObserver) Option {
	return func(o *options) {
		o.observer = fn
	}
}
