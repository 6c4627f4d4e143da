package scatter

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/taboola/cassandra-count/internal/logging"
	"github.com/taboola/cassandra-count/internal/metrics"
	"github.com/taboola/cassandra-count/types"
)

const (
	// DefaultWindowSize is the default number of concurrently outstanding queries.
	DefaultWindowSize = 100

	// DefaultQueryTimeout bounds each count query.
	DefaultQueryTimeout = 12 * time.Second
)

// RangeCounter counts the rows whose partition token lies in a range.
//
// Implementations must be safe for concurrent use; the executor calls Count from
// up to window-size goroutines at once.
type RangeCounter interface {
	Count(ctx context.Context, r types.TokenRange) (int64, error)
}

// CounterFunc adapts a function to the RangeCounter interface.
type CounterFunc func(ctx context.Context, r types.TokenRange) (int64, error)

// Count calls f(ctx, r).
func (f CounterFunc) Count(ctx context.Context, r types.TokenRange) (int64, error) {
	return f(ctx, r)
}

// WindowStats describes one drained window.
type WindowStats struct {
	// Index is the zero-based window number.
	Index int

	// Size is the number of queries admitted in the window.
	Size int

	// Failed is the number of queries of the window that failed.
	Failed int

	// Duration is the time from admission to full drain.
	Duration time.Duration
}

// Executor issues count queries window by window.
type Executor struct {
	windowSize      int
	queryTimeout    time.Duration
	cancelOnFailure bool
	observer        func(WindowStats)
	logger          types.Logger
	metrics         types.MetricsCollector
}

// Option configures an Executor.
type Option func(*Executor)

// WithWindowSize sets the maximum number of outstanding queries.
// Values below 1 are ignored.
func WithWindowSize(n int) Option {
	return func(e *Executor) {
		if n >= 1 {
			e.windowSize = n
		}
	}
}

// WithQueryTimeout sets the per-query timeout. A non-positive value disables it.
func WithQueryTimeout(d time.Duration) Option {
	return func(e *Executor) {
		e.queryTimeout = d
	}
}

// WithCancelOnFailure cancels the other in-flight queries of a window as soon as one
// of them fails. By default they are left to finish.
func WithCancelOnFailure(enabled bool) Option {
	return func(e *Executor) {
		e.cancelOnFailure = enabled
	}
}

// WithWindowObserver registers a callback invoked after every drained window.
func WithWindowObserver(fn func(WindowStats)) Option {
	return func(e *Executor) {
		e.observer = fn
	}
}

// WithLogger sets the logger.
func WithLogger(logger types.Logger) Option {
	return func(e *Executor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m types.MetricsCollector) Option {
	return func(e *Executor) {
		if m != nil {
			e.metrics = m
		}
	}
}

// New creates an Executor.
//
// Parameters:
//   - opts: Optional configuration
//
// Returns:
//   - *Executor: An executor with a window of DefaultWindowSize and a query timeout
//     of DefaultQueryTimeout unless overridden
func New(opts ...Option) *Executor {
	e := &Executor{
		windowSize:   DefaultWindowSize,
		queryTimeout: DefaultQueryTimeout,
		logger:       logging.NewNopLogger(),
		metrics:      metrics.NewNopMetrics(),
	}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

// WindowSize returns the configured window size.
func (e *Executor) WindowSize() int {
	return e.windowSize
}

// Execute counts every split and returns the total.
//
// Parameters:
//   - ctx: Cancelling ctx stops admission of further windows and cancels in-flight queries
//   - splits: The planned splits, processed in order
//   - counter: Issues the per-split count query
//
// Returns:
//   - uint64: The sum of all per-split counts
//   - error: The first query failure, or ctx.Err() if the run was cancelled; the total
//     is zero whenever err is non-nil
func (e *Executor) Execute(ctx context.Context, splits []types.Split, counter RangeCounter) (uint64, error) {
	var agg Aggregator

	for start, window := 0, 0; start < len(splits); start, window = start+e.windowSize, window+1 {
		if err := ctx.Err(); err != nil {
			agg.Fail(err)
			break
		}

		end := min(start+e.windowSize, len(splits))
		e.runWindow(ctx, window, splits[start:end], counter, &agg)
		if agg.Failed() {
			e.logger.Error("count query failed, no further windows admitted",
				"window", window, "remaining_splits", len(splits)-end, "error", agg.Err())
			break
		}
	}

	return agg.Total()
}

// runWindow issues one query per split and blocks until all of them resolved.
func (e *Executor) runWindow(ctx context.Context, index int, splits []types.Split, counter RangeCounter, agg *Aggregator) {
	began := time.Now()
	counts := make([]int64, len(splits))

	var (
		g       *errgroup.Group
		gctx    = ctx
		failed  atomic.Int32
		pending atomic.Int64
	)
	if e.cancelOnFailure {
		g, gctx = errgroup.WithContext(ctx)
	} else {
		g = &errgroup.Group{}
	}

	e.logger.Debug("admitting window", "window", index, "size", len(splits),
		"first_split", splits[0].Index)

	for i, split := range splits {
		e.metrics.IncQueryTotal()
		e.metrics.SetQueriesInFlight(int(pending.Add(1)))

		g.Go(func() error {
			defer func() { e.metrics.SetQueriesInFlight(int(pending.Add(-1))) }()

			n, err := e.count(gctx, split, counter)
			if err != nil {
				failed.Add(1)
				e.metrics.IncQueryError()
				return err
			}
			counts[i] = n

			return nil
		})
	}

	err := g.Wait()

	stats := WindowStats{
		Index:    index,
		Size:     len(splits),
		Failed:   int(failed.Load()),
		Duration: time.Since(began),
	}
	e.metrics.IncWindowDrained()
	e.logger.Debug("window drained", "window", index, "size", stats.Size,
		"failed", stats.Failed, "duration", stats.Duration)
	if e.observer != nil {
		e.observer(stats)
	}

	if err != nil {
		agg.Fail(err)
		return
	}

	for _, n := range counts {
		if agg.Add(n) != nil {
			return
		}
	}
}

// count runs a single query under the per-query timeout.
func (e *Executor) count(ctx context.Context, split types.Split, counter RangeCounter) (int64, error) {
	qctx := ctx
	if e.queryTimeout > 0 {
		var cancel context.CancelFunc
		qctx, cancel = context.WithTimeout(ctx, e.queryTimeout)
		defer cancel()
	}

	began := time.Now()
	n, err := counter.Count(qctx, split.Range)
	e.metrics.ObserveQueryDuration(time.Since(began).Seconds())

	if err == nil {
		e.logger.Debug("split counted", "split", split.Index, "range", split.Range.String(), "count", n)
		return n, nil
	}

	if ctx.Err() == nil && errors.Is(qctx.Err(), context.DeadlineExceeded) {
		err = fmt.Errorf("timed out after %s: %w", e.queryTimeout, err)
	}

	var typed *types.Error
	if !errors.As(err, &typed) {
		err = types.NewQueryError(fmt.Sprintf("count split %d %s", split.Index, split.Range), err)
	}

	return 0, err
}
