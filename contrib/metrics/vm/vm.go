package vm

import (
	"fmt"
	"io"
	"math"
	"net/http"
	"sync/atomic"

	"github.com/VictoriaMetrics/metrics"

	"github.com/taboola/cassandra-count/types"
)

// DefaultPrefix is the metric name prefix used when none is configured.
const DefaultPrefix = "cassandra_count"

// Option configures a Collector.
type Option func(*Collector)

// WithPrefix sets the metric name prefix.
//
// Default: "cassandra_count"
//
// Parameters:
//   - prefix: The prefix to use for all metric names
//
// Returns:
//   - Option: A configuration option
func WithPrefix(prefix string) Option {
	return func(c *Collector) {
		c.prefix = prefix
	}
}

// WithTable sets the table label attached to every metric.
//
// Default: no label
//
// Parameters:
//   - keyspace: Keyspace of the counted table
//   - table: Name of the counted table
//
// Returns:
//   - Option: A configuration option
func WithTable(keyspace, table string) Option {
	return func(c *Collector) {
		c.table = keyspace + "." + table
	}
}

// WithMetricsSet sets the metrics set to use.
//
// If provided, the collector will register metrics with this set instead of
// creating a new one. The caller is responsible for exposing this set
// (e.g., via metrics.WritePrometheus or a custom handler).
//
// Parameters:
//   - set: The metrics set to use
//
// Returns:
//   - Option: A configuration option
func WithMetricsSet(set *metrics.Set) Option {
	return func(c *Collector) {
		c.set = set
	}
}

// Collector implements types.MetricsCollector using VictoriaMetrics.
//
// Thread-safe for concurrent use.
type Collector struct {
	set    *metrics.Set
	prefix string
	table  string

	splitsPlanned atomic.Int64

	queryTotal    *metrics.Counter
	queryErrors   *metrics.Counter
	queryDuration *metrics.Histogram
	inFlight      atomic.Int64

	windowsDrained *metrics.Counter

	rowsCounted  *metrics.Counter
	runsComplete *metrics.Counter
	runsAborted  *metrics.Counter
}

var _ types.MetricsCollector = (*Collector)(nil)

// New creates a new VictoriaMetrics-based metrics collector.
//
// Without WithMetricsSet the collector creates its own metrics.Set and registers it globally.
//
// Parameters:
//   - opts: Configuration options (e.g., WithPrefix)
//
// Returns:
//   - *Collector: A new metrics collector ready for use
func New(opts ...Option) *Collector {
	c := &Collector{prefix: DefaultPrefix}

	for _, opt := range opts {
		opt(c)
	}

	if c.set == nil {
		c.set = metrics.NewSet()
		metrics.RegisterSet(c.set)
	}

	c.initMetrics()

	return c
}

func (c *Collector) name(metric string) string {
	if c.table == "" {
		return c.prefix + "_" + metric
	}

	return fmt.Sprintf(`%s_%s{table=%q}`, c.prefix, metric, c.table)
}

func (c *Collector) initMetrics() {
	c.set.NewGauge(c.name("splits_planned"), func() float64 {
		return float64(c.splitsPlanned.Load())
	})

	c.queryTotal = c.set.NewCounter(c.name("queries_total"))
	c.queryErrors = c.set.NewCounter(c.name("query_errors_total"))
	c.queryDuration = c.set.NewHistogram(c.name("query_duration_seconds"))
	c.set.NewGauge(c.name("queries_in_flight"), func() float64 {
		return float64(c.inFlight.Load())
	})

	c.windowsDrained = c.set.NewCounter(c.name("windows_drained_total"))

	c.rowsCounted = c.set.NewCounter(c.name("rows_counted_total"))
	c.runsComplete = c.set.NewCounter(c.name("runs_complete_total"))
	c.runsAborted = c.set.NewCounter(c.name("runs_aborted_total"))
}

// Set returns the underlying metrics set.
func (c *Collector) Set() *metrics.Set {
	return c.set
}

// Handler returns an HTTP handler that exposes metrics in Prometheus format.
func (c *Collector) Handler(w http.ResponseWriter, _ *http.Request) {
	c.set.WritePrometheus(w)
}

// WritePrometheus writes all metrics in Prometheus format to the given writer.
func (c *Collector) WritePrometheus(w io.Writer) {
	c.set.WritePrometheus(w)
}

// ----------------------
// Planning
// ----------------------

// SetSplitsPlanned sets the planned split gauge.
func (c *Collector) SetSplitsPlanned(n int) {
	c.splitsPlanned.Store(int64(n))
}

// ----------------------
// Queries
// ----------------------

// IncQueryTotal increments the issued count query counter.
func (c *Collector) IncQueryTotal() {
	c.queryTotal.Inc()
}

// IncQueryError increments the failed count query counter.
func (c *Collector) IncQueryError() {
	c.queryErrors.Inc()
}

// ObserveQueryDuration records a count query duration in seconds.
func (c *Collector) ObserveQueryDuration(seconds float64) {
	c.queryDuration.Update(seconds)
}

// SetQueriesInFlight sets the outstanding query gauge.
func (c *Collector) SetQueriesInFlight(n int) {
	c.inFlight.Store(int64(n))
}

// ----------------------
// Windows
// ----------------------

// IncWindowDrained increments the drained window counter.
func (c *Collector) IncWindowDrained() {
	c.windowsDrained.Inc()
}

// ----------------------
// Runs
// ----------------------

// AddRowsCounted adds to the counted rows counter.
func (c *Collector) AddRowsCounted(n uint64) {
	c.rowsCounted.Add(int(min(n, math.MaxInt)))
}

// IncRunComplete increments the completed run counter.
func (c *Collector) IncRunComplete() {
	c.runsComplete.Inc()
}

// IncRunAborted increments the aborted run counter.
func (c *Collector) IncRunAborted() {
	c.runsAborted.Inc()
}
