package testutil

import (
	"sync"
	"sync/atomic"

	"github.com/taboola/cassandra-count/types"
)

// TestMetricsCollector is a test implementation of types.MetricsCollector
// that tracks method calls for assertion in tests.
type TestMetricsCollector struct {
	mu sync.RWMutex

	SplitsPlanned  int
	QueryDurations []float64
	InFlight       []int
	RowsCounted    uint64

	queryTotal     atomic.Int64
	queryErrors    atomic.Int64
	windowsDrained atomic.Int64
	runsComplete   atomic.Int64
	runsAborted    atomic.Int64
}

// Compile-time assertion that TestMetricsCollector implements types.MetricsCollector.
var _ types.MetricsCollector = (*TestMetricsCollector)(nil)

// NewTestMetricsCollector creates a new test metrics collector.
func NewTestMetricsCollector() *TestMetricsCollector {
	return &TestMetricsCollector{}
}

// SetSplitsPlanned records the planned split count.
func (m *TestMetricsCollector) SetSplitsPlanned(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SplitsPlanned = n
}

// IncQueryTotal increments the query counter.
func (m *TestMetricsCollector) IncQueryTotal() {
	m.queryTotal.Add(1)
}

// IncQueryError increments the query error counter.
func (m *TestMetricsCollector) IncQueryError() {
	m.queryErrors.Add(1)
}

// ObserveQueryDuration records a query duration.
func (m *TestMetricsCollector) ObserveQueryDuration(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.QueryDurations = append(m.QueryDurations, seconds)
}

// SetQueriesInFlight records an in-flight sample.
func (m *TestMetricsCollector) SetQueriesInFlight(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.InFlight = append(m.InFlight, n)
}

// IncWindowDrained increments the drained window counter.
func (m *TestMetricsCollector) IncWindowDrained() {
	m.windowsDrained.Add(1)
}

// AddRowsCounted adds to the counted rows.
func (m *TestMetricsCollector) AddRowsCounted(n uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.RowsCounted += n
}

// IncRunComplete increments the completed run counter.
func (m *TestMetricsCollector) IncRunComplete() {
	m.runsComplete.Add(1)
}

// IncRunAborted increments the aborted run counter.
func (m *TestMetricsCollector) IncRunAborted() {
	m.runsAborted.Add(1)
}

// GetQueryTotal returns the number of issued queries.
func (m *TestMetricsCollector) GetQueryTotal() int64 {
	return m.queryTotal.Load()
}

// GetQueryErrors returns the number of failed queries.
func (m *TestMetricsCollector) GetQueryErrors() int64 {
	return m.queryErrors.Load()
}

// GetWindowsDrained returns the number of drained windows.
func (m *TestMetricsCollector) GetWindowsDrained() int64 {
	return m.windowsDrained.Load()
}

// GetRunsComplete returns the number of completed runs.
func (m *TestMetricsCollector) GetRunsComplete() int64 {
	return m.runsComplete.Load()
}

// GetRunsAborted returns the number of aborted runs.
func (m *TestMetricsCollector) GetRunsAborted() int64 {
	return m.runsAborted.Load()
}

// GetSplitsPlanned returns the last planned split count.
func (m *TestMetricsCollector) GetSplitsPlanned() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.SplitsPlanned
}

// GetRowsCounted returns the counted rows.
func (m *TestMetricsCollector) GetRowsCounted() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.RowsCounted
}

// MaxInFlight returns the largest in-flight sample.
func (m *TestMetricsCollector) MaxInFlight() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	highest := 0
	for _, n := range m.InFlight {
		highest = max(highest, n)
	}

	return highest
}
