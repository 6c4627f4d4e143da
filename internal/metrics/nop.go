// Package metrics provides internal metrics utilities for cassandra-count.
package metrics

import "github.com/taboola/cassandra-count/types"

// NopMetrics is a no-op metrics collector that discards all metrics.
//
// This is used as the default metrics collector when no collector is configured,
// avoiding nil checks throughout the codebase.
type NopMetrics struct{}

// Compile-time assertion that NopMetrics implements types.MetricsCollector.
var _ types.MetricsCollector = (*NopMetrics)(nil)

// NewNopMetrics creates a new no-op metrics collector.
//
// Returns:
//   - *NopMetrics: A collector that discards all metrics
func NewNopMetrics() *NopMetrics {
	return &NopMetrics{}
}

// ----------------------
// Planning
// ----------------------

// SetSplitsPlanned discards the metric.
func (m *NopMetrics) SetSplitsPlanned(_ int) {}

// ----------------------
// Queries
// ----------------------

// IncQueryTotal discards the metric.
func (m *NopMetrics) IncQueryTotal() {}

// IncQueryError discards the metric.
func (m *NopMetrics) IncQueryError() {}

// ObserveQueryDuration discards the metric.
func (m *NopMetrics) ObserveQueryDuration(_ float64) {}

// SetQueriesInFlight discards the metric.
func (m *NopMetrics) SetQueriesInFlight(_ int) {}

// ----------------------
// Windows
// ----------------------

// IncWindowDrained discards the metric.
func (m *NopMetrics) IncWindowDrained() {}

// ----------------------
// Runs
// ----------------------

// AddRowsCounted discards the metric.
func (m *NopMetrics) AddRowsCounted(_ uint64) {}

// IncRunComplete discards the metric.
func (m *NopMetrics) IncRunComplete() {}

// IncRunAborted discards the metric.
func (m *NopMetrics) IncRunAborted() {}
