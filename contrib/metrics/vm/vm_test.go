package vm

import (
	"bytes"
	"testing"

	"github.com/VictoriaMetrics/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorWritesLabelledMetrics(t *testing.T) {
	set := metrics.NewSet()
	c := New(WithMetricsSet(set), WithPrefix("cc"), WithTable("shop", "orders"))
	require.Same(t, set, c.Set())

	c.SetSplitsPlanned(12)
	c.IncQueryTotal()
	c.IncQueryTotal()
	c.IncQueryError()
	c.ObserveQueryDuration(0.25)
	c.SetQueriesInFlight(3)
	c.IncWindowDrained()
	c.AddRowsCounted(1500)
	c.IncRunComplete()

	var buf bytes.Buffer
	c.WritePrometheus(&buf)
	out := buf.String()

	assert.Contains(t, out, `cc_splits_planned{table="shop.orders"} 12`)
	assert.Contains(t, out, `cc_queries_total{table="shop.orders"} 2`)
	assert.Contains(t, out, `cc_query_errors_total{table="shop.orders"} 1`)
	assert.Contains(t, out, `cc_queries_in_flight{table="shop.orders"} 3`)
	assert.Contains(t, out, `cc_windows_drained_total{table="shop.orders"} 1`)
	assert.Contains(t, out, `cc_rows_counted_total{table="shop.orders"} 1500`)
	assert.Contains(t, out, `cc_runs_complete_total{table="shop.orders"} 1`)
	assert.Contains(t, out, `cc_runs_aborted_total{table="shop.orders"} 0`)
	assert.Contains(t, out, `cc_query_duration_seconds_bucket`)
}

func TestCollectorDefaultPrefixWithoutTable(t *testing.T) {
	c := New(WithMetricsSet(metrics.NewSet()))
	c.IncRunAborted()

	var buf bytes.Buffer
	c.WritePrometheus(&buf)
	assert.Contains(t, buf.String(), "cassandra_count_runs_aborted_total 1")
}
