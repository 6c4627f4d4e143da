// Package vm provides a VictoriaMetrics-based implementation of the MetricsCollector interface.
//
// This package uses github.com/VictoriaMetrics/metrics for lightweight,
// Prometheus-compatible metrics collection.
//
// # Basic Usage
//
// Create a collector with default prefix "cassandra_count":
//
//	collector := vm.New(vm.WithTable("shop", "orders"))
//	counter, _ := count.New(cfg, count.WithMetrics(collector))
//
// # Custom Prefix
//
// Use WithPrefix to customize the metric name prefix:
//
//	collector := vm.New(vm.WithPrefix("myapp"))
//
// This produces metrics like:
//   - myapp_queries_total{table="shop.orders"}
//   - myapp_query_duration_seconds{table="shop.orders"}
//
// # Exposing Metrics
//
// A one-shot CLI run typically dumps the set once the run ends:
//
//	f, _ := os.Create("count.prom")
//	collector.WritePrometheus(f)
//
// Long-running callers can serve the set instead:
//
//	http.HandleFunc("/metrics", collector.Handler)
//
// # Metrics Provided
//
// Planning:
//   - {prefix}_splits_planned{table} - Gauge of splits in the current plan
//
// Queries:
//   - {prefix}_queries_total{table} - Counter of issued count queries
//   - {prefix}_query_errors_total{table} - Counter of failed count queries
//   - {prefix}_query_duration_seconds{table} - Histogram of count query latencies
//   - {prefix}_queries_in_flight{table} - Gauge of outstanding count queries
//
// Windows:
//   - {prefix}_windows_drained_total{table} - Counter of fully drained windows
//
// Runs:
//   - {prefix}_rows_counted_total{table} - Counter of rows counted by completed runs
//   - {prefix}_runs_complete_total{table} - Counter of completed runs
//   - {prefix}_runs_aborted_total{table} - Counter of aborted runs
//
// All metrics are pre-created at initialization time using the NewXXX pattern
// instead of GetOrCreateXXX.
package vm
