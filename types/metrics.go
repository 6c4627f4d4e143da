package types

// MetricsCollector defines methods for collecting operational metrics of a count run.
//
// Implementations should be thread-safe: the query methods are called concurrently
// from every in-flight query of a window.
//
// Example usage with VictoriaMetrics (via contrib/metrics/vm):
//
//	import vmmetrics "github.com/taboola/cassandra-count/contrib/metrics/vm"
//
//	collector := vmmetrics.New(vmmetrics.WithPrefix("myapp"))
//	counter, _ := count.New(cfg, count.WithMetrics(collector))
type MetricsCollector interface {
	// ----------------------
	// Planning
	// ----------------------

	// SetSplitsPlanned records the number of splits produced by the planner.
	SetSplitsPlanned(n int)

	// ----------------------
	// Queries
	// ----------------------

	// IncQueryTotal increments the issued count query counter.
	IncQueryTotal()

	// IncQueryError increments the failed count query counter.
	IncQueryError()

	// ObserveQueryDuration records a count query duration in seconds.
	ObserveQueryDuration(seconds float64)

	// SetQueriesInFlight sets the number of outstanding count queries.
	SetQueriesInFlight(n int)

	// ----------------------
	// Windows
	// ----------------------

	// IncWindowDrained increments the counter of fully drained windows.
	IncWindowDrained()

	// ----------------------
	// Runs
	// ----------------------

	// AddRowsCounted adds successfully counted rows.
	// Only called once per completed run with the final total.
	AddRowsCounted(n uint64)

	// IncRunComplete increments the completed run counter.
	IncRunComplete()

	// IncRunAborted increments the aborted run counter.
	IncRunAborted()
}
