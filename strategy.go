package count

import (
	"context"

	"github.com/taboola/cassandra-count/adapter/cql"
)

// ConnectFunc opens the session a run counts through.
//
// The run owns the returned session and closes it before Run returns.
type ConnectFunc func(ctx context.Context) (cql.Session, error)

// Reporter publishes the result of a completed run.
//
// Reporters are never invoked for aborted runs.
type Reporter interface {
	// Report publishes result.
	//
	// Parameters:
	//   - ctx: Context for cancellation
	//   - result: The completed run
	//
	// Returns:
	//   - error: Non-nil if the result could not be published
	Report(ctx context.Context, result *Result) error
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(ctx context.Context, result *Result) error

// Report calls f(ctx, result).
func (f ReporterFunc) Report(ctx context.Context, result *Result) error {
	return f(ctx, result)
}
