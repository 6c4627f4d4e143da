package count

import (
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/taboola/cassandra-count/planner"
)

// Result describes a completed run.
type Result struct {
	// RunID uniquely identifies the run.
	RunID uuid.UUID

	Keyspace string
	Table    string

	// Count is the exact number of rows.
	Count uint64

	// Strategy is the planning strategy that produced the splits.
	Strategy planner.Strategy

	// Splits is the number of count queries issued.
	Splits int

	StartedAt time.Time
	Duration  time.Duration
}

// Name returns "<keyspace>.<table>".
func (r *Result) Name() string {
	return r.Keyspace + "." + r.Table
}

// String returns the result line "<keyspace>.<table>: <count>".
func (r *Result) String() string {
	return r.Name() + ": " + strconv.FormatUint(r.Count, 10)
}
