package scatter

import (
	"fmt"
	"math/bits"

	"github.com/taboola/cassandra-count/types"
)

// Aggregator sums per-split counts and remembers the first failure.
//
// It is not safe for concurrent use. The executor feeds it from the orchestrating
// goroutine only, after each window has drained.
type Aggregator struct {
	total     uint64
	completed int
	err       error
}

// Add adds a per-split count to the running total.
//
// A negative count or a total that no longer fits in 64 bits fails the aggregator.
// Add is a no-op once the aggregator has failed.
func (a *Aggregator) Add(n int64) error {
	if a.err != nil {
		return a.err
	}

	if n < 0 {
		a.err = types.NewQueryError("aggregate counts", fmt.Errorf("%w: %d", types.ErrNegativeCount, n))
		return a.err
	}

	sum, carry := bits.Add64(a.total, uint64(n), 0)
	if carry != 0 {
		a.err = types.NewQueryError("aggregate counts", types.ErrCountOverflow)
		return a.err
	}

	a.total = sum
	a.completed++

	return nil
}

// Fail records err unless a failure is already recorded.
func (a *Aggregator) Fail(err error) {
	if a.err == nil && err != nil {
		a.err = err
	}
}

// Failed reports whether any failure has been recorded.
func (a *Aggregator) Failed() bool {
	return a.err != nil
}

// Err returns the first recorded failure.
func (a *Aggregator) Err() error {
	return a.err
}

// Completed returns the number of counts added successfully.
func (a *Aggregator) Completed() int {
	return a.completed
}

// Total returns the sum of all added counts, or the first failure.
// The partial sum is never exposed once a failure occurred.
func (a *Aggregator) Total() (uint64, error) {
	if a.err != nil {
		return 0, a.err
	}

	return a.total, nil
}
