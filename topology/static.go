package topology

import (
	"context"
	"slices"
	"sync"

	"github.com/taboola/cassandra-count/types"
)

// Static serves a fixed token layout and fixed size estimates from memory.
//
// Unlike CQL, this implementation allows programmatic control of what the planner
// sees, making it useful for unit tests and offline planning.
type Static struct {
	mu        sync.RWMutex
	ranges    []types.TokenRange
	estimates map[string][]types.SizeEstimate
	err       error
}

// NewStatic creates an empty static source.
//
// Returns:
//   - *Static: A source with no ranges and no estimates
func NewStatic() *Static {
	return &Static{estimates: make(map[string][]types.SizeEstimate)}
}

// SetTokens replaces the natural ranges with the ring built from tokens.
func (s *Static) SetTokens(tokens ...types.Token) {
	s.SetRanges(BuildRing(tokens))
}

// SetRanges replaces the natural ranges.
func (s *Static) SetRanges(ranges []types.TokenRange) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ranges = slices.Clone(ranges)
}

// SetEstimates replaces the size estimates of a table.
func (s *Static) SetEstimates(keyspace, table string, estimates []types.SizeEstimate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.estimates[keyspace+"."+table] = slices.Clone(estimates)
}

// SetError makes every subsequent read fail with err. A nil err clears it.
func (s *Static) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.err = err
}

// NaturalRanges returns the configured ranges.
//
// Returns:
//   - error: types.ErrNoTokenRanges if no ranges were set, or the configured error
func (s *Static) NaturalRanges(_ context.Context) ([]types.TokenRange, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.err != nil {
		return nil, s.err
	}
	if len(s.ranges) == 0 {
		return nil, types.ErrNoTokenRanges
	}

	return slices.Clone(s.ranges), nil
}

// SizeEstimates returns the estimates configured for keyspace.table.
func (s *Static) SizeEstimates(_ context.Context, keyspace, table string) ([]types.SizeEstimate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.err != nil {
		return nil, s.err
	}

	return slices.Clone(s.estimates[keyspace+"."+table]), nil
}
