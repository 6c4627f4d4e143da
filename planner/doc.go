// Package planner turns a target table and the cluster's token layout into an ordered
// list of token sub-ranges, one per count query.
//
// Three strategies exist and exactly one is chosen per run, in this priority:
//
//   - Explicit: a caller-supplied (begin, end] interval is cut into NumSplits
//     equal-delta pieces.
//   - Even: every natural token range of the cluster is cut into the same number of
//     pieces, with at least ten splits per natural range overall.
//   - SizeEstimate: each range from system.size_estimates is cut so that one split
//     covers roughly SplitSizeBytes of data.
//
// All pieces follow the (start, end] convention and never wrap the ring boundary, so the
// count predicate "token(pk) > start AND token(pk) <= end" matches every row exactly once
// across the plan.
//
// # Basic Usage
//
//	p := planner.New(topology.NewCQLSource(session), planner.WithLogger(logger))
//	plan, err := p.Plan(ctx, planner.Config{
//	    Keyspace:  "shop",
//	    Table:     "orders",
//	    NumSplits: 0,
//	})
//
// The Explicit, Even and BySize functions are pure and may be used without a Source.
package planner
