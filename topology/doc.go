// Package topology reads the token layout and size statistics of a cluster.
//
// Both sources implement planner.Source.
//
// # CQL Source
//
// [CQL] queries the system tables through a cql.Session:
//
//   - system.local and system.peers for the tokens owned by every node, from which
//     the natural token ranges are derived
//   - system.size_estimates for per-range partition statistics of a table
//   - system_schema.columns for the partition key of a table
//
// Only the Murmur3 partitioner is supported; any other partitioner is rejected with
// [types.ErrUnsupportedPartitioner].
//
//	source := topology.NewCQL(session, topology.WithLogger(logger))
//	ranges, err := source.NaturalRanges(ctx)
//
// # Static Source
//
// [Static] serves fixed ranges and estimates from memory. It is useful for tests and
// for planning against a ring captured elsewhere:
//
//	static := topology.NewStatic()
//	static.SetTokens(-4611686018427387904, 0, 4611686018427387904)
package topology
