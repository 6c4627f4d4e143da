// Package count computes the exact row count of a Cassandra or ScyllaDB table.
//
// The token ring is split into sub-ranges, one COUNT(*) query is issued per sub-range
// with bounded, windowed concurrency, and the partial counts are summed. The result is
// all-or-nothing: if any sub-range query fails, no total is produced.
//
// # Overview
//
// A run moves through the states INIT, CONNECTED, PLANNED, EXECUTING and ends in
// COMPLETE or ABORTED:
//
//   - connect: a [ConnectFunc] opens the session
//   - plan: the [planner] chooses explicit, even or size-estimate splits
//   - execute: the [scatter] executor counts every split, W queries at a time
//   - report: every [Reporter] receives the [Result] of a completed run
//
// The session is always closed before Run returns.
//
// # Basic Usage
//
//	cfg := count.DefaultConfig()
//	cfg.Keyspace = "shop"
//	cfg.Table = "orders"
//
//	counter, err := count.New(cfg, count.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//
//	result, err := counter.Run(ctx, func(ctx context.Context) (cql.Session, error) {
//	    return v1.Connect(cql.ConnectOptions{Hosts: []string{"10.0.0.1"}})
//	})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(result) // shop.orders: 12345
//
// # Splitting
//
// With NumSplits >= 0 each natural token range of the cluster is split evenly, with at
// least ten splits per range. With NumSplits < 0 the split count of each range is derived
// from system.size_estimates so that one split covers about SplitSizeBytes. Setting both
// BeginToken and EndToken restricts the count to (BeginToken, EndToken].
//
// # Error Handling
//
// Errors carry a [types.ErrorKind]: configuration errors are reported by [New] before
// any network activity, connection errors when the session cannot be opened and query
// errors when a metadata read or a count query fails. Nothing is retried; a query error
// usually means the splits are too large for the read timeout.
package count
