// Package types provides shared types and error definitions for cassandra-count.
//
// This is a leaf package with zero cassandra-count imports to prevent import cycles.
// All packages in the module can safely import this package.
//
// # Tokens and Ranges
//
// Token is a position on the Murmur3 token ring:
//
//	const (
//	    MinToken Token = math.MinInt64
//	    MaxToken Token = math.MaxInt64
//	)
//
// TokenRange is a half-open interval written (Start, End]: it excludes Start and
// includes End. This single convention is used by the planner, the executor and
// the count query template alike:
//
//	token(pk) > Start AND token(pk) <= End
//
// A range wraps when Start > End. Wrapping ranges never reach the executor; they are
// normalized at the ring boundary first:
//
//	r := types.TokenRange{Start: 100, End: -100}
//	r.Normalize() // (100, MaxToken], (MinToken, -100]
//
// # Errors
//
// Every fatal condition is reported as an *Error carrying one of three kinds:
//
//   - KindConfiguration: invalid or inconsistent settings, detected before any network activity
//   - KindConnection: the session could not be established
//   - KindQuery: a metadata or count query failed, timed out or returned bad data
//
// Use IsKind to branch on the kind and errors.Is for the sentinel errors:
//
//	if types.IsKind(err, types.KindQuery) {
//	    // raise --num-splits or lower --split-size
//	}
package types
