package topology

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/taboola/cassandra-count/adapter/cql"
	"github.com/taboola/cassandra-count/types"
)

const (
	murmur3Partitioner = "Murmur3Partitioner"

	selectLocal = `SELECT partitioner, tokens FROM system.local`
	selectPeers = `SELECT tokens FROM system.peers`

	selectSizeEstimates = `SELECT range_start, range_end, mean_partition_size, partitions_count ` +
		`FROM system.size_estimates WHERE keyspace_name = ? AND table_name = ?`

	selectColumns = `SELECT column_name, kind, position ` +
		`FROM system_schema.columns WHERE keyspace_name = ? AND table_name = ?`
)

// CQL reads topology and size estimates from the system tables of a cluster.
type CQL struct {
	session cql.Session
	config  Config
}

// NewCQL creates a CQL source.
//
// Parameters:
//   - session: An open session to any node of the cluster
//   - opts: Optional configuration
//
// Returns:
//   - *CQL: The source
func NewCQL(session cql.Session, opts ...Option) *CQL {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &CQL{session: session, config: cfg}
}

// Tokens returns every token owned by the coordinator and its peers.
//
// Returns:
//   - []types.Token: The tokens in the order they were read
//   - error: types.ErrUnsupportedPartitioner for non-Murmur3 clusters, or a read error
func (c *CQL) Tokens(ctx context.Context) ([]types.Token, error) {
	var (
		partitioner string
		local       []string
	)
	err := c.session.Query(selectLocal).
		Consistency(c.config.Consistency).
		ScanContext(ctx, &partitioner, &local)
	if err != nil {
		return nil, fmt.Errorf("read system.local: %w", err)
	}

	if partitioner != "" && !strings.HasSuffix(partitioner, murmur3Partitioner) {
		return nil, fmt.Errorf("%w: cluster uses %s", types.ErrUnsupportedPartitioner, partitioner)
	}

	tokens, err := parseTokens(local)
	if err != nil {
		return nil, err
	}

	iter := c.session.Query(selectPeers).
		Consistency(c.config.Consistency).
		PageSize(c.config.PageSize).
		IterContext(ctx)

	peers := 0
	var peer []string
	for iter.Scan(&peer) {
		parsed, err := parseTokens(peer)
		if err != nil {
			_ = iter.Close()
			return nil, err
		}
		tokens = append(tokens, parsed...)
		peers++
		peer = nil
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("read system.peers: %w", err)
	}

	c.config.Logger.Debug("read cluster tokens", "partitioner", partitioner,
		"peers", peers, "tokens", len(tokens))

	return tokens, nil
}

// NaturalRanges returns the token ranges between consecutive node tokens.
//
// Returns:
//   - []types.TokenRange: One range per distinct token; the last range wraps
//   - error: types.ErrNoTokenRanges if no node reported a token, or a read error
func (c *CQL) NaturalRanges(ctx context.Context) ([]types.TokenRange, error) {
	tokens, err := c.Tokens(ctx)
	if err != nil {
		return nil, err
	}

	ranges := BuildRing(tokens)
	if len(ranges) == 0 {
		return nil, types.ErrNoTokenRanges
	}

	return ranges, nil
}

// SizeEstimates returns the size_estimates rows of a table as seen by the coordinator.
func (c *CQL) SizeEstimates(ctx context.Context, keyspace, table string) ([]types.SizeEstimate, error) {
	iter := c.session.Query(selectSizeEstimates, keyspace, table).
		Consistency(c.config.Consistency).
		PageSize(c.config.PageSize).
		IterContext(ctx)

	var (
		out        []types.SizeEstimate
		start, end string
		mean, n    int64
	)
	for iter.Scan(&start, &end, &mean, &n) {
		r, err := parseRange(start, end)
		if err != nil {
			_ = iter.Close()
			return nil, err
		}
		out = append(out, types.SizeEstimate{Range: r, MeanPartitionSize: mean, PartitionsCount: n})
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("read system.size_estimates: %w", err)
	}

	c.config.Logger.Debug("read size estimates", "keyspace", keyspace, "table", table, "rows", len(out))

	return out, nil
}

// PartitionKey returns the partition key columns of a table in key order.
//
// Returns:
//   - []string: Column names as stored in the schema
//   - error: types.ErrTableNotFound if the table has no columns, or a read error
func (c *CQL) PartitionKey(ctx context.Context, keyspace, table string) ([]string, error) {
	iter := c.session.Query(selectColumns, keyspace, table).
		Consistency(c.config.Consistency).
		PageSize(c.config.PageSize).
		IterContext(ctx)

	type keyColumn struct {
		name     string
		position int
	}

	var (
		columns    int
		keys       []keyColumn
		name, kind string
		position   int
	)
	for iter.Scan(&name, &kind, &position) {
		columns++
		if kind == "partition_key" {
			keys = append(keys, keyColumn{name: name, position: position})
		}
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("read system_schema.columns: %w", err)
	}

	if columns == 0 {
		return nil, fmt.Errorf("%w: %s.%s", types.ErrTableNotFound, keyspace, table)
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("table %s.%s reports no partition key columns", keyspace, table)
	}

	slices.SortFunc(keys, func(a, b keyColumn) int { return a.position - b.position })

	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k.name
	}

	return out, nil
}

func parseTokens(raw []string) ([]types.Token, error) {
	out := make([]types.Token, 0, len(raw))
	for _, s := range raw {
		t, err := types.ParseToken(s)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}

	return out, nil
}

func parseRange(start, end string) (types.TokenRange, error) {
	s, err := types.ParseToken(start)
	if err != nil {
		return types.TokenRange{}, fmt.Errorf("size estimate range start: %w", err)
	}
	e, err := types.ParseToken(end)
	if err != nil {
		return types.TokenRange{}, fmt.Errorf("size estimate range end: %w", err)
	}

	return types.TokenRange{Start: s, End: e}, nil
}
