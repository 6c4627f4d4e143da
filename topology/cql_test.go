package topology_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taboola/cassandra-count/planner"
	"github.com/taboola/cassandra-count/test/testutil"
	"github.com/taboola/cassandra-count/topology"
	"github.com/taboola/cassandra-count/types"
)

var (
	_ planner.Source = (*topology.CQL)(nil)
	_ planner.Source = (*topology.Static)(nil)
)

func TestCQLNaturalRanges(t *testing.T) {
	session := testutil.NewMockCQLSession()
	session.SetNodeTokens([]string{"10", "60"}, []string{"30"}, []string{"90"})

	source := topology.NewCQL(session)
	ranges, err := source.NaturalRanges(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []types.TokenRange{
		{Start: 90, End: 10},
		{Start: 10, End: 30},
		{Start: 30, End: 60},
		{Start: 60, End: 90},
	}, ranges)

	for _, q := range session.Queries() {
		assert.Equal(t, types.One, q.Consistency)
	}
}

func TestCQLRejectsOtherPartitioners(t *testing.T) {
	session := testutil.NewMockCQLSession()
	session.SetPartitioner("org.apache.cassandra.dht.RandomPartitioner")

	_, err := topology.NewCQL(session).NaturalRanges(context.Background())
	require.ErrorIs(t, err, types.ErrUnsupportedPartitioner)
	assert.Contains(t, err.Error(), "RandomPartitioner")
}

func TestCQLNoTokens(t *testing.T) {
	session := testutil.NewMockCQLSession()
	session.SetNodeTokens(nil)

	_, err := topology.NewCQL(session).NaturalRanges(context.Background())
	require.ErrorIs(t, err, types.ErrNoTokenRanges)
}

func TestCQLInvalidToken(t *testing.T) {
	session := testutil.NewMockCQLSession()
	session.SetNodeTokens([]string{"10"}, []string{"not-a-token"})

	_, err := topology.NewCQL(session).NaturalRanges(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid token")
}

func TestCQLPeersFailure(t *testing.T) {
	session := testutil.NewMockCQLSession()
	session.FailOn("system.peers", errors.New("read timeout"))

	_, err := topology.NewCQL(session).NaturalRanges(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "system.peers")
}

func TestCQLSizeEstimates(t *testing.T) {
	session := testutil.NewMockCQLSession()
	want := []types.SizeEstimate{
		{Range: types.TokenRange{Start: 0, End: 100}, MeanPartitionSize: 120, PartitionsCount: 4},
		{Range: types.TokenRange{Start: 100, End: 0}, MeanPartitionSize: 80, PartitionsCount: 9},
	}
	session.SetEstimates("shop", "orders", want...)

	got, err := topology.NewCQL(session, topology.WithConsistency(types.LocalOne)).
		SizeEstimates(context.Background(), "shop", "orders")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	queries := session.Queries()
	require.Len(t, queries, 1)
	assert.Equal(t, []any{"shop", "orders"}, queries[0].Values)
	assert.Equal(t, types.LocalOne, queries[0].Consistency)
}

func TestCQLSizeEstimatesEmpty(t *testing.T) {
	got, err := topology.NewCQL(testutil.NewMockCQLSession()).SizeEstimates(context.Background(), "shop", "new_table")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCQLPartitionKey(t *testing.T) {
	session := testutil.NewMockCQLSession()
	session.SetColumns("shop", "orders",
		testutil.SchemaColumn{Name: "bucket", Kind: "partition_key", Position: 1},
		testutil.SchemaColumn{Name: "ts", Kind: "clustering", Position: 0},
		testutil.SchemaColumn{Name: "Region", Kind: "partition_key", Position: 0},
	)

	key, err := topology.NewCQL(session).PartitionKey(context.Background(), "shop", "orders")
	require.NoError(t, err)
	assert.Equal(t, []string{"Region", "bucket"}, key)
}

func TestCQLPartitionKeyTableNotFound(t *testing.T) {
	_, err := topology.NewCQL(testutil.NewMockCQLSession()).PartitionKey(context.Background(), "shop", "missing")
	require.ErrorIs(t, err, types.ErrTableNotFound)
	assert.Contains(t, err.Error(), "shop.missing")
}

func TestStatic(t *testing.T) {
	static := topology.NewStatic()

	_, err := static.NaturalRanges(context.Background())
	require.ErrorIs(t, err, types.ErrNoTokenRanges)

	static.SetTokens(0, 100)
	ranges, err := static.NaturalRanges(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []types.TokenRange{{Start: 100, End: 0}, {Start: 0, End: 100}}, ranges)

	est := []types.SizeEstimate{{Range: types.FullRing(), MeanPartitionSize: 1, PartitionsCount: 1}}
	static.SetEstimates("ks", "t", est)
	got, err := static.SizeEstimates(context.Background(), "ks", "t")
	require.NoError(t, err)
	assert.Equal(t, est, got)

	boom := errors.New("boom")
	static.SetError(boom)
	_, err = static.SizeEstimates(context.Background(), "ks", "t")
	require.ErrorIs(t, err, boom)
}

func TestCQLFeedsPlanner(t *testing.T) {
	session := testutil.NewMockCQLSession()
	session.SetTokens(10, 30, 60, 90)

	plan, err := planner.New(topology.NewCQL(session)).Plan(context.Background(), planner.Config{NumSplits: 0})
	require.NoError(t, err)
	// Four natural ranges, one of which wraps and is normalized into two.
	assert.Len(t, plan.Splits, 50)
}
