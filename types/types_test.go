package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseToken(t *testing.T) {
	tok, err := ParseToken("-9223372036854775808")
	require.NoError(t, err)
	assert.Equal(t, MinToken, tok)

	tok, err = ParseToken("9223372036854775807")
	require.NoError(t, err)
	assert.Equal(t, MaxToken, tok)

	_, err = ParseToken("9223372036854775808")
	require.Error(t, err)

	_, err = ParseToken("abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid token")
}

func TestTokenRangeNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   TokenRange
		want []TokenRange
	}{
		{"non-wrapping", TokenRange{Start: -10, End: 10}, []TokenRange{{Start: -10, End: 10}}},
		{"wrapping", TokenRange{Start: 100, End: -100}, []TokenRange{
			{Start: 100, End: MaxToken},
			{Start: MinToken, End: -100},
		}},
		{"single token ring", TokenRange{Start: 5, End: 5}, []TokenRange{
			{Start: 5, End: MaxToken},
			{Start: MinToken, End: 5},
		}},
		{"wraps onto min", TokenRange{Start: 100, End: MinToken}, []TokenRange{
			{Start: 100, End: MaxToken},
		}},
		{"starts at max", TokenRange{Start: MaxToken, End: 0}, []TokenRange{
			{Start: MinToken, End: 0},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Normalize()
			require.Equal(t, tt.want, got)
			for _, r := range got {
				assert.False(t, r.Wraps())
				assert.False(t, r.IsEmpty())
			}
		})
	}
}

func TestTokenRangeWidthFullRing(t *testing.T) {
	r := FullRing()
	assert.Equal(t, uint64(1<<64-1), r.Width())
	assert.False(t, r.Contains(MinToken))
	assert.True(t, r.Contains(MaxToken))
	assert.True(t, r.Contains(0))
}

func TestTokenRangeContainsWrapping(t *testing.T) {
	r := TokenRange{Start: 100, End: -100}
	assert.True(t, r.Contains(101))
	assert.True(t, r.Contains(MaxToken))
	assert.True(t, r.Contains(-100))
	assert.False(t, r.Contains(100))
	assert.False(t, r.Contains(0))
}

func TestSplitEvenly(t *testing.T) {
	got := TokenRange{Start: 0, End: 100}.SplitEvenly(4)
	require.Equal(t, []TokenRange{
		{Start: 0, End: 25},
		{Start: 25, End: 50},
		{Start: 50, End: 75},
		{Start: 75, End: 100},
	}, got)

	// The remainder of 10/3 lands in the last piece.
	got = TokenRange{Start: 0, End: 10}.SplitEvenly(3)
	require.Equal(t, []TokenRange{
		{Start: 0, End: 3},
		{Start: 3, End: 6},
		{Start: 6, End: 10},
	}, got)
}

func TestSplitEvenlyFullRingIsContiguous(t *testing.T) {
	for _, n := range []int{1, 2, 3, 7, 1000} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			pieces := FullRing().SplitEvenly(n)
			require.Len(t, pieces, n)
			require.Equal(t, MinToken, pieces[0].Start)
			require.Equal(t, MaxToken, pieces[n-1].End)

			var total uint64
			for i, p := range pieces {
				require.False(t, p.Wraps(), "piece %d wraps: %s", i, p)
				if i > 0 {
					require.Equal(t, pieces[i-1].End, p.Start)
				}
				total += p.Width()
			}
			require.Equal(t, FullRing().Width(), total)
		})
	}
}

func TestSplitEvenlyNarrowRange(t *testing.T) {
	got := TokenRange{Start: 0, End: 2}.SplitEvenly(4)
	require.Len(t, got, 4)
	assert.True(t, got[0].IsEmpty())
	assert.Equal(t, TokenRange{Start: 0, End: 2}, got[3])
}

func TestParseConsistency(t *testing.T) {
	c, err := ParseConsistency("local_one")
	require.NoError(t, err)
	assert.Equal(t, LocalOne, c)
	assert.Equal(t, "LOCAL_ONE", c.String())

	c, err = ParseConsistency("QUORUM")
	require.NoError(t, err)
	assert.Equal(t, Quorum, c)

	_, err = ParseConsistency("MOSTLY")
	require.Error(t, err)
}

func TestConsistencyConstants(t *testing.T) {
	assert.Equal(t, Consistency(0x01), One)
	assert.Equal(t, Consistency(0x04), Quorum)
	assert.Equal(t, Consistency(0x0A), LocalOne)
}

func TestError(t *testing.T) {
	cause := errors.New("timeout")
	err := NewQueryError("count (0,25]", cause)

	assert.Contains(t, err.Error(), "query error")
	assert.Contains(t, err.Error(), "count (0,25]")
	assert.Contains(t, err.Error(), "timeout")
	assert.True(t, errors.Is(err, cause))

	wrapped := fmt.Errorf("run: %w", err)
	assert.True(t, IsKind(wrapped, KindQuery))
	assert.False(t, IsKind(wrapped, KindConnection))
	assert.Equal(t, KindQuery, KindOf(wrapped))
	assert.Equal(t, ErrorKind(0), KindOf(cause))
}

func TestSentinelErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		msg  string
	}{
		{"ErrNilSession", ErrNilSession, "session cannot be nil"},
		{"ErrNoTokenRanges", ErrNoTokenRanges, "no token ranges"},
		{"ErrUnsupportedPartitioner", ErrUnsupportedPartitioner, "Murmur3"},
		{"ErrTableNotFound", ErrTableNotFound, "table not found"},
		{"ErrNegativeCount", ErrNegativeCount, "negative"},
		{"ErrCountOverflow", ErrCountOverflow, "overflows"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, tt.err.Error(), tt.msg)
		})
	}
}

func TestRunState(t *testing.T) {
	assert.Equal(t, "EXECUTING", StateExecuting.String())
	assert.True(t, StateComplete.Terminal())
	assert.True(t, StateAborted.Terminal())
	assert.False(t, StatePlanned.Terminal())
}
