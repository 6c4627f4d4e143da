package topology

import (
	"slices"

	"github.com/taboola/cassandra-count/types"
)

// BuildRing derives the natural token ranges from the tokens owned by the nodes.
//
// Tokens are sorted and deduplicated. Each token t[i] closes the range (t[i-1], t[i]];
// the first token closes the wrapping range that starts at the last token. A single
// token yields (t, t], the whole ring. No tokens yields nil.
func BuildRing(tokens []types.Token) []types.TokenRange {
	if len(tokens) == 0 {
		return nil
	}

	sorted := slices.Clone(tokens)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	ranges := make([]types.TokenRange, len(sorted))
	for i, t := range sorted {
		prev := sorted[(i+len(sorted)-1)%len(sorted)]
		ranges[i] = types.TokenRange{Start: prev, End: t}
	}

	return ranges
}
