package types

import (
	"errors"
	"math"
	"strconv"
)

// Token is a position on the Murmur3 token ring.
type Token int64

const (
	// MinToken is the smallest token value. The Murmur3 partitioner never assigns it
	// to a partition, so (MinToken, MaxToken] covers every row.
	MinToken Token = math.MinInt64
	// MaxToken is the largest token value.
	MaxToken Token = math.MaxInt64
)

// ParseToken parses a decimal 64-bit token string.
func ParseToken(s string) (Token, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, errors.New("cassandra-count: invalid token " + strconv.Quote(s) + ": must be a decimal 64-bit integer")
	}

	return Token(v), nil
}

// String returns the decimal representation of the token.
func (t Token) String() string {
	return strconv.FormatInt(int64(t), 10)
}

// add returns t advanced by n positions with two's complement wraparound.
func (t Token) add(n uint64) Token {
	return Token(uint64(t) + n)
}

// TokenRange is the half-open token interval (Start, End].
//
// A range with Start > End wraps around the ring boundary. For ranges reported by the
// cluster (natural ranges and size estimates), Start == End denotes the whole ring, as
// happens on a single-token cluster.
type TokenRange struct {
	Start Token
	End   Token
}

// FullRing returns the range covering every token the partitioner can produce.
func FullRing() TokenRange {
	return TokenRange{Start: MinToken, End: MaxToken}
}

// String returns the range as "(start,end]".
func (r TokenRange) String() string {
	return "(" + r.Start.String() + "," + r.End.String() + "]"
}

// Wraps reports whether the range crosses the ring boundary.
func (r TokenRange) Wraps() bool {
	return r.Start > r.End
}

// IsEmpty reports whether a non-wrapping range contains no token.
func (r TokenRange) IsEmpty() bool {
	return r.Start == r.End
}

// Width returns the number of tokens in a non-wrapping range.
//
// The unsigned result never overflows, even for (MinToken, MaxToken].
// Width of a wrapping range is undefined; normalize it first.
func (r TokenRange) Width() uint64 {
	return uint64(r.End) - uint64(r.Start)
}

// Contains reports whether t lies in the range.
func (r TokenRange) Contains(t Token) bool {
	if r.Wraps() {
		return t > r.Start || t <= r.End
	}

	return t > r.Start && t <= r.End
}

// Normalize returns the range as a list of non-wrapping, non-empty ranges.
//
// A wrapping range, or a ring range with Start == End, is split at the ring boundary
// into (Start, MaxToken] and (MinToken, End]. Empty pieces are dropped, so the result
// has one or two elements for any ring range.
func (r TokenRange) Normalize() []TokenRange {
	if r.Start < r.End {
		return []TokenRange{r}
	}

	pieces := make([]TokenRange, 0, 2)
	if hi := (TokenRange{Start: r.Start, End: MaxToken}); !hi.IsEmpty() {
		pieces = append(pieces, hi)
	}
	if lo := (TokenRange{Start: MinToken, End: r.End}); !lo.IsEmpty() {
		pieces = append(pieces, lo)
	}

	return pieces
}

// SplitEvenly divides a non-wrapping range into n contiguous sub-ranges.
//
// Every piece but the last has width Width()/n; the last piece ends exactly at End
// and absorbs the division remainder. When the range is narrower than n, the leading
// pieces are empty. n < 1 is treated as 1.
func (r TokenRange) SplitEvenly(n int) []TokenRange {
	if n < 1 {
		n = 1
	}

	delta := r.Width() / uint64(n)
	out := make([]TokenRange, n)
	for i := range n {
		begin := r.Start.add(uint64(i) * delta)
		end := r.End
		if i < n-1 {
			end = r.Start.add(uint64(i+1) * delta)
		}
		out[i] = TokenRange{Start: begin, End: end}
	}

	return out
}

// SizeEstimate holds per-range statistics from system.size_estimates.
type SizeEstimate struct {
	// Range is the token range the statistics cover.
	Range TokenRange

	// MeanPartitionSize is the mean partition size in bytes.
	MeanPartitionSize int64

	// PartitionsCount is the estimated number of partitions in the range.
	PartitionsCount int64
}

// Split is a token range assigned to exactly one count query.
type Split struct {
	// Index is the position of the split in the planned sequence.
	Index int

	// Range is the non-wrapping token range the query counts.
	Range TokenRange
}
