package planner

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"math"
	"math/big"
	"slices"

	"github.com/taboola/cassandra-count/internal/logging"
	"github.com/taboola/cassandra-count/internal/metrics"
	"github.com/taboola/cassandra-count/types"
)

// Strategy identifies how a plan was produced.
type Strategy int

const (
	// StrategyExplicit divides a caller-supplied token interval.
	StrategyExplicit Strategy = iota + 1
	// StrategyEven divides every natural token range evenly.
	StrategyEven
	// StrategySizeEstimate sizes splits from system.size_estimates.
	StrategySizeEstimate
)

// String returns the strategy name.
func (s Strategy) String() string {
	switch s {
	case StrategyExplicit:
		return "explicit"
	case StrategyEven:
		return "even"
	case StrategySizeEstimate:
		return "size-estimate"
	}

	return "unknown"
}

// minSplitsPerRange is the minimum fan-out per natural range in even mode.
const minSplitsPerRange = 10

// Source provides the cluster information a plan may need.
//
// Implementations are consulted lazily: explicit plans never call a Source, even plans
// only call NaturalRanges and size-estimate plans only call SizeEstimates.
type Source interface {
	// NaturalRanges returns the token ranges delimited by the tokens owned by the
	// cluster's nodes. Ranges may wrap the ring boundary.
	NaturalRanges(ctx context.Context) ([]types.TokenRange, error)

	// SizeEstimates returns the per-range statistics recorded for a table.
	SizeEstimates(ctx context.Context, keyspace, table string) ([]types.SizeEstimate, error)
}

// Config selects and parameterizes a planning strategy.
type Config struct {
	// Keyspace and Table name the counted table; used by size-estimate mode.
	Keyspace string
	Table    string

	// Begin and End, when both set, select explicit mode over (Begin, End].
	Begin *types.Token
	End   *types.Token

	// NumSplits is the target split count in explicit and even modes.
	// A negative value selects size-estimate mode.
	NumSplits int

	// SplitSizeBytes is the target data size per split in size-estimate mode.
	SplitSizeBytes int64
}

// Strategy returns the strategy the configuration selects.
func (c Config) Strategy() Strategy {
	switch {
	case c.Begin != nil && c.End != nil:
		return StrategyExplicit
	case c.NumSplits >= 0:
		return StrategyEven
	}

	return StrategySizeEstimate
}

// Plan is the ordered sequence of splits for one run.
type Plan struct {
	Strategy Strategy
	Splits   []types.Split
}

// Ranges returns the token range of every split in order.
func (p *Plan) Ranges() []types.TokenRange {
	out := make([]types.TokenRange, len(p.Splits))
	for i, s := range p.Splits {
		out[i] = s.Range
	}

	return out
}

// Planner builds plans from a Source.
type Planner struct {
	source  Source
	logger  types.Logger
	metrics types.MetricsCollector
}

// Option configures a Planner.
type Option func(*Planner)

// WithLogger sets the logger used to report planning decisions.
func WithLogger(logger types.Logger) Option {
	return func(p *Planner) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithMetrics sets the collector that records the planned split count.
func WithMetrics(m types.MetricsCollector) Option {
	return func(p *Planner) {
		if m != nil {
			p.metrics = m
		}
	}
}

// New creates a Planner.
//
// Parameters:
//   - source: Cluster information provider; may be nil if only explicit plans are built
//   - opts: Optional configuration
//
// Returns:
//   - *Planner: A ready planner
func New(source Source, opts ...Option) *Planner {
	p := &Planner{
		source:  source,
		logger:  logging.NewNopLogger(),
		metrics: metrics.NewNopMetrics(),
	}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Plan selects a strategy from cfg and produces the split sequence.
//
// Returns:
//   - *Plan: The strategy used and its splits, indexed from zero
//   - error: A configuration error for unusable settings, or a query error if the
//     source could not be read
func (p *Planner) Plan(ctx context.Context, cfg Config) (*Plan, error) {
	strategy := cfg.Strategy()

	var (
		ranges []types.TokenRange
		err    error
	)

	switch strategy {
	case StrategyExplicit:
		ranges, err = Explicit(*cfg.Begin, *cfg.End, cfg.NumSplits)

	case StrategyEven:
		if p.source == nil {
			return nil, types.NewConfigurationError("plan even splits", errors.New("no token range source configured"))
		}
		natural, serr := p.source.NaturalRanges(ctx)
		if serr != nil {
			return nil, types.NewQueryError("read natural token ranges", serr)
		}
		p.logger.Debug("natural token ranges", "count", len(natural))
		ranges, err = Even(natural, cfg.NumSplits)

	case StrategySizeEstimate:
		if p.source == nil {
			return nil, types.NewConfigurationError("plan size-based splits", errors.New("no size estimate source configured"))
		}
		estimates, serr := p.source.SizeEstimates(ctx, cfg.Keyspace, cfg.Table)
		if serr != nil {
			return nil, types.NewQueryError("read size estimates", serr)
		}
		if len(estimates) == 0 {
			p.logger.Warn("no size estimates recorded, counting the whole ring in one split",
				"keyspace", cfg.Keyspace, "table", cfg.Table)
		}

		var natural []types.TokenRange
		if gaps := Gaps(estimates); len(gaps) > 0 {
			natural, serr = p.source.NaturalRanges(ctx)
			if serr != nil {
				return nil, types.NewQueryError("read natural token ranges", serr)
			}
			p.logger.Warn("size estimates do not cover the ring, filling gaps from natural ranges",
				"keyspace", cfg.Keyspace, "table", cfg.Table, "gaps", len(gaps))
		}
		ranges, err = BySize(estimates, natural, cfg.SplitSizeBytes)
	}
	if err != nil {
		return nil, err
	}

	plan := &Plan{Strategy: strategy, Splits: make([]types.Split, len(ranges))}
	for i, r := range ranges {
		plan.Splits[i] = types.Split{Index: i, Range: r}
	}

	p.metrics.SetSplitsPlanned(len(plan.Splits))
	p.logger.Info("planned splits", "strategy", strategy.String(), "splits", len(plan.Splits))

	return plan, nil
}

// Explicit divides (begin, end] into n equal-delta pieces.
//
// The last piece ends exactly at end. n < 1 is treated as 1. When the interval is
// narrower than n tokens, leading pieces are empty and match no row.
//
// Returns a configuration error if begin >= end.
func Explicit(begin, end types.Token, n int) ([]types.TokenRange, error) {
	if begin >= end {
		return nil, types.NewConfigurationError("plan explicit splits",
			fmt.Errorf("begin token %s must be less than end token %s", begin, end))
	}

	return types.TokenRange{Start: begin, End: end}.SplitEvenly(n), nil
}

// Even divides every natural range into the same number of pieces.
//
// Wrapping ranges are normalized at the ring boundary, then the set is deduplicated and
// sorted by start. The overall target is raised to at least ten splits per range and
// each range receives max(1, target/ranges) pieces.
//
// Returns types.ErrNoTokenRanges wrapped as a query error if natural is empty.
func Even(natural []types.TokenRange, numSplits int) ([]types.TokenRange, error) {
	ranges := NormalizeRanges(natural)
	if len(ranges) == 0 {
		return nil, types.NewQueryError("plan even splits", types.ErrNoTokenRanges)
	}

	numSplits = max(numSplits, len(ranges)*minSplitsPerRange)
	perRange := max(1, numSplits/len(ranges))

	out := make([]types.TokenRange, 0, perRange*len(ranges))
	for _, r := range ranges {
		out = append(out, r.SplitEvenly(perRange)...)
	}

	return out, nil
}

// BySize cuts every estimated range into pieces holding about splitSize bytes each.
//
// A single estimate row is taken to describe the whole ring regardless of its bounds.
// No rows at all yields one split over the whole ring. A wrapping range is normalized
// and its target is shared between the pieces in proportion to their widths.
//
// The result always covers (MinToken, MaxToken] exactly once. Where estimate ranges
// overlap, the later range is clipped to start at the end of the earlier one. Tokens no
// estimate covers are cut at the boundaries of natural, and every resulting piece is
// sized as if it held the data of an average estimate row.
//
// Returns a configuration error if splitSize is not positive or a range would need
// more than math.MaxInt32 splits.
func BySize(estimates []types.SizeEstimate, natural []types.TokenRange, splitSize int64) ([]types.TokenRange, error) {
	if splitSize <= 0 {
		return nil, types.NewConfigurationError("plan size-based splits",
			fmt.Errorf("split size must be positive, got %d", splitSize))
	}

	if len(estimates) == 0 {
		return []types.TokenRange{types.FullRing()}, nil
	}
	if len(estimates) == 1 {
		only := estimates[0]
		only.Range = types.FullRing()
		estimates = []types.SizeEstimate{only}
	}

	pieces, mean, err := sizedPieces(estimates, splitSize)
	if err != nil {
		return nil, err
	}

	for _, gap := range uncovered(pieces) {
		for _, sub := range cutAt(gap, natural) {
			n, err := mean.splitsFor(sub, splitSize)
			if err != nil {
				return nil, err
			}
			pieces = append(pieces, sizedPiece{Range: sub, Splits: n})
		}
	}
	sortPieces(pieces)

	var out []types.TokenRange
	for _, p := range pieces {
		out = append(out, p.Range.SplitEvenly(p.Splits)...)
	}

	return out, nil
}

// Gaps returns the parts of the ring that no estimate row covers, in token order.
//
// Zero or one row is taken to describe the whole ring, so no gaps are reported.
func Gaps(estimates []types.SizeEstimate) []types.TokenRange {
	if len(estimates) <= 1 {
		return nil
	}

	var pieces []sizedPiece
	for _, est := range estimates {
		for _, r := range est.Range.Normalize() {
			pieces = append(pieces, sizedPiece{Range: r, Splits: 1})
		}
	}
	sortPieces(pieces)

	return uncovered(clipOverlaps(pieces))
}

// sizedPiece is a non-wrapping range and the number of splits it is cut into.
type sizedPiece struct {
	Range  types.TokenRange
	Splits int
}

// rowSize is the mean estimated data size of one estimate row.
type rowSize struct {
	bytes big.Int
	rows  int64
}

// splitsFor sizes a gap piece as if it held one average estimate row.
func (d *rowSize) splitsFor(r types.TokenRange, splitSize int64) (int, error) {
	if d.bytes.Sign() == 0 || d.rows == 0 {
		return 1, nil
	}

	den := new(big.Int).Mul(big.NewInt(d.rows), big.NewInt(splitSize))

	return ceilSplits(&d.bytes, den, r, splitSize)
}

// sizedPieces normalizes the estimate rows, sizes them and removes overlaps.
func sizedPieces(estimates []types.SizeEstimate, splitSize int64) ([]sizedPiece, *rowSize, error) {
	var (
		pieces []sizedPiece
		mean   rowSize
	)

	for _, est := range estimates {
		target, err := targetSplits(est, splitSize)
		if err != nil {
			return nil, nil, err
		}

		normalized := est.Range.Normalize()
		shares := shareByWidth(normalized, target)
		for i, r := range normalized {
			pieces = append(pieces, sizedPiece{Range: r, Splits: shares[i]})
		}
		mean.rows++
		if est.MeanPartitionSize > 0 && est.PartitionsCount > 0 {
			mean.bytes.Add(&mean.bytes,
				new(big.Int).Mul(big.NewInt(est.MeanPartitionSize), big.NewInt(est.PartitionsCount)))
		}
	}
	sortPieces(pieces)

	return clipOverlaps(pieces), &mean, nil
}

// clipOverlaps trims sorted pieces so that none overlaps its predecessors.
// A clipped piece keeps a share of its splits proportional to the width it retains.
func clipOverlaps(pieces []sizedPiece) []sizedPiece {
	out := make([]sizedPiece, 0, len(pieces))
	covered := types.MinToken

	for _, p := range pieces {
		if p.Range.End <= covered {
			continue
		}
		if p.Range.Start < covered {
			clipped := types.TokenRange{Start: covered, End: p.Range.End}
			kept := new(big.Int).Mul(big.NewInt(int64(p.Splits)), new(big.Int).SetUint64(clipped.Width()))
			kept.Quo(kept, new(big.Int).SetUint64(p.Range.Width()))
			p = sizedPiece{Range: clipped, Splits: max(1, int(kept.Int64()))}
		}
		out = append(out, p)
		covered = p.Range.End
	}

	return out
}

// uncovered returns the gaps between sorted, non-overlapping pieces and the ring ends.
func uncovered(pieces []sizedPiece) []types.TokenRange {
	var gaps []types.TokenRange
	covered := types.MinToken

	for _, p := range pieces {
		if p.Range.Start > covered {
			gaps = append(gaps, types.TokenRange{Start: covered, End: p.Range.Start})
		}
		covered = p.Range.End
	}
	if covered < types.MaxToken {
		gaps = append(gaps, types.TokenRange{Start: covered, End: types.MaxToken})
	}

	return gaps
}

// cutAt splits the non-wrapping gap at every natural range boundary inside it.
func cutAt(gap types.TokenRange, natural []types.TokenRange) []types.TokenRange {
	var bounds []types.Token
	for _, r := range NormalizeRanges(natural) {
		for _, t := range []types.Token{r.Start, r.End} {
			if t > gap.Start && t < gap.End {
				bounds = append(bounds, t)
			}
		}
	}
	slices.Sort(bounds)
	bounds = slices.Compact(bounds)

	out := make([]types.TokenRange, 0, len(bounds)+1)
	start := gap.Start
	for _, t := range bounds {
		out = append(out, types.TokenRange{Start: start, End: t})
		start = t
	}

	return append(out, types.TokenRange{Start: start, End: gap.End})
}

func sortPieces(pieces []sizedPiece) {
	slices.SortFunc(pieces, func(a, b sizedPiece) int {
		return compareRanges(a.Range, b.Range)
	})
}

func compareRanges(a, b types.TokenRange) int {
	if c := cmp.Compare(a.Start, b.Start); c != 0 {
		return c
	}

	return cmp.Compare(a.End, b.End)
}

// NormalizeRanges normalizes every range, removes duplicates and sorts by start.
func NormalizeRanges(ranges []types.TokenRange) []types.TokenRange {
	out := make([]types.TokenRange, 0, len(ranges)+1)
	for _, r := range ranges {
		out = append(out, r.Normalize()...)
	}

	slices.SortFunc(out, compareRanges)

	return slices.Compact(out)
}

// targetSplits computes max(1, ceil(mean*count/splitSize)) without overflow.
func targetSplits(est types.SizeEstimate, splitSize int64) (int, error) {
	if est.MeanPartitionSize <= 0 || est.PartitionsCount <= 0 {
		return 1, nil
	}

	bytes := new(big.Int).Mul(big.NewInt(est.MeanPartitionSize), big.NewInt(est.PartitionsCount))
	size := big.NewInt(splitSize)

	return ceilSplits(bytes, size, est.Range, splitSize)
}

// ceilSplits returns max(1, ceil(num/den)), or a configuration error above MaxInt32.
func ceilSplits(num, den *big.Int, r types.TokenRange, splitSize int64) (int, error) {
	q, rem := new(big.Int).QuoRem(num, den, new(big.Int))
	if rem.Sign() > 0 {
		q.Add(q, big.NewInt(1))
	}

	if !q.IsInt64() || q.Int64() > math.MaxInt32 {
		return 0, types.NewConfigurationError("plan size-based splits",
			fmt.Errorf("range %s needs %s splits of %d bytes; increase the split size", r, q, splitSize))
	}

	return max(1, int(q.Int64())), nil
}

// shareByWidth distributes target splits across pieces proportionally to width.
// Every piece receives at least one split.
func shareByWidth(pieces []types.TokenRange, target int) []int {
	shares := make([]int, len(pieces))
	if len(pieces) == 1 {
		shares[0] = target
		return shares
	}

	var total big.Int
	for _, p := range pieces {
		total.Add(&total, new(big.Int).SetUint64(p.Width()))
	}

	for i, p := range pieces {
		share := new(big.Int).Mul(new(big.Int).SetUint64(p.Width()), big.NewInt(int64(target)))
		share.Quo(share, &total)
		shares[i] = max(1, int(share.Int64()))
	}

	return shares
}
