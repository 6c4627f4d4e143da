package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/taboola/cassandra-count/adapter/cql"
	"github.com/taboola/cassandra-count/types"
)

// SchemaColumn is a row of system_schema.columns.
type SchemaColumn struct {
	Name     string
	Kind     string
	Position int
}

// RecordedQuery is a query executed against a MockCQLSession.
type RecordedQuery struct {
	Statement   string
	Values      []any
	Consistency cql.Consistency
}

// MockCQLSession is an in-memory cql.Session.
//
// It serves system.local, system.peers, system.size_estimates and
// system_schema.columns from configured data, and answers
// "SELECT COUNT(*) ... WHERE token(...) > ? AND token(...) <= ?" by counting the
// configured row tokens inside the bound range.
type MockCQLSession struct {
	mu          sync.RWMutex
	partitioner string
	localTokens []string
	peerTokens  [][]string
	estimates   map[string][]types.SizeEstimate
	columns     map[string][]SchemaColumn
	rows        []types.Token
	failures    map[string]error
	queries     []RecordedQuery

	closed   atomic.Bool
	inFlight atomic.Int32
	maxSeen  atomic.Int32

	// Delay is added to every count query.
	Delay time.Duration

	// OnCount, when set, replaces the built-in count of configured rows.
	OnCount func(ctx context.Context, r types.TokenRange) (int64, error)
}

// Compile-time assertion that MockCQLSession implements cql.Session.
var _ cql.Session = (*MockCQLSession)(nil)

// NewMockCQLSession creates a mock session of a single-token Murmur3 cluster.
func NewMockCQLSession() *MockCQLSession {
	return &MockCQLSession{
		partitioner: "org.apache.cassandra.dht.Murmur3Partitioner",
		localTokens: []string{"0"},
		estimates:   make(map[string][]types.SizeEstimate),
		columns:     make(map[string][]SchemaColumn),
		failures:    make(map[string]error),
	}
}

// SetPartitioner sets the partitioner reported by system.local.
func (m *MockCQLSession) SetPartitioner(p string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.partitioner = p
}

// SetTokens assigns the first token to the local node and one token to each peer.
func (m *MockCQLSession) SetTokens(tokens ...types.Token) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.localTokens = nil
	m.peerTokens = nil
	for i, t := range tokens {
		if i == 0 {
			m.localTokens = []string{t.String()}
			continue
		}
		m.peerTokens = append(m.peerTokens, []string{t.String()})
	}
}

// SetNodeTokens sets the raw token sets of the local node and its peers.
func (m *MockCQLSession) SetNodeTokens(local []string, peers ...[]string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.localTokens = local
	m.peerTokens = peers
}

// SetEstimates sets the size_estimates rows of a table.
func (m *MockCQLSession) SetEstimates(keyspace, table string, estimates ...types.SizeEstimate) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.estimates[keyspace+"."+table] = estimates
}

// SetPartitionKey declares a table with the given partition key columns and one
// clustering column.
func (m *MockCQLSession) SetPartitionKey(keyspace, table string, columns ...string) {
	cols := make([]SchemaColumn, 0, len(columns)+1)
	for i, c := range columns {
		cols = append(cols, SchemaColumn{Name: c, Kind: "partition_key", Position: i})
	}
	cols = append(cols, SchemaColumn{Name: "value", Kind: "regular", Position: -1})

	m.SetColumns(keyspace, table, cols...)
}

// SetColumns sets the system_schema.columns rows of a table.
func (m *MockCQLSession) SetColumns(keyspace, table string, columns ...SchemaColumn) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.columns[keyspace+"."+table] = columns
}

// AddRows adds rows with the given partition tokens.
func (m *MockCQLSession) AddRows(tokens ...types.Token) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.rows = append(m.rows, tokens...)
}

// FailOn makes every statement containing substr fail with err.
func (m *MockCQLSession) FailOn(substr string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.failures[substr] = err
}

// Queries returns all executed queries.
func (m *MockCQLSession) Queries() []RecordedQuery {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return append([]RecordedQuery(nil), m.queries...)
}

// CountQueries returns the executed count queries.
func (m *MockCQLSession) CountQueries() []RecordedQuery {
	var out []RecordedQuery
	for _, q := range m.Queries() {
		if isCount(q.Statement) {
			out = append(out, q)
		}
	}

	return out
}

// MaxInFlight returns the highest number of concurrently executing count queries.
func (m *MockCQLSession) MaxInFlight() int {
	return int(m.maxSeen.Load())
}

// IsClosed reports whether Close was called.
func (m *MockCQLSession) IsClosed() bool {
	return m.closed.Load()
}

// Query returns a mock query for the given statement.
func (m *MockCQLSession) Query(stmt string, values ...any) cql.Query {
	return &MockQuery{session: m, stmt: stmt, values: values}
}

// Close marks the session closed.
func (m *MockCQLSession) Close() {
	m.closed.Store(true)
}

func (m *MockCQLSession) record(q *MockQuery) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.queries = append(m.queries, RecordedQuery{Statement: q.stmt, Values: q.values, Consistency: q.consistency})
	if m.closed.Load() {
		return fmt.Errorf("session closed")
	}
	for substr, err := range m.failures {
		if strings.Contains(q.stmt, substr) {
			return err
		}
	}

	return nil
}

func (m *MockCQLSession) count(ctx context.Context, values []any) (int64, error) {
	cur := m.inFlight.Add(1)
	defer m.inFlight.Add(-1)
	for {
		prev := m.maxSeen.Load()
		if cur <= prev || m.maxSeen.CompareAndSwap(prev, cur) {
			break
		}
	}

	if len(values) != 2 {
		return 0, fmt.Errorf("count query expects 2 bound values, got %d", len(values))
	}
	start, ok1 := values[0].(int64)
	end, ok2 := values[1].(int64)
	if !ok1 || !ok2 {
		return 0, fmt.Errorf("count query expects int64 bounds, got %T and %T", values[0], values[1])
	}
	r := types.TokenRange{Start: types.Token(start), End: types.Token(end)}

	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}

	if m.OnCount != nil {
		return m.OnCount(ctx, r)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var n int64
	for _, t := range m.rows {
		// Count queries never wrap; (s, s] is empty.
		if t > r.Start && t <= r.End {
			n++
		}
	}

	return n, nil
}

func (m *MockCQLSession) rowsFor(stmt string, values []any) [][]any {
	m.mu.RLock()
	defer m.mu.RUnlock()

	key := func() string {
		if len(values) < 2 {
			return ""
		}
		return fmt.Sprint(values[0]) + "." + fmt.Sprint(values[1])
	}

	var rows [][]any
	switch {
	case strings.Contains(stmt, "system.peers"):
		for _, tokens := range m.peerTokens {
			rows = append(rows, []any{tokens})
		}
	case strings.Contains(stmt, "system.size_estimates"):
		for _, e := range m.estimates[key()] {
			rows = append(rows, []any{e.Range.Start.String(), e.Range.End.String(), e.MeanPartitionSize, e.PartitionsCount})
		}
	case strings.Contains(stmt, "system_schema.columns"):
		for _, c := range m.columns[key()] {
			rows = append(rows, []any{c.Name, c.Kind, c.Position})
		}
	}

	return rows
}

func isCount(stmt string) bool {
	return strings.Contains(strings.ToUpper(stmt), "SELECT COUNT(")
}

// MockQuery is a query against a MockCQLSession.
type MockQuery struct {
	session     *MockCQLSession
	stmt        string
	values      []any
	consistency cql.Consistency
}

// Consistency sets the consistency level.
func (q *MockQuery) Consistency(c cql.Consistency) cql.Query {
	q.consistency = c
	return q
}

// PageSize is accepted and ignored.
func (q *MockQuery) PageSize(_ int) cql.Query {
	return q
}

// ScanContext answers system.local reads and count queries.
func (q *MockQuery) ScanContext(ctx context.Context, dest ...any) error {
	if err := q.session.record(q); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	switch {
	case isCount(q.stmt):
		n, err := q.session.count(ctx, q.values)
		if err != nil {
			return err
		}
		return assign(dest, []any{n})

	case strings.Contains(q.stmt, "system.local"):
		q.session.mu.RLock()
		row := []any{q.session.partitioner, q.session.localTokens}
		q.session.mu.RUnlock()
		return assign(dest, row)
	}

	return fmt.Errorf("mock: unsupported single-row statement %q", q.stmt)
}

// IterContext answers multi-row system table reads.
func (q *MockQuery) IterContext(ctx context.Context) cql.Iter {
	if err := q.session.record(q); err != nil {
		return &MockIter{err: err}
	}
	if err := ctx.Err(); err != nil {
		return &MockIter{err: err}
	}

	return &MockIter{rows: q.session.rowsFor(q.stmt, q.values)}
}

// MockIter iterates over fixed rows.
type MockIter struct {
	rows [][]any
	pos  int
	err  error
}

// Scan copies the next row into dest.
func (i *MockIter) Scan(dest ...any) bool {
	if i.err != nil || i.pos >= len(i.rows) {
		return false
	}

	if err := assign(dest, i.rows[i.pos]); err != nil {
		i.err = err
		return false
	}
	i.pos++

	return true
}

// Close returns the iteration error, if any.
func (i *MockIter) Close() error {
	return i.err
}

func assign(dest []any, row []any) error {
	if len(dest) != len(row) {
		return fmt.Errorf("mock: scan into %d destinations, row has %d columns", len(dest), len(row))
	}

	for i, d := range dest {
		switch p := d.(type) {
		case *string:
			v, ok := row[i].(string)
			if !ok {
				return fmt.Errorf("mock: column %d is %T, not string", i, row[i])
			}
			*p = v
		case *[]string:
			v, ok := row[i].([]string)
			if !ok {
				return fmt.Errorf("mock: column %d is %T, not []string", i, row[i])
			}
			*p = append([]string(nil), v...)
		case *int64:
			v, ok := row[i].(int64)
			if !ok {
				return fmt.Errorf("mock: column %d is %T, not int64", i, row[i])
			}
			*p = v
		case *int:
			v, ok := row[i].(int)
			if !ok {
				return fmt.Errorf("mock: column %d is %T, not int", i, row[i])
			}
			*p = v
		default:
			return fmt.Errorf("mock: unsupported scan destination %T", d)
		}
	}

	return nil
}
