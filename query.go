package count

import (
	"context"
	"regexp"
	"strings"

	"github.com/taboola/cassandra-count/adapter/cql"
	"github.com/taboola/cassandra-count/scatter"
	"github.com/taboola/cassandra-count/types"
)

var plainIdentifier = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// quoteIdentifier double-quotes a CQL identifier unless it is plain lower case.
func quoteIdentifier(name string) string {
	if plainIdentifier.MatchString(name) {
		return name
	}

	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// CountStatement builds the per-split count query of a table.
//
// The statement binds the exclusive start and the inclusive end of a split:
//
//	SELECT COUNT(*) FROM ks.tbl WHERE token(pk) > ? AND token(pk) <= ?
func CountStatement(keyspace, table string, partitionKey []string) string {
	cols := make([]string, len(partitionKey))
	for i, c := range partitionKey {
		cols[i] = quoteIdentifier(c)
	}
	token := "token(" + strings.Join(cols, ", ") + ")"

	return "SELECT COUNT(*) FROM " + quoteIdentifier(keyspace) + "." + quoteIdentifier(table) +
		" WHERE " + token + " > ? AND " + token + " <= ?"
}

// sessionCounter counts split rows with one query per range.
type sessionCounter struct {
	session     cql.Session
	statement   string
	consistency types.Consistency
}

var _ scatter.RangeCounter = (*sessionCounter)(nil)

func (c *sessionCounter) Count(ctx context.Context, r types.TokenRange) (int64, error) {
	var n int64
	err := c.session.Query(c.statement, int64(r.Start), int64(r.End)).
		Consistency(c.consistency).
		ScanContext(ctx, &n)

	return n, err
}
