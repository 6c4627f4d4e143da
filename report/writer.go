package report

import (
	"context"
	"fmt"
	"io"

	count "github.com/taboola/cassandra-count"
)

// Writer prints result lines.
type Writer struct {
	w io.Writer
}

var _ count.Reporter = (*Writer)(nil)

// NewWriter creates a reporter that writes one line per result to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Report writes "<keyspace>.<table>: <count>".
func (w *Writer) Report(_ context.Context, result *count.Result) error {
	_, err := fmt.Fprintln(w.w, result.String())
	return err
}
