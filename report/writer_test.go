package report

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterReport(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	require.NoError(t, w.Report(context.Background(), sampleResult()))

	res := sampleResult()
	res.Table = "customers"
	res.Count = 0
	require.NoError(t, w.Report(context.Background(), res))

	assert.Equal(t, "shop.orders: 18446744073709551000\nshop.customers: 0\n", buf.String())
}
