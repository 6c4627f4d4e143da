package integration_test

import (
	"context"
	"flag"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/taboola/cassandra-count/test/testutil"
)

const testKeyspace = "count_it"

// sharedCluster is started once for all integration tests.
var sharedCluster *testutil.CQLCluster

// TestMain sets up shared test infrastructure for all integration tests.
func TestMain(m *testing.M) {
	flag.Parse()

	if testing.Short() {
		return
	}

	if os.Getenv("SKIP_INTEGRATION_TESTS") == "1" {
		fmt.Println("Skipping integration tests (SKIP_INTEGRATION_TESTS=1)")

		return
	}

	ctx := context.Background()
	cluster, err := testutil.StartCQLCluster(ctx, testutil.DefaultCQLClusterOptions(testKeyspace))
	if err != nil {
		fmt.Printf("Failed to start CQL cluster: %v\n", err)

		return
	}
	sharedCluster = cluster
	fmt.Printf("Shared cluster ready! (using %s)\n", cluster.Type)

	code := m.Run()

	_ = cluster.Terminate(ctx)
	os.Exit(code)
}

// getCluster returns the shared cluster or skips the test.
func getCluster(t *testing.T) *testutil.CQLCluster {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	if sharedCluster == nil {
		t.Skip("shared cluster not available (run with -short=false and Docker)")
	}

	return sharedCluster
}

// seedTable creates a uniquely named table with n rows and drops it after the test.
func seedTable(t *testing.T, prefix string, n int) string {
	t.Helper()

	cluster := getCluster(t)
	table := fmt.Sprintf("%s_%d", prefix, time.Now().UnixNano())
	if err := cluster.SeedRows(table, n); err != nil {
		t.Fatalf("failed to seed %s: %v", table, err)
	}

	t.Cleanup(func() {
		_ = cluster.Session.Query(fmt.Sprintf("DROP TABLE IF EXISTS %s.%s", cluster.Keyspace, table)).Exec()
	})

	return table
}
