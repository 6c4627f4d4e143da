// Package testutil provides test utilities and mock implementations for cassandra-count testing.
//
// # Mock Implementations
//
//   - [MockCQLSession]: A cql.Session that answers the system table reads and the
//     per-split count query from in-memory data
//   - [TestMetricsCollector]: A types.MetricsCollector that records every call
//
// # Usage
//
//	session := testutil.NewMockCQLSession()
//	session.SetTokens(-4611686018427387904, 0, 4611686018427387904)
//	session.SetPartitionKey("shop", "orders", "id")
//	session.AddRows(10, 30, 60, 90) // partition tokens of the stored rows
//
// # Integration Test Helpers
//
//   - StartEmbeddedNATS: Starts an embedded NATS server with JetStream
//   - StartCQLCluster: Starts a ScyllaDB or Cassandra test container (requires Docker)
package testutil
