// Package integration_test provides end-to-end tests of cassandra-count against a real
// CQL database.
//
// # Running Integration Tests
//
// Integration tests are skipped when using the -short flag or when
// SKIP_INTEGRATION_TESTS=1 is set:
//
//	go test -short ./...           # Skips integration tests
//	go test ./test/integration/... # Runs integration tests
//
// The tests require Docker and use testcontainers to start a single ScyllaDB node,
// falling back to Cassandra when ScyllaDB cannot run on the host.
package integration_test
