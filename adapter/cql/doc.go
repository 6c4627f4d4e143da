// Package cql provides adapter interfaces and implementations for CQL (Cassandra Query Language)
// database drivers.
//
// This package defines the common interfaces that CQL driver adapters must implement,
// allowing cassandra-count to run against either major version of gocql.
//
// # Interfaces
//
//   - Session: Wraps a database session for executing queries
//   - Query: Represents a CQL query with bind parameters
//   - Iter: Iterates over query results
//
// # Adapters
//
// Driver-specific adapters are provided in subpackages:
//
//   - [github.com/taboola/cassandra-count/adapter/cql/v1]: Adapter for gocql v1.x
//   - [github.com/taboola/cassandra-count/adapter/cql/v2]: Adapter for apache/cassandra-gocql-driver v2.x
//
// # Connecting
//
// [ConnectOptions] describes contact points, credentials, timeouts and TLS material in
// a driver-neutral way. Each adapter turns it into its driver's cluster configuration:
//
//	session, err := v1.Connect(cql.ConnectOptions{
//	    Hosts:       []string{"10.0.0.1", "10.0.0.2"},
//	    Port:        9042,
//	    Consistency: cql.LocalOne,
//	})
//	if err != nil {
//	    return err
//	}
//	defer session.Close()
package cql
