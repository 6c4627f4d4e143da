// Package v2 provides an adapter for gocql v2.x (apache/cassandra-gocql-driver) to work with cassandra-count.
//
// This adapter wraps gocql sessions, queries and iterators to implement the
// cassandra-count CQL interfaces.
//
// # Usage
//
// Either let the adapter build the cluster configuration:
//
//	session, err := v2.Connect(cql.ConnectOptions{Hosts: []string{"127.0.0.1"}})
//
// or wrap a session created elsewhere:
//
//	cluster := gocql.NewCluster("127.0.0.1", "127.0.0.2")
//	gocqlSession, err := cluster.CreateSession()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	session := v2.NewSession(gocqlSession)
//
// # Thread Safety
//
// All adapter types are safe for concurrent use, matching gocql's thread safety guarantees.
package v2
