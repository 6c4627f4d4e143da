package v2

import (
	gocql "github.com/apache/cassandra-gocql-driver/v2"

	"github.com/taboola/cassandra-count/adapter/cql"
	"github.com/taboola/cassandra-count/types"
)

// ToGocqlConsistency converts a cassandra-count Consistency to gocql.Consistency.
//
// Parameters:
//   - c: Consistency level
//
// Returns:
//   - gocql.Consistency: The equivalent gocql consistency level
func ToGocqlConsistency(c cql.Consistency) gocql.Consistency {
	return gocql.Consistency(c)
}

// FromGocqlConsistency converts a gocql.Consistency to a cassandra-count Consistency.
func FromGocqlConsistency(c gocql.Consistency) cql.Consistency {
	return cql.Consistency(c)
}

// UnwrapSession returns the underlying gocql.Session.
//
// Example:
//
//	gocqlSession := v2.UnwrapSession(session)
//	keyspaceMeta, _ := gocqlSession.KeyspaceMetadata("my_keyspace")
func UnwrapSession(s *Session) *gocql.Session {
	return s.session
}

// NewClusterConfig translates connection options into a gocql cluster configuration.
//
// Coordinators are chosen token-aware; with LocalDC set, only nodes of that
// datacenter are used.
//
// Parameters:
//   - opts: Connection options; zero fields take their defaults
//
// Returns:
//   - *gocql.ClusterConfig: The cluster configuration
//   - error: A connection error if the TLS material cannot be loaded
func NewClusterConfig(opts cql.ConnectOptions) (*gocql.ClusterConfig, error) {
	opts = opts.WithDefaults()

	cluster := gocql.NewCluster(opts.Hosts...)
	cluster.Port = opts.Port
	cluster.Consistency = ToGocqlConsistency(opts.Consistency)
	cluster.ConnectTimeout = opts.ConnectTimeout
	cluster.Timeout = opts.ReadTimeout

	if opts.Username != "" {
		cluster.Authenticator = gocql.PasswordAuthenticator{
			Username: opts.Username,
			Password: opts.Password,
		}
	}

	if opts.LocalDC != "" {
		cluster.PoolConfig.HostSelectionPolicy = gocql.TokenAwareHostPolicy(gocql.DCAwareRoundRobinPolicy(opts.LocalDC))
	} else {
		cluster.PoolConfig.HostSelectionPolicy = gocql.TokenAwareHostPolicy(gocql.RoundRobinHostPolicy())
	}

	if opts.TLS != nil {
		tlsConfig, err := opts.TLS.Config()
		if err != nil {
			return nil, types.NewConnectionError("load TLS material", err)
		}
		cluster.SslOpts = &gocql.SslOptions{
			Config:                 tlsConfig,
			EnableHostVerification: opts.TLS.VerifyHostname,
		}
	}

	return cluster, nil
}

// Connect creates a session from connection options.
//
// Returns:
//   - *Session: The connected session adapter
//   - error: A connection error if the cluster cannot be reached or authentication fails
func Connect(opts cql.ConnectOptions) (*Session, error) {
	cluster, err := NewClusterConfig(opts)
	if err != nil {
		return nil, err
	}

	session, err := cluster.CreateSession()
	if err != nil {
		return nil, types.NewConnectionError("create session", err)
	}

	return NewSession(session), nil
}
