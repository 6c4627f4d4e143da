package v2_test

import (
	"testing"
	"time"

	gocql "github.com/apache/cassandra-gocql-driver/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taboola/cassandra-count/adapter/cql"
	v2 "github.com/taboola/cassandra-count/adapter/cql/v2" //nolint:revive // required for v2_test package
	"github.com/taboola/cassandra-count/types"
)

// TestSessionImplementsInterface verifies that v2.Session implements cql.Session.
func TestSessionImplementsInterface(t *testing.T) {
	var _ cql.Session = (*v2.Session)(nil)
	var _ cql.Query = (*v2.Query)(nil)
	var _ cql.Iter = (*v2.Iter)(nil)
}

// TestNewSessionNil tests that NewSession and Close handle nil gracefully.
func TestNewSessionNil(t *testing.T) {
	session := v2.NewSession(nil)
	require.NotNil(t, session)
	session.Close()
	assert.Nil(t, v2.UnwrapSession(session))
}

// TestConsistencyConstants verifies consistency constants match gocql.
func TestConsistencyConstants(t *testing.T) {
	require.Equal(t, gocql.LocalOne, v2.ToGocqlConsistency(cql.LocalOne))
	require.Equal(t, gocql.Quorum, v2.ToGocqlConsistency(cql.Quorum))
	require.Equal(t, cql.EachQuorum, v2.FromGocqlConsistency(gocql.EachQuorum))
}

func TestNewClusterConfig(t *testing.T) {
	cluster, err := v2.NewClusterConfig(cql.ConnectOptions{
		Hosts:          []string{"10.0.0.1", "10.0.0.2"},
		Port:           19042,
		Username:       "reader",
		Password:       "secret",
		Consistency:    cql.LocalQuorum,
		ConnectTimeout: 3 * time.Second,
		ReadTimeout:    20 * time.Second,
		LocalDC:        "dc1",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, cluster.Hosts)
	assert.Equal(t, 19042, cluster.Port)
	assert.Equal(t, gocql.LocalQuorum, cluster.Consistency)
	assert.Equal(t, 3*time.Second, cluster.ConnectTimeout)
	assert.Equal(t, 20*time.Second, cluster.Timeout)
	assert.Equal(t, gocql.PasswordAuthenticator{Username: "reader", Password: "secret"}, cluster.Authenticator)
	assert.NotNil(t, cluster.PoolConfig.HostSelectionPolicy)
	assert.Nil(t, cluster.SslOpts)
}

func TestNewClusterConfigDefaults(t *testing.T) {
	cluster, err := v2.NewClusterConfig(cql.ConnectOptions{Hosts: []string{"127.0.0.1"}})
	require.NoError(t, err)

	assert.Equal(t, cql.DefaultPort, cluster.Port)
	assert.Equal(t, gocql.LocalOne, cluster.Consistency)
	assert.Equal(t, cql.DefaultReadTimeout, cluster.Timeout)
	assert.Nil(t, cluster.Authenticator)
}

func TestNewClusterConfigBadTLS(t *testing.T) {
	_, err := v2.NewClusterConfig(cql.ConnectOptions{
		Hosts: []string{"127.0.0.1"},
		TLS:   &cql.TLSOptions{TruststorePath: "/nonexistent/truststore.p12"},
	})
	require.Error(t, err)
	assert.True(t, types.IsKind(err, types.KindConnection))
}
