package cql

import (
	"time"
)

// Default connection settings.
const (
	DefaultPort           = 9042
	DefaultConnectTimeout = 5 * time.Second
	DefaultReadTimeout    = 12 * time.Second
)

// ConnectOptions describes how to reach and authenticate against a cluster.
type ConnectOptions struct {
	// Hosts are the contact points.
	Hosts []string

	// Port is the native protocol port.
	Port int

	// Username and Password enable password authentication when Username is set.
	Username string
	Password string

	// Consistency is the default consistency level of the session.
	Consistency Consistency

	// ConnectTimeout bounds connection establishment.
	ConnectTimeout time.Duration

	// ReadTimeout bounds every request on a connection.
	ReadTimeout time.Duration

	// LocalDC, when set, restricts coordinators to one datacenter.
	LocalDC string

	// TLS enables client encryption when non-nil.
	TLS *TLSOptions
}

// WithDefaults returns a copy of o with zero fields replaced by defaults.
func (o ConnectOptions) WithDefaults() ConnectOptions {
	if o.Port == 0 {
		o.Port = DefaultPort
	}
	if o.ConnectTimeout <= 0 {
		o.ConnectTimeout = DefaultConnectTimeout
	}
	if o.ReadTimeout <= 0 {
		o.ReadTimeout = DefaultReadTimeout
	}
	if o.Consistency == Any {
		o.Consistency = LocalOne
	}

	return o
}
