package topology

import (
	"github.com/taboola/cassandra-count/internal/logging"
	"github.com/taboola/cassandra-count/types"
)

// Config holds configuration for the CQL source.
type Config struct {
	// Consistency is used for system table reads. These tables are node-local, so any
	// level above ONE gains nothing.
	// Default: ONE
	Consistency types.Consistency

	// PageSize is the page size for multi-row system table reads.
	// Default: 1000
	PageSize int

	// Logger receives discovery details.
	Logger types.Logger
}

// DefaultConfig returns a Config with sensible defaults.
//
// Returns:
//   - Config: Default configuration
func DefaultConfig() Config {
	return Config{
		Consistency: types.One,
		PageSize:    1000,
		Logger:      logging.NewNopLogger(),
	}
}

// Option configures the CQL source.
type Option func(*Config)

// WithConsistency sets the consistency level of system table reads.
func WithConsistency(c types.Consistency) Option {
	return func(cfg *Config) {
		cfg.Consistency = c
	}
}

// WithPageSize sets the page size of system table reads.
func WithPageSize(n int) Option {
	return func(cfg *Config) {
		if n > 0 {
			cfg.PageSize = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger types.Logger) Option {
	return func(cfg *Config) {
		if logger != nil {
			cfg.Logger = logger
		}
	}
}
