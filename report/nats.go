package report

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nats-io/nats.go/jetstream"

	count "github.com/taboola/cassandra-count"
	"github.com/taboola/cassandra-count/internal/logging"
	"github.com/taboola/cassandra-count/types"
)

// DefaultBucket is the default key-value bucket for results.
const DefaultBucket = "cassandra-count"

// ErrNoResult indicates that no result has been stored for a table.
var ErrNoResult = errors.New("cassandra-count/report: no result stored for table")

// NATSConfig holds configuration for the NATS reporter.
type NATSConfig struct {
	// KeyPrefix is prepended to every key, separated by a dot.
	// Default: "" (keys are "<keyspace>.<table>")
	KeyPrefix string

	// Logger receives publish details.
	Logger types.Logger
}

// NATSOption configures the NATS reporter.
type NATSOption func(*NATSConfig)

// WithKeyPrefix sets the key prefix.
func WithKeyPrefix(prefix string) NATSOption {
	return func(c *NATSConfig) {
		c.KeyPrefix = strings.Trim(prefix, ".")
	}
}

// WithLogger sets the logger.
func WithLogger(logger types.Logger) NATSOption {
	return func(c *NATSConfig) {
		if logger != nil {
			c.Logger = logger
		}
	}
}

// NATS stores results in a JetStream key-value bucket.
type NATS struct {
	kv     jetstream.KeyValue
	config NATSConfig
}

var _ count.Reporter = (*NATS)(nil)

// OpenBucket creates the result bucket or updates its configuration.
//
// Parameters:
//   - ctx: Context for cancellation
//   - js: JetStream context
//   - bucket: Bucket name; empty uses DefaultBucket
//
// Returns:
//   - jetstream.KeyValue: The bucket handle
//   - error: If the bucket cannot be created
func OpenBucket(ctx context.Context, js jetstream.JetStream, bucket string) (jetstream.KeyValue, error) {
	if bucket == "" {
		bucket = DefaultBucket
	}

	kv, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      bucket,
		Description: "latest exact row counts per table",
		History:     5,
	})
	if err != nil {
		return nil, fmt.Errorf("open result bucket %s: %w", bucket, err)
	}

	return kv, nil
}

// NewNATS creates a reporter writing to kv.
//
// Parameters:
//   - kv: A NATS JetStream KeyValue store
//   - opts: Optional configuration
//
// Returns:
//   - *NATS: The reporter
//   - error: If kv is nil
func NewNATS(kv jetstream.KeyValue, opts ...NATSOption) (*NATS, error) {
	if kv == nil {
		return nil, errors.New("cassandra-count/report: KeyValue store is nil")
	}

	config := NATSConfig{Logger: logging.NewNopLogger()}
	for _, opt := range opts {
		opt(&config)
	}

	return &NATS{kv: kv, config: config}, nil
}

// Key returns the bucket key of a table.
func (n *NATS) Key(keyspace, table string) string {
	key := keyspace + "." + table
	if n.config.KeyPrefix != "" {
		key = n.config.KeyPrefix + "." + key
	}

	return key
}

// Report stores the result under the table's key.
func (n *NATS) Report(ctx context.Context, result *count.Result) error {
	rec := NewRecord(result)
	data, err := rec.MarshalMsg(nil)
	if err != nil {
		return err
	}

	key := n.Key(result.Keyspace, result.Table)
	rev, err := n.kv.Put(ctx, key, data)
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}

	n.config.Logger.Info("published result", "bucket", n.kv.Bucket(), "key", key, "revision", rev)

	return nil
}

// Latest returns the most recent record stored for a table.
//
// Returns:
//   - *Record: The decoded record
//   - error: ErrNoResult if nothing was stored, or a read or decode error
func (n *NATS) Latest(ctx context.Context, keyspace, table string) (*Record, error) {
	key := n.Key(keyspace, table)

	entry, err := n.kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNoResult, key)
		}
		return nil, fmt.Errorf("get %s: %w", key, err)
	}

	var rec Record
	if _, err := rec.UnmarshalMsg(entry.Value()); err != nil {
		return nil, err
	}

	return &rec, nil
}
