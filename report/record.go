package report

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tinylib/msgp/msgp"

	count "github.com/taboola/cassandra-count"
)

// RunIDExtensionType is the MessagePack extension type for run IDs.
// Types 3, 4, 5 are used by msgp for complex64, complex128, and time.Time.
const RunIDExtensionType int8 = 10

const runIDSize = 16

// RunID is a run UUID that implements msgp.Extension.
type RunID uuid.UUID

var _ msgp.Extension = (*RunID)(nil)

func init() {
	msgp.RegisterExtension(RunIDExtensionType, func() msgp.Extension {
		return new(RunID)
	})
}

// ExtensionType returns the MessagePack extension type for RunID.
func (r *RunID) ExtensionType() int8 {
	return RunIDExtensionType
}

// Len returns the encoded length of a RunID (always 16 bytes).
func (r *RunID) Len() int {
	return runIDSize
}

// MarshalBinaryTo copies the UUID bytes into b.
func (r *RunID) MarshalBinaryTo(b []byte) error {
	copy(b, r[:])
	return nil
}

// UnmarshalBinary copies the UUID bytes from b.
func (r *RunID) UnmarshalBinary(b []byte) error {
	if len(b) != runIDSize {
		return fmt.Errorf("run id: expected %d bytes, got %d", runIDSize, len(b))
	}
	copy(r[:], b)

	return nil
}

// String returns the UUID in standard hyphenated format.
func (r RunID) String() string {
	return uuid.UUID(r).String()
}

//go:generate msgp -io=false -tests=false

// Record is the MessagePack form of a completed run stored in the result bucket.
type Record struct {
	RunID     RunID         `msg:"run_id,extension"`
	Keyspace  string        `msg:"keyspace"`
	Table     string        `msg:"table"`
	Count     uint64        `msg:"count"`
	Strategy  string        `msg:"strategy"`
	Splits    int           `msg:"splits"`
	StartedAt time.Time     `msg:"started_at"`
	Duration  time.Duration `msg:"duration_ns"`
}

var (
	_ msgp.Marshaler   = (*Record)(nil)
	_ msgp.Unmarshaler = (*Record)(nil)
	_ msgp.Sizer       = (*Record)(nil)
)

// NewRecord converts a result into a Record.
func NewRecord(result *count.Result) Record {
	return Record{
		RunID:     RunID(result.RunID),
		Keyspace:  result.Keyspace,
		Table:     result.Table,
		Count:     result.Count,
		Strategy:  result.Strategy.String(),
		Splits:    result.Splits,
		StartedAt: result.StartedAt,
		Duration:  result.Duration,
	}
}

// String returns the result line of the record.
func (r *Record) String() string {
	return fmt.Sprintf("%s.%s: %d", r.Keyspace, r.Table, r.Count)
}
