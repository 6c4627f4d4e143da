package types

import "errors"

// ErrorKind classifies fatal errors.
type ErrorKind int

const (
	// KindConfiguration indicates invalid, missing or inconsistent settings.
	// These are detected before any network activity.
	KindConfiguration ErrorKind = iota + 1
	// KindConnection indicates the session could not be established or
	// authenticated, or the TLS material could not be loaded.
	KindConnection
	// KindQuery indicates a metadata query or a per-split count query failed,
	// timed out or returned unusable data.
	KindQuery
)

// String returns the kind name used in error messages.
func (k ErrorKind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindConnection:
		return "connection"
	case KindQuery:
		return "query"
	}

	return "unknown"
}

// Sentinel errors for common failure scenarios.
var (
	// ErrNilSession indicates that a connector returned a nil session.
	ErrNilSession = errors.New("cassandra-count: session cannot be nil")

	// ErrNoTokenRanges indicates that the cluster reported no token ranges.
	ErrNoTokenRanges = errors.New("cassandra-count: cluster reported no token ranges")

	// ErrUnsupportedPartitioner indicates the cluster does not use the Murmur3 partitioner.
	ErrUnsupportedPartitioner = errors.New("cassandra-count: only the Murmur3 partitioner is supported")

	// ErrTableNotFound indicates the keyspace or table does not exist in the schema.
	ErrTableNotFound = errors.New("cassandra-count: table not found")

	// ErrNegativeCount indicates a count query returned a negative value.
	ErrNegativeCount = errors.New("cassandra-count: count query returned a negative value")

	// ErrCountOverflow indicates the running total no longer fits in 64 bits.
	ErrCountOverflow = errors.New("cassandra-count: total row count overflows uint64")
)

// Error is a classified, fatal cassandra-count error.
type Error struct {
	// Kind classifies the failure.
	Kind ErrorKind

	// Op describes what was being done when the failure occurred.
	Op string

	// Cause is the underlying error.
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := "cassandra-count: " + e.Kind.String() + " error"
	if e.Op != "" {
		msg += ": " + e.Op
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}

	return msg
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewConfigurationError wraps cause as a configuration error.
func NewConfigurationError(op string, cause error) *Error {
	return &Error{Kind: KindConfiguration, Op: op, Cause: cause}
}

// NewConnectionError wraps cause as a connection error.
func NewConnectionError(op string, cause error) *Error {
	return &Error{Kind: KindConnection, Op: op, Cause: cause}
}

// NewQueryError wraps cause as a query error.
func NewQueryError(op string, cause error) *Error {
	return &Error{Kind: KindQuery, Op: op, Cause: cause}
}

// IsKind reports whether err, or any error it wraps, is an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}

	return e.Kind == kind
}

// KindOf returns the kind of the outermost *Error in err's chain, or 0 if there is none.
func KindOf(err error) ErrorKind {
	var e *Error
	if !errors.As(err, &e) {
		return 0
	}

	return e.Kind
}
