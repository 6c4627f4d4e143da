package types

// RunState is the lifecycle state of a count run.
//
// A run moves Init → Connected → Planned → Executing and ends in exactly one of the
// terminal states Complete or Aborted.
type RunState int

const (
	StateInit RunState = iota
	StateConnected
	StatePlanned
	StateExecuting
	StateComplete
	StateAborted
)

// String returns the upper-case state name.
func (s RunState) String() string {
	switch s {
	case StateInit:
		return "INIT"
	case StateConnected:
		return "CONNECTED"
	case StatePlanned:
		return "PLANNED"
	case StateExecuting:
		return "EXECUTING"
	case StateComplete:
		return "COMPLETE"
	case StateAborted:
		return "ABORTED"
	}

	return "UNKNOWN"
}

// Terminal reports whether no further transition can happen from s.
func (s RunState) Terminal() bool {
	return s == StateComplete || s == StateAborted
}
