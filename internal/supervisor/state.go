// Package supervisor owns the lifecycle of a single supervised pipeline process.
package supervisor

// State represents the current state of a supervised process.
type State int

const (
	// StateUnstarted is the initial state before Start.
	StateUnstarted State = iota

	// StateRunning indicates the process is actively running.
	StateRunning

	// StateCompleted indicates the process exited on its own.
	StateCompleted

	// StateTimedOut indicates the deadline elapsed and the process was
	// interrupted by the supervisor.
	StateTimedOut

	// StateInterrupted indicates the owner cancelled the process before
	// natural exit.
	StateInterrupted
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case StateUnstarted:
		return "unstarted"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateTimedOut:
		return "timed_out"
	case StateInterrupted:
		return "interrupted"
	default:
		return "unknown"
	}
}

// IsTerminal returns true once the process has reached a terminal
// classification.
func (s State) IsTerminal() bool {
	return s == StateCompleted || s == StateTimedOut || s == StateInterrupted
}

// WaitReason explains why AwaitCompletion returned.
type WaitReason int

const (
	// ReasonCompleted means the process exited on its own before the
	// deadline and without an owner interrupt.
	ReasonCompleted WaitReason = iota

	// ReasonTimedOut means the deadline elapsed first.
	ReasonTimedOut

	// ReasonInterrupted means the owner cancelled the process.
	ReasonInterrupted
)

// String returns a human-readable name for the reason.
func (r WaitReason) String() string {
	switch r {
	case ReasonCompleted:
		return "completed"
	case ReasonTimedOut:
		return "timed_out"
	case ReasonInterrupted:
		return "interrupted"
	default:
		return "unknown"
	}
}

// WaitStatus is the result of a bounded wait. The reason is authoritative:
// ExitCode is informational for TimedOut and Interrupted, where the code
// reflects whatever the signal handling produced.
type WaitStatus struct {
	Reason   WaitReason
	ExitCode int
}
