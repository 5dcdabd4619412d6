// Package run binds a pipeline template to a supervised process and
// classifies the result of each execution.
package run

// Kind classifies a completed process run. The four kinds are mutually
// exclusive and exhaustive.
type Kind int

const (
	// Pass: exit status 0, never interrupted, never past the deadline.
	Pass Kind = iota

	// Timeout: the deadline elapsed and the supervisor interrupted the
	// process.
	Timeout

	// Killed: the owner interrupted the process before natural exit.
	Killed

	// Error: the process exited on its own with a non-zero status.
	Error
)

// String returns the summary-sink spelling of the kind.
func (k Kind) String() string {
	switch k {
	case Pass:
		return "PASS"
	case Timeout:
		return "TIMEOUT"
	case Killed:
		return "KILLED"
	case Error:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// StatusNone is the status code recorded when no exit code applies (Pass).
const StatusNone = -1

// Outcome is the finalized classification of one process run plus its
// captured evidence. Immutable once returned from Finish.
type Outcome struct {
	RunID      string
	Kind       Kind
	Command    []string
	Stdout     string
	Stderr     string
	StatusCode int
}

// Passed reports whether the run was a clean pass.
func (o *Outcome) Passed() bool {
	return o.Kind == Pass
}
