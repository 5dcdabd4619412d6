package run

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rrcarlosrodriguez/go-gst-endurance/internal/supervisor"
)

// CommandBuilder turns a pipeline template into a spawnable argv and
// environment. Implemented by process.GstLaunchRunner.
type CommandBuilder interface {
	BuildArgv(template string) ([]string, error)
	Environ(debugLevel int) []string
}

// Sink receives the durable record of every completed run. Implemented by
// summary.Writer. Record appends one line to the shared summary log;
// WriteRunLog dumps the full outcome into the per-run log directory.
type Sink interface {
	Record(runID string, kind Kind, when time.Time) error
	WriteRunLog(o *Outcome) error
}

// Config holds configuration for a PipelineRun.
type Config struct {
	// RunID identifies this run, e.g. "T1-first".
	RunID string

	// Template is the pipeline description substituted into the
	// invocation pattern.
	Template string

	// Deadline bounds each execution's wall-clock duration.
	Deadline time.Duration

	Builder CommandBuilder
	Sink    Sink
	Logger  *slog.Logger
}

// PipelineRun binds a command template, an identifier, and the shared
// summary sink to one supervised process per iteration. The run itself is
// stateless across iterations; the process handle is replaced on every
// Start.
type PipelineRun struct {
	cfg  Config
	proc *supervisor.Process
}

// New creates a PipelineRun.
func New(cfg Config) *PipelineRun {
	return &PipelineRun{cfg: cfg}
}

// RunID returns the run identifier.
func (r *PipelineRun) RunID() string {
	return r.cfg.RunID
}

// Start spawns a fresh process for this iteration with the given debug
// level injected into the child environment. Returns a *supervisor.SpawnError
// if the executable cannot be launched.
func (r *PipelineRun) Start(debugLevel int) error {
	argv, err := r.cfg.Builder.BuildArgv(r.cfg.Template)
	if err != nil {
		return fmt.Errorf("run %s: %w", r.cfg.RunID, err)
	}

	proc := supervisor.New(r.cfg.Logger.With("run_id", r.cfg.RunID))
	if err := proc.Start(argv, r.cfg.Builder.Environ(debugLevel)); err != nil {
		return fmt.Errorf("run %s: %w", r.cfg.RunID, err)
	}

	r.proc = proc
	return nil
}

// Finish waits for the current process with the run's deadline, classifies
// the result, and persists it to both sinks. The summary line and the
// per-run log are written whether or not the caller inspects the returned
// Outcome. Sink write failures are reported but do not suppress the
// Outcome.
func (r *PipelineRun) Finish(ctx context.Context) (*Outcome, error) {
	if r.proc == nil {
		return nil, fmt.Errorf("run %s: not started", r.cfg.RunID)
	}

	status := r.proc.AwaitCompletion(ctx, r.cfg.Deadline)
	outcome := r.classify(status)

	r.cfg.Logger.Info("run_finished",
		"run_id", r.cfg.RunID,
		"outcome", outcome.Kind.String(),
		"status_code", outcome.StatusCode,
	)

	var errs []error
	if err := r.cfg.Sink.Record(r.cfg.RunID, outcome.Kind, time.Now()); err != nil {
		errs = append(errs, fmt.Errorf("summary line for %s: %w", r.cfg.RunID, err))
	}
	if err := r.cfg.Sink.WriteRunLog(outcome); err != nil {
		errs = append(errs, fmt.Errorf("run log for %s: %w", r.cfg.RunID, err))
	}

	// Handle released: the next Start replaces it.
	r.proc = nil

	return outcome, errors.Join(errs...)
}

// classify maps a supervisor wait status onto an Outcome. The wait reason
// is authoritative for Timeout and Killed; the exit code only decides
// between Pass and Error on a natural exit.
func (r *PipelineRun) classify(status supervisor.WaitStatus) *Outcome {
	o := &Outcome{
		RunID:      r.cfg.RunID,
		Command:    r.proc.Argv(),
		Stdout:     r.proc.Stdout(),
		Stderr:     r.proc.Stderr(),
		StatusCode: status.ExitCode,
	}

	switch status.Reason {
	case supervisor.ReasonTimedOut:
		o.Kind = Timeout
	case supervisor.ReasonInterrupted:
		o.Kind = Killed
	default:
		if status.ExitCode == 0 {
			o.Kind = Pass
			o.StatusCode = StatusNone
		} else {
			o.Kind = Error
		}
	}

	return o
}

// Interrupt cancels the in-flight process, if any. The subsequent Finish
// classifies the run as Killed.
func (r *PipelineRun) Interrupt() {
	if r.proc != nil {
		r.proc.Interrupt()
	}
}

// Kill forcefully terminates the in-flight process, if any. Out-of-band
// cleanup only.
func (r *PipelineRun) Kill() {
	if r.proc != nil {
		r.proc.Kill()
	}
}
