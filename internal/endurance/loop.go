// Package endurance drives pairs of pipeline runs, iterating until one of
// them fails.
package endurance

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/rrcarlosrodriguez/go-gst-endurance/internal/run"
)

// Runner is one half of an endurance pair. Implemented by run.PipelineRun.
type Runner interface {
	RunID() string
	Start(debugLevel int) error
	Finish(ctx context.Context) (*run.Outcome, error)
	Kill()
}

// Callbacks contains optional callback functions for loop events.
type Callbacks struct {
	// OnRunStart is called when one run of an iteration starts.
	OnRunStart func(runID string)

	// OnRunFinish is called with each finalized outcome and the run's
	// wall-clock duration.
	OnRunFinish func(o *run.Outcome, duration time.Duration)

	// OnIteration is called after both runs of an iteration reached a
	// terminal classification.
	OnIteration func(n int, first, second *run.Outcome)
}

// Config holds configuration for a Loop.
type Config struct {
	TestID     string
	First      Runner
	Second     Runner
	DebugLevel int

	// MaxIterations caps the loop for deterministic testing.
	// 0 = unbounded, the normal endurance mode.
	MaxIterations int

	// Delay and Jitter pace consecutive iterations.
	Delay  time.Duration
	Jitter time.Duration

	// Progress receives one operator-visible line per iteration.
	Progress io.Writer

	Logger    *slog.Logger
	Callbacks Callbacks
}

// Result describes why the loop returned.
type Result struct {
	Iterations int
	First      *run.Outcome
	Second     *run.Outcome

	// Capped is true when MaxIterations stopped an otherwise all-Pass
	// loop.
	Capped bool
}

// Failed reports whether the final iteration contained a non-Pass outcome.
func (r *Result) Failed() bool {
	return !r.First.Passed() || !r.Second.Passed()
}

// Loop repeats one test pair until either run reports a non-Pass outcome.
type Loop struct {
	cfg   Config
	pacer *pacer
}

// New creates a Loop.
func New(cfg Config) *Loop {
	return &Loop{
		cfg:   cfg,
		pacer: newPacer(cfg.Delay, cfg.Jitter),
	}
}

// Run executes iterations until either run fails, the context is
// cancelled, or the injected iteration cap is reached. Within an iteration
// both runs are started before either is awaited, and both always reach
// their own terminal classification before the continue/stop decision; a
// failure in one never cancels the other mid-flight.
func (l *Loop) Run(ctx context.Context) (*Result, error) {
	l.cfg.Logger.Info("endurance_loop_starting",
		"test_id", l.cfg.TestID,
		"debug_level", l.cfg.DebugLevel,
	)

	for n := 1; ; n++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		first, second, err := l.runIteration(ctx, n)
		if err != nil {
			return nil, err
		}

		l.emitProgress(n, first, second)
		if l.cfg.Callbacks.OnIteration != nil {
			l.cfg.Callbacks.OnIteration(n, first, second)
		}

		if !first.Passed() || !second.Passed() {
			l.cfg.Logger.Info("endurance_loop_stopped",
				"test_id", l.cfg.TestID,
				"iterations", n,
				"first", first.Kind.String(),
				"second", second.Kind.String(),
			)
			return &Result{Iterations: n, First: first, Second: second}, nil
		}

		if l.cfg.MaxIterations > 0 && n >= l.cfg.MaxIterations {
			return &Result{Iterations: n, First: first, Second: second, Capped: true}, nil
		}

		if err := l.pacer.pace(ctx); err != nil {
			return nil, err
		}
	}
}

// runIteration starts both runs, then joins them. Each run owns its
// process handle exclusively until it hands back a finalized Outcome; the
// two goroutines share no mutable state.
func (l *Loop) runIteration(ctx context.Context, n int) (first, second *run.Outcome, err error) {
	if err := l.startRun(l.cfg.First); err != nil {
		return nil, nil, fmt.Errorf("iteration %d: %w", n, err)
	}
	if err := l.startRun(l.cfg.Second); err != nil {
		// The pair is being discarded, so the already-running half is
		// cleaned up out of band.
		l.cfg.First.Kill()
		return nil, nil, fmt.Errorf("iteration %d: %w", n, err)
	}

	results := make(chan *run.Outcome, 1)
	go func() {
		results <- l.finishRun(ctx, l.cfg.First)
	}()
	second = l.finishRun(ctx, l.cfg.Second)
	first = <-results

	return first, second, nil
}

func (l *Loop) startRun(r Runner) error {
	if err := r.Start(l.cfg.DebugLevel); err != nil {
		return err
	}
	if l.cfg.Callbacks.OnRunStart != nil {
		l.cfg.Callbacks.OnRunStart(r.RunID())
	}
	return nil
}

// finishRun awaits one run's terminal classification. Sink write failures
// are logged but never fail the iteration: the outcome itself is still
// authoritative.
func (l *Loop) finishRun(ctx context.Context, r Runner) *run.Outcome {
	started := time.Now()
	o, err := r.Finish(ctx)
	duration := time.Since(started)

	if err != nil {
		l.cfg.Logger.Warn("run_log_failed", "run_id", r.RunID(), "error", err)
	}
	if l.cfg.Callbacks.OnRunFinish != nil && o != nil {
		l.cfg.Callbacks.OnRunFinish(o, duration)
	}
	return o
}

// emitProgress writes the per-iteration line to the operator stream.
func (l *Loop) emitProgress(n int, first, second *run.Outcome) {
	if l.cfg.Progress == nil {
		return
	}
	fmt.Fprintf(l.cfg.Progress, "[%s] iteration %d: %s=%s %s=%s\n",
		l.cfg.TestID, n,
		first.RunID, first.Kind,
		second.RunID, second.Kind,
	)
}
