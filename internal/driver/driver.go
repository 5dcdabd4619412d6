// Package driver runs an endurance session: it reads test records, drives
// one endurance loop per record, and owns the summary sink lifecycle.
package driver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/rrcarlosrodriguez/go-gst-endurance/internal/config"
	"github.com/rrcarlosrodriguez/go-gst-endurance/internal/endurance"
	"github.com/rrcarlosrodriguez/go-gst-endurance/internal/metrics"
	"github.com/rrcarlosrodriguez/go-gst-endurance/internal/preflight"
	"github.com/rrcarlosrodriguez/go-gst-endurance/internal/process"
	"github.com/rrcarlosrodriguez/go-gst-endurance/internal/records"
	"github.com/rrcarlosrodriguez/go-gst-endurance/internal/run"
	"github.com/rrcarlosrodriguez/go-gst-endurance/internal/stats"
	"github.com/rrcarlosrodriguez/go-gst-endurance/internal/summary"
)

// Observer receives session events. Implemented by the TUI; optional.
type Observer interface {
	TestStarted(testID string)
	RunFinished(o *run.Outcome, duration time.Duration)
	IterationCompleted(testID string, n int, first, second *run.Outcome)
	TestFinished(testID string, failed bool)
	SessionFinished(sum stats.Summary)
}

// Driver coordinates all components for one endurance session.
type Driver struct {
	cfg    *config.Config
	logger *slog.Logger

	sessionID string
	runner    *process.GstLaunchRunner
	session   *stats.Session

	collector     *metrics.Collector
	metricsServer *metrics.Server

	observer Observer
	progress io.Writer

	summaryPath string
}

// New creates a Driver. The environment overlay file, if configured, is
// loaded here so a broken file fails the session before any process
// spawns.
func New(cfg *config.Config, logger *slog.Logger) (*Driver, error) {
	extraEnv, err := process.LoadEnvFile(cfg.EnvFile)
	if err != nil {
		return nil, err
	}

	runner := process.NewGstLaunchRunner(&process.LaunchConfig{
		Pattern:     cfg.LaunchPattern,
		DebugEnvVar: cfg.DebugEnvVar,
		ExtraEnv:    extraEnv,
	})

	sessionID := uuid.New().String()

	d := &Driver{
		cfg:       cfg,
		logger:    logger.With("session_id", sessionID),
		sessionID: sessionID,
		runner:    runner,
		session:   stats.NewSession(sessionID),
		progress:  os.Stdout,
	}

	if cfg.MetricsAddr != "" {
		d.collector = metrics.NewCollector("1.0", sessionID)
		d.metricsServer = metrics.NewServer(cfg.MetricsAddr, d.logger)
	}

	return d, nil
}

// SetObserver registers a session observer. Must be called before Run.
func (d *Driver) SetObserver(o Observer) {
	d.observer = o
}

// SetProgress redirects the operator-visible progress stream.
func (d *Driver) SetProgress(w io.Writer) {
	d.progress = w
}

// SessionID returns the unique ID of this session.
func (d *Driver) SessionID() string {
	return d.sessionID
}

// SummaryPath returns the resolved summary log path. Valid after Run has
// started.
func (d *Driver) SummaryPath() string {
	return d.summaryPath
}

// Summary returns a snapshot of the session statistics.
func (d *Driver) Summary() stats.Summary {
	return d.session.Snapshot()
}

// Run executes the whole session. It blocks until every record has been
// processed or a termination signal arrives.
func (d *Driver) Run(ctx context.Context) error {
	if !d.cfg.SkipPreflight {
		result := preflight.RunAll(d.runner.Binary(), d.cfg.RecordsPath)
		preflight.PrintResults(result)
		if !result.Passed {
			return fmt.Errorf("preflight checks failed (use -skip-preflight to override)")
		}
	}

	recs, err := records.ParseFile(d.cfg.RecordsPath)
	if err != nil {
		return err
	}
	d.logger.Info("records_loaded", "path", d.cfg.RecordsPath, "count", len(recs))

	d.summaryPath = d.cfg.SummaryPath
	if d.summaryPath == "" {
		d.summaryPath = summary.DefaultPath(d.cfg.SummaryPattern, time.Now())
	}
	sink, err := summary.NewWriter(d.summaryPath, d.logger)
	if err != nil {
		return err
	}
	// The summary log is the session's durable record; a failed close
	// means lines may not have reached disk.
	defer func() {
		if err := sink.Close(); err != nil {
			d.logger.Warn("summary_close_failed", "path", d.summaryPath, "error", err)
		}
	}()

	if d.metricsServer != nil {
		if err := d.metricsServer.Start(); err != nil {
			return fmt.Errorf("starting metrics server: %w", err)
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(sigCh)

	done := make(chan struct{})
	go func() {
		defer close(done)
		d.runRecords(ctx, recs, sink)
	}()

	select {
	case sig := <-sigCh:
		d.logger.Info("received_signal", "signal", sig.String())
		// In-flight supervised processes see the cancellation as an
		// owner interrupt and get classified as Killed.
		cancel()
		<-done
	case <-done:
	}

	if d.metricsServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := d.metricsServer.Shutdown(shutdownCtx); err != nil {
			d.logger.Warn("metrics_server_shutdown_error", "error", err)
		}
	}

	sum := d.session.Snapshot()
	if d.observer != nil {
		d.observer.SessionFinished(sum)
	}
	fmt.Fprint(d.progress, stats.FormatExitSummary(sum, d.summaryPath))

	return nil
}

// runRecords drives one endurance loop per record. A failing record stops
// only its own loop; the session proceeds to the next record.
func (d *Driver) runRecords(ctx context.Context, recs []records.Record, sink *summary.Writer) {
	for _, rec := range recs {
		if ctx.Err() != nil {
			return
		}
		if err := d.runTest(ctx, rec, sink); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			d.logger.Error("test_aborted", "test_id", rec.TestID, "error", err)
		}
	}
}

// runTest runs the endurance loop for one record.
func (d *Driver) runTest(ctx context.Context, rec records.Record, sink *summary.Writer) error {
	d.logger.Info("test_starting", "test_id", rec.TestID, "debug_level", rec.DebugLevel)
	if d.observer != nil {
		d.observer.TestStarted(rec.TestID)
	}

	first := run.New(run.Config{
		RunID:    rec.TestID + "-first",
		Template: rec.First,
		Deadline: d.cfg.RunDeadline,
		Builder:  d.runner,
		Sink:     sink,
		Logger:   d.logger,
	})
	second := run.New(run.Config{
		RunID:    rec.TestID + "-second",
		Template: rec.Second,
		Deadline: d.cfg.RunDeadline,
		Builder:  d.runner,
		Sink:     sink,
		Logger:   d.logger,
	})

	loop := endurance.New(endurance.Config{
		TestID:        rec.TestID,
		First:         first,
		Second:        second,
		DebugLevel:    rec.DebugLevel,
		MaxIterations: d.cfg.MaxIterations,
		Delay:         d.cfg.IterationDelay,
		Jitter:        d.cfg.IterationJitter,
		Progress:      d.progress,
		Logger:        d.logger,
		Callbacks: endurance.Callbacks{
			OnRunStart:  d.onRunStart,
			OnRunFinish: d.onRunFinish,
			OnIteration: func(n int, f, s *run.Outcome) { d.onIteration(rec.TestID, n, f, s) },
		},
	})

	result, err := loop.Run(ctx)
	if err != nil {
		// A spawn failure is fatal to this record; the session moves on.
		d.session.RecordTest(true)
		if d.collector != nil {
			d.collector.TestFinished(true)
		}
		return err
	}

	d.session.RecordTest(result.Failed())
	if d.collector != nil {
		d.collector.TestFinished(result.Failed())
	}
	if d.observer != nil {
		d.observer.TestFinished(rec.TestID, result.Failed())
	}

	d.logger.Info("test_finished",
		"test_id", rec.TestID,
		"iterations", result.Iterations,
		"failed", result.Failed(),
	)
	return nil
}

// Callback handlers

func (d *Driver) onRunStart(runID string) {
	if d.collector != nil {
		d.collector.RunStarted()
	}
	if d.cfg.Verbose {
		d.logger.Debug("run_started", "run_id", runID)
	}
}

func (d *Driver) onRunFinish(o *run.Outcome, duration time.Duration) {
	d.session.RecordRun(o.Kind, duration)
	if d.collector != nil {
		d.collector.RunFinished(o.Kind.String(), duration)
	}
	if d.observer != nil {
		d.observer.RunFinished(o, duration)
	}
}

func (d *Driver) onIteration(testID string, n int, first, second *run.Outcome) {
	d.session.RecordIteration()
	if d.collector != nil {
		d.collector.IterationCompleted()
	}
	if d.observer != nil {
		d.observer.IterationCompleted(testID, n, first, second)
	}
}
