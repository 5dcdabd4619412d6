// Package stats aggregates per-session statistics for endurance testing.
package stats

import (
	"sync"
	"time"

	"github.com/influxdata/tdigest"

	"github.com/rrcarlosrodriguez/go-gst-endurance/internal/run"
)

// Session accumulates run outcomes and durations across all test records
// of one endurance session. Safe for concurrent use: both runs of an
// iteration record their results from independent goroutines.
type Session struct {
	sessionID string
	startTime time.Time

	mu             sync.Mutex
	durationDigest *tdigest.TDigest
	outcomes       map[run.Kind]int
	runs           int
	iterations     int
	tests          int
	failedTests    int
	maxDuration    time.Duration
}

// NewSession creates an empty session aggregate.
func NewSession(sessionID string) *Session {
	return &Session{
		sessionID:      sessionID,
		startTime:      time.Now(),
		durationDigest: tdigest.NewWithCompression(100), // ~100 centroids, ~10KB
		outcomes:       make(map[run.Kind]int),
	}
}

// RecordRun folds one finalized run into the aggregate.
func (s *Session) RecordRun(kind run.Kind, duration time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs++
	s.outcomes[kind]++
	s.durationDigest.Add(duration.Seconds(), 1)
	if duration > s.maxDuration {
		s.maxDuration = duration
	}
}

// RecordIteration counts one completed iteration of some endurance loop.
func (s *Session) RecordIteration() {
	s.mu.Lock()
	s.iterations++
	s.mu.Unlock()
}

// RecordTest counts one finished test record; failed marks whether its
// loop terminated on a non-Pass outcome.
func (s *Session) RecordTest(failed bool) {
	s.mu.Lock()
	s.tests++
	if failed {
		s.failedTests++
	}
	s.mu.Unlock()
}

// Summary is a point-in-time snapshot of the session aggregate.
type Summary struct {
	SessionID string
	Duration  time.Duration

	Tests       int
	FailedTests int
	Iterations  int
	Runs        int

	Outcomes map[run.Kind]int

	// Per-run wall-clock duration percentiles.
	RunDurationP50 time.Duration
	RunDurationP95 time.Duration
	RunDurationP99 time.Duration
	RunDurationMax time.Duration
}

// Snapshot returns the current aggregate.
func (s *Session) Snapshot() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	outcomes := make(map[run.Kind]int, len(s.outcomes))
	for k, v := range s.outcomes {
		outcomes[k] = v
	}

	sum := Summary{
		SessionID:      s.sessionID,
		Duration:       time.Since(s.startTime),
		Tests:          s.tests,
		FailedTests:    s.failedTests,
		Iterations:     s.iterations,
		Runs:           s.runs,
		Outcomes:       outcomes,
		RunDurationMax: s.maxDuration,
	}

	if s.runs > 0 {
		sum.RunDurationP50 = secondsToDuration(s.durationDigest.Quantile(0.50))
		sum.RunDurationP95 = secondsToDuration(s.durationDigest.Quantile(0.95))
		sum.RunDurationP99 = secondsToDuration(s.durationDigest.Quantile(0.99))
	}

	return sum
}

func secondsToDuration(sec float64) time.Duration {
	return time.Duration(sec * float64(time.Second))
}
