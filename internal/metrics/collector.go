// Package metrics provides Prometheus metrics for go-gst-endurance.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	gstEnduranceInfo = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gst_endurance_info",
			Help: "Information about the endurance session (value always 1)",
		},
		[]string{"version", "session_id"},
	)

	gstActiveRuns = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "gst_endurance_active_runs",
			Help: "Currently running pipeline processes",
		},
	)

	gstRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gst_endurance_runs_total",
			Help: "Total pipeline runs by outcome",
		},
		[]string{"outcome"},
	)

	gstIterationsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "gst_endurance_iterations_total",
			Help: "Total completed endurance iterations",
		},
	)

	gstTestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gst_endurance_tests_total",
			Help: "Total finished test records by result",
		},
		[]string{"result"},
	)

	gstRunDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name: "gst_endurance_run_duration_seconds",
			Help: "Pipeline run wall-clock duration distribution",
			Buckets: []float64{
				0.5, 1, 2.5, 5, 10,
				30, 60, 120, 300, 600,
			},
		},
	)
)

// Collector manages all Prometheus metrics for an endurance session.
type Collector struct{}

// NewCollector creates a collector registered on the default registry.
func NewCollector(version, sessionID string) *Collector {
	return NewCollectorWithRegistry(version, sessionID, prometheus.DefaultRegisterer)
}

// NewCollectorWithRegistry creates a collector with a custom registry.
// Useful for testing.
func NewCollectorWithRegistry(version, sessionID string, registry prometheus.Registerer) *Collector {
	registry.MustRegister(
		gstEnduranceInfo,
		gstActiveRuns,
		gstRunsTotal,
		gstIterationsTotal,
		gstTestsTotal,
		gstRunDurationSeconds,
	)

	gstEnduranceInfo.WithLabelValues(version, sessionID).Set(1)

	return &Collector{}
}

// RunStarted increments the active run gauge.
func (c *Collector) RunStarted() {
	gstActiveRuns.Inc()
}

// RunFinished records one finalized run.
func (c *Collector) RunFinished(outcome string, duration time.Duration) {
	gstActiveRuns.Dec()
	gstRunsTotal.WithLabelValues(outcome).Inc()
	gstRunDurationSeconds.Observe(duration.Seconds())
}

// IterationCompleted counts one completed iteration.
func (c *Collector) IterationCompleted() {
	gstIterationsTotal.Inc()
}

// TestFinished counts one finished test record.
func (c *Collector) TestFinished(failed bool) {
	result := "passed"
	if failed {
		result = "failed"
	}
	gstTestsTotal.WithLabelValues(result).Inc()
}
