// Package config provides configuration management for go-gst-endurance.
package config

import "time"

// Config holds all configuration options for an endurance session.
type Config struct {
	// Input
	RecordsPath string `json:"records_path" yaml:"records_path"`

	// Pipeline invocation
	LaunchPattern string        `json:"launch_pattern" yaml:"launch_pattern"` // must contain one %s
	DebugEnvVar   string        `json:"debug_env_var" yaml:"debug_env_var"`
	EnvFile       string        `json:"env_file" yaml:"env_file"` // extra child env overlay
	RunDeadline   time.Duration `json:"run_deadline" yaml:"run_deadline"`

	// Summary sink
	SummaryPath    string `json:"summary_path" yaml:"summary_path"`       // empty = derive from pattern
	SummaryPattern string `json:"summary_pattern" yaml:"summary_pattern"` // %s replaced with timestamp

	// Iteration pacing
	IterationDelay  time.Duration `json:"iteration_delay" yaml:"iteration_delay"`
	IterationJitter time.Duration `json:"iteration_jitter" yaml:"iteration_jitter"`

	// MaxIterations caps the endurance loop. 0 = unbounded (the normal mode).
	MaxIterations int `json:"max_iterations" yaml:"max_iterations"`

	// Observability
	MetricsAddr string `json:"metrics_addr" yaml:"metrics_addr"` // empty = disabled
	Verbose     bool   `json:"verbose" yaml:"verbose"`
	LogFormat   string `json:"log_format" yaml:"log_format"` // json, text
	TUIEnabled  bool   `json:"tui" yaml:"tui"`

	// Diagnostic modes
	PrintCmd      bool `json:"print_cmd" yaml:"-"`
	SkipPreflight bool `json:"skip_preflight" yaml:"skip_preflight"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		// Pipeline invocation
		LaunchPattern: "gst-launch-1.0 %s",
		DebugEnvVar:   "GST_DEBUG",
		RunDeadline:   120 * time.Second,

		// Summary sink
		SummaryPattern: "endurance_%s.log",

		// Iteration pacing
		IterationDelay:  0,
		IterationJitter: 0,

		// Endurance loop (0 = run until failure)
		MaxIterations: 0,

		// Observability
		MetricsAddr: "", // Disabled unless requested
		Verbose:     false,
		LogFormat:   "json",
		TUIEnabled:  false,
	}
}
