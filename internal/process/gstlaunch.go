// Package process provides abstractions for building external pipeline commands.
package process

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/google/shlex"
)

// LaunchConfig holds configuration for gst-launch command construction.
type LaunchConfig struct {
	// Pattern is the invocation pattern. The pipeline template from a test
	// record is substituted for the single %s placeholder.
	Pattern string

	// DebugEnvVar is the environment variable carrying the numeric debug
	// level, injected into every spawned pipeline.
	DebugEnvVar string

	// ExtraEnv is an additional environment overlay (e.g. from a dotenv
	// file), applied before the debug variable.
	ExtraEnv map[string]string
}

// DefaultLaunchConfig returns a LaunchConfig with gst-launch defaults.
func DefaultLaunchConfig() *LaunchConfig {
	return &LaunchConfig{
		Pattern:     "gst-launch-1.0 %s",
		DebugEnvVar: "GST_DEBUG",
	}
}

// GstLaunchRunner builds argument vectors and environments for gst-launch
// pipeline processes.
type GstLaunchRunner struct {
	config *LaunchConfig
}

// NewGstLaunchRunner creates a new runner with the given configuration.
func NewGstLaunchRunner(cfg *LaunchConfig) *GstLaunchRunner {
	return &GstLaunchRunner{
		config: cfg,
	}
}

// Name returns "gst-launch".
func (r *GstLaunchRunner) Name() string {
	return "gst-launch"
}

// BuildArgv substitutes the pipeline template into the invocation pattern
// and tokenizes the result with shell-word-splitting rules.
func (r *GstLaunchRunner) BuildArgv(template string) ([]string, error) {
	line := fmt.Sprintf(r.config.Pattern, template)
	argv, err := shlex.Split(line)
	if err != nil {
		return nil, fmt.Errorf("tokenizing command %q: %w", line, err)
	}
	if len(argv) == 0 {
		return nil, fmt.Errorf("empty command from template %q", template)
	}
	return argv, nil
}

// Environ returns the full parent environment plus the extra overlay and
// the debug-level variable. The debug variable is applied last so it always
// wins.
func (r *GstLaunchRunner) Environ(debugLevel int) []string {
	env := os.Environ()
	for k, v := range r.config.ExtraEnv {
		env = append(env, k+"="+v)
	}
	env = append(env, r.config.DebugEnvVar+"="+strconv.Itoa(debugLevel))
	return env
}

// Binary returns the executable name from the invocation pattern.
// Used by preflight checks.
func (r *GstLaunchRunner) Binary() string {
	argv, err := r.BuildArgv("")
	if err != nil || len(argv) == 0 {
		return ""
	}
	return argv[0]
}

// Config returns the launch configuration.
func (r *GstLaunchRunner) Config() *LaunchConfig {
	return r.config
}

// CommandString returns the command that would be executed for a template
// (for diagnostics).
func (r *GstLaunchRunner) CommandString(template string) string {
	argv, err := r.BuildArgv(template)
	if err != nil {
		return fmt.Sprintf("(invalid: %v)", err)
	}
	return strings.Join(argv, " ")
}
