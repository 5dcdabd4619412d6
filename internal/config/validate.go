package config

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the configuration for errors and inconsistencies.
// Returns nil if valid, or an error describing the problem.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.RecordsPath == "" {
		errs = append(errs, ValidationError{
			Field:   "tests",
			Message: "test-record file is required",
		})
	}

	if strings.Count(cfg.LaunchPattern, "%s") != 1 {
		errs = append(errs, ValidationError{
			Field:   "launch-pattern",
			Message: "must contain exactly one %s placeholder",
		})
	}

	if cfg.DebugEnvVar == "" {
		errs = append(errs, ValidationError{
			Field:   "debug-env",
			Message: "environment variable name is required",
		})
	}

	if cfg.RunDeadline <= 0 {
		errs = append(errs, ValidationError{
			Field:   "deadline",
			Message: "must be positive",
		})
	}

	if cfg.SummaryPath == "" && !strings.Contains(cfg.SummaryPattern, "%s") {
		errs = append(errs, ValidationError{
			Field:   "summary-pattern",
			Message: "must contain a %s timestamp placeholder",
		})
	}

	if cfg.IterationDelay < 0 || cfg.IterationJitter < 0 {
		errs = append(errs, ValidationError{
			Field:   "iteration-delay",
			Message: "delay and jitter must not be negative",
		})
	}

	if cfg.MaxIterations < 0 {
		errs = append(errs, ValidationError{
			Field:   "max-iterations",
			Message: "must not be negative",
		})
	}

	switch strings.ToLower(cfg.LogFormat) {
	case "json", "text":
	default:
		errs = append(errs, ValidationError{
			Field:   "log-format",
			Message: `must be "json" or "text"`,
		})
	}

	return errors.Join(errs...)
}
