package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
)

// ParseFlags parses command-line flags and returns a Config.
// If a -config file is given, it is loaded first and individual flags
// override its values.
func ParseFlags(args []string) (*Config, error) {
	cfg := DefaultConfig()

	// The config file has to be applied before flag registration so that
	// explicit flags win over file values.
	if path := configPathFromArgs(args); path != "" {
		if err := LoadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	fs := flag.NewFlagSet("go-gst-endurance", flag.ContinueOnError)
	fs.Usage = func() { printUsage(fs, os.Stderr) }

	// Accepted here only so the pre-scan flag shows up in -help.
	var configPath string
	fs.StringVar(&configPath, "config", "", "Path to YAML config file")

	// Input
	fs.StringVar(&cfg.RecordsPath, "tests", cfg.RecordsPath, "Path to the test-record file (required)")

	// Pipeline invocation
	fs.StringVar(&cfg.LaunchPattern, "launch-pattern", cfg.LaunchPattern, "Invocation pattern, %s replaced by the pipeline template")
	fs.StringVar(&cfg.DebugEnvVar, "debug-env", cfg.DebugEnvVar, "Environment variable carrying the numeric debug level")
	fs.StringVar(&cfg.EnvFile, "env-file", cfg.EnvFile, "dotenv file with extra environment for spawned pipelines")
	fs.DurationVar(&cfg.RunDeadline, "deadline", cfg.RunDeadline, "Per-run deadline before the pipeline is interrupted")

	// Summary sink
	fs.StringVar(&cfg.SummaryPath, "summary", cfg.SummaryPath, "Summary log path (default: derived from -summary-pattern and the start time)")
	fs.StringVar(&cfg.SummaryPattern, "summary-pattern", cfg.SummaryPattern, "Summary filename pattern, %s replaced with a timestamp")

	// Iteration pacing
	fs.DurationVar(&cfg.IterationDelay, "iteration-delay", cfg.IterationDelay, "Delay between endurance iterations")
	fs.DurationVar(&cfg.IterationJitter, "iteration-jitter", cfg.IterationJitter, "Random jitter added to the iteration delay")

	// Note: max-iterations is intentionally not documented (testing aid;
	// endurance loops are unbounded by design)
	fs.IntVar(&cfg.MaxIterations, "max-iterations", cfg.MaxIterations, "")

	// Observability
	fs.StringVar(&cfg.MetricsAddr, "metrics", cfg.MetricsAddr, "Prometheus metrics address (empty = disabled)")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "Verbose logging")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, `Log format: "json" or "text"`)
	fs.BoolVar(&cfg.TUIEnabled, "tui", cfg.TUIEnabled, "Enable live terminal dashboard")

	// Diagnostics
	fs.BoolVar(&cfg.PrintCmd, "print-cmd", cfg.PrintCmd, "Print the command each record would run and exit")
	fs.BoolVar(&cfg.SkipPreflight, "skip-preflight", cfg.SkipPreflight, "Skip preflight checks")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// Positional argument: records file (alternative to -tests)
	if rest := fs.Args(); len(rest) >= 1 && cfg.RecordsPath == "" {
		cfg.RecordsPath = rest[0]
	}

	return cfg, nil
}

// configPathFromArgs pre-scans args for -config/--config before the real
// flag parse runs.
func configPathFromArgs(args []string) string {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "-config" || arg == "--config":
			if i+1 < len(args) {
				return args[i+1]
			}
		case strings.HasPrefix(arg, "-config="):
			return strings.TrimPrefix(arg, "-config=")
		case strings.HasPrefix(arg, "--config="):
			return strings.TrimPrefix(arg, "--config=")
		}
	}
	return ""
}

// printUsage prints a categorized usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintf(w, `go-gst-endurance - GStreamer pipeline endurance testing

Usage:
  go-gst-endurance -tests <records-file> [flags]

Each test record runs a pair of pipelines concurrently, over and over,
until one of them fails.

Input:
`)
	printFlagCategory(fs, w, []string{"tests", "config"})

	fmt.Fprintf(w, "\nPipeline Invocation:\n")
	printFlagCategory(fs, w, []string{"launch-pattern", "debug-env", "env-file", "deadline"})

	fmt.Fprintf(w, "\nLogging Sinks:\n")
	printFlagCategory(fs, w, []string{"summary", "summary-pattern"})

	fmt.Fprintf(w, "\nPacing:\n")
	printFlagCategory(fs, w, []string{"iteration-delay", "iteration-jitter"})

	fmt.Fprintf(w, "\nObservability:\n")
	printFlagCategory(fs, w, []string{"metrics", "v", "log-format", "tui"})

	fmt.Fprintf(w, "\nDiagnostics:\n")
	printFlagCategory(fs, w, []string{"print-cmd", "skip-preflight"})

	fmt.Fprintf(w, `
Examples:
  # Run every record in pairs.txt until failure
  go-gst-endurance -tests pairs.txt

  # Shorter deadline, live dashboard
  go-gst-endurance -tests pairs.txt -deadline 60s -tui

`)
}

// printFlagCategory prints flags matching the given names (helper for usage).
func printFlagCategory(fs *flag.FlagSet, w io.Writer, names []string) {
	fs.VisitAll(func(f *flag.Flag) {
		for _, name := range names {
			if f.Name == name {
				fmt.Fprintf(w, "  -%s\n    \t%s", f.Name, f.Usage)
				if f.DefValue != "" && f.DefValue != "false" && f.DefValue != "0" && f.DefValue != "0s" {
					fmt.Fprintf(w, " (default %s)", f.DefValue)
				}
				fmt.Fprintln(w)
				return
			}
		}
	})
}
