// Package main provides the go-gst-endurance CLI entry point.
//
// go-gst-endurance is an endurance testing tool that supervises pairs of
// GStreamer pipelines, running each pair concurrently over and over until
// one of them fails, and persisting a per-run and per-session log.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rrcarlosrodriguez/go-gst-endurance/internal/config"
	"github.com/rrcarlosrodriguez/go-gst-endurance/internal/driver"
	"github.com/rrcarlosrodriguez/go-gst-endurance/internal/logging"
	"github.com/rrcarlosrodriguez/go-gst-endurance/internal/process"
	"github.com/rrcarlosrodriguez/go-gst-endurance/internal/records"
	"github.com/rrcarlosrodriguez/go-gst-endurance/internal/stats"
	"github.com/rrcarlosrodriguez/go-gst-endurance/internal/tui"
)

// version is set at build time via ldflags:
//
//	go build -ldflags "-X main.version=1.0.0" ./cmd/go-gst-endurance
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	// Handle version flag early (before flag parsing)
	if len(os.Args) > 1 {
		arg := os.Args[1]
		if arg == "-version" || arg == "--version" || arg == "version" {
			fmt.Printf("go-gst-endurance %s\n", version)
			return 0
		}
	}

	cfg, err := config.ParseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		return 1
	}

	// When the TUI owns the terminal, suppress logs so they don't fight
	// the dashboard for the screen.
	var logger *slog.Logger
	if cfg.TUIEnabled {
		logger = logging.NewLoggerWithWriter(io.Discard, "json", "info")
	} else {
		logger = logging.NewLogger(cfg.LogFormat, "info", cfg.Verbose)
	}
	logging.SetDefault(logger)

	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		return 1
	}

	if cfg.PrintCmd {
		return printCommands(cfg)
	}

	logger.Info("starting",
		"version", version,
		"tests", cfg.RecordsPath,
		"deadline", cfg.RunDeadline.String(),
		"launch_pattern", cfg.LaunchPattern,
	)

	drv, err := driver.New(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if cfg.TUIEnabled {
		return runWithTUI(drv)
	}

	printBanner(cfg)

	if err := drv.Run(context.Background()); err != nil {
		logger.Error("session_failed", "error", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	return 0
}

// runWithTUI runs the session behind a live dashboard.
func runWithTUI(drv *driver.Driver) int {
	p := tea.NewProgram(tui.New(tui.Config{SessionID: drv.SessionID()}))
	drv.SetObserver(tui.NewNotifier(p))
	drv.SetProgress(io.Discard)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- drv.Run(ctx)
	}()

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "TUI error: %v\n", err)
	}

	// The dashboard owns the keyboard, so quitting it (q, or Ctrl+C, which
	// bubbletea consumes as a key) is the shutdown request: cancel the
	// session so in-flight runs are interrupted and classified Killed, the
	// same as the plain-mode signal path.
	cancel()

	if err := <-errCh; err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	// The dashboard suppressed the progress stream; print the exit
	// summary now that the terminal is ours again.
	fmt.Print(stats.FormatExitSummary(drv.Summary(), drv.SummaryPath()))
	return 0
}

// printBanner prints the startup banner.
func printBanner(cfg *config.Config) {
	fmt.Println()
	fmt.Println("╔═══════════════════════════════════════════════════════════════════╗")
	fmt.Println("║                        go-gst-endurance                           ║")
	fmt.Println("║        GStreamer Pipeline Pair Endurance Testing                  ║")
	fmt.Println("╚═══════════════════════════════════════════════════════════════════╝")
	fmt.Println()
	fmt.Printf("  Tests:       %s\n", cfg.RecordsPath)
	fmt.Printf("  Deadline:    %s per run\n", cfg.RunDeadline)
	fmt.Printf("  Launcher:    %s\n", cfg.LaunchPattern)
	if cfg.MetricsAddr != "" {
		fmt.Printf("  Metrics:     http://%s/metrics\n", cfg.MetricsAddr)
	}
	fmt.Println()
	fmt.Println("Press Ctrl+C to stop.")
	fmt.Println()
}

// printCommands prints the command each record's templates would run.
func printCommands(cfg *config.Config) int {
	recs, err := records.ParseFile(cfg.RecordsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	runner := process.NewGstLaunchRunner(&process.LaunchConfig{
		Pattern:     cfg.LaunchPattern,
		DebugEnvVar: cfg.DebugEnvVar,
	})

	fmt.Println("# Commands that would be run for each test record:")
	for _, rec := range recs {
		fmt.Println()
		fmt.Printf("# %s (debug level %d)\n", rec.TestID, rec.DebugLevel)
		fmt.Printf("%s\n", runner.CommandString(rec.First))
		fmt.Printf("%s\n", runner.CommandString(rec.Second))
	}
	return 0
}
