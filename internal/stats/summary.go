package stats

import (
	"fmt"
	"strings"
	"time"

	"github.com/rrcarlosrodriguez/go-gst-endurance/internal/run"
)

// FormatExitSummary formats the session aggregate for display at program
// exit.
func FormatExitSummary(sum Summary, summaryPath string) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString("═══════════════════════════════════════════════════════════════════\n")
	b.WriteString("                    go-gst-endurance Exit Summary\n")
	b.WriteString("═══════════════════════════════════════════════════════════════════\n")
	fmt.Fprintf(&b, "Session:                %s\n", sum.SessionID)
	fmt.Fprintf(&b, "Run Duration:           %s\n", FormatDuration(sum.Duration))
	fmt.Fprintf(&b, "Tests:                  %d (%d failed)\n", sum.Tests, sum.FailedTests)
	fmt.Fprintf(&b, "Iterations:             %d\n", sum.Iterations)
	fmt.Fprintf(&b, "Pipeline Runs:          %d\n", sum.Runs)
	b.WriteString("\n")

	if len(sum.Outcomes) > 0 {
		b.WriteString("Outcomes:\n")
		for _, kind := range []run.Kind{run.Pass, run.Error, run.Timeout, run.Killed} {
			if count, ok := sum.Outcomes[kind]; ok {
				fmt.Fprintf(&b, "  %-8s %d\n", kind.String(), count)
			}
		}
		b.WriteString("\n")
	}

	if sum.Runs > 0 {
		b.WriteString("Run Duration Distribution:\n")
		fmt.Fprintf(&b, "  P50 (median):         %s\n", FormatDuration(sum.RunDurationP50))
		fmt.Fprintf(&b, "  P95:                  %s\n", FormatDuration(sum.RunDurationP95))
		fmt.Fprintf(&b, "  P99:                  %s\n", FormatDuration(sum.RunDurationP99))
		fmt.Fprintf(&b, "  Max:                  %s\n", FormatDuration(sum.RunDurationMax))
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Summary log:            %s\n", summaryPath)
	b.WriteString("═══════════════════════════════════════════════════════════════════\n")

	return b.String()
}

// FormatDuration formats a duration as HH:MM:SS.
func FormatDuration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
