package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/rrcarlosrodriguez/go-gst-endurance/internal/stats"
)

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render(" go-gst-endurance "))
	b.WriteString("  ")
	b.WriteString(labelStyle.Render(fmt.Sprintf("session %s", shortID(m.sessionID))))
	b.WriteString("\n\n")

	b.WriteString(m.renderCurrentTest())
	b.WriteString("\n")
	b.WriteString(m.renderTotals())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("q: quit"))
	b.WriteString("\n")

	return b.String()
}

// renderCurrentTest renders the in-flight test panel.
func (m Model) renderCurrentTest() string {
	var b strings.Builder

	if m.currentTest == "" {
		b.WriteString(labelStyle.Render("waiting for first test record..."))
	} else {
		b.WriteString(labelStyle.Render("test       "))
		b.WriteString(testStyle.Render(m.currentTest))
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("iteration  "))
		b.WriteString(valueStyle.Render(fmt.Sprintf("%d", m.iteration)))
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("last pair  "))
		if m.lastFirst == "" {
			b.WriteString(labelStyle.Render("-"))
		} else {
			b.WriteString(outcomeStyle(m.lastFirst).Render(m.lastFirst))
			b.WriteString(labelStyle.Render(" / "))
			b.WriteString(outcomeStyle(m.lastSecond).Render(m.lastSecond))
		}
	}

	return panelStyle.Render(b.String())
}

// renderTotals renders the session totals panel.
func (m Model) renderTotals() string {
	var b strings.Builder

	elapsed := time.Since(m.startTime)
	fmt.Fprintf(&b, "%s %s\n",
		labelStyle.Render("elapsed   "),
		valueStyle.Render(stats.FormatDuration(elapsed)),
	)
	fmt.Fprintf(&b, "%s %s\n",
		labelStyle.Render("runs      "),
		valueStyle.Render(fmt.Sprintf("%d", m.runs)),
	)

	var parts []string
	for _, kind := range []string{"PASS", "ERROR", "TIMEOUT", "KILLED"} {
		if count, ok := m.outcomes[kind]; ok {
			parts = append(parts, outcomeStyle(kind).Render(fmt.Sprintf("%s %d", kind, count)))
		}
	}
	if len(parts) > 0 {
		fmt.Fprintf(&b, "%s %s\n",
			labelStyle.Render("outcomes  "),
			lipgloss.JoinHorizontal(lipgloss.Top, strings.Join(parts, labelStyle.Render("  "))),
		)
	}

	tests := valueStyle.Render(fmt.Sprintf("%d", m.testsDone))
	if m.testsFailed > 0 {
		tests += labelStyle.Render(" (") + failStyle.Render(fmt.Sprintf("%d failed", m.testsFailed)) + labelStyle.Render(")")
	}
	fmt.Fprintf(&b, "%s %s", labelStyle.Render("tests     "), tests)

	return panelStyle.Render(b.String())
}

// shortID truncates a session UUID for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
