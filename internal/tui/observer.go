package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rrcarlosrodriguez/go-gst-endurance/internal/run"
	"github.com/rrcarlosrodriguez/go-gst-endurance/internal/stats"
)

// Notifier forwards driver events to a running Bubble Tea program. It
// implements driver.Observer.
type Notifier struct {
	program *tea.Program
}

// NewNotifier creates a Notifier for the given program.
func NewNotifier(p *tea.Program) *Notifier {
	return &Notifier{program: p}
}

func (n *Notifier) TestStarted(testID string) {
	n.program.Send(TestStartedMsg{TestID: testID})
}

func (n *Notifier) RunFinished(o *run.Outcome, duration time.Duration) {
	n.program.Send(RunFinishedMsg{
		RunID:    o.RunID,
		Kind:     o.Kind.String(),
		Duration: duration,
	})
}

func (n *Notifier) IterationCompleted(testID string, iter int, first, second *run.Outcome) {
	n.program.Send(IterationMsg{
		TestID: testID,
		N:      iter,
		First:  first.Kind.String(),
		Second: second.Kind.String(),
	})
}

func (n *Notifier) TestFinished(testID string, failed bool) {
	n.program.Send(TestFinishedMsg{TestID: testID, Failed: failed})
}

func (n *Notifier) SessionFinished(sum stats.Summary) {
	n.program.Send(SessionDoneMsg{Summary: sum})
}
