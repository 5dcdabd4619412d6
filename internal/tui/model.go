package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rrcarlosrodriguez/go-gst-endurance/internal/stats"
)

// TickMsg is sent periodically to refresh the elapsed-time display.
type TickMsg time.Time

// TestStartedMsg announces a new test record.
type TestStartedMsg struct {
	TestID string
}

// RunFinishedMsg carries one finalized run.
type RunFinishedMsg struct {
	RunID    string
	Kind     string
	Duration time.Duration
}

// IterationMsg carries a completed iteration's outcome pair.
type IterationMsg struct {
	TestID string
	N      int
	First  string
	Second string
}

// TestFinishedMsg announces a finished test record.
type TestFinishedMsg struct {
	TestID string
	Failed bool
}

// SessionDoneMsg announces the end of the session.
type SessionDoneMsg struct {
	Summary stats.Summary
}

// Model represents the TUI state.
type Model struct {
	sessionID   string
	summaryPath string
	startTime   time.Time

	width  int
	height int

	currentTest string
	iteration   int
	lastFirst   string
	lastSecond  string

	runs        int
	outcomes    map[string]int
	testsDone   int
	testsFailed int

	done     bool
	quitting bool
}

// Config holds TUI configuration.
type Config struct {
	SessionID   string
	SummaryPath string
}

// New creates a new TUI model.
func New(cfg Config) Model {
	return Model{
		sessionID:   cfg.SessionID,
		summaryPath: cfg.SummaryPath,
		startTime:   time.Now(),
		outcomes:    make(map[string]int),
		width:       80,
		height:      24,
	}
}

// Init starts the refresh ticker.
func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case TickMsg:
		if m.done {
			return m, nil
		}
		return m, tick()

	case TestStartedMsg:
		m.currentTest = msg.TestID
		m.iteration = 0
		m.lastFirst = ""
		m.lastSecond = ""

	case RunFinishedMsg:
		m.runs++
		m.outcomes[msg.Kind]++

	case IterationMsg:
		m.iteration = msg.N
		m.lastFirst = msg.First
		m.lastSecond = msg.Second

	case TestFinishedMsg:
		m.testsDone++
		if msg.Failed {
			m.testsFailed++
		}

	case SessionDoneMsg:
		m.done = true
		return m, tea.Quit
	}

	return m, nil
}
