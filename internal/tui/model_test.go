package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rrcarlosrodriguez/go-gst-endurance/internal/stats"
)

func updated(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return nm
}

func TestModelQuitKeys(t *testing.T) {
	for _, key := range []string{"q", "ctrl+c"} {
		m := New(Config{SessionID: "abc"})
		var msg tea.KeyMsg
		if key == "ctrl+c" {
			msg = tea.KeyMsg{Type: tea.KeyCtrlC}
		} else {
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
		}

		next, cmd := m.Update(msg)
		if cmd == nil {
			t.Errorf("key %q: expected tea.Quit command", key)
		}
		if next.(Model).View() != "" {
			t.Errorf("key %q: quitting view must be empty", key)
		}
	}
}

func TestModelTracksCurrentTest(t *testing.T) {
	m := New(Config{SessionID: "abc"})

	m = updated(t, m, TestStartedMsg{TestID: "T1"})
	m = updated(t, m, IterationMsg{TestID: "T1", N: 3, First: "PASS", Second: "PASS"})

	view := m.View()
	if !strings.Contains(view, "T1") {
		t.Error("view missing current test ID")
	}
	if !strings.Contains(view, "3") {
		t.Error("view missing iteration count")
	}

	// A new test resets the per-test panel.
	m = updated(t, m, TestStartedMsg{TestID: "T2"})
	if m.iteration != 0 || m.lastFirst != "" {
		t.Error("per-test state not reset on TestStartedMsg")
	}
}

func TestModelCountsRunsAndOutcomes(t *testing.T) {
	m := New(Config{SessionID: "abc"})

	m = updated(t, m, RunFinishedMsg{RunID: "T1-first", Kind: "PASS", Duration: time.Second})
	m = updated(t, m, RunFinishedMsg{RunID: "T1-second", Kind: "PASS", Duration: time.Second})
	m = updated(t, m, RunFinishedMsg{RunID: "T1-second", Kind: "TIMEOUT", Duration: time.Minute})

	if m.runs != 3 {
		t.Errorf("runs = %d, want 3", m.runs)
	}
	if m.outcomes["PASS"] != 2 || m.outcomes["TIMEOUT"] != 1 {
		t.Errorf("outcomes = %v", m.outcomes)
	}

	view := m.View()
	if !strings.Contains(view, "PASS 2") {
		t.Errorf("view missing PASS count:\n%s", view)
	}
	if !strings.Contains(view, "TIMEOUT 1") {
		t.Errorf("view missing TIMEOUT count:\n%s", view)
	}
}

func TestModelCountsTests(t *testing.T) {
	m := New(Config{SessionID: "abc"})

	m = updated(t, m, TestFinishedMsg{TestID: "T1", Failed: false})
	m = updated(t, m, TestFinishedMsg{TestID: "T2", Failed: true})

	if m.testsDone != 2 || m.testsFailed != 1 {
		t.Errorf("tests = %d/%d failed, want 2/1", m.testsDone, m.testsFailed)
	}
	if !strings.Contains(m.View(), "1 failed") {
		t.Error("view missing failed-test count")
	}
}

func TestModelSessionDoneQuits(t *testing.T) {
	m := New(Config{SessionID: "abc"})
	_, cmd := m.Update(SessionDoneMsg{Summary: stats.Summary{}})
	if cmd == nil {
		t.Fatal("expected tea.Quit on SessionDoneMsg")
	}
}

func TestModelTickKeepsTicking(t *testing.T) {
	m := New(Config{SessionID: "abc"})

	_, cmd := m.Update(TickMsg(time.Now()))
	if cmd == nil {
		t.Error("tick must schedule the next tick")
	}

	m = updated(t, m, SessionDoneMsg{})
	_, cmd = m.Update(TickMsg(time.Now()))
	if cmd != nil {
		t.Error("ticker must stop once the session is done")
	}
}

func TestModelWindowSize(t *testing.T) {
	m := New(Config{SessionID: "abc"})
	m = updated(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	if m.width != 120 || m.height != 40 {
		t.Errorf("size = %dx%d, want 120x40", m.width, m.height)
	}
}

func TestModelWaitingView(t *testing.T) {
	view := New(Config{SessionID: "abcdef123456"}).View()
	if !strings.Contains(view, "waiting for first test record") {
		t.Error("initial view missing waiting message")
	}
	if !strings.Contains(view, "abcdef12") {
		t.Error("view missing shortened session ID")
	}
}

func TestShortID(t *testing.T) {
	if got := shortID("0123456789abcdef"); got != "01234567" {
		t.Errorf("shortID = %q", got)
	}
	if got := shortID("short"); got != "short" {
		t.Errorf("shortID = %q", got)
	}
}
