// Package summary persists the durable record of an endurance session: a
// single shared append-only summary log plus one dump file per run.
package summary

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rrcarlosrodriguez/go-gst-endurance/internal/run"
)

// TimestampLayout is the timestamp format used in summary lines and in
// summary filenames derived from the session start time.
const TimestampLayout = "2006-01-02-15:04"

// DefaultPath builds a summary path from the filename pattern and a
// timestamp. pattern must contain one %s placeholder.
func DefaultPath(pattern string, now time.Time) string {
	return fmt.Sprintf(pattern, now.Format(TimestampLayout))
}

// Writer is the shared summary sink. One Writer serves all runs across all
// test records in a session; line writes are serialized so concurrent runs
// never interleave. Per-run log files are exclusively owned by their run,
// so those writes need no locking.
type Writer struct {
	path   string
	dir    string
	file   *os.File
	logger *slog.Logger

	mu sync.Mutex
}

// NewWriter opens (creating if needed) the append-only summary log at path
// and derives the per-run log directory from its basename sans extension.
func NewWriter(path string, logger *slog.Logger) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening summary log: %w", err)
	}

	base := filepath.Base(path)
	dir := filepath.Join(filepath.Dir(path), strings.TrimSuffix(base, filepath.Ext(base)))

	return &Writer{
		path:   path,
		dir:    dir,
		file:   f,
		logger: logger,
	}, nil
}

// Record appends one line to the summary log:
//
//	<runId> : <OUTCOME_KIND> : <YYYY-MM-DD-HH:MM>
func (w *Writer) Record(runID string, kind run.Kind, when time.Time) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	_, err := fmt.Fprintf(w.file, "%s : %s : %s\n", runID, kind, when.Format(TimestampLayout))
	if err != nil {
		return fmt.Errorf("appending summary line: %w", err)
	}
	return nil
}

// WriteRunLog writes the full outcome dump for one run into the per-run
// log directory, creating the directory on first use. The file is written
// even when the run produced no output.
func (w *Writer) WriteRunLog(o *run.Outcome) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("creating run log dir: %w", err)
	}

	path := filepath.Join(w.dir, o.RunID+".log")
	if err := os.WriteFile(path, []byte(formatRunLog(o)), 0o644); err != nil {
		return fmt.Errorf("writing run log: %w", err)
	}

	w.logger.Debug("run_log_written", "run_id", o.RunID, "path", path)
	return nil
}

// formatRunLog renders the fixed three-section dump: outcome banner,
// stdout block, stderr block.
func formatRunLog(o *run.Outcome) string {
	var b strings.Builder

	fmt.Fprintf(&b, "===== OUTCOME: %s =====\n", o.Kind)
	fmt.Fprintf(&b, "command: %s\n", strings.Join(o.Command, " "))
	if o.StatusCode != run.StatusNone {
		fmt.Fprintf(&b, "status:  %d\n", o.StatusCode)
	}

	b.WriteString("\n----- stdout -----\n")
	b.WriteString(o.Stdout)
	if o.Stdout != "" && !strings.HasSuffix(o.Stdout, "\n") {
		b.WriteString("\n")
	}

	b.WriteString("\n----- stderr -----\n")
	b.WriteString(o.Stderr)
	if o.Stderr != "" && !strings.HasSuffix(o.Stderr, "\n") {
		b.WriteString("\n")
	}

	return b.String()
}

// Path returns the summary log path.
func (w *Writer) Path() string {
	return w.path
}

// Dir returns the per-run log directory.
func (w *Writer) Dir() string {
	return w.dir
}

// Close flushes and closes the summary log.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Close()
}
