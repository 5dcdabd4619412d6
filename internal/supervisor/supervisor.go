package supervisor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"sync"
	"sync/atomic"
	"syscall"
	"time"
)

// SpawnError indicates the external process could not be launched.
type SpawnError struct {
	Argv []string
	Err  error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("spawning %v: %v", e.Argv, e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

// Process supervises one external pipeline process. It is the exclusive
// owner of the OS-level process handle; no other component signals or
// reaps it.
type Process struct {
	logger *slog.Logger

	argv []string
	cmd  *exec.Cmd

	stdout bytes.Buffer
	stderr bytes.Buffer

	state   State
	stateMu sync.RWMutex

	// Set by Interrupt before the signal goes out, so the owner-cancel
	// path is classified by who initiated it rather than by the signal.
	ownerInterrupted atomic.Bool

	startTime time.Time

	// Closed once Wait has reaped the process and both pipes are drained.
	done     chan struct{}
	waitErr  error
	waitOnce sync.Once
}

// New creates an unstarted supervised process.
func New(logger *slog.Logger) *Process {
	return &Process{
		logger: logger,
		state:  StateUnstarted,
		done:   make(chan struct{}),
	}
}

// Start spawns the process with the given argument vector and environment.
// stdout and stderr are captured via pipes into bounded buffers. Start does
// not block; use AwaitCompletion to reap the process.
func (p *Process) Start(argv []string, env []string) error {
	if len(argv) == 0 {
		return &SpawnError{Argv: argv, Err: errors.New("empty argv")}
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Env = env
	cmd.Stdout = &limitWriter{buf: &p.stdout, limit: MaxCaptureBytes}
	cmd.Stderr = &limitWriter{buf: &p.stderr, limit: MaxCaptureBytes}

	// Own process group so signals reach every element of the pipeline.
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid: true,
	}

	p.argv = argv
	p.cmd = cmd
	p.startTime = time.Now()

	if err := cmd.Start(); err != nil {
		return &SpawnError{Argv: argv, Err: err}
	}

	p.setState(StateRunning)
	p.logger.Debug("process_started", "pid", cmd.Process.Pid, "argv", argv)

	// Reap in the background so a deadline can race the natural exit.
	// cmd.Wait also drains the output pipes, so done doubles as the
	// "all output captured" signal.
	go p.wait()

	return nil
}

// wait reaps the process exactly once and publishes the result on done.
func (p *Process) wait() {
	p.waitOnce.Do(func() {
		p.waitErr = p.cmd.Wait()
		close(p.done)
	})
}

// AwaitCompletion blocks until the process exits, the deadline elapses, or
// the context is cancelled.
//
// Deadline expiry sends an interrupt signal and then performs a final
// blocking drain of the process's remaining output before returning, so no
// output is lost and no process is left running. The owner-cancel path
// (Interrupt, or context cancellation) does the same drain but is reported
// as Interrupted.
func (p *Process) AwaitCompletion(ctx context.Context, deadline time.Duration) WaitStatus {
	timer := time.NewTimer(deadline)
	defer timer.Stop()

	select {
	case <-p.done:
		// Natural exit. If the owner interrupted first, that
		// classification wins even though the process has now exited.
		return p.finalize(ReasonCompleted)

	case <-timer.C:
		// done may have become ready in the same instant; a process that
		// exited on its own is never reported as TimedOut.
		if p.exited() {
			return p.finalize(ReasonCompleted)
		}
		p.logger.Warn("deadline_exceeded",
			"pid", p.pid(),
			"deadline", deadline.String(),
		)
		p.signal(syscall.SIGINT)
		<-p.done // final drain: wait for actual exit and captured output
		return p.finalize(ReasonTimedOut)

	case <-ctx.Done():
		// Same race: an exit that preceded the cancellation keeps its
		// natural classification.
		if p.exited() {
			return p.finalize(ReasonCompleted)
		}
		p.ownerInterrupted.Store(true)
		p.signal(syscall.SIGINT)
		<-p.done
		return p.finalize(ReasonInterrupted)
	}
}

// exited reports whether the process has already been reaped.
func (p *Process) exited() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// finalize computes the terminal WaitStatus after done has closed.
func (p *Process) finalize(reason WaitReason) WaitStatus {
	exitCode := extractExitCode(p.waitErr)

	if reason == ReasonCompleted && p.ownerInterrupted.Load() {
		reason = ReasonInterrupted
	}

	switch reason {
	case ReasonTimedOut:
		p.setState(StateTimedOut)
	case ReasonInterrupted:
		p.setState(StateInterrupted)
	default:
		p.setState(StateCompleted)
	}

	p.logger.Debug("process_reaped",
		"pid", p.pid(),
		"reason", reason.String(),
		"exit_code", exitCode,
		"uptime", time.Since(p.startTime).String(),
	)

	return WaitStatus{Reason: reason, ExitCode: exitCode}
}

// Interrupt marks the process as owner-cancelled and delivers an interrupt
// signal. The pipeline is expected to shut down gracefully (EOS); the
// supervisor still awaits its actual exit before releasing the handle.
func (p *Process) Interrupt() {
	p.ownerInterrupted.Store(true)
	p.signal(syscall.SIGINT)
}

// Kill forcefully terminates the process. Used only for out-of-band
// cleanup when a run is being discarded; normal cancellation goes through
// Interrupt.
func (p *Process) Kill() {
	p.signal(syscall.SIGKILL)
}

// signal delivers sig to the process group, falling back to the process
// itself if the group lookup fails.
func (p *Process) signal(sig syscall.Signal) {
	if p.cmd == nil || p.cmd.Process == nil {
		return
	}
	pid := p.cmd.Process.Pid
	if pgid, err := syscall.Getpgid(pid); err == nil {
		syscall.Kill(-pgid, sig)
	} else {
		p.cmd.Process.Signal(sig)
	}
}

// State returns the current lifecycle state.
func (p *Process) State() State {
	p.stateMu.RLock()
	defer p.stateMu.RUnlock()
	return p.state
}

// setState updates the lifecycle state.
func (p *Process) setState(s State) {
	p.stateMu.Lock()
	p.state = s
	p.stateMu.Unlock()
}

// Stdout returns the captured stdout. Valid once AwaitCompletion returns.
func (p *Process) Stdout() string {
	return p.stdout.String()
}

// Stderr returns the captured stderr. Valid once AwaitCompletion returns.
func (p *Process) Stderr() string {
	return p.stderr.String()
}

// Argv returns the exact argument vector that was executed.
func (p *Process) Argv() []string {
	return p.argv
}

// Uptime returns time since Start while running, 0 before Start.
func (p *Process) Uptime() time.Duration {
	if p.startTime.IsZero() {
		return 0
	}
	return time.Since(p.startTime)
}

func (p *Process) pid() int {
	if p.cmd == nil || p.cmd.Process == nil {
		return 0
	}
	return p.cmd.Process.Pid
}

// extractExitCode extracts the exit code from a Wait() error.
func extractExitCode(err error) int {
	if err == nil {
		return 0
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if status, ok := exitErr.Sys().(syscall.WaitStatus); ok {
			if status.Signaled() {
				// Signal exit: 128 + signal number
				return 128 + int(status.Signal())
			}
			return status.ExitStatus()
		}
	}

	// Unknown error, assume exit code 1
	return 1
}
