// Package shell implements the ShellRunner port by executing command
// strings through the system shell with a bounded timeout.
package shell

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"

	"github.com/douglas-run/douglas/pkg/ports"
)

const defaultTimeout = 30 * time.Second

// Runner executes Galaxy action strings via `sh -c`.
type Runner struct {
	shell   string
	timeout time.Duration
	dir     string
}

// RunnerOption configures the runner.
type RunnerOption func(*Runner)

// WithTimeout bounds each execution. Zero or negative keeps the default.
func WithTimeout(d time.Duration) RunnerOption {
	return func(r *Runner) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithDir sets the working directory for executed commands.
func WithDir(dir string) RunnerOption {
	return func(r *Runner) {
		r.dir = dir
	}
}

// WithShell overrides the shell binary (default /bin/sh).
func WithShell(path string) RunnerOption {
	return func(r *Runner) {
		r.shell = path
	}
}

// NewRunner creates a shell runner.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		shell:   "/bin/sh",
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var _ ports.ShellRunner = (*Runner)(nil)

// Exec runs the command string and captures stdout, stderr and the exit
// code. A non-zero exit or a timeout is reported through the result; the
// error return is reserved for failing to start the process.
func (r *Runner) Exec(ctx context.Context, command string) (ports.ShellResult, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, r.shell, "-c", command)
	cmd.Dir = r.dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	result := ports.ShellResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if ctx.Err() == context.DeadlineExceeded {
		result.TimedOut = true
		result.ExitCode = -1
		return result, nil
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		// The process never started (shell missing, bad dir, ...).
		return result, err
	}

	return result, nil
}
