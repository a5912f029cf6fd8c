package ports

import "context"

// ShellResult is the raw capture of one shell execution.
type ShellResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
	// TimedOut is set when the bounded execution deadline expired.
	// The process was killed; Stdout/Stderr hold whatever was captured.
	TimedOut bool
}

// ShellRunner is the shell capability boundary. A non-zero exit or a
// timeout is reported through the result, not through the error return;
// the error is reserved for failures to start the process at all.
type ShellRunner interface {
	Exec(ctx context.Context, command string) (ShellResult, error)
}
