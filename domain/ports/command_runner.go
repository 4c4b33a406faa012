package ports

import (
	"context"
	"time"
)

// CommandRunner defines the host's command execution primitive.
type CommandRunner interface {
	// Run executes a command and returns the result.
	// A non-zero exit code is reported in the result, not as an error.
	Run(ctx context.Context, req CommandRequest) (*CommandResult, error)
}

// CommandRequest holds parameters for command execution.
type CommandRequest struct {
	Command string
	Args    []string
	Dir     string
	Env     []string
	Timeout time.Duration
}

// CommandResult represents the result of a command execution.
type CommandResult struct {
	Stdout     string
	Stderr     string
	ExitCode   int
	DurationMs int64
	IsTimeout  bool
}
