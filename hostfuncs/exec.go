package hostfuncs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"github.com/reglet-dev/wasmer-pipeline/domain/entities"
	"github.com/reglet-dev/wasmer-pipeline/domain/ports"
)

// Error codes reported in ExecResponse.Error.
const (
	ExecCodeInvalidRequest  = "INVALID_REQUEST"
	ExecCodeExecutionFailed = "EXECUTION_FAILED"
)

// ExecOption is a functional option for configuring execution behavior.
type ExecOption func(*execConfig)

type execConfig struct {
	environ       func() []string
	output        io.Writer
	grant         EnvGrant
	timeout       time.Duration
	maxOutputSize int
}

func defaultExecConfig() execConfig {
	return execConfig{
		environ:       os.Environ,
		timeout:       entities.DefaultCommandTimeout,
		maxOutputSize: DefaultMaxOutputSize,
	}
}

// WithExecTimeout sets the default timeout, used when the request carries none.
func WithExecTimeout(d time.Duration) ExecOption {
	return func(c *execConfig) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithEnviron sets the function providing the base environment of every command.
func WithEnviron(environ func() []string) ExecOption {
	return func(c *execConfig) {
		if environ != nil {
			c.environ = environ
		}
	}
}

// WithOutput streams stdout and stderr to w while the command runs.
func WithOutput(w io.Writer) ExecOption {
	return func(c *execConfig) {
		c.output = w
	}
}

// WithRequestEnvGrant allows gated variables in ExecRequest.Env.
func WithRequestEnvGrant(grant EnvGrant) ExecOption {
	return func(c *execConfig) {
		c.grant = grant
	}
}

// WithMaxOutputSize caps captured stdout and stderr. Streaming is not capped.
func WithMaxOutputSize(n int) ExecOption {
	return func(c *execConfig) {
		if n > 0 {
			c.maxOutputSize = n
		}
	}
}

// PerformExecCommand executes a command on the host.
// A non-zero exit or a timeout is reported in the response, not as Error.
// Error is set only when the command could not be started.
func PerformExecCommand(ctx context.Context, req entities.ExecRequest, opts ...ExecOption) entities.ExecResponse {
	cfg := defaultExecConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if req.TimeoutMs > 0 {
		cfg.timeout = time.Duration(req.TimeoutMs) * time.Millisecond
	}

	if req.Command == "" {
		return entities.ExecResponse{
			Error: entities.NewErrorDetail("exec", "command is required").WithCode(ExecCodeInvalidRequest),
		}
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.timeout)
	defer cancel()

	//nolint:gosec // G204: Command execution is the purpose of this function
	cmd := exec.CommandContext(ctx, req.Command, req.Args...)
	if req.Dir != "" {
		cmd.Dir = req.Dir
	}
	cmd.Env = append(cfg.environ(), SanitizeEnv(ctx, req.Env, cfg.grant)...)

	stdout := NewBoundedBuffer(cfg.maxOutputSize)
	stderr := NewBoundedBuffer(cfg.maxOutputSize)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	if cfg.output != nil {
		cmd.Stdout = io.MultiWriter(stdout, cfg.output)
		cmd.Stderr = io.MultiWriter(stderr, cfg.output)
	}

	start := time.Now()
	err := cmd.Run()
	duration := time.Since(start)

	if stdout.Truncated() || stderr.Truncated() {
		slog.WarnContext(ctx, "command output truncated",
			"command", req.Command,
			"limit_bytes", cfg.maxOutputSize)
	}

	resp := entities.ExecResponse{
		Stdout:     stdout.String(),
		Stderr:     stderr.String(),
		DurationMs: duration.Milliseconds(),
	}

	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			resp.IsTimeout = true
			resp.ExitCode = -1 // Conventional timeout code
			return resp
		}

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			resp.ExitCode = exitErr.ExitCode()
			return resp
		}

		resp.Error = entities.NewErrorDetail("exec", err.Error()).WithCode(ExecCodeExecutionFailed)
		return resp
	}

	return resp
}

// Runner is a ports.CommandRunner executing commands with PerformExecCommand.
type Runner struct {
	opts []ExecOption
}

var _ ports.CommandRunner = (*Runner)(nil)

// NewRunner creates a Runner applying opts to every command.
func NewRunner(opts ...ExecOption) *Runner {
	return &Runner{opts: opts}
}

// Run implements ports.CommandRunner.
func (r *Runner) Run(ctx context.Context, req ports.CommandRequest) (*ports.CommandResult, error) {
	resp := PerformExecCommand(ctx, entities.ExecRequest{
		Command:   req.Command,
		Args:      req.Args,
		Dir:       req.Dir,
		Env:       req.Env,
		TimeoutMs: req.Timeout.Milliseconds(),
	}, r.opts...)
	return CommandResultFromResponse(resp)
}

// CommandResultFromResponse converts a wire response into a CommandResult.
func CommandResultFromResponse(resp entities.ExecResponse) (*ports.CommandResult, error) {
	if resp.Error != nil {
		return nil, resp.Error
	}
	return &ports.CommandResult{
		Stdout:     resp.Stdout,
		Stderr:     resp.Stderr,
		ExitCode:   resp.ExitCode,
		DurationMs: resp.DurationMs,
		IsTimeout:  resp.IsTimeout,
	}, nil
}
