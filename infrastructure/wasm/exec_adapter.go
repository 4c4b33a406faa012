//go:build wasip1

package wasm

import (
	"context"

	"github.com/reglet-dev/wasmer-pipeline/domain/entities"
	"github.com/reglet-dev/wasmer-pipeline/domain/ports"
	"github.com/reglet-dev/wasmer-pipeline/internal/wasmcontext"
)

var _ ports.CommandRunner = (*ExecAdapter)(nil)

// ExecAdapter implements ports.CommandRunner through exec_command.
type ExecAdapter struct{}

// NewExecAdapter creates a new ExecAdapter.
func NewExecAdapter() *ExecAdapter {
	return &ExecAdapter{}
}

// Run executes a command on the host. The context deadline travels with the request.
func (a *ExecAdapter) Run(ctx context.Context, req ports.CommandRequest) (*ports.CommandResult, error) {
	resp, err := call[entities.ExecRequest, entities.ExecResponse]("exec_command", host_exec_command, entities.ExecRequest{
		Context:   wasmcontext.ContextToWire(ctx),
		Command:   req.Command,
		Args:      req.Args,
		Dir:       req.Dir,
		Env:       req.Env,
		TimeoutMs: req.Timeout.Milliseconds(),
	})
	if err != nil {
		return nil, err
	}
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
