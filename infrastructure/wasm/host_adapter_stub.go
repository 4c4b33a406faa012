//go:build !wasip1

// Package wasm implements the pipeline ports on top of the pipeline_host
// import module. Native builds get stubs that panic; run jobs natively with
// host.Local or inject a fake host.
package wasm

import (
	"context"

	"github.com/reglet-dev/wasmer-pipeline/domain/entities"
	"github.com/reglet-dev/wasmer-pipeline/domain/ports"
)

const nativeHint = " not available in native build. Use host.NewLocal() or pipelinetest.NewFakeHost() instead."

var (
	_ ports.CommandRunner = (*ExecAdapter)(nil)
	_ ports.Environment   = (*EnvAdapter)(nil)
	_ ports.ModuleCaller  = (*ModuleAdapter)(nil)
	_ ports.Host          = (*HostAdapter)(nil)
)

// ExecAdapter stub for native builds.
type ExecAdapter struct{}

// NewExecAdapter creates a new ExecAdapter stub.
func NewExecAdapter() *ExecAdapter { return &ExecAdapter{} }

// Run panics because the host imports do not exist natively.
func (a *ExecAdapter) Run(context.Context, ports.CommandRequest) (*ports.CommandResult, error) {
	panic("WASM exec adapter" + nativeHint)
}

// EnvAdapter stub for native builds.
type EnvAdapter struct{}

// NewEnvAdapter creates a new EnvAdapter stub.
func NewEnvAdapter() *EnvAdapter { return &EnvAdapter{} }

// Platform panics because the host imports do not exist natively.
func (a *EnvAdapter) Platform(context.Context) (entities.Platform, error) {
	panic("WASM env adapter" + nativeHint)
}

// GetEnv panics because the host imports do not exist natively.
func (a *EnvAdapter) GetEnv(context.Context, string) (string, bool, error) {
	panic("WASM env adapter" + nativeHint)
}

// SetEnvs panics because the host imports do not exist natively.
func (a *EnvAdapter) SetEnvs(context.Context, []entities.EnvVar) error {
	panic("WASM env adapter" + nativeHint)
}

// ModuleAdapter stub for native builds.
type ModuleAdapter struct{}

// NewModuleAdapter creates a new ModuleAdapter stub.
func NewModuleAdapter() *ModuleAdapter { return &ModuleAdapter{} }

// Call panics because the host imports do not exist natively.
func (a *ModuleAdapter) Call(context.Context, string, string, []string) (string, error) {
	panic("WASM module adapter" + nativeHint)
}

// HostAdapter stub for native builds.
type HostAdapter struct {
	*ExecAdapter
	*EnvAdapter
	*ModuleAdapter
}

// NewHostAdapter creates a HostAdapter stub.
func NewHostAdapter() *HostAdapter {
	return &HostAdapter{
		ExecAdapter:   NewExecAdapter(),
		EnvAdapter:    NewEnvAdapter(),
		ModuleAdapter: NewModuleAdapter(),
	}
}
