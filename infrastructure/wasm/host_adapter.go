//go:build wasip1

package wasm

import "github.com/reglet-dev/wasmer-pipeline/domain/ports"

var _ ports.Host = (*HostAdapter)(nil)

// HostAdapter is the ports.Host a plugin sees: every operation is a call
// into the pipeline_host module.
type HostAdapter struct {
	*ExecAdapter
	*EnvAdapter
	*ModuleAdapter
}

// NewHostAdapter creates a HostAdapter.
func NewHostAdapter() *HostAdapter {
	return &HostAdapter{
		ExecAdapter:   NewExecAdapter(),
		EnvAdapter:    NewEnvAdapter(),
		ModuleAdapter: NewModuleAdapter(),
	}
}
