//go:build wasip1

package wasm

import (
	"context"

	"github.com/reglet-dev/wasmer-pipeline/domain/entities"
	"github.com/reglet-dev/wasmer-pipeline/domain/ports"
	"github.com/reglet-dev/wasmer-pipeline/internal/wasmcontext"
)

var _ ports.ModuleCaller = (*ModuleAdapter)(nil)

// ModuleAdapter implements ports.ModuleCaller through call_module.
type ModuleAdapter struct{}

// NewModuleAdapter creates a new ModuleAdapter.
func NewModuleAdapter() *ModuleAdapter {
	return &ModuleAdapter{}
}

// Call implements ports.ModuleCaller.
func (a *ModuleAdapter) Call(ctx context.Context, module, function string, args []string) (string, error) {
	resp, err := call[entities.ModuleCallRequest, entities.ModuleCallResponse]("call_module", host_call_module, entities.ModuleCallRequest{
		Module:   module,
		Function: function,
		Args:     args,
		Context:  wasmcontext.ContextToWire(ctx),
	})
	if err != nil {
		return "", err
	}
	if resp.Error != nil {
		return "", resp.Error
	}
	return resp.Output, nil
}
