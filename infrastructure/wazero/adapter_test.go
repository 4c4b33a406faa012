package wazero

import (
	"context"
	"testing"

	"github.com/reglet-dev/wasmer-pipeline/hostfuncs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

func TestDefaultAdapterConfig(t *testing.T) {
	cfg := defaultAdapterConfig()
	assert.Equal(t, "pipeline_host", cfg.ModuleName)
	assert.Equal(t, uint32(hostfuncs.DefaultMaxRequestSize), cfg.MaxRequestSize)
	assert.NotNil(t, cfg.Logger)
}

func TestAdapterOptions(t *testing.T) {
	cfg := defaultAdapterConfig()
	WithModuleName("custom_module")(&cfg)
	WithMaxRequestSize(2048)(&cfg)
	WithLogger(nil)(&cfg)
	WithCustomHandler(CustomHandler{Name: "noop"})(&cfg)

	assert.Equal(t, "custom_module", cfg.ModuleName)
	assert.Equal(t, uint32(2048), cfg.MaxRequestSize)
	assert.NotNil(t, cfg.Logger)
	require.Len(t, cfg.CustomHandlers, 1)
	assert.Equal(t, "noop", cfg.CustomHandlers[0].Name)
}

func TestUnpack(t *testing.T) {
	tests := []struct {
		packed uint64
		ptr    uint32
		length uint32
	}{
		{packed: 0, ptr: 0, length: 0},
		{packed: 0x0000006400000032, ptr: 100, length: 50},
		{packed: 0xFFFFFFFFFFFFFFFF, ptr: 0xFFFFFFFF, length: 0xFFFFFFFF},
		{packed: 0x0000000000000005, ptr: 0, length: 5},
	}

	for _, tt := range tests {
		ptr, length := unpack(tt.packed)
		assert.Equal(t, tt.ptr, ptr)
		assert.Equal(t, tt.length, length)
	}
}

func TestPluginName(t *testing.T) {
	ctx := context.Background()
	_, ok := PluginNameFromContext(ctx)
	assert.False(t, ok)
	assert.Empty(t, GetPluginName(ctx, nil))

	ctx = WithPluginName(ctx, "wasmer_pipeline")
	assert.Equal(t, "wasmer_pipeline", GetPluginName(ctx, nil))
}

func TestRegisterWithRuntime(t *testing.T) {
	ctx := context.Background()
	registry := newTestRegistry(t)

	rt := wazero.NewRuntime(ctx)
	defer rt.Close(ctx)

	require.NoError(t, RegisterWithRuntime(ctx, rt, registry))

	mod := rt.Module(hostfuncs.HostModuleName)
	require.NotNil(t, mod)

	exported := mod.ExportedFunctionDefinitions()
	for _, name := range append(registry.Names(), hostfuncs.FuncLogMessage) {
		assert.Contains(t, exported, name)
	}
}

func TestRegisterWithRuntime_RejectsConflicts(t *testing.T) {
	ctx := context.Background()
	registry := newTestRegistry(t)

	rt := wazero.NewRuntime(ctx)
	defer rt.Close(ctx)

	err := RegisterWithRuntime(ctx, rt, registry, WithCustomHandler(CustomHandler{
		Name:        hostfuncs.FuncExecCommand,
		Handler:     func(context.Context, api.Module, []uint64) {},
		ParamTypes:  []api.ValueType{api.ValueTypeI64},
		ResultTypes: []api.ValueType{api.ValueTypeI64},
	}))
	assert.ErrorContains(t, err, `custom handler "exec_command" conflicts`)
}

func newTestRegistry(t *testing.T) *hostfuncs.HandlerRegistry {
	t.Helper()
	env := hostfuncs.NewEnvStore(hostfuncs.WithBaseEnv(nil))
	registry, err := hostfuncs.NewPipelineRegistry(env, hostfuncs.NewModuleRegistry(hostfuncs.NewRunner(), env))
	require.NoError(t, err)
	return registry
}
