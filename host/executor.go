package host

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/reglet-dev/wasmer-pipeline/domain/entities"
	"github.com/reglet-dev/wasmer-pipeline/hostfuncs"
	wazeroadapter "github.com/reglet-dev/wasmer-pipeline/infrastructure/wazero"
	"github.com/reglet-dev/wasmer-pipeline/internal/abi"
	"github.com/reglet-dev/wasmer-pipeline/internal/wasmcontext"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
)

// Plugin export names.
const (
	ExportSetup  = "setup"
	ExportBuild  = "build"
	ExportDeploy = "deploy"
	ExportSchema = "schema"
)

// DefaultPluginName is the module name plugins are instantiated under.
const DefaultPluginName = "wasmer_pipeline"

// ErrNullResponse is returned when a plugin export returns no data.
var ErrNullResponse = errors.New("null response from plugin")

// Executor manages the lifecycle of pipeline plugins.
type Executor struct {
	runtime  wazero.Runtime
	registry *hostfuncs.HandlerRegistry
	logger   *slog.Logger
	stdout   io.Writer
	stderr   io.Writer
}

// NewExecutor creates a wazero runtime with WASI and the pipeline_host module.
func NewExecutor(ctx context.Context, opts ...Option) (*Executor, error) {
	e := &Executor{logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}

	if e.registry == nil {
		reg, err := NewLocal().Registry()
		if err != nil {
			return nil, fmt.Errorf("failed to create default registry: %w", err)
		}
		e.registry = reg
	}

	rt := wazero.NewRuntime(ctx)
	wasi_snapshot_preview1.MustInstantiate(ctx, rt)
	e.runtime = rt

	if err := wazeroadapter.RegisterWithRuntime(ctx, rt, e.registry, wazeroadapter.WithLogger(e.logger)); err != nil {
		_ = rt.Close(ctx)
		return nil, fmt.Errorf("failed to register host functions: %w", err)
	}

	return e, nil
}

// Close releases the runtime and every plugin loaded into it.
func (e *Executor) Close(ctx context.Context) error {
	return e.runtime.Close(ctx)
}

// PluginInstance is an instantiated pipeline plugin.
type PluginInstance struct {
	module api.Module
	name   string
}

// LoadPlugin instantiates a compiled plugin under DefaultPluginName.
func (e *Executor) LoadPlugin(ctx context.Context, wasmBytes []byte) (*PluginInstance, error) {
	return e.LoadNamedPlugin(ctx, DefaultPluginName, wasmBytes)
}

// LoadNamedPlugin instantiates a compiled plugin under name. Reactor modules
// are initialized through _initialize.
func (e *Executor) LoadNamedPlugin(ctx context.Context, name string, wasmBytes []byte) (*PluginInstance, error) {
	cfg := wazero.NewModuleConfig().
		WithName(name).
		WithStartFunctions("_initialize").
		WithSysWalltime().
		WithSysNanotime()
	if e.stdout != nil {
		cfg = cfg.WithStdout(e.stdout)
	}
	if e.stderr != nil {
		cfg = cfg.WithStderr(e.stderr)
	}

	ctx = wazeroadapter.WithPluginName(ctx, name)
	mod, err := e.runtime.InstantiateWithConfig(ctx, wasmBytes, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to instantiate plugin %s: %w", name, err)
	}
	return &PluginInstance{module: mod, name: name}, nil
}

// Name returns the module name of the plugin.
func (p *PluginInstance) Name() string {
	return p.name
}

// Close releases the plugin instance.
func (p *PluginInstance) Close(ctx context.Context) error {
	return p.module.Close(ctx)
}

// Setup calls the plugin's setup export.
func (p *PluginInstance) Setup(ctx context.Context) (entities.Result, error) {
	return p.Run(ctx, entities.JobSetup, nil)
}

// Build calls the plugin's build export.
func (p *PluginInstance) Build(ctx context.Context, args []string) (entities.Result, error) {
	return p.Run(ctx, entities.JobBuild, args)
}

// Deploy calls the plugin's deploy export.
func (p *PluginInstance) Deploy(ctx context.Context, args []string) (entities.Result, error) {
	return p.Run(ctx, entities.JobDeploy, args)
}

// Run calls the export for job with the plugin's default configuration.
// The returned error covers calling the plugin; a job that ran and failed is
// reported in the Result.
func (p *PluginInstance) Run(ctx context.Context, job entities.Job, args []string) (entities.Result, error) {
	return p.RunRequest(ctx, job, entities.JobRequest{Args: args})
}

// RunRequest calls the export for job with req. The request context is filled
// in from ctx.
func (p *PluginInstance) RunRequest(ctx context.Context, job entities.Job, req entities.JobRequest) (entities.Result, error) {
	if !job.Valid() {
		return entities.Result{}, fmt.Errorf("plugin %s has no job %q", p.name, job)
	}

	ctx = wasmcontext.WithJob(ctx, job)
	ctx = wazeroadapter.WithPluginName(ctx, p.name)

	req.Context = wasmcontext.ContextToWire(ctx)
	input, err := json.Marshal(req)
	if err != nil {
		return entities.Result{}, fmt.Errorf("failed to marshal %s request: %w", job, err)
	}

	data, err := p.call(ctx, string(job), input)
	if err != nil {
		return entities.Result{}, err
	}

	var result entities.Result
	if err := json.Unmarshal(data, &result); err != nil {
		return entities.Result{}, fmt.Errorf("failed to decode %s result: %w", job, err)
	}
	return result, nil
}

// Schema returns the JSON Schema of the plugin's job configuration.
func (p *PluginInstance) Schema(ctx context.Context) ([]byte, error) {
	return p.call(ctx, ExportSchema, nil)
}

// call invokes export, passing input as (ptr, len) when present, and returns
// a copy of the response bytes. Both buffers are released in the guest.
func (p *PluginInstance) call(ctx context.Context, export string, input []byte) ([]byte, error) {
	f := p.module.ExportedFunction(export)
	if f == nil {
		return nil, fmt.Errorf("export %q not found", export)
	}

	var params []uint64
	if len(input) > 0 {
		ptr, err := p.write(ctx, input)
		if err != nil {
			return nil, err
		}
		defer p.free(ctx, ptr, uint32(len(input))) //nolint:gosec // G115: bounded by guest memory
		params = []uint64{uint64(ptr), uint64(len(input))}
	}

	results, err := f.Call(ctx, params...)
	if err != nil {
		return nil, fmt.Errorf("plugin %s: %s failed: %w", p.name, export, err)
	}
	if len(results) == 0 || results[0] == 0 {
		return nil, ErrNullResponse
	}

	ptr, length := abi.UnpackPtrLen(results[0])
	defer p.free(ctx, ptr, length)

	data, ok := p.module.Memory().Read(ptr, length)
	if !ok {
		return nil, fmt.Errorf("failed to read %s response from memory", export)
	}
	return append([]byte(nil), data...), nil
}

func (p *PluginInstance) write(ctx context.Context, data []byte) (uint32, error) {
	allocate := p.module.ExportedFunction("allocate")
	if allocate == nil {
		return 0, errors.New("guest does not export 'allocate'")
	}
	res, err := allocate.Call(ctx, uint64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("failed to allocate in guest: %w", err)
	}
	if len(res) == 0 {
		return 0, errors.New("allocate returned no results")
	}
	ptr := uint32(res[0]) //nolint:gosec // G115: WASM32 pointers are always 32-bit
	if !p.module.Memory().Write(ptr, data) {
		return 0, errors.New("failed to write input to guest memory")
	}
	return ptr, nil
}

func (p *PluginInstance) free(ctx context.Context, ptr, length uint32) {
	if deallocate := p.module.ExportedFunction("deallocate"); deallocate != nil {
		_, _ = deallocate.Call(ctx, uint64(ptr), uint64(length))
	}
}
