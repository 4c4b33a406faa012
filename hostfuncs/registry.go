package hostfuncs

import (
	"context"
	"errors"

	"github.com/reglet-dev/wasmer-pipeline/domain/entities"
	"github.com/reglet-dev/wasmer-pipeline/internal/wasmcontext"
)

// HostModuleName is the import module plugins link host functions from.
const HostModuleName = "pipeline_host"

// Host function names exported to plugins.
const (
	FuncExecCommand = "exec_command"
	FuncGetEnv      = "get_env"
	FuncSetEnvs     = "set_envs"
	FuncGetPlatform = "get_platform"
	FuncCallModule  = "call_module"
	FuncLogMessage  = "log_message"
)

// pipelineFunctions is the import set of a pipeline plugin, in the order the
// guest declares them.
var pipelineFunctions = []string{
	FuncExecCommand,
	FuncGetEnv,
	FuncSetEnvs,
	FuncGetPlatform,
	FuncCallModule,
}

// HandlerRegistry serves the pipeline_host functions over one job environment
// and module registry. It is immutable once built.
type HandlerRegistry struct {
	handlers map[string]ByteHandler
}

// RegistryOption configures NewPipelineRegistry.
type RegistryOption func(*registryConfig)

type registryConfig struct {
	platform    entities.Platform
	hasPlatform bool
	execOpts    []ExecOption
	middleware  []Middleware
}

// WithRegistryPlatform reports p from get_platform instead of the detected platform.
func WithRegistryPlatform(p entities.Platform) RegistryOption {
	return func(c *registryConfig) {
		c.platform = p
		c.hasPlatform = true
	}
}

// WithRegistryExecOptions applies opts to every exec_command call.
func WithRegistryExecOptions(opts ...ExecOption) RegistryOption {
	return func(c *registryConfig) {
		c.execOpts = append(c.execOpts, opts...)
	}
}

// WithMiddleware wraps every handler. The first middleware is outermost.
func WithMiddleware(mw ...Middleware) RegistryOption {
	return func(c *registryConfig) {
		c.middleware = append(c.middleware, mw...)
	}
}

// WithDefaultMiddleware installs panic recovery, the request size limit and
// debug logging, in that order.
func WithDefaultMiddleware() RegistryOption {
	return WithMiddleware(
		PanicRecoveryMiddleware(),
		RequestSizeMiddleware(DefaultMaxRequestSize),
		LoggingMiddleware(nil),
	)
}

// NewPipelineRegistry builds the handlers a pipeline plugin imports. Commands
// run with env's environment, set_envs writes to env, and call_module
// dispatches to modules.
//
//	env := NewEnvStore(WithEnvGrant(GrantEnv("PATH", "HOME")))
//	registry, err := NewPipelineRegistry(env, NewModuleRegistry(NewRunner(), env),
//	    WithDefaultMiddleware(),
//	)
func NewPipelineRegistry(env *EnvStore, modules *ModuleRegistry, opts ...RegistryOption) (*HandlerRegistry, error) {
	if env == nil {
		return nil, errors.New("pipeline registry requires an environment")
	}
	if modules == nil {
		return nil, errors.New("pipeline registry requires a module registry")
	}

	var cfg registryConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if !cfg.hasPlatform {
		cfg.platform = DetectPlatform()
	}

	handlers := map[string]ByteHandler{
		FuncExecCommand: execHandler(env, cfg.execOpts),
		FuncGetEnv: NewJSONHandler(func(_ context.Context, req entities.GetEnvRequest) entities.GetEnvResponse {
			return PerformGetEnv(env, req)
		}),
		FuncSetEnvs: NewJSONHandler(func(_ context.Context, req entities.SetEnvsRequest) entities.SetEnvsResponse {
			return PerformSetEnvs(env, req)
		}),
		FuncGetPlatform: NewJSONHandler(func(_ context.Context, _ entities.PlatformRequest) entities.PlatformResponse {
			return PerformGetPlatform(cfg.platform)
		}),
		FuncCallModule: NewJSONHandler(func(ctx context.Context, req entities.ModuleCallRequest) entities.ModuleCallResponse {
			ctx, cancel := wasmcontext.WireToContext(ctx, req.Context)
			defer cancel()
			return PerformModuleCall(ctx, modules, req)
		}),
	}

	for name, h := range handlers {
		for i := len(cfg.middleware) - 1; i >= 0; i-- {
			h = cfg.middleware[i](h)
		}
		handlers[name] = h
	}
	return &HandlerRegistry{handlers: handlers}, nil
}

func execHandler(env *EnvStore, opts []ExecOption) ByteHandler {
	opts = append([]ExecOption{WithEnviron(env.Environ)}, opts...)
	return NewJSONHandler(func(ctx context.Context, req entities.ExecRequest) entities.ExecResponse {
		ctx, cancel := wasmcontext.WireToContext(ctx, req.Context)
		defer cancel()
		return PerformExecCommand(ctx, req, opts...)
	})
}

// Invoke dispatches a host function call by name. An unknown name yields a
// not-found ErrorResponse rather than a Go error.
func (r *HandlerRegistry) Invoke(ctx context.Context, name string, payload []byte) ([]byte, error) {
	handler, ok := r.handlers[name]
	if !ok {
		return NewNotFoundError(name).ToJSON(), nil
	}
	return handler(HostContextFrom(ctx, name), payload)
}

// Has reports whether name is a pipeline_host function.
func (r *HandlerRegistry) Has(name string) bool {
	_, ok := r.handlers[name]
	return ok
}

// Names returns the exported function names in declaration order.
func (r *HandlerRegistry) Names() []string {
	return append([]string(nil), pipelineFunctions...)
}
