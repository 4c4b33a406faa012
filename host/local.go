package host

import (
	"context"
	"io"

	"github.com/reglet-dev/wasmer-pipeline/domain/entities"
	"github.com/reglet-dev/wasmer-pipeline/domain/ports"
	"github.com/reglet-dev/wasmer-pipeline/hostfuncs"
)

var _ ports.Host = (*Local)(nil)

// Local is a ports.Host running commands on this machine.
type Local struct {
	env      *hostfuncs.EnvStore
	runner   *hostfuncs.Runner
	modules  *hostfuncs.ModuleRegistry
	execOpts []hostfuncs.ExecOption
	platform entities.Platform
}

type localConfig struct {
	output     io.Writer
	platform   *entities.Platform
	baseEnv    []string
	execOpts   []hostfuncs.ExecOption
	moduleOpts []hostfuncs.ModuleOption
}

// LocalOption configures a Local host.
type LocalOption func(*localConfig)

// WithOutput streams command stdout and stderr to w while they run.
func WithOutput(w io.Writer) LocalOption {
	return func(c *localConfig) {
		c.output = w
	}
}

// WithBaseEnv replaces the process environment as the starting environment.
func WithBaseEnv(env []string) LocalOption {
	return func(c *localConfig) {
		c.baseEnv = env
	}
}

// WithPlatform overrides the detected platform.
func WithPlatform(p entities.Platform) LocalOption {
	return func(c *localConfig) {
		c.platform = &p
	}
}

// WithExecOptions adds options applied to every command.
func WithExecOptions(opts ...hostfuncs.ExecOption) LocalOption {
	return func(c *localConfig) {
		c.execOpts = append(c.execOpts, opts...)
	}
}

// WithModules adds or replaces callable pipeline modules.
func WithModules(opts ...hostfuncs.ModuleOption) LocalOption {
	return func(c *localConfig) {
		c.moduleOpts = append(c.moduleOpts, opts...)
	}
}

// NewLocal creates a Local host. Steps may set PATH and HOME; commands see the
// resulting environment.
func NewLocal(opts ...LocalOption) *Local {
	var cfg localConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	envOpts := []hostfuncs.EnvStoreOption{
		hostfuncs.WithEnvGrant(hostfuncs.GrantEnv(entities.EnvPath, entities.EnvHome)),
	}
	if cfg.baseEnv != nil {
		envOpts = append(envOpts, hostfuncs.WithBaseEnv(cfg.baseEnv))
	}
	env := hostfuncs.NewEnvStore(envOpts...)

	execOpts := []hostfuncs.ExecOption{hostfuncs.WithEnviron(env.Environ)}
	if cfg.output != nil {
		execOpts = append(execOpts, hostfuncs.WithOutput(cfg.output))
	}
	execOpts = append(execOpts, cfg.execOpts...)

	runner := hostfuncs.NewRunner(execOpts...)

	platform := hostfuncs.DetectPlatform()
	if cfg.platform != nil {
		platform = *cfg.platform
	}

	return &Local{
		env:      env,
		runner:   runner,
		modules:  hostfuncs.NewModuleRegistry(runner, env, cfg.moduleOpts...),
		execOpts: execOpts,
		platform: platform,
	}
}

// Run implements ports.CommandRunner.
func (l *Local) Run(ctx context.Context, req ports.CommandRequest) (*ports.CommandResult, error) {
	return l.runner.Run(ctx, req)
}

// Platform implements ports.Environment.
func (l *Local) Platform(context.Context) (entities.Platform, error) {
	return l.platform, nil
}

// GetEnv implements ports.Environment.
func (l *Local) GetEnv(_ context.Context, name string) (string, bool, error) {
	v, ok := l.env.Get(name)
	return v, ok, nil
}

// SetEnvs implements ports.Environment.
func (l *Local) SetEnvs(_ context.Context, vars []entities.EnvVar) error {
	return l.env.Set(vars)
}

// Call implements ports.ModuleCaller.
func (l *Local) Call(ctx context.Context, module, function string, args []string) (string, error) {
	return l.modules.Call(ctx, module, function, args)
}

// Registry returns a handler registry exposing this host to a plugin.
// Plugin calls share the environment with direct calls on l.
func (l *Local) Registry(opts ...hostfuncs.RegistryOption) (*hostfuncs.HandlerRegistry, error) {
	opts = append([]hostfuncs.RegistryOption{
		hostfuncs.WithRegistryPlatform(l.platform),
		hostfuncs.WithRegistryExecOptions(l.execOpts...),
		hostfuncs.WithDefaultMiddleware(),
	}, opts...)
	return hostfuncs.NewPipelineRegistry(l.env, l.modules, opts...)
}
