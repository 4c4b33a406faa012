package hostfuncs

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/reglet-dev/wasmer-pipeline/domain/entities"
	"github.com/reglet-dev/wasmer-pipeline/domain/ports"
)

// rustupInstall installs rustup unless it is already on the PATH.
const rustupInstall = "type rustup > /dev/null 2>&1 || curl --proto '=https' --tlsv1.2 -sSf https://sh.rustup.rs | sh -s -- -y"

// ModuleEnv is what a module function can use on the host.
type ModuleEnv struct {
	Runner ports.CommandRunner
	Env    *EnvStore
}

// ModuleFunc is a function exported by a pipeline module.
type ModuleFunc func(ctx context.Context, env ModuleEnv, args []string) (string, error)

// ModuleRegistry resolves module calls to functions registered on the host.
// Modules are keyed by bare name, so every version of rust_pipeline resolves
// to the same entry.
type ModuleRegistry struct {
	env     ModuleEnv
	modules map[string]map[string]ModuleFunc
}

// ModuleOption configures a ModuleRegistry.
type ModuleOption func(*ModuleRegistry)

// WithModuleFunc registers fn as module.function. It replaces any built-in.
func WithModuleFunc(module, function string, fn ModuleFunc) ModuleOption {
	return func(r *ModuleRegistry) {
		r.register(module, function, fn)
	}
}

// NewModuleRegistry creates a registry with the built-in rust_pipeline module.
func NewModuleRegistry(runner ports.CommandRunner, env *EnvStore, opts ...ModuleOption) *ModuleRegistry {
	r := &ModuleRegistry{
		env:     ModuleEnv{Runner: runner, Env: env},
		modules: make(map[string]map[string]ModuleFunc),
	}
	r.register("rust_pipeline", "setup", rustSetup)
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *ModuleRegistry) register(module, function string, fn ModuleFunc) {
	name := ModuleName(module)
	if r.modules[name] == nil {
		r.modules[name] = make(map[string]ModuleFunc)
	}
	r.modules[name][function] = fn
}

// Call invokes function on the module named by ref.
func (r *ModuleRegistry) Call(ctx context.Context, ref, function string, args []string) (string, error) {
	name := ModuleName(ref)
	fn, ok := r.modules[name][function]
	if !ok {
		return "", fmt.Errorf("module %s has no function %q", name, function)
	}
	slog.InfoContext(ctx, "calling pipeline module", "module", name, "function", function, "ref", ref)
	return fn(ctx, r.env, args)
}

// PerformModuleCall answers a call_module request.
func PerformModuleCall(ctx context.Context, r *ModuleRegistry, req entities.ModuleCallRequest) entities.ModuleCallResponse {
	out, err := r.Call(ctx, req.Module, req.Function, req.Args)
	if err != nil {
		return entities.ModuleCallResponse{Error: entities.NewErrorDetail("module", err.Error()).WithCode(req.Function)}
	}
	return entities.ModuleCallResponse{Output: out}
}

// ModuleName reduces a module reference such as
// https://pkg.fluentci.io/rust_pipeline@v0.10.2?wasm=1 to its bare name.
func ModuleName(ref string) string {
	name, _, _ := strings.Cut(ref, "?")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	name, _, _ = strings.Cut(name, "@")
	return name
}

// rustSetup installs rustup and puts $HOME/.cargo/bin on the PATH.
func rustSetup(ctx context.Context, env ModuleEnv, _ []string) (string, error) {
	res, err := env.Runner.Run(ctx, ports.CommandRequest{
		Command: "sh",
		Args:    []string{"-c", rustupInstall},
		Timeout: entities.DefaultCommandTimeout,
	})
	if err != nil {
		return "", err
	}
	if res.ExitCode != 0 {
		return "", fmt.Errorf("rustup install exited with code %d: %s", res.ExitCode, strings.TrimSpace(res.Stderr))
	}

	if env.Env != nil {
		home, _ := env.Env.Get(entities.EnvHome)
		path, _ := env.Env.Get(entities.EnvPath)
		cargoBin := home + "/.cargo/bin"
		if home != "" && !strings.Contains(":"+path+":", ":"+cargoBin+":") {
			if err := env.Env.Set([]entities.EnvVar{{Name: entities.EnvPath, Value: cargoBin + ":" + path}}); err != nil {
				return "", err
			}
		}
	}
	return res.Stdout, nil
}
