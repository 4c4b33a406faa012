package hostfuncs

import (
	"context"
	"testing"

	"github.com/reglet-dev/wasmer-pipeline/domain/entities"
	"github.com/reglet-dev/wasmer-pipeline/domain/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingRunner struct {
	requests []ports.CommandRequest
	result   ports.CommandResult
}

func (r *recordingRunner) Run(_ context.Context, req ports.CommandRequest) (*ports.CommandResult, error) {
	r.requests = append(r.requests, req)
	res := r.result
	return &res, nil
}

func TestModuleName(t *testing.T) {
	tests := map[string]string{
		entities.RustPipelineModule:   "rust_pipeline",
		"rust_pipeline":               "rust_pipeline",
		"rust_pipeline@v0.9.0":        "rust_pipeline",
		"https://pkg.fluentci.io/zig": "zig",
		"file:///opt/mods/x.wasm?a=b": "x.wasm",
	}
	for ref, want := range tests {
		assert.Equal(t, want, ModuleName(ref), ref)
	}
}

func TestModuleRegistry_RustSetup(t *testing.T) {
	runner := &recordingRunner{result: ports.CommandResult{Stdout: "rustup installed\n"}}
	env := NewEnvStore(
		WithBaseEnv([]string{"HOME=/home/ci", "PATH=/usr/bin"}),
		WithEnvGrant(GrantEnv("PATH")),
	)
	reg := NewModuleRegistry(runner, env)

	out, err := reg.Call(context.Background(), entities.RustPipelineModule, "setup", nil)
	require.NoError(t, err)
	assert.Equal(t, "rustup installed\n", out)

	require.Len(t, runner.requests, 1)
	assert.Equal(t, []string{"-c", rustupInstall}, runner.requests[0].Args)

	path, _ := env.Get("PATH")
	assert.Equal(t, "/home/ci/.cargo/bin:/usr/bin", path)

	// A second call leaves PATH alone.
	_, err = reg.Call(context.Background(), entities.RustPipelineModule, "setup", nil)
	require.NoError(t, err)
	path, _ = env.Get("PATH")
	assert.Equal(t, "/home/ci/.cargo/bin:/usr/bin", path)
}

func TestModuleRegistry_RustSetupFails(t *testing.T) {
	runner := &recordingRunner{result: ports.CommandResult{ExitCode: 1, Stderr: "curl: (6) Could not resolve host\n"}}
	reg := NewModuleRegistry(runner, nil)

	_, err := reg.Call(context.Background(), "rust_pipeline", "setup", nil)
	assert.EqualError(t, err, "rustup install exited with code 1: curl: (6) Could not resolve host")
}

func TestModuleRegistry_CustomAndUnknown(t *testing.T) {
	reg := NewModuleRegistry(&recordingRunner{}, nil,
		WithModuleFunc("https://pkg.fluentci.io/zig@v0.1.0", "build", func(_ context.Context, _ ModuleEnv, args []string) (string, error) {
			return "zig build " + args[0], nil
		}),
	)

	out, err := reg.Call(context.Background(), "zig", "build", []string{"--release"})
	require.NoError(t, err)
	assert.Equal(t, "zig build --release", out)

	_, err = reg.Call(context.Background(), "zig", "test", nil)
	assert.EqualError(t, err, `module zig has no function "test"`)

	resp := PerformModuleCall(context.Background(), reg, entities.ModuleCallRequest{Module: "go_pipeline", Function: "setup"})
	require.NotNil(t, resp.Error)
	assert.Equal(t, "module", resp.Error.Type)
}
