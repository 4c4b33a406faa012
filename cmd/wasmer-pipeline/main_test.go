package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/reglet-dev/wasmer-pipeline/domain/ports"
	"github.com/reglet-dev/wasmer-pipeline/testing/pipelinetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	fake   *pipelinetest.FakeHost
	out    bytes.Buffer
	errOut bytes.Buffer
}

func newHarness(opts ...pipelinetest.Option) *harness {
	return &harness{fake: pipelinetest.NewFakeHost(opts...)}
}

func (h *harness) run(t *testing.T, args ...string) error {
	t.Helper()
	a := newApp(strings.NewReader(""), &h.out, &h.errOut)
	a.newHost = func(*app) ports.Host { return h.fake }
	root := newRootCmd(a)
	root.SetArgs(args)
	return root.ExecuteContext(context.Background())
}

func TestBuildCommand(t *testing.T) {
	h := newHarness(pipelinetest.WithEnv("WASMER_DIR", "/home/ci/.wasmer"))
	h.fake.On("cargo wasix build", ports.CommandResult{Stdout: "Finished release"})

	require.NoError(t, h.run(t, "build", "--", "--features", "web"))

	pipelinetest.AssertLineContains(t, h.fake, "cargo wasix build --release --features web")
	assert.Contains(t, h.out.String(), "Finished release")
}

func TestDeployCommand_MissingToken(t *testing.T) {
	t.Setenv("WASMER_TOKEN", "")
	h := newHarness(pipelinetest.WithEnv("WASMER_DIR", "/home/ci/.wasmer"))

	err := h.run(t, "deploy")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deploy error")
}

func TestDeployCommand_TokenFlag(t *testing.T) {
	h := newHarness(pipelinetest.WithEnv("WASMER_DIR", "/home/ci/.wasmer"))

	require.NoError(t, h.run(t, "deploy", "--token", "t0k"))

	assert.Equal(t, "t0k", h.fake.Env("WASMER_TOKEN"))
	pipelinetest.AssertLineContains(t, h.fake, "wasmer deploy --non-interactive")
}

func TestDeployCommand_TokenFromEnv(t *testing.T) {
	t.Setenv("WASMER_TOKEN", "from-env")
	h := newHarness(pipelinetest.WithEnv("WASMER_DIR", "/home/ci/.wasmer"))

	require.NoError(t, h.run(t, "deploy"))
	assert.Equal(t, "from-env", h.fake.Env("WASMER_TOKEN"))
}

func TestDryRun(t *testing.T) {
	h := newHarness(pipelinetest.WithEnv("WASMER_DIR", "/home/ci/.wasmer"))

	require.NoError(t, h.run(t, "build", "--dry-run"))

	assert.Contains(t, h.out.String(), "cargo wasix build --release")
	for _, line := range h.fake.Lines() {
		assert.NotContains(t, line, "cargo wasix build")
	}
}

func TestRunCommand(t *testing.T) {
	h := newHarness(pipelinetest.WithEnv("WASMER_DIR", "/home/ci/.wasmer"))

	require.NoError(t, h.run(t, "run", "setup", "build"))

	out := h.out.String()
	assert.Contains(t, out, "Setup complete")
	assert.Contains(t, strings.ToUpper(out), "JOB")
	assert.Contains(t, out, "success")
}

func TestRunCommand_UnknownJob(t *testing.T) {
	h := newHarness()
	err := h.run(t, "run", "publish")
	assert.ErrorContains(t, err, "publish")
}

func TestJobsCommand(t *testing.T) {
	h := newHarness()
	require.NoError(t, h.run(t, "jobs"))

	out := h.out.String()
	for _, job := range []string{"setup", "build", "deploy"} {
		assert.Contains(t, out, job)
	}
	assert.Contains(t, out, "yes")
}

func TestSchemaCommand(t *testing.T) {
	h := newHarness()
	require.NoError(t, h.run(t, "schema"))
	assert.Contains(t, h.out.String(), `"cargo_wasix_version"`)
}

func TestWorkflowCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".github", "workflows", "deploy.yml")

	h := newHarness()
	require.NoError(t, h.run(t, "workflow", "-o", path))
	assert.Contains(t, h.out.String(), "Wrote "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "fluentci run wasmer_pipeline")

	// A second run without --force refuses when nobody can answer the prompt.
	h = newHarness()
	err = h.run(t, "workflow", "-o", path)
	assert.ErrorContains(t, err, "--force")

	h = newHarness()
	require.NoError(t, h.run(t, "workflow", "-o", path, "--force", "--branch", "release"))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "release")
}

func TestWorkflowCommand_Stdout(t *testing.T) {
	h := newHarness()
	require.NoError(t, h.run(t, "workflow", "--stdout"))
	assert.Contains(t, h.out.String(), "runs-on: ubuntu-latest")
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	require.NoError(t, os.WriteFile(path, []byte("args: --features edge\ncargo_wasix_version: v0.1.23\n"), 0o600))

	h := newHarness(pipelinetest.WithEnv("WASMER_DIR", "/home/ci/.wasmer"))
	require.NoError(t, h.run(t, "build", "--config", path))

	pipelinetest.AssertLineContains(t, h.fake, "cargo wasix build --release --features edge")
}

func TestConfigFile_Missing(t *testing.T) {
	h := newHarness()
	err := h.run(t, "jobs", "--config", filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "failed to read config")
}

func TestInvalidLogLevel(t *testing.T) {
	h := newHarness()
	err := h.run(t, "jobs", "--log-level", "loud")
	assert.ErrorContains(t, err, "invalid log level")
}

func TestPluginCommand_Errors(t *testing.T) {
	h := newHarness()
	assert.ErrorContains(t, h.run(t, "plugin", "x.wasm", "publish"), `unknown job "publish"`)
	assert.ErrorContains(t, h.run(t, "plugin", filepath.Join(t.TempDir(), "missing.wasm"), "build"), "failed to read plugin")
}
