package host

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/reglet-dev/wasmer-pipeline/domain/entities"
	"github.com/reglet-dev/wasmer-pipeline/hostfuncs"
	"github.com/stretchr/testify/suite"
)

// emptyModule is the smallest valid WASM module: magic and version, no sections.
var emptyModule = []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}

type ExecutorSuite struct {
	suite.Suite
	ctx      context.Context
	logs     bytes.Buffer
	local    *Local
	executor *Executor
}

func (s *ExecutorSuite) SetupTest() {
	s.ctx = context.Background()
	s.logs.Reset()
	s.local = NewLocal(WithBaseEnv([]string{"HOME=/home/ci"}))

	registry, err := s.local.Registry()
	s.Require().NoError(err)

	s.executor, err = NewExecutor(s.ctx,
		WithHostFunctions(registry),
		WithLogger(slog.New(slog.NewTextHandler(&s.logs, nil))),
		WithStdio(&bytes.Buffer{}, &bytes.Buffer{}),
	)
	s.Require().NoError(err)
}

func (s *ExecutorSuite) TearDownTest() {
	s.NoError(s.executor.Close(s.ctx))
}

func (s *ExecutorSuite) TestRegistersHostModule() {
	s.NotNil(s.executor.runtime.Module("pipeline_host"))
}

func (s *ExecutorSuite) TestLoadPlugin_InvalidModule() {
	_, err := s.executor.LoadPlugin(s.ctx, []byte("not wasm"))
	s.ErrorContains(err, "failed to instantiate plugin wasmer_pipeline")
}

func (s *ExecutorSuite) TestLoadPlugin_MissingExports() {
	p, err := s.executor.LoadNamedPlugin(s.ctx, "empty", emptyModule)
	s.Require().NoError(err)
	defer p.Close(s.ctx)

	s.Equal("empty", p.Name())

	_, err = p.Setup(s.ctx)
	s.ErrorContains(err, `export "setup" not found`)

	_, err = p.Build(s.ctx, []string{"--features", "web"})
	s.ErrorContains(err, `export "build" not found`)

	_, err = p.Schema(s.ctx)
	s.ErrorContains(err, `export "schema" not found`)
}

func (s *ExecutorSuite) TestRun_UnknownJob() {
	p, err := s.executor.LoadNamedPlugin(s.ctx, "empty", emptyModule)
	s.Require().NoError(err)
	defer p.Close(s.ctx)

	_, err = p.Run(s.ctx, entities.Job("publish"), nil)
	s.ErrorContains(err, `no job "publish"`)
}

func TestExecutorSuite(t *testing.T) {
	suite.Run(t, new(ExecutorSuite))
}

func TestNewExecutor_DefaultRegistry(t *testing.T) {
	ctx := context.Background()
	e, err := NewExecutor(ctx)
	if err != nil {
		t.Fatalf("NewExecutor: %v", err)
	}
	defer e.Close(ctx)

	if e.registry == nil {
		t.Fatal("default registry should not be nil")
	}
	for _, name := range []string{hostfuncs.FuncExecCommand, hostfuncs.FuncSetEnvs, hostfuncs.FuncCallModule} {
		if !e.registry.Has(name) {
			t.Errorf("default registry should export %s", name)
		}
	}
}
