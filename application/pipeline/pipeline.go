// Package pipeline provides a named chain of shell steps executed through the host's command runner.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/reglet-dev/wasmer-pipeline/domain/entities"
	domainerrors "github.com/reglet-dev/wasmer-pipeline/domain/errors"
	"github.com/reglet-dev/wasmer-pipeline/domain/ports"
)

// Shell interprets every step. Steps are command lines, so $HOME, $PATH and
// VAR=value prefixes behave as they would in a CI script.
const Shell = "sh"

// pipelineConfig holds the configuration shared by every step.
type pipelineConfig struct {
	dir     string
	env     []string
	timeout time.Duration
	dryRun  bool
}

func defaultPipelineConfig() pipelineConfig {
	return pipelineConfig{
		timeout: entities.DefaultCommandTimeout,
	}
}

// Option is a functional option for configuring a Pipeline.
type Option func(*pipelineConfig)

// WithWorkdir sets the working directory for every step.
func WithWorkdir(dir string) Option {
	return func(c *pipelineConfig) {
		c.dir = dir
	}
}

// WithEnv adds KEY=VALUE entries to every step's environment.
func WithEnv(env ...string) Option {
	return func(c *pipelineConfig) {
		c.env = append(c.env, env...)
	}
}

// WithTimeout bounds each step. A zero or negative duration is ignored.
func WithTimeout(d time.Duration) Option {
	return func(c *pipelineConfig) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithDryRun records steps without running them.
func WithDryRun(enabled bool) Option {
	return func(c *pipelineConfig) {
		c.dryRun = enabled
	}
}

// Pipeline is an ordered list of shell steps, optionally guarded by required tools.
// It is not safe for concurrent use.
type Pipeline struct {
	runner   ports.CommandRunner
	name     string
	packages []string
	steps    []string
	config   pipelineConfig
}

// New creates an empty pipeline named name.
func New(runner ports.CommandRunner, name string, opts ...Option) *Pipeline {
	cfg := defaultPipelineConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Pipeline{
		runner: runner,
		name:   name,
		config: cfg,
	}
}

// Name returns the pipeline name.
func (p *Pipeline) Name() string {
	return p.name
}

// WithPackages declares tools that must be on the host PATH before any step runs.
func (p *Pipeline) WithPackages(pkgs ...string) *Pipeline {
	for _, pkg := range pkgs {
		if pkg != "" && !slices.Contains(p.packages, pkg) {
			p.packages = append(p.packages, pkg)
		}
	}
	return p
}

// WithExec appends a step. The argv elements are joined with spaces; empty elements are dropped.
func (p *Pipeline) WithExec(argv ...string) *Pipeline {
	if line := CommandLine(argv...); line != "" {
		p.steps = append(p.steps, line)
	}
	return p
}

// Packages returns the declared tools.
func (p *Pipeline) Packages() []string {
	return append([]string(nil), p.packages...)
}

// Steps returns the command lines in execution order.
func (p *Pipeline) Steps() []string {
	return append([]string(nil), p.steps...)
}

// Stdout runs every step in order and returns their concatenated stdout.
// It stops at the first step that fails to start, times out, or exits non-zero.
func (p *Pipeline) Stdout(ctx context.Context) (string, error) {
	if p.config.dryRun {
		return p.plan(), nil
	}

	for _, pkg := range p.packages {
		if err := p.requireTool(ctx, pkg); err != nil {
			return "", err
		}
	}

	var out strings.Builder
	for i, line := range p.steps {
		slog.InfoContext(ctx, "pipeline: running step",
			"pipeline", p.name,
			"step", i+1,
			"of", len(p.steps),
			"command", line)

		res, err := p.run(ctx, line)
		if err != nil {
			return out.String(), err
		}
		out.WriteString(res.Stdout)
	}
	return out.String(), nil
}

func (p *Pipeline) requireTool(ctx context.Context, tool string) error {
	res, err := p.runner.Run(ctx, p.request("command -v "+tool+" > /dev/null 2>&1"))
	if err != nil {
		return &domainerrors.ExecError{Pipeline: p.name, Command: "command -v " + tool, Err: err}
	}
	if res.ExitCode != 0 {
		return &domainerrors.MissingToolError{Pipeline: p.name, Tool: tool}
	}
	return nil
}

func (p *Pipeline) run(ctx context.Context, line string) (*ports.CommandResult, error) {
	res, err := p.runner.Run(ctx, p.request(line))
	if err != nil {
		return nil, &domainerrors.ExecError{Pipeline: p.name, Command: line, Err: err}
	}
	if res.IsTimeout {
		return nil, &domainerrors.TimeoutError{Operation: "exec", Target: line, Duration: p.config.timeout}
	}
	if res.ExitCode != 0 {
		slog.ErrorContext(ctx, "pipeline: step failed",
			"pipeline", p.name,
			"command", line,
			"exit_code", res.ExitCode)
		return nil, &domainerrors.ExecError{
			Pipeline: p.name,
			Command:  line,
			ExitCode: res.ExitCode,
			Stderr:   strings.TrimSpace(res.Stderr),
		}
	}
	return res, nil
}

func (p *Pipeline) request(line string) ports.CommandRequest {
	return ports.CommandRequest{
		Command: Shell,
		Args:    []string{"-c", line},
		Dir:     p.config.dir,
		Env:     p.config.env,
		Timeout: p.config.timeout,
	}
}

func (p *Pipeline) plan() string {
	var b strings.Builder
	for _, pkg := range p.packages {
		fmt.Fprintf(&b, "# requires %s\n", pkg)
	}
	for _, line := range p.steps {
		fmt.Fprintf(&b, "+ %s\n", line)
	}
	return b.String()
}

// CommandLine joins argv into a single shell command line, skipping empty elements.
func CommandLine(argv ...string) string {
	parts := make([]string, 0, len(argv))
	for _, a := range argv {
		if a != "" {
			parts = append(parts, a)
		}
	}
	return strings.Join(parts, " ")
}

