// Package wasmer implements the setup, build and deploy jobs on top of a ports.Host.
package wasmer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/reglet-dev/wasmer-pipeline/application/pipeline"
	"github.com/reglet-dev/wasmer-pipeline/application/template"
	"github.com/reglet-dev/wasmer-pipeline/application/validation"
	"github.com/reglet-dev/wasmer-pipeline/domain/entities"
	"github.com/reglet-dev/wasmer-pipeline/domain/ports"
)

// serviceConfig holds configuration for a Service.
type serviceConfig struct {
	job    entities.JobConfig
	engine ports.TemplateEngine
	dryRun bool
}

func defaultServiceConfig() serviceConfig {
	return serviceConfig{
		job: entities.NewJobConfig(),
	}
}

// Option configures a Service.
type Option func(*serviceConfig)

// WithJobConfig sets the job configuration.
func WithJobConfig(cfg entities.JobConfig) Option {
	return func(c *serviceConfig) {
		c.job = cfg
	}
}

// WithTemplateEngine overrides the engine used to render release URLs and install paths.
func WithTemplateEngine(engine ports.TemplateEngine) Option {
	return func(c *serviceConfig) {
		c.engine = engine
	}
}

// WithDryRun records the commands each job would run instead of running them.
// Read-only probes still run so the plan reflects the host's state.
func WithDryRun(enabled bool) Option {
	return func(c *serviceConfig) {
		c.dryRun = enabled
	}
}

// Service runs the pipeline jobs against a host.
type Service struct {
	host   ports.Host
	engine ports.TemplateEngine
	config serviceConfig
	plan   strings.Builder
}

// NewService creates a Service. The job configuration is validated up front.
func NewService(host ports.Host, opts ...Option) (*Service, error) {
	cfg := defaultServiceConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := validation.ValidateJobConfig(cfg.job); err != nil {
		return nil, err
	}

	engine := cfg.engine
	if engine == nil {
		engine = template.NewGoTemplateEngine()
	}

	return &Service{
		host:   host,
		engine: engine,
		config: cfg,
	}, nil
}

// JobConfig returns the configuration the service was built with.
func (s *Service) JobConfig() entities.JobConfig {
	return s.config.job
}

// DryRun reports whether the service only records commands.
func (s *Service) DryRun() bool {
	return s.config.dryRun
}

// Plan returns everything recorded in dry-run mode so far.
func (s *Service) Plan() string {
	return s.plan.String()
}

// chain starts a pipeline carrying the service's directory, timeout and dry-run settings.
func (s *Service) chain(name string) *pipeline.Pipeline {
	return pipeline.New(s.host, name,
		pipeline.WithWorkdir(s.config.job.Dir),
		pipeline.WithTimeout(s.config.job.Timeout),
		pipeline.WithDryRun(s.config.dryRun),
	)
}

// probe starts a pipeline that always runs, even in dry-run mode.
func (s *Service) probe(name string) *pipeline.Pipeline {
	return pipeline.New(s.host, name,
		pipeline.WithWorkdir(s.config.job.Dir),
		pipeline.WithTimeout(s.config.job.Timeout),
	)
}

// stdout runs p and records its plan in dry-run mode.
func (s *Service) stdout(ctx context.Context, p *pipeline.Pipeline) (string, error) {
	out, err := p.Stdout(ctx)
	if err != nil {
		return out, err
	}
	if s.config.dryRun {
		fmt.Fprintf(&s.plan, "## %s\n%s", p.Name(), out)
	}
	return out, nil
}

// setEnvs exports vars on the host, or records them in dry-run mode.
func (s *Service) setEnvs(ctx context.Context, vars ...entities.EnvVar) error {
	if s.config.dryRun {
		for _, v := range vars {
			fmt.Fprintf(&s.plan, "export %s=%s\n", v.Name, v.Value)
		}
		return nil
	}
	for _, v := range vars {
		slog.DebugContext(ctx, "wasmer: exporting", "name", v.Name)
	}
	return s.host.SetEnvs(ctx, vars)
}

// env reads a variable, treating an unset variable as empty.
func (s *Service) env(ctx context.Context, name string) (string, error) {
	v, _, err := s.host.GetEnv(ctx, name)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", name, err)
	}
	return v, nil
}

// render executes a step template against data.
func (s *Service) render(raw string, data map[string]any) (string, error) {
	out, err := s.engine.Render([]byte(raw), data)
	if err != nil {
		return "", fmt.Errorf("failed to render %q: %w", raw, err)
	}
	return string(out), nil
}
