// Package workflow generates the GitHub Actions workflow that runs the deploy pipeline.
package workflow

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Defaults for the generated workflow.
const (
	DefaultName     = "Deploy"
	DefaultBranch   = "main"
	DefaultRunner   = "ubuntu-latest"
	DefaultFileName = ".github/workflows/deploy.yml"
	PipelineName    = "wasmer_pipeline"
)

// Workflow is a GitHub Actions workflow. Field order is the emitted key order.
type Workflow struct {
	Name string         `yaml:"name"`
	On   Triggers       `yaml:"on"`
	Jobs map[string]Job `yaml:"jobs"`
}

// Triggers holds the events that start the workflow.
type Triggers struct {
	Push *PushTrigger `yaml:"push,omitempty"`
}

// PushTrigger restricts push events to branches.
type PushTrigger struct {
	Branches []string `yaml:"branches,omitempty"`
}

// Job is a single workflow job.
type Job struct {
	RunsOn string `yaml:"runs-on"`
	Steps  []Step `yaml:"steps"`
}

// Step is a single job step.
type Step struct {
	Name string            `yaml:"name,omitempty"`
	Uses string            `yaml:"uses,omitempty"`
	Run  string            `yaml:"run,omitempty"`
	Env  map[string]string `yaml:"env,omitempty"`
}

// options holds the workflow parameters.
type options struct {
	name     string
	branches []string
	runner   string
}

// Option configures the generated workflow.
type Option func(*options)

// WithName sets the workflow name.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithBranches sets the branches whose pushes trigger the workflow.
func WithBranches(branches ...string) Option {
	return func(o *options) {
		if len(branches) > 0 {
			o.branches = branches
		}
	}
}

// WithRunner sets the runs-on label.
func WithRunner(runner string) Option {
	return func(o *options) {
		o.runner = runner
	}
}

// Generate builds the deploy workflow: on push, check out the repository,
// install Fluent CI and run the pipeline with the WASMER_TOKEN secret.
func Generate(opts ...Option) *Workflow {
	o := options{
		name:     DefaultName,
		branches: []string{DefaultBranch},
		runner:   DefaultRunner,
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &Workflow{
		Name: o.name,
		On: Triggers{
			Push: &PushTrigger{Branches: o.branches},
		},
		Jobs: map[string]Job{
			"deploy": {
				RunsOn: o.runner,
				Steps: []Step{
					{Uses: "actions/checkout@v2"},
					{Name: "Setup Fluent CI", Uses: "fluentci-io/setup-fluentci@v1"},
					{
						Name: "Run Dagger Pipelines",
						Run:  "fluentci run " + PipelineName,
						Env: map[string]string{
							"WASMER_TOKEN": "${{ secrets.WASMER_TOKEN }}",
						},
					},
				},
			},
		},
	}
}

// Marshal renders w as YAML with two-space indentation.
func Marshal(w *Workflow) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(w); err != nil {
		return nil, fmt.Errorf("failed to marshal workflow: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to marshal workflow: %w", err)
	}
	return buf.Bytes(), nil
}

// Parse decodes a workflow file.
func Parse(data []byte) (*Workflow, error) {
	var w Workflow
	if err := yaml.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("failed to parse workflow: %w", err)
	}
	return &w, nil
}
