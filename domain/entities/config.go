package entities

import (
	"time"
)

// JobConfig holds the parameters for a single job invocation.
type JobConfig struct {
	// Args is appended verbatim to the build or deploy command line.
	Args string `json:"args,omitempty" jsonschema:"description=Extra arguments appended to the cargo wasix or wasmer command"`

	// CargoWasixVersion overrides the CARGO_WASIX_VERSION environment variable.
	CargoWasixVersion string `json:"cargo_wasix_version,omitempty" validate:"omitempty,semver" jsonschema:"description=cargo-wasix release tag,example=v0.1.23"`

	// Dir is the project directory commands run in.
	Dir string `json:"dir,omitempty" jsonschema:"description=Project directory,default=."`

	// Token is the Wasmer Edge token. A non-empty Token is exported as WASMER_TOKEN before deploying.
	Token string `json:"token,omitempty" jsonschema:"description=Wasmer Edge token"`

	// Timeout bounds each command. Zero means the host default.
	Timeout time.Duration `json:"timeout,omitempty" validate:"gte=0" jsonschema:"description=Per-command timeout in nanoseconds"`
}

// DefaultCommandTimeout bounds a single pipeline command when no timeout is configured.
// Toolchain downloads and release builds routinely take minutes.
const DefaultCommandTimeout = 30 * time.Minute

// JobOption is a functional option for configuring a job.
type JobOption func(*JobConfig)

// WithArgs sets the extra command line arguments.
func WithArgs(args string) JobOption {
	return func(c *JobConfig) {
		c.Args = args
	}
}

// WithCargoWasixVersion pins the cargo-wasix release.
func WithCargoWasixVersion(v string) JobOption {
	return func(c *JobConfig) {
		c.CargoWasixVersion = v
	}
}

// WithDir sets the project directory.
func WithDir(dir string) JobOption {
	return func(c *JobConfig) {
		c.Dir = dir
	}
}

// WithToken sets the Wasmer token.
func WithToken(token string) JobOption {
	return func(c *JobConfig) {
		c.Token = token
	}
}

// WithTimeout sets the per-command timeout. A zero or negative duration is ignored.
func WithTimeout(d time.Duration) JobOption {
	return func(c *JobConfig) {
		if d > 0 {
			c.Timeout = d
		}
	}
}

// NewJobConfig creates a JobConfig with the given options.
func NewJobConfig(opts ...JobOption) JobConfig {
	cfg := JobConfig{Timeout: DefaultCommandTimeout}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
