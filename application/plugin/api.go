// Package plugin connects a pipeline implementation to the WASM exports the
// host calls: setup, build, deploy and schema. Each export decodes a
// JobRequest, runs the job with panic recovery and returns a JSON Result.
package plugin

import (
	"context"
	"log/slog"
	"strings"

	"github.com/reglet-dev/wasmer-pipeline/application/schema"
	"github.com/reglet-dev/wasmer-pipeline/application/wasmer"
	"github.com/reglet-dev/wasmer-pipeline/domain/entities"
	domainerrors "github.com/reglet-dev/wasmer-pipeline/domain/errors"
	"github.com/reglet-dev/wasmer-pipeline/domain/ports"
)

// Plugin is what the exports dispatch to.
type Plugin interface {
	// Run executes job as described by req. Failures are reported in the Result.
	Run(ctx context.Context, job entities.Job, req entities.JobRequest) entities.Result
	// Schema returns the JSON Schema of the job configuration.
	Schema(ctx context.Context) ([]byte, error)
}

// Internal variable to hold the registered plugin.
var userPlugin Plugin

// Register sets the plugin served by the exports. Call it from main.
func Register(p Plugin) {
	if userPlugin != nil {
		slog.Warn("plugin: already registered, ignoring second call")
		return
	}
	userPlugin = p
}

// registered returns the plugin set by Register.
func registered() Plugin {
	return userPlugin
}

// ServicePlugin serves the wasmer jobs. Each request gets its own Service so
// the configuration and dry-run flag sent by the host apply to that call only.
type ServicePlugin struct {
	host ports.Host
	opts []wasmer.Option
}

var _ Plugin = (*ServicePlugin)(nil)

// NewServicePlugin serves jobs against host. opts are applied before the
// request's own configuration.
func NewServicePlugin(host ports.Host, opts ...wasmer.Option) *ServicePlugin {
	return &ServicePlugin{host: host, opts: opts}
}

// Run implements Plugin.
func (p *ServicePlugin) Run(ctx context.Context, job entities.Job, req entities.JobRequest) entities.Result {
	opts := append([]wasmer.Option(nil), p.opts...)
	if req.Config != nil {
		opts = append(opts, wasmer.WithJobConfig(*req.Config))
	}
	if req.DryRun {
		opts = append(opts, wasmer.WithDryRun(true))
	}

	svc, err := wasmer.NewService(p.host, opts...)
	if err != nil {
		return entities.ResultError(job, domainerrors.ToErrorDetail(err))
	}

	res := svc.Execute(ctx, job, strings.Join(req.Args, " "))
	if svc.DryRun() {
		res.Plan = svc.Plan()
	}
	return res
}

// Schema implements Plugin.
func (p *ServicePlugin) Schema(context.Context) ([]byte, error) {
	return schema.JobConfigSchema()
}
