package hostfuncs

import (
	"context"

	"github.com/reglet-dev/wasmer-pipeline/domain/entities"
	"github.com/reglet-dev/wasmer-pipeline/internal/wasmcontext"
)

// HostContext is the context handed to host functions. Besides the standard
// context it names the invoked function and the job the plugin is running.
type HostContext interface {
	context.Context

	// FunctionName returns the name of the host function being invoked.
	FunctionName() string

	// Job returns the job that made the call, or "" outside a job.
	Job() entities.Job

	// SetValue stores a request-scoped value for later middleware.
	SetValue(key, value any)

	// GetValue retrieves a value stored by SetValue.
	GetValue(key any) (value any, ok bool)
}

type hostContext struct {
	context.Context
	values   map[any]any
	funcName string
	job      entities.Job
}

// NewHostContext creates a new HostContext wrapping ctx.
func NewHostContext(ctx context.Context, funcName string) HostContext {
	job, _ := wasmcontext.JobFrom(ctx)
	return &hostContext{
		Context:  ctx,
		funcName: funcName,
		job:      job,
		values:   make(map[any]any),
	}
}

func (c *hostContext) FunctionName() string {
	return c.funcName
}

func (c *hostContext) Job() entities.Job {
	return c.job
}

func (c *hostContext) SetValue(key, value any) {
	c.values[key] = value
}

func (c *hostContext) GetValue(key any) (any, bool) {
	v, ok := c.values[key]
	return v, ok
}

// HostContextFrom returns ctx if it already is a HostContext, or wraps it.
func HostContextFrom(ctx context.Context, funcName string) HostContext {
	if hc, ok := ctx.(HostContext); ok {
		return hc
	}
	return NewHostContext(ctx, funcName)
}
