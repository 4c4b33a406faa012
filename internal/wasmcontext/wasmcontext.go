// Package wasmcontext carries a context.Context across the plugin boundary.
// The guest keeps the context of the running export in a package variable,
// and host calls ship its deadline and job name as entities.ContextWire.
package wasmcontext

import (
	stdcontext "context"
	"sync"
	"time"

	"github.com/reglet-dev/wasmer-pipeline/domain/entities"
)

type contextKey string

const (
	// RequestIDKey is the context key for request ID.
	RequestIDKey contextKey = "request_id"

	// JobKey is the context key for the running job.
	JobKey contextKey = "job"
)

// contextStore holds the context of the export currently running in the guest.
// WASM is single-threaded, so one slot is enough.
var contextStore = struct {
	ctx stdcontext.Context
	sync.RWMutex
}{
	ctx: stdcontext.Background(),
}

// SetCurrentContext sets the current execution context.
func SetCurrentContext(ctx stdcontext.Context) {
	contextStore.Lock()
	defer contextStore.Unlock()
	contextStore.ctx = ctx
}

// GetCurrentContext returns the current execution context, or context.Background().
func GetCurrentContext() stdcontext.Context {
	contextStore.RLock()
	defer contextStore.RUnlock()
	if contextStore.ctx == nil {
		return stdcontext.Background()
	}
	return contextStore.ctx
}

// ResetContext resets the current context to background. Call it via defer
// once an export returns.
func ResetContext() {
	SetCurrentContext(stdcontext.Background())
}

// WithJob tags ctx with the running job.
func WithJob(ctx stdcontext.Context, job entities.Job) stdcontext.Context {
	return stdcontext.WithValue(ctx, JobKey, job)
}

// JobFrom returns the job ctx was tagged with.
func JobFrom(ctx stdcontext.Context) (entities.Job, bool) {
	job, ok := ctx.Value(JobKey).(entities.Job)
	return job, ok
}

// ContextToWire extracts the deadline, cancellation, request ID and job of ctx.
func ContextToWire(ctx stdcontext.Context) entities.ContextWire {
	wire := entities.ContextWire{}

	if deadline, ok := ctx.Deadline(); ok {
		wire.Deadline = &deadline
		if timeout := time.Until(deadline); timeout > 0 {
			wire.TimeoutMs = timeout.Milliseconds()
		}
	}

	select {
	case <-ctx.Done():
		wire.Canceled = true
	default:
	}

	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		wire.RequestID = id
	}
	if job, ok := JobFrom(ctx); ok {
		wire.Job = job
	}
	return wire
}

// WireToContext rebuilds a context from wire on top of parent.
// If parent is nil, context.Background() is used.
func WireToContext(parent stdcontext.Context, wire entities.ContextWire) (stdcontext.Context, stdcontext.CancelFunc) {
	if parent == nil {
		parent = stdcontext.Background()
	}

	ctx := parent
	var cancel stdcontext.CancelFunc
	switch {
	case wire.Deadline != nil:
		ctx, cancel = stdcontext.WithDeadline(ctx, *wire.Deadline)
	case wire.TimeoutMs > 0:
		ctx, cancel = stdcontext.WithTimeout(ctx, time.Duration(wire.TimeoutMs)*time.Millisecond)
	default:
		ctx, cancel = stdcontext.WithCancel(ctx)
	}

	if wire.RequestID != "" {
		ctx = stdcontext.WithValue(ctx, RequestIDKey, wire.RequestID)
	}
	if wire.Job != "" {
		ctx = WithJob(ctx, wire.Job)
	}
	if wire.Canceled {
		cancel()
	}
	return ctx, cancel
}
