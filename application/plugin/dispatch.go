package plugin

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/reglet-dev/wasmer-pipeline/domain/entities"
	domainerrors "github.com/reglet-dev/wasmer-pipeline/domain/errors"
	"github.com/reglet-dev/wasmer-pipeline/internal/wasmcontext"
)

// Dispatch decodes input as a JobRequest and runs job on p. It never panics:
// a bad request, a missing plugin or a panic all become error Results.
func Dispatch(p Plugin, job entities.Job, input []byte) (result entities.Result) {
	defer func() {
		if r := recover(); r != nil {
			detail := &entities.ErrorDetail{
				Message: fmt.Sprintf("plugin panic: %v", r),
				Type:    "panic",
				Stack:   debug.Stack(),
			}
			slog.Error("plugin: panic recovered", "job", job, "error", detail.Message)
			result = entities.ResultError(job, detail)
		}
	}()

	if p == nil {
		return entities.ResultError(job, entities.NewErrorDetail("internal", "plugin not registered"))
	}

	var req entities.JobRequest
	if len(input) > 0 {
		if err := json.Unmarshal(input, &req); err != nil {
			werr := &domainerrors.WireFormatError{Operation: "decode", Type: "job request", Err: err}
			return entities.ResultError(job, domainerrors.ToErrorDetail(werr))
		}
	}

	ctx, cancel := wasmcontext.WireToContext(context.Background(), req.Context)
	defer cancel()
	ctx = wasmcontext.WithJob(ctx, job)

	wasmcontext.SetCurrentContext(ctx)
	defer wasmcontext.ResetContext()

	result = p.Run(ctx, job, req)
	if result.Job == "" {
		result.Job = job
	}
	if result.Timestamp.IsZero() {
		result.Timestamp = time.Now()
	}
	return result
}

// encodeResult marshals result, falling back to a generic error Result.
func encodeResult(result entities.Result) []byte {
	data, err := json.Marshal(result)
	if err != nil {
		slog.Error("plugin: failed to marshal result", "job", result.Job, "error", err)
		data, _ = json.Marshal(entities.ResultError(result.Job,
			entities.NewErrorDetail("internal", "failed to marshal result: "+err.Error())))
	}
	return data
}

// schemaOf returns p's schema, or a JSON error Result when it cannot be produced.
func schemaOf(p Plugin) []byte {
	if p == nil {
		return encodeResult(entities.ResultError("", entities.NewErrorDetail("internal", "plugin not registered")))
	}
	data, err := p.Schema(wasmcontext.GetCurrentContext())
	if err != nil {
		return encodeResult(entities.ResultError("", domainerrors.ToErrorDetail(err)))
	}
	return data
}
