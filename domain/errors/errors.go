// Package errors provides domain-specific error types for the pipeline.
// All error types support error unwrapping via errors.As() and errors.Is().
package errors

import (
	stdErrors "errors"
	"fmt"
	"time"

	"github.com/reglet-dev/wasmer-pipeline/domain/entities"
)

// DetailedError is implemented by error types that can convert themselves
// to a structured ErrorDetail.
type DetailedError interface {
	error
	ToErrorDetail() *entities.ErrorDetail
}

// ToErrorDetail converts a Go error to a structured ErrorDetail.
func ToErrorDetail(err error) *entities.ErrorDetail {
	if err == nil {
		return nil
	}

	var e *entities.ErrorDetail
	if stdErrors.As(err, &e) {
		return e
	}

	var de DetailedError
	if stdErrors.As(err, &de) {
		return de.ToErrorDetail()
	}

	var pe *entities.UnsupportedPlatformError
	if stdErrors.As(err, &pe) {
		return &entities.ErrorDetail{Message: err.Error(), Type: "platform", Code: pe.Platform.String()}
	}

	return &entities.ErrorDetail{
		Message: err.Error(),
		Type:    "internal",
	}
}

// IsCommandFailure reports whether err was caused by a command that ran and failed,
// as opposed to a job that could not start.
func IsCommandFailure(err error) bool {
	var execErr *ExecError
	if stdErrors.As(err, &execErr) {
		return execErr.Err == nil
	}
	var timeoutErr *TimeoutError
	return stdErrors.As(err, &timeoutErr)
}

// TimeoutError represents a command that exceeded its deadline.
type TimeoutError struct {
	Operation string
	Target    string
	Duration  time.Duration
}

func (e *TimeoutError) Error() string {
	if e.Target != "" {
		return fmt.Sprintf("%s timeout after %v (target: %s)", e.Operation, e.Duration, e.Target)
	}
	return fmt.Sprintf("%s timeout after %v", e.Operation, e.Duration)
}

func (e *TimeoutError) Timeout() bool {
	return true
}

// ToErrorDetail implements DetailedError.
func (e *TimeoutError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "timeout", Code: e.Operation, IsTimeout: true}
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Err   error
	Field string
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config validation failed for field '%s': %v", e.Field, e.Err)
	}
	return fmt.Sprintf("config validation failed: %v", e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *ConfigError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "config", Code: e.Field}
}

// ExecError represents a command execution error.
// Err is set when the command could not be started; otherwise ExitCode holds the failure.
type ExecError struct {
	Err      error
	Pipeline string
	Command  string
	Stderr   string
	ExitCode int
}

func (e *ExecError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to execute '%s': %v", e.Command, e.Err)
	}
	if e.Stderr != "" {
		return fmt.Sprintf("command '%s' exited with code %d: %s", e.Command, e.ExitCode, e.Stderr)
	}
	return fmt.Sprintf("command '%s' exited with code %d", e.Command, e.ExitCode)
}

func (e *ExecError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *ExecError) ToErrorDetail() *entities.ErrorDetail {
	detail := &entities.ErrorDetail{Message: e.Error(), Type: "exec", Code: fmt.Sprintf("exit_%d", e.ExitCode)}
	if e.Pipeline != "" {
		detail.Details = map[string]any{"pipeline": e.Pipeline}
	}
	return detail
}

// MissingToolError is returned when a pipeline requires a tool the host does not provide.
type MissingToolError struct {
	Pipeline string
	Tool     string
}

func (e *MissingToolError) Error() string {
	return fmt.Sprintf("pipeline %s requires %q but it was not found on the host PATH", e.Pipeline, e.Tool)
}

// ToErrorDetail implements DetailedError.
func (e *MissingToolError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "exec", Code: "missing_" + e.Tool}
}

// ErrMissingToken is returned by deploy when no Wasmer token is available.
//
//nolint:staticcheck // ST1005: user-facing message
var ErrMissingToken = stdErrors.New("Missing Wasmer token. Please provide a secret or set the WASMER_TOKEN environment variable.")

// TokenError wraps a token resolution failure.
type TokenError struct {
	Err error
}

func (e *TokenError) Error() string {
	return e.Err.Error()
}

func (e *TokenError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *TokenError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "token", Code: entities.EnvWasmerToken}
}

// JobNotFoundError is returned when a job name is not registered.
type JobNotFoundError struct {
	Name string
}

func (e *JobNotFoundError) Error() string {
	return fmt.Sprintf("Job %s not found", e.Name)
}

// ToErrorDetail implements DetailedError.
func (e *JobNotFoundError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "job", Code: "not_found", Details: map[string]any{"job": e.Name}}
}

// ModuleCallError represents a failure calling another pipeline module.
type ModuleCallError struct {
	Err      error
	Module   string
	Function string
}

func (e *ModuleCallError) Error() string {
	return fmt.Sprintf("call %s.%s failed: %v", e.Module, e.Function, e.Err)
}

func (e *ModuleCallError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *ModuleCallError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{
		Message: e.Error(),
		Type:    "module",
		Code:    e.Function,
		Wrapped: ToErrorDetail(e.Err),
	}
}

// WireFormatError represents a wire format encoding/decoding error.
type WireFormatError struct {
	Err       error
	Operation string
	Type      string
}

func (e *WireFormatError) Error() string {
	return fmt.Sprintf("wire format %s failed for %s: %v", e.Operation, e.Type, e.Err)
}

func (e *WireFormatError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *WireFormatError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "internal", Code: "wire_format"}
}
