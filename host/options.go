package host

import (
	"io"
	"log/slog"

	"github.com/reglet-dev/wasmer-pipeline/hostfuncs"
)

// Option defines a functional option for configuring the Executor.
type Option func(*Executor)

// WithHostFunctions exposes registry to plugins. Without it plugins get no host functions
// besides log_message.
func WithHostFunctions(registry *hostfuncs.HandlerRegistry) Option {
	return func(e *Executor) {
		e.registry = registry
	}
}

// WithLogger sets the logger receiving plugin log records.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Executor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithStdio connects the plugin's WASI stdout and stderr.
func WithStdio(stdout, stderr io.Writer) Option {
	return func(e *Executor) {
		e.stdout = stdout
		e.stderr = stderr
	}
}
