package ports

import (
	"context"

	"github.com/reglet-dev/wasmer-pipeline/domain/entities"
)

// Environment exposes the host's platform and environment variables.
// Variables set through SetEnvs are visible to every later command run by the same host.
type Environment interface {
	// Platform returns the host OS and architecture.
	Platform(ctx context.Context) (entities.Platform, error)

	// GetEnv returns the value of a variable and whether it is set.
	GetEnv(ctx context.Context, name string) (string, bool, error)

	// SetEnvs assigns variables in order. Values are stored literally.
	SetEnvs(ctx context.Context, vars []entities.EnvVar) error
}

// ModuleCaller invokes a function exported by another pipeline module.
type ModuleCaller interface {
	Call(ctx context.Context, module, function string, args []string) (string, error)
}

// Host is everything a pipeline plugin needs from the engine running it.
type Host interface {
	CommandRunner
	Environment
	ModuleCaller
}
