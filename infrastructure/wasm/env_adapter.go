//go:build wasip1

package wasm

import (
	"context"

	"github.com/reglet-dev/wasmer-pipeline/domain/entities"
	"github.com/reglet-dev/wasmer-pipeline/domain/ports"
)

var _ ports.Environment = (*EnvAdapter)(nil)

// EnvAdapter implements ports.Environment through get_env, set_envs and get_platform.
type EnvAdapter struct{}

// NewEnvAdapter creates a new EnvAdapter.
func NewEnvAdapter() *EnvAdapter {
	return &EnvAdapter{}
}

// Platform implements ports.Environment.
func (a *EnvAdapter) Platform(context.Context) (entities.Platform, error) {
	resp, err := call[entities.PlatformRequest, entities.PlatformResponse]("get_platform", host_get_platform, entities.PlatformRequest{})
	if err != nil {
		return entities.Platform{}, err
	}
	if resp.Error != nil {
		return entities.Platform{}, resp.Error
	}
	return resp.Platform, nil
}

// GetEnv implements ports.Environment.
func (a *EnvAdapter) GetEnv(_ context.Context, name string) (string, bool, error) {
	resp, err := call[entities.GetEnvRequest, entities.GetEnvResponse]("get_env", host_get_env, entities.GetEnvRequest{Name: name})
	if err != nil {
		return "", false, err
	}
	if resp.Error != nil {
		return "", false, resp.Error
	}
	return resp.Value, resp.Found, nil
}

// SetEnvs implements ports.Environment.
func (a *EnvAdapter) SetEnvs(_ context.Context, vars []entities.EnvVar) error {
	resp, err := call[entities.SetEnvsRequest, entities.SetEnvsResponse]("set_envs", host_set_envs, entities.SetEnvsRequest{Vars: vars})
	if err != nil {
		return err
	}
	if resp.Error != nil {
		return resp.Error
	}
	return nil
}
