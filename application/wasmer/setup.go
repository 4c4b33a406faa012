package wasmer

import (
	"context"

	"github.com/reglet-dev/wasmer-pipeline/domain/entities"
)

// SetupWasmer installs the Wasmer CLI into $HOME/.wasmer. It does nothing when
// WASMER_DIR is already set.
func (s *Service) SetupWasmer(ctx context.Context) error {
	dir, err := s.env(ctx, entities.EnvWasmerDir)
	if err != nil {
		return err
	}
	if dir != "" {
		return nil
	}

	path, err := s.env(ctx, entities.EnvPath)
	if err != nil {
		return err
	}
	home, err := s.env(ctx, entities.EnvHome)
	if err != nil {
		return err
	}

	wasmerDir := home + "/.wasmer"
	err = s.setEnvs(ctx,
		entities.EnvVar{Name: entities.EnvWasmerDir, Value: wasmerDir},
		entities.EnvVar{Name: entities.EnvWasmerCacheDir, Value: wasmerDir + "/cache"},
		entities.EnvVar{Name: entities.EnvPath, Value: wasmerDir + "/bin:" + path},
	)
	if err != nil {
		return err
	}

	chain := s.chain("setup").
		WithPackages("curl").
		WithExec("curl " + entities.WasmerInstallerURL + " -sSfL | sh")
	_, err = s.stdout(ctx, chain)
	return err
}

// Setup installs the WASIX toolchain and the Wasmer CLI.
func (s *Service) Setup(ctx context.Context) (string, error) {
	if err := s.SetupWasix(ctx); err != nil {
		return "", err
	}
	if err := s.SetupWasmer(ctx); err != nil {
		return "", err
	}
	return "Setup complete", nil
}
