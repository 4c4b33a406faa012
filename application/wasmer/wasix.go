package wasmer

import (
	"context"
	"log/slog"
	"strings"

	"github.com/reglet-dev/wasmer-pipeline/application/validation"
	"github.com/reglet-dev/wasmer-pipeline/domain/entities"
	domainerrors "github.com/reglet-dev/wasmer-pipeline/domain/errors"
)

const (
	cargoWasixMissing = "KO"
	cargoWasixProbe   = "type cargo-wasix > /dev/null 2>&1 || echo " + cargoWasixMissing
)

// Release locations and install paths. Every template is rendered with the
// keys Version, Release and Triple.
const (
	cargoWasixURL    = "https://github.com/wasix-org/cargo-wasix/releases/download/{{.Version}}/cargo-wasix-{{.Triple}}.tar.xz"
	rustToolchainURL = "https://github.com/wasix-org/rust/releases/download/{{.Release}}/rust-toolchain-{{.Triple}}.tar.gz"
	wasixLibcURL     = "https://github.com/wasix-org/rust/releases/download/{{.Release}}/wasix-libc.tar.gz"
	toolchainHome    = "$HOME/.local/share/cargo-wasix/{{.Triple}}_{{.Release}}"
)

// wasixSteps installs cargo-wasix and links the wasix toolchain with rustup.
var wasixSteps = []string{
	"wget " + cargoWasixURL,
	"tar -xvf cargo-wasix-{{.Triple}}.tar.xz",
	"mv cargo-wasix-{{.Triple}}/cargo-wasix $HOME/.cargo/bin",
	"rm -rf cargo-wasix-*",
	"wget " + rustToolchainURL,
	"mkdir rust-toolchain-{{.Triple}} && cd rust-toolchain-{{.Triple}} && tar -xvf ../rust-toolchain-{{.Triple}}.tar.gz",
	"wget " + wasixLibcURL,
	"mkdir wasix-libc && cd wasix-libc && tar -xvf ../wasix-libc.tar.gz",
	"mkdir -p " + toolchainHome,
	"mv rust-toolchain-{{.Triple}} " + toolchainHome + "/rust",
	"mv wasix-libc " + toolchainHome + "/wasix-libc",
	"rustup toolchain link wasix " + toolchainHome + "/rust",
	"chmod a+x " + toolchainHome + "/rust/bin/* " + toolchainHome + "/rust/lib/rustlib/{{.Triple}}/bin/*",
	"cp $HOME/.rustup/toolchains/stable-{{.Triple}}/bin/cargo $HOME/.rustup/toolchains/wasix/bin",
}

// SetupWasix installs the WASIX Rust toolchain unless cargo-wasix is already on the PATH.
func (s *Service) SetupWasix(ctx context.Context) error {
	if err := s.callRustSetup(ctx); err != nil {
		return err
	}

	probe, err := s.probe("setup").WithExec(cargoWasixProbe).Stdout(ctx)
	if err != nil {
		return err
	}
	if !strings.Contains(probe, cargoWasixMissing) {
		slog.InfoContext(ctx, "wasmer: cargo-wasix already installed")
		return nil
	}

	toolchain, err := s.toolchain(ctx)
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "wasmer: installing wasix toolchain",
		"cargo_wasix_version", toolchain.CargoWasixVersion,
		"release", toolchain.Release,
		"triple", toolchain.Triple)

	steps, err := s.WasixSteps(toolchain)
	if err != nil {
		return err
	}

	chain := s.chain("setup").WithPackages("curl", "wget", "tar")
	for _, step := range steps {
		chain.WithExec(step)
	}
	_, err = s.stdout(ctx, chain)
	return err
}

// WasixSteps renders the install commands for toolchain.
func (s *Service) WasixSteps(toolchain entities.Toolchain) ([]string, error) {
	data := map[string]any{
		"Version": toolchain.CargoWasixVersion,
		"Release": toolchain.Release,
		"Triple":  toolchain.Triple,
	}
	steps := make([]string, 0, len(wasixSteps))
	for _, raw := range wasixSteps {
		step, err := s.render(raw, data)
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}
	return steps, nil
}

// toolchain resolves the cargo-wasix version and the host target triple.
func (s *Service) toolchain(ctx context.Context) (entities.Toolchain, error) {
	version := s.config.job.CargoWasixVersion
	if version == "" {
		v, err := s.env(ctx, entities.EnvCargoWasixVersion)
		if err != nil {
			return entities.Toolchain{}, err
		}
		if err := validation.ValidateCargoWasixVersion(v); err != nil {
			return entities.Toolchain{}, err
		}
		version = v
	}

	platform, err := s.host.Platform(ctx)
	if err != nil {
		return entities.Toolchain{}, err
	}
	triple, err := entities.TargetTriple(platform)
	if err != nil {
		return entities.Toolchain{}, err
	}
	return entities.NewToolchain(triple, version), nil
}

// callRustSetup makes sure rustup is installed before the toolchain is linked.
func (s *Service) callRustSetup(ctx context.Context) error {
	if s.config.dryRun {
		s.plan.WriteString("## call " + entities.RustPipelineModule + " setup\n")
		return nil
	}
	if _, err := s.host.Call(ctx, entities.RustPipelineModule, "setup", nil); err != nil {
		return &domainerrors.ModuleCallError{Module: entities.RustPipelineModule, Function: "setup", Err: err}
	}
	return nil
}
