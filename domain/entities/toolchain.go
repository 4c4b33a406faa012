package entities

// Pinned toolchain releases.
const (
	// DefaultCargoWasixVersion is used when CARGO_WASIX_VERSION is unset or empty.
	DefaultCargoWasixVersion = "v0.1.23"

	// WasixRustRelease is the wasix-org/rust release providing the toolchain and libc.
	WasixRustRelease = "v2023-11-01.1"

	// RustPipelineModule is the pipeline module whose setup installs rustup.
	RustPipelineModule = "https://pkg.fluentci.io/rust_pipeline@v0.10.2?wasm=1"

	// WasmerInstallerURL serves the Wasmer CLI install script.
	WasmerInstallerURL = "https://get.wasmer.io"
)

// Environment variables read or written by the pipeline.
const (
	EnvCargoWasixVersion = "CARGO_WASIX_VERSION"
	EnvWasmerDir         = "WASMER_DIR"
	EnvWasmerCacheDir    = "WASMER_CACHE_DIR"
	EnvWasmerToken       = "WASMER_TOKEN"
	EnvPath              = "PATH"
	EnvHome              = "HOME"
)

// Toolchain describes a WASIX toolchain installation for a single target.
type Toolchain struct {
	// CargoWasixVersion is the cargo-wasix release tag.
	CargoWasixVersion string `json:"cargo_wasix_version"`

	// Release is the wasix-org/rust release tag.
	Release string `json:"release"`

	// Triple is the host target triple.
	Triple string `json:"triple"`
}

// NewToolchain returns the toolchain for a triple, defaulting the cargo-wasix version.
func NewToolchain(triple, cargoWasixVersion string) Toolchain {
	if cargoWasixVersion == "" {
		cargoWasixVersion = DefaultCargoWasixVersion
	}
	return Toolchain{
		CargoWasixVersion: cargoWasixVersion,
		Release:           WasixRustRelease,
		Triple:            triple,
	}
}
