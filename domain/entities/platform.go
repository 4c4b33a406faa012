package entities

import "fmt"

// Host operating system names as reported by the pipeline host.
const (
	OSLinux = "linux"
	OSMacOS = "macos"
)

// Host architecture names as reported by the pipeline host.
const (
	ArchX86_64  = "x86_64"
	ArchAarch64 = "aarch64"
)

// Platform identifies the machine the pipeline host is running on.
type Platform struct {
	OS   string `json:"os"`
	Arch string `json:"arch"`
}

// String returns the platform in os/arch form.
func (p Platform) String() string {
	return p.OS + "/" + p.Arch
}

// targetTriples maps supported platforms to Rust target triples.
var targetTriples = map[string]map[string]string{
	OSLinux: {
		ArchX86_64: "x86_64-unknown-linux-gnu",
	},
	OSMacOS: {
		ArchX86_64:  "x86_64-apple-darwin",
		ArchAarch64: "aarch64-apple-darwin",
	},
}

// UnsupportedPlatformError is returned when no toolchain release exists for a platform.
type UnsupportedPlatformError struct {
	Platform Platform
	// Reason is either "Unsupported OS" or "Unsupported architecture".
	Reason string
}

func (e *UnsupportedPlatformError) Error() string {
	return fmt.Sprintf("%s: %s", e.Reason, e.Platform)
}

// TargetTriple resolves the Rust target triple for a platform.
func TargetTriple(p Platform) (string, error) {
	arches, ok := targetTriples[p.OS]
	if !ok {
		return "", &UnsupportedPlatformError{Platform: p, Reason: "Unsupported OS"}
	}
	triple, ok := arches[p.Arch]
	if !ok {
		return "", &UnsupportedPlatformError{Platform: p, Reason: "Unsupported architecture"}
	}
	return triple, nil
}
