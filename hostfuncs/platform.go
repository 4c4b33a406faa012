package hostfuncs

import (
	"runtime"

	"github.com/reglet-dev/wasmer-pipeline/domain/entities"
)

var (
	osNames = map[string]string{
		"darwin": entities.OSMacOS,
	}
	archNames = map[string]string{
		"amd64": entities.ArchX86_64,
		"arm64": entities.ArchAarch64,
	}
)

// PlatformFor translates Go's GOOS/GOARCH names into the pipeline vocabulary.
// Unknown names pass through unchanged.
func PlatformFor(goos, goarch string) entities.Platform {
	p := entities.Platform{OS: goos, Arch: goarch}
	if name, ok := osNames[goos]; ok {
		p.OS = name
	}
	if name, ok := archNames[goarch]; ok {
		p.Arch = name
	}
	return p
}

// DetectPlatform returns the platform the host is running on.
func DetectPlatform() entities.Platform {
	return PlatformFor(runtime.GOOS, runtime.GOARCH)
}

// PerformGetPlatform answers a get_platform call.
func PerformGetPlatform(p entities.Platform) entities.PlatformResponse {
	return entities.PlatformResponse{Platform: p}
}
