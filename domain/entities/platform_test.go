package entities

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTargetTriple(t *testing.T) {
	tests := []struct {
		name     string
		platform Platform
		want     string
		reason   string
	}{
		{"linux x86_64", Platform{OS: OSLinux, Arch: ArchX86_64}, "x86_64-unknown-linux-gnu", ""},
		{"macos x86_64", Platform{OS: OSMacOS, Arch: ArchX86_64}, "x86_64-apple-darwin", ""},
		{"macos aarch64", Platform{OS: OSMacOS, Arch: ArchAarch64}, "aarch64-apple-darwin", ""},
		{"linux aarch64", Platform{OS: OSLinux, Arch: ArchAarch64}, "", "Unsupported architecture"},
		{"macos riscv", Platform{OS: OSMacOS, Arch: "riscv64"}, "", "Unsupported architecture"},
		{"windows", Platform{OS: "windows", Arch: ArchX86_64}, "", "Unsupported OS"},
		{"empty", Platform{}, "", "Unsupported OS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TargetTriple(tt.platform)
			if tt.reason == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
				return
			}

			require.Error(t, err)
			assert.Empty(t, got)
			var pErr *UnsupportedPlatformError
			require.True(t, errors.As(err, &pErr))
			assert.Equal(t, tt.reason, pErr.Reason)
			assert.Equal(t, tt.platform, pErr.Platform)
		})
	}
}

func TestPlatform_String(t *testing.T) {
	assert.Equal(t, "macos/aarch64", Platform{OS: OSMacOS, Arch: ArchAarch64}.String())
}

func TestNewToolchain_DefaultsVersion(t *testing.T) {
	tc := NewToolchain("x86_64-unknown-linux-gnu", "")
	assert.Equal(t, DefaultCargoWasixVersion, tc.CargoWasixVersion)
	assert.Equal(t, WasixRustRelease, tc.Release)

	tc = NewToolchain("x86_64-unknown-linux-gnu", "v0.1.22")
	assert.Equal(t, "v0.1.22", tc.CargoWasixVersion)
}
