package hostfuncs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsAlwaysBlockedEnv(t *testing.T) {
	tests := []struct {
		envKey  string
		blocked bool
	}{
		{"LD_PRELOAD", true},
		{"LD_LIBRARY_PATH", true},
		{"DYLD_INSERT_LIBRARIES", true},
		{"IFS", true},
		{"LOCPATH", true},
		{"BASH_ENV", true},
		{"ENV", true},

		{"TERM", false},
		{"WASMER_DIR", false},
		{"PATH", false},
		{"HOME", false},
	}

	for _, tt := range tests {
		t.Run(tt.envKey, func(t *testing.T) {
			assert.Equal(t, tt.blocked, IsAlwaysBlockedEnv(tt.envKey))
		})
	}
}

func TestCheckEnv(t *testing.T) {
	grantPath := GrantEnv("path")

	tests := []struct {
		name   string
		key    string
		grant  EnvGrant
		reason string
	}{
		{"plain variable", "WASMER_CACHE_DIR", nil, ""},
		{"blocked prefix", "ld_preload", grantPath, "always_blocked"},
		{"gated without grant", "PATH", nil, "not_granted"},
		{"gated with grant", "PATH", grantPath, ""},
		{"other gated", "HOME", grantPath, "not_granted"},
		{"empty", "", nil, "invalid name"},
		{"contains equals", "A=B", nil, "invalid name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.reason, CheckEnv(tt.key, tt.grant))
		})
	}
}

func TestSanitizeEnv(t *testing.T) {
	env := []string{
		"WASMER_TOKEN=secret",
		"LD_PRELOAD=/tmp/evil.so",
		"PATH=/opt/bin",
		"HOME=/root",
		"malformed",
	}

	got := SanitizeEnv(context.Background(), env, GrantEnv("PATH"))
	assert.Equal(t, []string{"WASMER_TOKEN=secret", "PATH=/opt/bin"}, got)

	assert.Empty(t, SanitizeEnv(context.Background(), nil, nil))
}
