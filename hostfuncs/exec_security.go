package hostfuncs

import (
	"context"
	"log/slog"
	"slices"
	"strings"
)

// Environment variable security tiers.
// Tier 1: Always blocked, nothing can set them (linker and shell injection vectors).
// Tier 2: Gated, only set when the host grants the name explicitly.
var (
	alwaysBlockedEnvPrefixes = []string{
		"LD_",   // Linux dynamic linker (LD_PRELOAD, LD_LIBRARY_PATH, LD_AUDIT, etc.)
		"DYLD_", // macOS dynamic linker (DYLD_INSERT_LIBRARIES, etc.)
	}

	alwaysBlockedEnvExact = []string{
		"IFS",      // Shell internal field separator
		"LOCPATH",  // Custom locale path
		"BASH_ENV", // Executed by non-interactive bash shells
		"ENV",      // Executed by POSIX sh
	}

	gatedEnv = []string{
		"PATH",
		"HOME",
		"CDPATH",
		"PS4",
		"RUSTUP_HOME",
		"CARGO_HOME",
	}
)

// EnvGrant reports whether a gated variable may be set.
type EnvGrant func(name string) bool

// GrantEnv returns an EnvGrant allowing exactly names.
func GrantEnv(names ...string) EnvGrant {
	upper := make([]string, len(names))
	for i, n := range names {
		upper[i] = strings.ToUpper(n)
	}
	return func(name string) bool {
		return slices.Contains(upper, strings.ToUpper(name))
	}
}

// IsAlwaysBlockedEnv checks if an environment variable key is always blocked.
func IsAlwaysBlockedEnv(upperKey string) bool {
	for _, prefix := range alwaysBlockedEnvPrefixes {
		if strings.HasPrefix(upperKey, prefix) {
			return true
		}
	}
	return slices.Contains(alwaysBlockedEnvExact, upperKey)
}

// IsGatedEnv checks if an environment variable key needs a grant.
func IsGatedEnv(upperKey string) bool {
	return slices.Contains(gatedEnv, upperKey)
}

// CheckEnv returns a non-empty reason when name may not be set.
func CheckEnv(name string, grant EnvGrant) string {
	if name == "" || strings.ContainsAny(name, "= \t\n") {
		return "invalid name"
	}
	upper := strings.ToUpper(name)
	if IsAlwaysBlockedEnv(upper) {
		return "always_blocked"
	}
	if IsGatedEnv(upper) && (grant == nil || !grant(upper)) {
		return "not_granted"
	}
	return ""
}

// SanitizeEnv drops KEY=VALUE entries that fail CheckEnv. Malformed entries are dropped too.
func SanitizeEnv(ctx context.Context, env []string, grant EnvGrant) []string {
	if len(env) == 0 {
		return env
	}

	sanitized := make([]string, 0, len(env))
	for _, e := range env {
		key, _, found := strings.Cut(e, "=")
		if !found {
			slog.WarnContext(ctx, "malformed environment variable skipped", "env", e)
			continue
		}
		if reason := CheckEnv(key, grant); reason != "" {
			slog.WarnContext(ctx, "blocked environment variable", "env_var", key, "reason", reason)
			continue
		}
		sanitized = append(sanitized, e)
	}
	return sanitized
}
