//go:build !wasip1

package wasm

import (
	"context"
	"testing"

	"github.com/reglet-dev/wasmer-pipeline/domain/ports"
	"github.com/stretchr/testify/assert"
)

func TestNativeStubsPanic(t *testing.T) {
	ctx := context.Background()
	h := NewHostAdapter()

	assert.PanicsWithValue(t, "WASM exec adapter"+nativeHint, func() {
		_, _ = h.Run(ctx, ports.CommandRequest{Command: "sh"})
	})
	assert.Panics(t, func() { _, _ = h.Platform(ctx) })
	assert.Panics(t, func() { _, _, _ = h.GetEnv(ctx, "HOME") })
	assert.Panics(t, func() { _ = h.SetEnvs(ctx, nil) })
	assert.Panics(t, func() { _, _ = h.Call(ctx, "rust_pipeline", "setup", nil) })
}
