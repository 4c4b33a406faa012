//go:build !wasip1

package log

import (
	"context"
	"log/slog"
)

// Handle writes the record as text to the configured output.
func (h *WasmLogHandler) Handle(ctx context.Context, record slog.Record) error {
	return h.native.Handle(ctx, record)
}
