//go:build wasip1

package log

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/reglet-dev/wasmer-pipeline/internal/abi"
)

//go:wasmimport pipeline_host log_message
//nolint:revive // intentional snake_case to match WASM import convention
func host_log_message(messagePacked uint64)

// Handle serializes a slog.Record and sends it to the host.
func (h *WasmLogHandler) Handle(ctx context.Context, record slog.Record) error {
	data, err := json.Marshal(h.message(ctx, record))
	if err != nil {
		fmt.Fprintf(os.Stderr, "log: failed to marshal record for host: %v, original: %s\n", err, record.Message)
		return nil
	}
	host_log_message(abi.PtrFromBytes(data))
	return nil
}
