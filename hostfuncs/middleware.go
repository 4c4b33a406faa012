package hostfuncs

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Middleware wraps a ByteHandler. Middleware executes in FIFO order: the first
// registered wraps outermost.
type Middleware func(next ByteHandler) ByteHandler

// PanicRecoveryMiddleware converts a panicking handler into an ErrorResponse
// instead of crashing the host.
func PanicRecoveryMiddleware() Middleware {
	return func(next ByteHandler) ByteHandler {
		return func(ctx context.Context, payload []byte) (resp []byte, err error) {
			defer func() {
				if r := recover(); r != nil {
					slog.ErrorContext(ctx, "host function panicked", "function", functionName(ctx), "panic", r)
					resp = NewPanicError(r).ToJSON()
					err = nil
				}
			}()
			return next(ctx, payload)
		}
	}
}

// RequestSizeMiddleware rejects payloads larger than limit bytes.
func RequestSizeMiddleware(limit int) Middleware {
	return func(next ByteHandler) ByteHandler {
		return func(ctx context.Context, payload []byte) ([]byte, error) {
			if len(payload) > limit {
				msg := fmt.Sprintf("request of %d bytes exceeds the %d byte limit", len(payload), limit)
				return NewValidationError(msg).ToJSON(), nil
			}
			return next(ctx, payload)
		}
	}
}

// LoggingMiddleware logs every host function call at debug level, and failures at error level.
// A nil logger uses slog.Default().
func LoggingMiddleware(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next ByteHandler) ByteHandler {
		return func(ctx context.Context, payload []byte) ([]byte, error) {
			attrs := []any{"function", functionName(ctx)}
			if hc, ok := ctx.(HostContext); ok && hc.Job() != "" {
				attrs = append(attrs, "job", hc.Job())
			}

			start := time.Now()
			resp, err := next(ctx, payload)
			attrs = append(attrs, "duration", time.Since(start))

			if err != nil {
				logger.ErrorContext(ctx, "host function failed", append(attrs, "error", err)...)
				return resp, err
			}
			logger.DebugContext(ctx, "host function completed", attrs...)
			return resp, nil
		}
	}
}

func functionName(ctx context.Context) string {
	if hc, ok := ctx.(HostContext); ok {
		return hc.FunctionName()
	}
	return "unknown"
}
