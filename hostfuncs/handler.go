package hostfuncs

import (
	"context"
	"encoding/json"
)

// HostFunc is a typed host function.
type HostFunc[Req any, Resp any] func(context.Context, Req) Resp

// ByteHandler accepts a JSON request and returns a JSON response.
// This is the shape the WASM runtime adapter dispatches to.
type ByteHandler func(context.Context, []byte) ([]byte, error)

// NewJSONHandler wraps a typed HostFunc into a ByteHandler.
// A request that does not decode yields a validation ErrorResponse, never a Go error,
// so a malformed guest call cannot trap the plugin.
func NewJSONHandler[Req any, Resp any](fn HostFunc[Req, Resp]) ByteHandler {
	return func(ctx context.Context, payload []byte) ([]byte, error) {
		var req Req
		if err := json.Unmarshal(payload, &req); err != nil {
			return NewValidationError("failed to unmarshal request: " + err.Error()).ToJSON(), nil
		}

		resp := fn(ctx, req)

		respBytes, err := json.Marshal(resp)
		if err != nil {
			return NewInternalError("failed to marshal response: " + err.Error()).ToJSON(), nil
		}
		return respBytes, nil
	}
}
