package hostfuncs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/reglet-dev/wasmer-pipeline/domain/entities"
	"github.com/reglet-dev/wasmer-pipeline/internal/wasmcontext"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPanicRecoveryMiddleware(t *testing.T) {
	panicHandler := func(ctx context.Context, payload []byte) ([]byte, error) {
		panic("test panic")
	}

	mw := PanicRecoveryMiddleware()
	wrapped := mw(panicHandler)

	// Should not panic, should return structured error
	resp, err := wrapped(context.Background(), []byte("{}"))
	require.NoError(t, err)
	require.NotNil(t, resp)

	var errResp ErrorResponse
	require.NoError(t, json.Unmarshal(resp, &errResp))
	assert.Equal(t, CodeInternal, errResp.Error.Code)
	assert.Equal(t, "panic: test panic", errResp.Error.Message)
}

func TestPanicRecoveryMiddleware_NoPanic(t *testing.T) {
	normalHandler := func(ctx context.Context, payload []byte) ([]byte, error) {
		return []byte(`{"result":"ok"}`), nil
	}

	mw := PanicRecoveryMiddleware()
	wrapped := mw(normalHandler)

	resp, err := wrapped(context.Background(), []byte("{}"))
	require.NoError(t, err)
	assert.Equal(t, `{"result":"ok"}`, string(resp))
}

func TestMiddlewareOrder_FIFO(t *testing.T) {
	var callOrder []string
	tracing := func(label string) Middleware {
		return func(next ByteHandler) ByteHandler {
			return func(ctx context.Context, payload []byte) ([]byte, error) {
				callOrder = append(callOrder, label+"-before")
				resp, err := next(ctx, payload)
				callOrder = append(callOrder, label+"-after")
				return resp, err
			}
		}
	}

	reg, _, _ := newTestPipelineRegistry(t, WithMiddleware(tracing("recover"), tracing("limit"), tracing("log")))

	resp := invoke[entities.PlatformResponse](t, reg, FuncGetPlatform, entities.PlatformRequest{})
	assert.Equal(t, linuxX86, resp.Platform)

	assert.Equal(t, []string{
		"recover-before", "limit-before", "log-before",
		"log-after", "limit-after", "recover-after",
	}, callOrder)
}

func TestMiddleware_AppliesToAllHandlers(t *testing.T) {
	var seen []string
	tracking := func(next ByteHandler) ByteHandler {
		return func(ctx context.Context, payload []byte) ([]byte, error) {
			if hc, ok := ctx.(HostContext); ok {
				seen = append(seen, hc.FunctionName())
			}
			// Short-circuit so no command or module actually runs.
			return []byte("{}"), nil
		}
	}

	reg, _, runner := newTestPipelineRegistry(t, WithMiddleware(tracking))
	for _, name := range reg.Names() {
		_, err := reg.Invoke(context.Background(), name, []byte("{}"))
		require.NoError(t, err)
	}

	assert.Equal(t, reg.Names(), seen)
	assert.Empty(t, runner.requests)
}

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	reg, _, _ := newTestPipelineRegistry(t, WithMiddleware(LoggingMiddleware(logger)))

	ctx := wasmcontext.WithJob(context.Background(), entities.JobDeploy)
	_, err := reg.Invoke(ctx, FuncGetPlatform, []byte("{}"))
	require.NoError(t, err)

	broken := LoggingMiddleware(logger)(func(context.Context, []byte) ([]byte, error) {
		return nil, errors.New("guest memory unavailable")
	})
	_, err = broken(NewHostContext(ctx, FuncExecCommand), nil)
	require.Error(t, err)

	out := buf.String()
	assert.Contains(t, out, `msg="host function completed" function=get_platform job=deploy`)
	assert.Contains(t, out, `level=ERROR msg="host function failed" function=exec_command job=deploy`)
	assert.Contains(t, out, `error="guest memory unavailable"`)
}

func TestRequestSizeMiddleware(t *testing.T) {
	reg, _, _ := newTestPipelineRegistry(t, WithMiddleware(RequestSizeMiddleware(32)))

	small := invoke[entities.GetEnvResponse](t, reg, FuncGetEnv, entities.GetEnvRequest{Name: "HOME"})
	assert.True(t, small.Found)
	assert.Equal(t, "/home/ci", small.Value)

	resp := invoke[ErrorResponse](t, reg, FuncGetEnv, entities.GetEnvRequest{Name: strings.Repeat("X", 40)})
	assert.Equal(t, CodeValidation, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "exceeds the 32 byte limit")
}
