package wazero

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/reglet-dev/wasmer-pipeline/domain/entities"
	"github.com/reglet-dev/wasmer-pipeline/hostfuncs"
	"github.com/reglet-dev/wasmer-pipeline/internal/abi"
	pipelinelog "github.com/reglet-dev/wasmer-pipeline/log"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

// AdapterConfig holds configuration for the wazero adapter.
type AdapterConfig struct {
	// Logger receives plugin log records and adapter errors. Default is slog.Default().
	Logger *slog.Logger

	// ModuleName is the host module name (default: hostfuncs.HostModuleName).
	ModuleName string

	// CustomHandlers are exported next to the registry handlers.
	CustomHandlers []CustomHandler

	// MaxRequestSize limits the size of incoming requests from guest memory.
	MaxRequestSize uint32
}

// CustomHandler is a host function that does not use the packed
// request/response convention, such as log_message which returns nothing.
type CustomHandler struct {
	Name        string
	Handler     api.GoModuleFunc
	ParamTypes  []api.ValueType
	ResultTypes []api.ValueType
}

// AdapterOption configures the adapter.
type AdapterOption func(*AdapterConfig)

// WithModuleName sets the host module name.
func WithModuleName(name string) AdapterOption {
	return func(c *AdapterConfig) {
		c.ModuleName = name
	}
}

// WithMaxRequestSize sets the maximum request size read from guest memory.
func WithMaxRequestSize(size uint32) AdapterOption {
	return func(c *AdapterConfig) {
		c.MaxRequestSize = size
	}
}

// WithCustomHandler adds a custom wazero handler.
func WithCustomHandler(h CustomHandler) AdapterOption {
	return func(c *AdapterConfig) {
		c.CustomHandlers = append(c.CustomHandlers, h)
	}
}

// WithLogger sets the logger used for plugin log records.
func WithLogger(logger *slog.Logger) AdapterOption {
	return func(c *AdapterConfig) {
		if logger != nil {
			c.Logger = logger
		}
	}
}

func defaultAdapterConfig() AdapterConfig {
	return AdapterConfig{
		Logger:         slog.Default(),
		ModuleName:     hostfuncs.HostModuleName,
		MaxRequestSize: hostfuncs.DefaultMaxRequestSize,
	}
}

// RegisterWithRuntime instantiates a host module exporting every handler in
// registry plus log_message. Registry handlers take and return a packed i64;
// responses are written into memory obtained from the guest's allocate export.
func RegisterWithRuntime(ctx context.Context, runtime wazero.Runtime, registry *hostfuncs.HandlerRegistry, opts ...AdapterOption) error {
	cfg := defaultAdapterConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	builder := runtime.NewHostModuleBuilder(cfg.ModuleName)

	for _, name := range registry.Names() {
		builder.NewFunctionBuilder().
			WithGoModuleFunction(api.GoModuleFunc(func(ctx context.Context, mod api.Module, stack []uint64) {
				handleRegistryCall(ctx, mod, stack, registry, name, cfg)
			}), []api.ValueType{api.ValueTypeI64}, []api.ValueType{api.ValueTypeI64}).
			Export(name)
	}

	handlers := append([]CustomHandler{LogMessageHandler(cfg.Logger)}, cfg.CustomHandlers...)
	for _, ch := range handlers {
		if registry.Has(ch.Name) {
			return fmt.Errorf("custom handler %q conflicts with a registry handler", ch.Name)
		}
		builder.NewFunctionBuilder().
			WithGoModuleFunction(ch.Handler, ch.ParamTypes, ch.ResultTypes).
			Export(ch.Name)
	}

	if _, err := builder.Instantiate(ctx); err != nil {
		return fmt.Errorf("failed to instantiate %s: %w", cfg.ModuleName, err)
	}
	return nil
}

func handleRegistryCall(ctx context.Context, mod api.Module, stack []uint64, registry *hostfuncs.HandlerRegistry, name string, cfg AdapterConfig) {
	ctx = WithPluginName(ctx, GetPluginName(ctx, mod))

	request, errResp := readRequest(mod, stack[0], cfg.MaxRequestSize)
	if errResp != nil {
		cfg.Logger.ErrorContext(ctx, "wazero: rejected request", "function", name, "error", errResp.Error.Message)
		stack[0] = writeResponse(ctx, cfg.Logger, mod, errResp.ToJSON())
		return
	}

	response, err := registry.Invoke(ctx, name, request)
	if err != nil {
		cfg.Logger.ErrorContext(ctx, "wazero: handler invocation failed", "function", name, "error", err)
		stack[0] = writeResponse(ctx, cfg.Logger, mod, hostfuncs.NewInternalError(err.Error()).ToJSON())
		return
	}

	stack[0] = writeResponse(ctx, cfg.Logger, mod, response)
}

// readRequest copies the packed payload out of guest memory.
func readRequest(mod api.Module, packed uint64, limit uint32) ([]byte, *hostfuncs.ErrorResponse) {
	ptr, length := unpack(packed)
	if length > limit {
		resp := hostfuncs.NewValidationError(fmt.Sprintf("request size %d exceeds maximum %d bytes", length, limit))
		return nil, &resp
	}
	if length == 0 {
		return nil, nil
	}
	data, ok := mod.Memory().Read(ptr, length)
	if !ok {
		resp := hostfuncs.NewInternalError("failed to read request from guest memory")
		return nil, &resp
	}
	// Memory.Read returns a view; the guest may free it once the call returns.
	return append([]byte(nil), data...), nil
}

// writeResponse allocates guest memory and copies data into it.
// Returns packed ptr+len, or 0 when the guest cannot receive it.
func writeResponse(ctx context.Context, logger *slog.Logger, mod api.Module, data []byte) uint64 {
	allocate := mod.ExportedFunction("allocate")
	if allocate == nil {
		logger.ErrorContext(ctx, "wazero: guest module missing 'allocate' export")
		return 0
	}

	results, err := allocate.Call(ctx, uint64(len(data)))
	if err != nil {
		logger.ErrorContext(ctx, "wazero: failed to call guest allocate", "error", err)
		return 0
	}
	ptr := uint32(results[0]) //nolint:gosec // G115: WASM32 pointers are always 32-bit

	if !mod.Memory().Write(ptr, data) {
		logger.ErrorContext(ctx, "wazero: failed to write response to guest memory")
		return 0
	}
	return abi.PackPtrLen(ptr, uint32(len(data))) //nolint:gosec // G115: bounded by guest memory
}

// LogMessageHandler decodes plugin log records and re-emits them through logger,
// tagged with the plugin name.
func LogMessageHandler(logger *slog.Logger) CustomHandler {
	return CustomHandler{
		Name: hostfuncs.FuncLogMessage,
		Handler: api.GoModuleFunc(func(ctx context.Context, mod api.Module, stack []uint64) {
			ptr, length := unpack(stack[0])
			data, ok := mod.Memory().Read(ptr, length)
			if !ok {
				logger.WarnContext(ctx, "wazero: failed to read log message from guest memory")
				return
			}

			var msg entities.LogMessage
			if err := json.Unmarshal(data, &msg); err != nil {
				logger.WarnContext(ctx, "wazero: malformed log message", "error", err)
				return
			}

			record := pipelinelog.RecordFromMessage(msg)
			record.AddAttrs(slog.String("plugin", GetPluginName(ctx, mod)))
			if logger.Handler().Enabled(ctx, record.Level) {
				_ = logger.Handler().Handle(ctx, record)
			}
		}),
		ParamTypes:  []api.ValueType{api.ValueTypeI64},
		ResultTypes: []api.ValueType{},
	}
}

// unpack splits a packed value without the null-pointer check in abi, which
// would panic inside the runtime on a malformed guest call.
func unpack(packed uint64) (ptr, length uint32) {
	return uint32(packed >> abi.PtrHighBits), uint32(packed) //nolint:gosec // G115: packed halves are 32-bit
}
