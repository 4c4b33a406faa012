// Package log provides the slog handler used inside the plugin. Records are
// serialized and forwarded to the host's log_message import; native builds
// write text to stderr instead.
package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/reglet-dev/wasmer-pipeline/domain/entities"
	"github.com/reglet-dev/wasmer-pipeline/internal/wasmcontext"
)

// WasmLogHandler implements slog.Handler by forwarding records to the host.
type WasmLogHandler struct {
	opts   handlerConfig
	attrs  []entities.LogAttr
	group  string
	native slog.Handler
}

// HandlerOption configures the WasmLogHandler.
type HandlerOption func(*handlerConfig)

type handlerConfig struct {
	out       io.Writer
	level     slog.Leveler
	addSource bool
}

func defaultHandlerConfig() handlerConfig {
	return handlerConfig{
		out:   os.Stderr,
		level: slog.LevelInfo,
	}
}

// WithLevel sets the minimum log level. Records below it are dropped in the guest.
func WithLevel(level slog.Leveler) HandlerOption {
	return func(c *handlerConfig) {
		c.level = level
	}
}

// WithSource enables reporting of source location (file/line).
func WithSource(enabled bool) HandlerOption {
	return func(c *handlerConfig) {
		c.addSource = enabled
	}
}

// WithOutput sets where native builds write. Ignored inside the plugin.
func WithOutput(w io.Writer) HandlerOption {
	return func(c *handlerConfig) {
		c.out = w
	}
}

// NewHandler creates a new WasmLogHandler with the given options.
func NewHandler(opts ...HandlerOption) *WasmLogHandler {
	cfg := defaultHandlerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &WasmLogHandler{
		opts: cfg,
		native: slog.NewTextHandler(cfg.out, &slog.HandlerOptions{
			Level:     cfg.level,
			AddSource: cfg.addSource,
		}),
	}
}

// Install makes a WasmLogHandler the slog default.
func Install(opts ...HandlerOption) {
	slog.SetDefault(slog.New(NewHandler(opts...)))
}

// Enabled reports whether the handler handles records at the given level.
func (h *WasmLogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.level.Level()
}

// WithAttrs returns a handler that adds attrs to every record.
func (h *WasmLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append([]entities.LogAttr(nil), h.attrs...)
	for _, a := range attrs {
		clone.attrs = flattenAttrs(clone.attrs, h.group, a)
	}
	clone.native = h.native.WithAttrs(attrs)
	return &clone
}

// WithGroup returns a handler that prefixes later attribute keys with name.
func (h *WasmLogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	if h.group != "" {
		clone.group = h.group + "." + name
	} else {
		clone.group = name
	}
	clone.native = h.native.WithGroup(name)
	return &clone
}

// message converts record into its wire form.
func (h *WasmLogHandler) message(ctx context.Context, record slog.Record) entities.LogMessage {
	msg := entities.LogMessage{
		Context:   wasmcontext.ContextToWire(ctx),
		Level:     record.Level.String(),
		Message:   record.Message,
		Timestamp: record.Time,
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}
	msg.Attrs = append(msg.Attrs, h.attrs...)
	record.Attrs(func(attr slog.Attr) bool {
		msg.Attrs = flattenAttrs(msg.Attrs, h.group, attr)
		return true
	})
	return msg
}
