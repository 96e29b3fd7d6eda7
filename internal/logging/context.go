package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

type ctxKey int

const (
	sourceKey ctxKey = iota
	requestIDKey
	toolKey
)

// Attribute names written by CorrelationHandler and LogWith.
const (
	AttrSource    = "source"
	AttrRequestID = "request_id"
	AttrTool      = "tool"
)

// correlated lists every context value that ends up on log records, in the
// order the attributes are written.
var correlated = []struct {
	key  ctxKey
	attr string
}{
	{sourceKey, AttrSource},
	{requestIDKey, AttrRequestID},
	{toolKey, AttrTool},
}

// WithSource records the workflow file being compiled ("-" for stdin).
func WithSource(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, sourceKey, path)
}

// WithRequestID records the id of an MCP tool call.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// WithTool records the MCP tool name handling the request.
func WithTool(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, toolKey, name)
}

func Source(ctx context.Context) string    { return stringValue(ctx, sourceKey) }
func RequestID(ctx context.Context) string { return stringValue(ctx, requestIDKey) }
func Tool(ctx context.Context) string      { return stringValue(ctx, toolKey) }

func stringValue(ctx context.Context, key ctxKey) string {
	v, _ := ctx.Value(key).(string)
	return v
}

func correlationAttrs(ctx context.Context) []slog.Attr {
	var attrs []slog.Attr
	for _, c := range correlated {
		if v := stringValue(ctx, c.key); v != "" {
			attrs = append(attrs, slog.String(c.attr, v))
		}
	}
	return attrs
}

// LogWith returns logger enriched with the correlation values found in ctx.
// Useful when the logger is handed to code that does not take a context,
// such as the diagram compiler.
func LogWith(ctx context.Context, logger *slog.Logger) *slog.Logger {
	for _, a := range correlationAttrs(ctx) {
		logger = logger.With(a)
	}
	return logger
}

// CorrelationHandler wraps an slog.Handler and adds the context's
// correlation values to every record passed through *Context log calls.
type CorrelationHandler struct {
	inner slog.Handler
}

func NewCorrelationHandler(inner slog.Handler) *CorrelationHandler {
	return &CorrelationHandler{inner: inner}
}

func (h *CorrelationHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *CorrelationHandler) Handle(ctx context.Context, r slog.Record) error {
	r.AddAttrs(correlationAttrs(ctx)...)
	return h.inner.Handle(ctx, r)
}

func (h *CorrelationHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &CorrelationHandler{inner: h.inner.WithAttrs(attrs)}
}

func (h *CorrelationHandler) WithGroup(name string) slog.Handler {
	return &CorrelationHandler{inner: h.inner.WithGroup(name)}
}

// ParseLevel maps debug|info|warn|error (case-insensitive) to an slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// New builds the CLI logger: a text handler on w wrapped in a CorrelationHandler.
func New(w io.Writer, level slog.Level) *slog.Logger {
	inner := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(NewCorrelationHandler(inner))
}
