package xlog

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

// ErrNilHandler 当 NewEnrichHandler 的 base handler 为 nil 时返回
var ErrNilHandler = errors.New("xlog: base handler is nil")

type runIDKey struct{}

type batchIndexKey struct{}

// WithRunID 返回携带运行 ID 的 context。空 id 不写入。
func WithRunID(ctx context.Context, id string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey{}, id)
}

// RunID 返回 ctx 中的运行 ID。
func RunID(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(runIDKey{}).(string)
	return id, ok
}

// WithBatchIndex 返回携带批次序号的 context。
func WithBatchIndex(ctx context.Context, k uint64) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, batchIndexKey{}, k)
}

// BatchIndex 返回 ctx 中的批次序号。
func BatchIndex(ctx context.Context) (uint64, bool) {
	if ctx == nil {
		return 0, false
	}
	k, ok := ctx.Value(batchIndexKey{}).(uint64)
	return k, ok
}

// EnrichHandler 自动从 context 提取运行信息并注入日志
//
// 装饰模式实现，包装底层 slog.Handler，在 Handle() 时添加：
//   - run: run_id, batch_index
//   - trace: trace_id, span_id（来自 OpenTelemetry span context）
//
// context 中缺少的字段直接跳过。
type EnrichHandler struct {
	base slog.Handler
}

// NewEnrichHandler 创建 EnrichHandler
//
// 调用 WithGroup 后，注入的属性会被归入 group 下。
func NewEnrichHandler(base slog.Handler) (*EnrichHandler, error) {
	if base == nil {
		return nil, ErrNilHandler
	}
	return &EnrichHandler{base: base}, nil
}

// Enabled 委托给底层 handler
func (h *EnrichHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.base.Enabled(ctx, level)
}

// maxEnrichAttrs 最大注入属性数量（run 2 + trace 2）
const maxEnrichAttrs = 4

// Handle 在调用底层 handler 前，从 context 提取字段。
//
// 根据 slog 契约，修改前必须 Clone record。ctx 为 nil 时不注入。
func (h *EnrichHandler) Handle(ctx context.Context, r slog.Record) error {
	var buf [maxEnrichAttrs]slog.Attr
	attrs := appendContextAttrs(buf[:0], ctx)

	if len(attrs) > 0 {
		r = r.Clone()
		r.AddAttrs(attrs...)
	}
	return h.base.Handle(ctx, r)
}

// WithAttrs 返回带额外属性的新 handler
func (h *EnrichHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &EnrichHandler{base: h.base.WithAttrs(attrs)}
}

// WithGroup 返回带分组的新 handler
func (h *EnrichHandler) WithGroup(name string) slog.Handler {
	return &EnrichHandler{base: h.base.WithGroup(name)}
}

func appendContextAttrs(attrs []slog.Attr, ctx context.Context) []slog.Attr {
	if ctx == nil {
		return attrs
	}
	if id, ok := RunID(ctx); ok {
		attrs = append(attrs, slog.String(KeyRunID, id))
	}
	if k, ok := BatchIndex(ctx); ok {
		attrs = append(attrs, slog.Uint64(KeyBatchIndex, k))
	}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		attrs = append(attrs,
			slog.String(KeyTraceID, sc.TraceID().String()),
			slog.String(KeySpanID, sc.SpanID().String()),
		)
	}
	return attrs
}
