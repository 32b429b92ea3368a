package xlog

import (
	"log/slog"
	"time"
)

// 常用属性 Key 常量
const (
	// KeyError 错误字段的标准 key
	KeyError = "error"

	// KeyStack 堆栈字段的标准 key
	KeyStack = "stack"

	// KeyDuration 耗时字段的标准 key
	KeyDuration = "duration"

	// KeyCount 计数字段的标准 key
	KeyCount = "count"

	// KeyComponent 组件名称字段的标准 key
	KeyComponent = "component"

	// KeyRunID 单次运行 ID 字段的 key，由 EnrichHandler 从 ctx 注入
	KeyRunID = "run_id"

	// KeyBatchIndex 批次序号字段的 key，由 EnrichHandler 从 ctx 注入
	KeyBatchIndex = "batch_index"

	// KeyTraceID trace ID 字段的 key
	KeyTraceID = "trace_id"

	// KeySpanID span ID 字段的 key
	KeySpanID = "span_id"
)

// Err 创建错误属性。err 为 nil 时返回空属性（会被 slog 忽略）。
//
//	if err != nil {
//	    logger.Error(ctx, "emit failed", xlog.Err(err))
//	}
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// Duration 创建耗时属性
func Duration(d time.Duration) slog.Attr {
	return slog.String(KeyDuration, d.String())
}

// Component 创建组件名属性
func Component(name string) slog.Attr {
	return slog.String(KeyComponent, name)
}

// Count 创建计数属性
func Count(n uint64) slog.Attr {
	return slog.Uint64(KeyCount, n)
}
