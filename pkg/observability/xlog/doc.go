// Package xlog 提供基于 log/slog 的结构化日志。
//
// 通过 Builder 构建 Logger：
//
//	logger, cleanup, err := xlog.New().
//		SetVerbosity(verbose).
//		SetFormat("json").
//		SetRotation("/var/log/ipindex/ipindex.log").
//		Build()
//	if err != nil {
//		return err
//	}
//	defer cleanup()
//
// 所有日志方法都需要 context。EnrichHandler 会从 context 中取出
// run_id（WithRunID）、batch_index（WithBatchIndex）以及 OpenTelemetry
// span 的 trace_id/span_id 并写入每条日志。
//
// 命令行的 -v 计数通过 VerbosityLevel 映射：0 为 warn，1 为 info，2 及以上为 debug。
//
// 需要 *slog.Logger 的组件（xpool、xrun）可以通过 ToSlog 共享同一个 handler。
package xlog
