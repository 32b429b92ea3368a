// Package observability 提供可观测性相关的子包。
//
// 子包列表：
//   - xlog: 结构化日志，基于 log/slog 扩展，lumberjack 滚动
//   - xmetrics: 批次级追踪和指标，OpenTelemetry 实现
//
// 日志会自动从 context 中提取 run_id、batch_index 和追踪信息。
package observability
