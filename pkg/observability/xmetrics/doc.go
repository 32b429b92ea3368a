// Package xmetrics 提供批次生成的可观测性接口（metrics + tracing）。
//
// 业务代码只依赖 Observer/Span，默认实现基于 OpenTelemetry：
//
//	obs, _ := xmetrics.NewOTelObserver()
//	ctx, span := xmetrics.Start(ctx, obs, xmetrics.SpanOptions{
//		Component: "xbatch",
//		Operation: "emit",
//	})
//	err := sink.Emit(ctx, batch)
//	span.End(xmetrics.Result{Err: err, Addresses: uint64(len(batch.Addrs))})
//
// # 指标
//
//   - ipindex.batch.total：批次计数
//   - ipindex.batch.duration：批次耗时（秒）
//   - ipindex.addresses.total：处理的地址数
//
// 属性：component / operation / status。
package xmetrics
