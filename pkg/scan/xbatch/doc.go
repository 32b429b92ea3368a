// Package xbatch 驱动 xrange.Enumerator 生成批次并交给 Sink。
//
// 两种运行方式：
//
//   - RunSequential：单个游标（Cursor.NextBatch）顺序生成。
//   - RunParallel：xpool worker 按序号调用 Enumerator.BatchAt 直接生成，
//     单个 goroutine 交付。默认按序号重排，输出与 RunSequential 逐字节一致。
//
// 两种方式共享同一套批次划分：批次 k 覆盖偏移 [k*B, min((k+1)*B, total))。
//
//	e, _ := xrange.ParseEnumerator("10", "0", "0-255", "0-255")
//	w := xbatch.NewWriterSink(os.Stdout)
//	err := xbatch.RunParallel(ctx, e, 1024, w,
//		xbatch.WithWorkers(8),
//		xbatch.WithObserver(obs),
//	)
//	_ = w.Flush()
//
// Sink 只会被单个 goroutine 调用。ExcludeSink 过滤 netipx.IPSet 中的地址，
// WriterSink 逐行写出，CollectSink 在内存中收集。
package xbatch
