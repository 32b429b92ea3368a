package xbatch

import "errors"

var (
	// ErrNilEnumerator 表示传入的枚举器为 nil。
	ErrNilEnumerator = errors.New("xbatch: nil enumerator")

	// ErrNilSink 表示传入的 Sink 为 nil。
	ErrNilSink = errors.New("xbatch: nil sink")

	// ErrInvalidBatchSize 表示批次大小不是正数。
	ErrInvalidBatchSize = errors.New("xbatch: batch size must be positive")

	// ErrInvalidWorkers 表示并行 worker 数无效。
	ErrInvalidWorkers = errors.New("xbatch: invalid workers")

	// ErrWorkerPanic 表示生成批次的 worker 发生 panic。
	ErrWorkerPanic = errors.New("xbatch: worker panic")
)
