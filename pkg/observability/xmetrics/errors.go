package xmetrics

import "errors"

// NewOTelObserver 返回的错误。
var (
	// ErrCreateInstrument 表示创建 OTel 指标失败。
	ErrCreateInstrument = errors.New("xmetrics: create instrument failed")
	// ErrInvalidBuckets 表示 Histogram 桶边界配置无效。
	ErrInvalidBuckets = errors.New("xmetrics: invalid histogram buckets")
	// ErrNilOption 表示传入了 nil 的 Option 函数。
	ErrNilOption = errors.New("xmetrics: nil option")
)
