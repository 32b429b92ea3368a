package xbatch

import (
	"github.com/omeyang/ipindex/pkg/observability/xlog"
	"github.com/omeyang/ipindex/pkg/observability/xmetrics"
)

// Option 配置一次运行。
type Option func(*options)

type options struct {
	observer xmetrics.Observer
	logger   xlog.Logger
	stats    *Stats
	workers  int
	inflight int
	ordered  bool
}

func defaultOptions() options {
	return options{
		observer: xmetrics.NoopObserver{},
		workers:  1,
		ordered:  true,
	}
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.logger == nil {
		o.logger = xlog.Default()
	}
	if o.stats == nil {
		o.stats = new(Stats)
	}
	if o.inflight <= 0 {
		o.inflight = 2 * max(o.workers, 1)
	}
	return o
}

// WithObserver 为每个批次记录 span 和指标。nil 被忽略。
func WithObserver(obs xmetrics.Observer) Option {
	return func(o *options) {
		if obs != nil {
			o.observer = obs
		}
	}
}

// WithLogger 设置日志记录器，默认 xlog.Default()。
func WithLogger(logger xlog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithStats 使用调用方提供的 Stats 记录进度。
func WithStats(s *Stats) Option {
	return func(o *options) {
		if s != nil {
			o.stats = s
		}
	}
}

// WithWorkers 设置 RunParallel 的 worker 数，默认 1。
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithInFlight 设置 RunParallel 已生成但尚未交给 Sink 的批次上限，
// 默认 2*workers。
func WithInFlight(n int) Option {
	return func(o *options) {
		o.inflight = n
	}
}

// WithOrdered 设置 RunParallel 是否按批次序号顺序调用 Sink，默认 true。
// 有序时 Sink 看到的序列与 RunSequential 完全一致。
func WithOrdered(ordered bool) Option {
	return func(o *options) {
		o.ordered = ordered
	}
}
