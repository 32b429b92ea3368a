package xbatch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/omeyang/ipindex/pkg/observability/xlog"
	"github.com/omeyang/ipindex/pkg/observability/xmetrics"
	"github.com/omeyang/ipindex/pkg/scan/xrange"
	"github.com/omeyang/ipindex/pkg/util/xpool"
)

const component = "xbatch"

// RunSequential 用单个游标按顺序生成批次并交给 sink，直到地址耗尽。
//
// ctx 取消时在批次边界返回 ctx.Err()；sink 返回错误时立即返回该错误。
func RunSequential(ctx context.Context, e *xrange.Enumerator, batchSize int, sink Sink, opts ...Option) error {
	if err := validate(e, batchSize, sink); err != nil {
		return err
	}
	o := applyOptions(opts)
	r := &runner{sink: sink, opts: o}

	return r.run(ctx, "sequential", e, batchSize, func(ctx context.Context) error {
		c := e.Cursor()
		for k := uint64(0); c.HasRemaining(); k++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := r.emit(ctx, Batch{Index: k, Addrs: c.NextBatch(batchSize)}); err != nil {
				return err
			}
		}
		return nil
	})
}

// RunParallel 用 worker pool 按批次序号直接生成批次（Enumerator.BatchAt），
// 由单个 goroutine 交给 sink。
//
// 已生成未交付的批次数不超过 WithInFlight。WithOrdered(true)（默认）时
// 批次按序号交付，sink 看到的序列与 RunSequential 相同；否则按完成顺序交付。
// 任一错误取消整个运行。
func RunParallel(ctx context.Context, e *xrange.Enumerator, batchSize int, sink Sink, opts ...Option) error {
	if err := validate(e, batchSize, sink); err != nil {
		return err
	}
	o := applyOptions(opts)
	if o.workers < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkers, o.workers)
	}
	r := &runner{sink: sink, opts: o}

	return r.run(ctx, "parallel", e, batchSize, func(ctx context.Context) error {
		return r.parallel(ctx, e, batchSize)
	})
}

func validate(e *xrange.Enumerator, batchSize int, sink Sink) error {
	switch {
	case e == nil:
		return ErrNilEnumerator
	case sink == nil:
		return ErrNilSink
	case batchSize <= 0:
		return fmt.Errorf("%w: %d", ErrInvalidBatchSize, batchSize)
	}
	return nil
}

type runner struct {
	sink Sink
	opts options
}

// result worker 生成的一个批次。
type result struct {
	batch Batch
	err   error
}

func (r *runner) run(ctx context.Context, mode string, e *xrange.Enumerator, batchSize int, body func(context.Context) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, span := xmetrics.Start(ctx, r.opts.observer, xmetrics.SpanOptions{
		Component: component,
		Operation: "run",
		Attrs: []xmetrics.Attr{
			xmetrics.String("mode", mode),
			xmetrics.String("ranges", e.String()),
			xmetrics.Int("batch_size", batchSize),
		},
	})

	start := time.Now()
	before := r.opts.stats.Addresses()
	r.opts.logger.Info(ctx, "run starting",
		slog.String("mode", mode),
		slog.String("ranges", e.String()),
		slog.Uint64("total", e.TotalSize()),
		slog.Uint64("batches", e.BatchCount(batchSize)),
		slog.Int("batch_size", batchSize),
	)

	err := body(ctx)
	emitted := r.opts.stats.Addresses() - before
	span.End(xmetrics.Result{Err: err, Addresses: emitted})

	if err != nil {
		r.opts.logger.Warn(ctx, "run aborted", xlog.Err(err), xlog.Count(emitted), xlog.Duration(time.Since(start)))
		return err
	}
	r.opts.logger.Info(ctx, "run finished", xlog.Count(emitted), xlog.Duration(time.Since(start)))
	return nil
}

// emit 将一个批次交给 sink 并记录进度。
func (r *runner) emit(ctx context.Context, b Batch) error {
	ctx = xlog.WithBatchIndex(ctx, b.Index)
	ctx, span := xmetrics.Start(ctx, r.opts.observer, xmetrics.SpanOptions{
		Component: component,
		Operation: "emit",
		Kind:      xmetrics.KindProducer,
		Attrs:     []xmetrics.Attr{xmetrics.Uint64("batch_index", b.Index)},
	})
	err := r.sink.Emit(ctx, b)
	if err != nil {
		span.End(xmetrics.Result{Err: err})
		r.opts.logger.Error(ctx, "emit failed", xlog.Err(err))
		return err
	}
	span.End(xmetrics.Result{Addresses: uint64(len(b.Addrs))})
	r.opts.stats.record(len(b.Addrs))
	r.opts.logger.Debug(ctx, "batch emitted", slog.Int("size", len(b.Addrs)))
	return nil
}

func (r *runner) parallel(ctx context.Context, e *xrange.Enumerator, batchSize int) error {
	n := e.BatchCount(batchSize)
	if n == 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	out := make(chan result, r.opts.inflight)
	// tokens 限制已提交但尚未交付的批次数
	tokens := make(chan struct{}, r.opts.inflight)

	pool, err := xpool.New(r.opts.workers, r.opts.inflight, func(k uint64) {
		res := generate(e, k, batchSize)
		select {
		case out <- res:
		case <-gctx.Done():
		}
	}, xpool.WithLogger(xlog.ToSlog(r.opts.logger)), xpool.WithName(component))
	if err != nil {
		return err
	}

	g.Go(func() error {
		defer func() {
			_ = pool.Close()
			close(out)
		}()
		for k := range n {
			select {
			case tokens <- struct{}{}:
			case <-gctx.Done():
				return gctx.Err()
			}
			if err := pool.SubmitWait(gctx, k); err != nil {
				return err
			}
		}
		return nil
	})

	g.Go(func() error {
		if r.opts.ordered {
			return r.deliverOrdered(gctx, out, tokens)
		}
		return r.deliver(gctx, out, tokens)
	})

	return g.Wait()
}

// generate 调用 BatchAt，panic 转为错误结果。
func generate(e *xrange.Enumerator, k uint64, batchSize int) (res result) {
	defer func() {
		if p := recover(); p != nil {
			res = result{batch: Batch{Index: k}, err: fmt.Errorf("%w: batch %d: %v", ErrWorkerPanic, k, p)}
		}
	}()
	return result{batch: Batch{Index: k, Addrs: e.BatchAt(k, batchSize)}}
}

// deliver 按完成顺序交付。
func (r *runner) deliver(ctx context.Context, out <-chan result, tokens <-chan struct{}) error {
	for res := range out {
		if res.err != nil {
			return res.err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.emit(ctx, res.batch); err != nil {
			return err
		}
		<-tokens
	}
	return ctx.Err()
}

// deliverOrdered 按序号交付，乱序到达的批次暂存在 pending 中。
// pending 大小不超过在途批次上限：生产者按序号递增提交，
// 下一个待交付的批次总在在途批次之中。
func (r *runner) deliverOrdered(ctx context.Context, out <-chan result, tokens <-chan struct{}) error {
	pending := make(map[uint64][]string, cap(tokens))
	var next uint64
	for res := range out {
		if res.err != nil {
			return res.err
		}
		pending[res.batch.Index] = res.batch.Addrs
		for {
			addrs, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := r.emit(ctx, Batch{Index: next, Addrs: addrs}); err != nil {
				return err
			}
			<-tokens
			next++
		}
	}
	return ctx.Err()
}
