package xrun

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Group 基于 errgroup + context 管理一次运行中的多个并发任务
// （如批次生产者、输出写入、进度上报）。
//
// 当任一任务返回错误或 context 被取消时，所有任务都会收到取消信号。
// Go、GoWithName、Cancel 可安全地从多个 goroutine 并发调用；Wait 应仅调用一次。
type Group struct {
	eg       *errgroup.Group
	ctx      context.Context
	causeCtx context.Context
	cancel   context.CancelCauseFunc
	opts     *groupOptions
}

// NewGroup 创建新的 Group，返回 Group 和派生的 context。
// 任一任务返回错误时，返回的 context 会被取消。
func NewGroup(ctx context.Context, opts ...Option) (*Group, context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}

	options := defaultOptions()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(options)
	}

	causeCtx, cancel := context.WithCancelCause(ctx)
	eg, egCtx := errgroup.WithContext(causeCtx)

	return &Group{
		eg:       eg,
		ctx:      egCtx,
		causeCtx: causeCtx,
		cancel:   cancel,
		opts:     options,
	}, egCtx
}

// Go 启动一个 goroutine 执行 fn。fn 应监听 ctx.Done() 以响应取消。
// fn 返回非 nil 错误时，会取消其他所有任务。
func (g *Group) Go(fn func(ctx context.Context) error) {
	g.eg.Go(func() error {
		if fn == nil {
			return ErrNilFunc
		}
		return fn(g.ctx)
	})
}

// GoWithName 与 Go 相同，但会在日志中记录任务名称。
func (g *Group) GoWithName(name string, fn func(ctx context.Context) error) {
	g.eg.Go(func() error {
		if fn == nil {
			return ErrNilFunc
		}
		g.opts.logger.Debug("task starting",
			slog.String("group", g.opts.name),
			slog.String("task", name),
		)
		err := fn(g.ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			g.opts.logger.Warn("task exited with error",
				slog.String("group", g.opts.name),
				slog.String("task", name),
				slog.Any("error", err),
			)
		} else {
			g.opts.logger.Debug("task stopped",
				slog.String("group", g.opts.name),
				slog.String("task", name),
			)
		}
		return err
	})
}

// Wait 等待所有任务完成，返回第一个非 nil 错误。
//
// 错误为 context.Canceled 时优先返回 Cancel(cause) 设置的原因（如 *SignalError）；
// 没有显式原因的普通取消返回 nil。即使所有任务都返回 nil，
// Cancel(cause) 设置的原因仍会被返回。
func (g *Group) Wait() error {
	defer g.cancel(nil)

	err := g.eg.Wait()

	g.opts.logger.Debug("all tasks stopped",
		slog.String("group", g.opts.name),
	)

	// 通过 causeCtx（而非 errgroup 的 ctx）判断取消来源：
	// causeCtx 被取消说明是 Group 主动取消或父 context 取消，
	// 否则 context.Canceled 来自任务内部，原样返回。
	if errors.Is(err, context.Canceled) {
		if g.causeCtx.Err() != nil {
			return g.explicitCause()
		}
		return err
	}
	if err == nil && g.causeCtx.Err() != nil {
		return g.explicitCause()
	}
	return err
}

// explicitCause 返回非 context.Canceled 的取消原因，没有则返回 nil。
func (g *Group) explicitCause() error {
	if cause := context.Cause(g.causeCtx); cause != nil && !errors.Is(cause, context.Canceled) {
		return cause
	}
	return nil
}

// Cancel 主动取消所有任务。cause 会通过 Wait 返回；cause 为 nil 时 Wait 返回 nil。
// cause 不应包装 context.Canceled，否则会被视为普通取消而过滤。
func (g *Group) Cancel(cause error) {
	g.cancel(cause)
}

// Context 返回 Group 的 context。
func (g *Group) Context() context.Context {
	return g.ctx
}

// Run 监听默认信号并运行 tasks，直到全部完成、任一失败或收到信号。
// 收到信号时返回 *SignalError。
func Run(ctx context.Context, tasks ...func(ctx context.Context) error) error {
	return RunWithOptions(ctx, nil, tasks...)
}

// RunWithOptions 与 Run 相同，但支持配置选项。
//
// 与常驻服务不同，tasks 全部返回后信号监听也随之结束，
// 一次性运行（如批量索引）完成后 RunWithOptions 自然返回。
func RunWithOptions(ctx context.Context, opts []Option, tasks ...func(ctx context.Context) error) error {
	g, _ := NewGroup(ctx, opts...)

	var wg sync.WaitGroup
	for _, task := range tasks {
		wg.Add(1)
		g.Go(func(ctx context.Context) error {
			defer wg.Done()
			if task == nil {
				return ErrNilFunc
			}
			return task(ctx)
		})
	}
	finished := make(chan struct{})
	go func() {
		wg.Wait()
		close(finished)
	}()

	if !g.opts.noSignalHandler {
		signals := g.opts.signals
		// 空切片与 nil 等价：signal.Notify(ch) 无参调用会订阅所有信号。
		if len(signals) == 0 {
			signals = DefaultSignals()
		}
		g.Go(g.watchSignals(signals, finished))
	}
	return g.Wait()
}

// watchSignals 返回信号监听任务：收到信号时以 *SignalError 取消 Group，
// finished 关闭时直接退出。
func (g *Group) watchSignals(signals []os.Signal, finished <-chan struct{}) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		testc := testSigChan(ctx)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, signals...)
		defer signal.Stop(sigCh)

		var sig os.Signal
		select {
		case sig = <-testc:
		case sig = <-sigCh:
		case <-finished:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}

		g.opts.logger.Info("received signal",
			slog.String("group", g.opts.name),
			slog.String("signal", sig.String()),
		)
		g.cancel(&SignalError{Signal: sig})
		return nil
	}
}
