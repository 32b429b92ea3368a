package xpool

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"
	"sync"
)

const (
	maxWorkers   = 1 << 16
	maxQueueSize = 1 << 24
)

var _ io.Closer = (*Pool[int])(nil)

// Pool 是一个泛型 worker pool 实现。
// 用于异步执行任务，支持优雅关闭、超时关闭和 panic 恢复。
type Pool[T any] struct {
	workers int
	handler func(T)
	queue   chan T
	opts    options

	// mu 保护 closed 与对 queue 的发送，确保关闭 queue 时没有并发发送者。
	mu       sync.RWMutex
	closed   bool
	stopping chan struct{}
	stopOnce sync.Once

	wg   sync.WaitGroup
	done chan struct{}
}

// New 创建并启动 worker pool。
//
// 参数：
//   - workers: worker 数量，范围 [1, 65536]
//   - queueSize: 任务队列大小，范围 [1, 16777216]
//   - handler: 任务处理函数，不能为 nil
func New[T any](workers, queueSize int, handler func(T), opts ...Option) (*Pool[T], error) {
	if handler == nil {
		return nil, ErrNilHandler
	}
	if workers < 1 || workers > maxWorkers {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWorkers, workers)
	}
	if queueSize < 1 || queueSize > maxQueueSize {
		return nil, fmt.Errorf("%w: %d", ErrInvalidQueueSize, queueSize)
	}

	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	p := &Pool[T]{
		workers:  workers,
		handler:  handler,
		queue:    make(chan T, queueSize),
		opts:     o,
		stopping: make(chan struct{}),
		done:     make(chan struct{}),
	}
	p.wg.Add(workers)
	for range workers {
		go p.worker()
	}
	go func() {
		p.wg.Wait()
		close(p.done)
	}()
	return p, nil
}

// worker 是工作协程。
// 只从 queue 中读取任务，直到 queue 被关闭且耗尽，
// 这确保关闭时能处理完队列中的剩余任务。
func (p *Pool[T]) worker() {
	defer p.wg.Done()
	for task := range p.queue {
		p.run(task)
	}
}

// run 安全执行 handler，捕获 panic。
func (p *Pool[T]) run(task T) {
	defer func() {
		if r := recover(); r != nil {
			attrs := []any{
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())),
			}
			if p.opts.name != "" {
				attrs = append(attrs, slog.String("pool", p.opts.name))
			}
			if p.opts.logTaskValue {
				attrs = append(attrs, slog.Any("task", task))
			} else {
				attrs = append(attrs, slog.String("task_type", fmt.Sprintf("%T", task)))
			}
			p.opts.logger.Error("xpool: worker panic recovered", attrs...)
		}
	}()
	p.handler(task)
}

// Submit 非阻塞地提交任务。
// 队列满时返回 [ErrQueueFull]，pool 已关闭时返回 [ErrPoolStopped]。
func (p *Pool[T]) Submit(task T) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPoolStopped
	}
	select {
	case p.queue <- task:
		return nil
	default:
		return ErrQueueFull
	}
}

// SubmitWait 提交任务，队列满时阻塞等待空位。
//
// ctx 取消时返回 ctx.Err()；pool 开始关闭时返回 [ErrPoolStopped]。
// 不可在 handler 内调用，否则队列满时可能与自身死锁。
func (p *Pool[T]) SubmitWait(ctx context.Context, task T) error {
	if ctx == nil {
		return ErrNilContext
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPoolStopped
	}
	select {
	case p.queue <- task:
		return nil
	case <-p.stopping:
		return ErrPoolStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close 停止接收新任务，并等待队列中所有任务处理完成。
// 等价于 Shutdown(context.Background())。
func (p *Pool[T]) Close() error {
	return p.Shutdown(context.Background())
}

// Shutdown 停止接收新任务，并等待 worker 处理完剩余任务。
//
// ctx 到期时立即返回 ctx.Err()，残留 worker 继续在后台运行直至队列耗尽，
// 可通过 [Pool.Done] 等待其最终完成。Shutdown 可重复调用。
// 不可在 handler 内调用，否则会死锁。
func (p *Pool[T]) Shutdown(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}

	p.stopOnce.Do(func() {
		// 先唤醒阻塞在 SubmitWait 中的发送者，再获取写锁关闭队列。
		close(p.stopping)
		p.mu.Lock()
		p.closed = true
		close(p.queue)
		p.mu.Unlock()
	})

	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done 返回在所有 worker 退出后关闭的 channel。
func (p *Pool[T]) Done() <-chan struct{} {
	return p.done
}

// Workers 返回 worker 数量。
func (p *Pool[T]) Workers() int {
	return p.workers
}

// QueueSize 返回队列容量。
func (p *Pool[T]) QueueSize() int {
	return cap(p.queue)
}

// Len 返回队列中等待处理的任务数。
func (p *Pool[T]) Len() int {
	return len(p.queue)
}
