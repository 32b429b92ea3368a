package xpool

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncBuffer 是并发安全的日志缓冲区。
type syncBuffer struct {
	mu sync.Mutex
	sb strings.Builder
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sb.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sb.String()
}

func TestNew_Validation(t *testing.T) {
	noop := func(int) {}

	_, err := New[int](1, 1, nil)
	assert.ErrorIs(t, err, ErrNilHandler)

	_, err = New(0, 1, noop)
	assert.ErrorIs(t, err, ErrInvalidWorkers)

	_, err = New(maxWorkers+1, 1, noop)
	assert.ErrorIs(t, err, ErrInvalidWorkers)

	_, err = New(1, 0, noop)
	assert.ErrorIs(t, err, ErrInvalidQueueSize)

	_, err = New(1, maxQueueSize+1, noop)
	assert.ErrorIs(t, err, ErrInvalidQueueSize)

	p, err := New(3, 7, noop, nil, WithName("v"))
	require.NoError(t, err)
	assert.Equal(t, 3, p.Workers())
	assert.Equal(t, 7, p.QueueSize())
	require.NoError(t, p.Close())
}

func TestPool_Basic(t *testing.T) {
	var processed atomic.Int32
	p, err := New(2, 10, func(int) { processed.Add(1) })
	require.NoError(t, err)

	for i := range 5 {
		require.NoError(t, p.Submit(i))
	}
	require.NoError(t, p.Close())
	assert.Equal(t, int32(5), processed.Load())
}

func TestPool_QueueFull(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	p, err := New(1, 1, func(int) {
		started <- struct{}{}
		<-release
	})
	require.NoError(t, err)

	require.NoError(t, p.Submit(1))
	<-started // worker 正在处理第一个任务
	require.NoError(t, p.Submit(2))
	assert.ErrorIs(t, p.Submit(3), ErrQueueFull)

	close(release)
	require.NoError(t, p.Close())
}

func TestPool_SubmitWaitBlocksUntilSpace(t *testing.T) {
	release := make(chan struct{})
	var processed atomic.Int32
	p, err := New(1, 1, func(int) {
		<-release
		processed.Add(1)
	})
	require.NoError(t, err)

	require.NoError(t, p.SubmitWait(context.Background(), 1))
	require.NoError(t, p.SubmitWait(context.Background(), 2))

	submitted := make(chan error, 1)
	go func() { submitted <- p.SubmitWait(context.Background(), 3) }()

	select {
	case <-submitted:
		t.Fatal("SubmitWait should block while the queue is full")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	require.NoError(t, <-submitted)
	require.NoError(t, p.Close())
	assert.Equal(t, int32(3), processed.Load())
}

func TestPool_SubmitWaitContextCanceled(t *testing.T) {
	release := make(chan struct{})
	p, err := New(1, 1, func(int) { <-release })
	require.NoError(t, err)
	defer func() {
		close(release)
		_ = p.Close()
	}()

	require.NoError(t, p.SubmitWait(context.Background(), 1))
	require.NoError(t, p.SubmitWait(context.Background(), 2))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, p.SubmitWait(ctx, 3), context.DeadlineExceeded)

	//nolint:staticcheck // 验证 nil context 处理
	assert.ErrorIs(t, p.SubmitWait(nil, 4), ErrNilContext)
}

func TestPool_ShutdownUnblocksSubmitWait(t *testing.T) {
	release := make(chan struct{})
	p, err := New(1, 1, func(int) { <-release })
	require.NoError(t, err)

	require.NoError(t, p.SubmitWait(context.Background(), 1))
	require.NoError(t, p.SubmitWait(context.Background(), 2))

	submitted := make(chan error, 1)
	go func() { submitted <- p.SubmitWait(context.Background(), 3) }()
	time.Sleep(20 * time.Millisecond)

	shutdown := make(chan error, 1)
	go func() { shutdown <- p.Close() }()

	assert.ErrorIs(t, <-submitted, ErrPoolStopped)
	close(release)
	require.NoError(t, <-shutdown)
}

func TestPool_SubmitAfterClose(t *testing.T) {
	p, err := New(1, 4, func(int) {})
	require.NoError(t, err)
	require.NoError(t, p.Close())

	assert.ErrorIs(t, p.Submit(1), ErrPoolStopped)
	assert.ErrorIs(t, p.SubmitWait(context.Background(), 1), ErrPoolStopped)

	// 重复关闭是安全的。
	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
}

func TestPool_ShutdownTimeout(t *testing.T) {
	release := make(chan struct{})
	p, err := New(1, 1, func(int) { <-release })
	require.NoError(t, err)
	require.NoError(t, p.Submit(1))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, p.Shutdown(ctx), context.DeadlineExceeded)

	close(release)
	<-p.Done()

	//nolint:staticcheck // 验证 nil context 处理
	assert.ErrorIs(t, p.Shutdown(nil), ErrNilContext)
}

func TestPool_PanicRecovery(t *testing.T) {
	var buf syncBuffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	var processed atomic.Int32
	p, err := New(1, 10, func(n int) {
		if n == 1 {
			panic("boom")
		}
		processed.Add(1)
	}, WithLogger(logger), WithName("batches"))
	require.NoError(t, err)

	for i := range 3 {
		require.NoError(t, p.Submit(i))
	}
	require.NoError(t, p.Close())

	assert.Equal(t, int32(2), processed.Load())
	out := buf.String()
	assert.Contains(t, out, "worker panic recovered")
	assert.Contains(t, out, "pool=batches")
	assert.Contains(t, out, "task_type=int")
}

func TestPool_PanicLogsTaskValue(t *testing.T) {
	var buf syncBuffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	p, err := New(1, 1, func(string) { panic("boom") }, WithLogger(logger), WithLogTaskValue())
	require.NoError(t, err)
	require.NoError(t, p.Submit("batch-42"))
	require.NoError(t, p.Close())

	assert.Contains(t, buf.String(), "task=batch-42")
}

func TestPool_ConcurrentSubmitWait(t *testing.T) {
	var sum atomic.Int64
	p, err := New(4, 8, func(n int) { sum.Add(int64(n)) })
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				assert.NoError(t, p.SubmitWait(context.Background(), 1))
			}
		}()
	}
	wg.Wait()
	require.NoError(t, p.Close())
	assert.Equal(t, int64(1000), sum.Load())
}
