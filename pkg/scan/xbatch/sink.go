package xbatch

import (
	"bufio"
	"context"
	"io"
	"net/netip"
	"slices"
	"sync"
	"sync/atomic"

	"go4.org/netipx"
)

//go:generate mockgen -destination=mock_sink_test.go -package=xbatch . Sink

// Batch 一个批次：序号 Index 与按枚举顺序排列的点分十进制地址。
type Batch struct {
	Index uint64
	Addrs []string
}

// Sink 接收批次。RunSequential 和 RunParallel 都只在单个 goroutine 中调用 Emit，
// 实现无需自行加锁。Emit 返回错误时整个运行终止。
type Sink interface {
	Emit(ctx context.Context, b Batch) error
}

// SinkFunc 函数适配器。
type SinkFunc func(ctx context.Context, b Batch) error

// Emit 调用 f。
func (f SinkFunc) Emit(ctx context.Context, b Batch) error {
	return f(ctx, b)
}

// WriterSink 将地址逐行写入 io.Writer，带缓冲。
// 使用完毕后必须调用 Flush。
type WriterSink struct {
	mu sync.Mutex
	w  *bufio.Writer
}

// NewWriterSink 创建 WriterSink。
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: bufio.NewWriterSize(w, 64*1024)}
}

// Emit 写出批次中的全部地址，每个地址一行。
func (s *WriterSink) Emit(_ context.Context, b Batch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range b.Addrs {
		if _, err := s.w.WriteString(a); err != nil {
			return err
		}
		if err := s.w.WriteByte('\n'); err != nil {
			return err
		}
	}
	return nil
}

// Flush 将缓冲数据写入底层 writer。
func (s *WriterSink) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Flush()
}

// ExcludeSink 过滤掉落在集合内的地址后转发给 next。
// 过滤后为空的批次不再转发。
//
// 批次内地址按数值升序排列（枚举顺序保证这一点），因此先用首尾地址构成的
// 区间与集合比较：无交集时原样转发，被集合完全覆盖时整批丢弃，
// 只有部分重叠的批次才逐个解析地址。
type ExcludeSink struct {
	next     Sink
	set      *netipx.IPSet
	excluded atomic.Uint64
}

// NewExcludeSink 创建 ExcludeSink。set 为 nil 时不过滤。
func NewExcludeSink(next Sink, set *netipx.IPSet) *ExcludeSink {
	return &ExcludeSink{next: next, set: set}
}

// Emit 过滤并转发批次，批次序号保持不变。
func (s *ExcludeSink) Emit(ctx context.Context, b Batch) error {
	if s.set == nil || len(b.Addrs) == 0 {
		return s.next.Emit(ctx, b)
	}
	if r, ok := batchRange(b); ok {
		switch {
		case !s.set.OverlapsRange(r):
			return s.next.Emit(ctx, b)
		case s.set.ContainsRange(r):
			s.excluded.Add(uint64(len(b.Addrs)))
			return nil
		}
	}

	kept := make([]string, 0, len(b.Addrs))
	for _, a := range b.Addrs {
		addr, err := netip.ParseAddr(a)
		if err == nil && s.set.Contains(addr) {
			continue
		}
		kept = append(kept, a)
	}
	if n := len(b.Addrs) - len(kept); n > 0 {
		s.excluded.Add(uint64(n))
	}
	if len(kept) == 0 {
		return nil
	}
	return s.next.Emit(ctx, Batch{Index: b.Index, Addrs: kept})
}

// batchRange 返回批次首尾地址构成的区间。
func batchRange(b Batch) (netipx.IPRange, bool) {
	from, err := netip.ParseAddr(b.Addrs[0])
	if err != nil {
		return netipx.IPRange{}, false
	}
	to, err := netip.ParseAddr(b.Addrs[len(b.Addrs)-1])
	if err != nil {
		return netipx.IPRange{}, false
	}
	r := netipx.IPRangeFrom(from, to)
	return r, r.IsValid()
}

// Excluded 返回累计被过滤的地址数。
func (s *ExcludeSink) Excluded() uint64 {
	return s.excluded.Load()
}

// CollectSink 在内存中收集全部批次，按到达顺序保存。
type CollectSink struct {
	mu      sync.Mutex
	batches []Batch
}

// Emit 保存批次副本。
func (s *CollectSink) Emit(_ context.Context, b Batch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches = append(s.batches, Batch{Index: b.Index, Addrs: slices.Clone(b.Addrs)})
	return nil
}

// Batches 返回已收集批次的副本。
func (s *CollectSink) Batches() []Batch {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.batches)
}

// Addrs 按到达顺序拼接全部地址。
func (s *CollectSink) Addrs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, b := range s.batches {
		out = append(out, b.Addrs...)
	}
	return out
}
