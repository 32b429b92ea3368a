package xrange

import (
	"fmt"

	"go4.org/netipx"
)

// Enumerator 将四个八位组范围组合为笛卡尔积上的全序，
// 并把线性偏移与四元组位置通过混合进制互相转换。
//
// 枚举顺序等价于一个四位里程表：第 3 个八位组变化最快，
// 越界后回到下界并向第 2 个八位组进位，依此类推。
//
// Enumerator 构造后只读，可在任意数量的 goroutine 间共享而无需加锁。
// 增量模式的游标状态单独放在 [Cursor] 中。
type Enumerator struct {
	bounds  [4]Bound
	sizes   [4]uint64
	weights [4]uint64
	total   uint64
}

// NewEnumerator 由四个已校验的范围创建枚举器（最高位在前）。
// 没有失败路径：Bound 的不变式已由 [ParseBound] 保证。
//
// 容量假设：total 最大为 256^4 = 2^32，以 uint64 存储。
func NewEnumerator(b0, b1, b2, b3 Bound) *Enumerator {
	e := &Enumerator{bounds: [4]Bound{b0, b1, b2, b3}}
	for i, b := range e.bounds {
		e.sizes[i] = b.Size()
	}
	e.weights[3] = 1
	for i := 2; i >= 0; i-- {
		e.weights[i] = e.weights[i+1] * e.sizes[i+1]
	}
	e.total = e.weights[0] * e.sizes[0]
	return e
}

// ParseEnumerator 解析四个范围文本并创建枚举器。
// 任一文本无效时返回 *[OctetError]，不会构造出部分有效的枚举器。
func ParseEnumerator(r0, r1, r2, r3 string) (*Enumerator, error) {
	bs, err := ParseBounds([4]string{r0, r1, r2, r3})
	if err != nil {
		return nil, err
	}
	return NewEnumerator(bs[0], bs[1], bs[2], bs[3]), nil
}

// Bounds 返回四个范围的副本。
func (e *Enumerator) Bounds() [4]Bound { return e.bounds }

// Bound 返回第 i 个八位组的范围。i 超出 [0,3] 时 panic。
func (e *Enumerator) Bound(i int) Bound { return e.bounds[i] }

// Sizes 返回每个八位组的取值个数。
func (e *Enumerator) Sizes() [4]uint64 { return e.sizes }

// Weights 返回混合进制权重：weights[i] 为第 i 位加一所跨越的地址数。
func (e *Enumerator) Weights() [4]uint64 { return e.weights }

// TotalSize 返回枚举的地址总数，等于四个 Size 之积。
func (e *Enumerator) TotalSize() uint64 { return e.total }

// BatchCount 返回以 batchSize 分批时的批次数 ceil(TotalSize/batchSize)。
// batchSize <= 0 时返回 0。
func (e *Enumerator) BatchCount(batchSize int) uint64 {
	if batchSize <= 0 {
		return 0
	}
	b := uint64(batchSize)
	// total <= 2^32，加上 b-1 不会溢出 uint64。
	return (e.total + b - 1) / b
}

// First 返回枚举顺序中的第一个地址。
func (e *Enumerator) First() Address {
	return Address{e.bounds[0].Lower, e.bounds[1].Lower, e.bounds[2].Lower, e.bounds[3].Lower}
}

// Last 返回枚举顺序中的最后一个地址。
func (e *Enumerator) Last() Address {
	return Address{e.bounds[0].Upper, e.bounds[1].Upper, e.bounds[2].Upper, e.bounds[3].Upper}
}

// IPRange 返回覆盖全部枚举地址的最小连续范围 [First, Last]。
// 当低位八位组不是满范围时，该区间会包含不属于枚举的地址；
// 精确判断请使用 [Enumerator.Contains]。
func (e *Enumerator) IPRange() netipx.IPRange {
	return netipx.IPRangeFrom(e.First().Addr(), e.Last().Addr())
}

// Contains 报告 a 是否属于枚举集合。
func (e *Enumerator) Contains(a Address) bool {
	for i, b := range e.bounds {
		if !b.Contains(a[i]) {
			return false
		}
	}
	return true
}

// At 返回线性偏移 offset 处的地址。offset >= TotalSize 时返回 false。
func (e *Enumerator) At(offset uint64) (Address, bool) {
	if offset >= e.total {
		return Address{}, false
	}
	return e.address(e.digits(offset)), true
}

// OffsetOf 返回地址 a 在枚举顺序中的线性偏移，是 [Enumerator.At] 的逆运算。
// a 不属于枚举集合时返回 false。
func (e *Enumerator) OffsetOf(a Address) (uint64, bool) {
	if !e.Contains(a) {
		return 0, false
	}
	var off uint64
	for i, b := range e.bounds {
		off += uint64(a[i]-b.Lower) * e.weights[i]
	}
	return off, true
}

// BatchAt 直接计算第 batchIndex 批（每批 batchSize 个地址）的内容。
//
// 起始偏移为 batchIndex*batchSize；越过末尾时返回空结果（不是错误）。
// BatchAt 是纯函数，不修改任何状态，可在多个 goroutine 中对同一个
// Enumerator 并发调用，调用顺序和重复调用都不影响结果。
//
// 对任意 batchSize >= 1，依次拼接 BatchAt(0..BatchCount-1) 的结果
// 与从新游标反复调用 [Cursor.NextBatch] 的结果逐批、逐地址相同。
func (e *Enumerator) BatchAt(batchIndex uint64, batchSize int) []string {
	start, n, ok := e.span(batchIndex, batchSize)
	if !ok {
		return nil
	}
	return e.render(start, n)
}

// AppendBatchAt 与 BatchAt 相同，但把地址以 [Address] 形式追加到 dst，
// 便于调用方复用缓冲区。
func (e *Enumerator) AppendBatchAt(dst []Address, batchIndex uint64, batchSize int) []Address {
	start, n, ok := e.span(batchIndex, batchSize)
	if !ok {
		return dst
	}
	return e.fill(dst, start, n)
}

// Cursor 返回一个位于枚举起点的新游标。
func (e *Enumerator) Cursor() *Cursor {
	return &Cursor{e: e}
}

// String 返回四个范围的可读表示，如 "[10].[0].[0-1].[0-255]"。
func (e *Enumerator) String() string {
	return fmt.Sprintf("[%s].[%s].[%s].[%s]", e.bounds[0], e.bounds[1], e.bounds[2], e.bounds[3])
}

// span 计算批次的起始偏移和地址个数。
func (e *Enumerator) span(batchIndex uint64, batchSize int) (start, n uint64, ok bool) {
	if batchSize <= 0 || batchIndex >= e.BatchCount(batchSize) {
		return 0, 0, false
	}
	b := uint64(batchSize)
	// batchIndex < ceil(total/b)，因此 start < total，乘法不会溢出。
	start = batchIndex * b
	return start, min(b, e.total-start), true
}

// digits 将偏移按权重做混合进制分解。调用方保证 offset < total，
// 因此每一位都满足 digit[i] < sizes[i]。
func (e *Enumerator) digits(offset uint64) [4]uint64 {
	var d [4]uint64
	rem := offset
	for i, w := range e.weights {
		d[i] = rem / w
		rem -= d[i] * w
	}
	return d
}

// increment 按里程表顺序把 d 前进一位。越过最后一个四元组时回绕到全零，
// 调用方通过计数保证不会越界使用。
func (e *Enumerator) increment(d *[4]uint64) {
	for i := 3; i >= 0; i-- {
		d[i]++
		if d[i] < e.sizes[i] {
			return
		}
		d[i] = 0
	}
}

func (e *Enumerator) address(d [4]uint64) Address {
	var a Address
	for i, b := range e.bounds {
		a[i] = b.Lower + uint8(d[i])
	}
	return a
}

// fill 从偏移 start 开始追加 n 个地址。
func (e *Enumerator) fill(dst []Address, start, n uint64) []Address {
	d := e.digits(start)
	for range n {
		dst = append(dst, e.address(d))
		e.increment(&d)
	}
	return dst
}

// render 从偏移 start 开始生成 n 个点分十进制字符串。
func (e *Enumerator) render(start, n uint64) []string {
	out := make([]string, 0, n)
	d := e.digits(start)
	var buf [15]byte
	for range n {
		out = append(out, string(e.address(d).AppendTo(buf[:0])))
		e.increment(&d)
	}
	return out
}
