package xrange

// Cursor 是增量模式的游标，指向下一个待输出的地址。
//
// 游标内部是一个线性偏移，即混合进制计数器的值；[Cursor.Position]
// 按权重把它展开为四元组。批次生成与 [Enumerator.BatchAt] 共用同一套
// 分解和进位逻辑，两种模式因此天然一致。
//
// 状态只有两个：Active（仍有地址）和 Exhausted（已全部输出）。
// Exhausted 是吸收态，继续调用 NextBatch 只会得到空批次。
//
// Cursor 不是并发安全的，只应由单个 goroutine 持有。
type Cursor struct {
	e      *Enumerator
	offset uint64
}

// Enumerator 返回游标所属的枚举器。
func (c *Cursor) Enumerator() *Enumerator { return c.e }

// HasRemaining 报告是否还有未输出的地址。
func (c *Cursor) HasRemaining() bool {
	return c.offset < c.e.total
}

// Offset 返回已输出的地址个数，即下一个地址的线性偏移。
func (c *Cursor) Offset() uint64 { return c.offset }

// Remaining 返回尚未输出的地址个数。
func (c *Cursor) Remaining() uint64 { return c.e.total - c.offset }

// Position 返回下一个待输出地址的四元组。游标已耗尽时返回 false。
func (c *Cursor) Position() (Address, bool) {
	return c.e.At(c.offset)
}

// NextBatch 从游标位置起按枚举顺序生成至多 batchSize 个地址，并把游标移过它们。
//
// 剩余地址不足时返回较短的批次；耗尽后返回空批次，不报错也不 panic。
// batchSize <= 0 时返回空批次且不移动游标。
func (c *Cursor) NextBatch(batchSize int) []string {
	if batchSize <= 0 || !c.HasRemaining() {
		return nil
	}
	n := min(uint64(batchSize), c.Remaining())
	out := c.e.render(c.offset, n)
	c.offset += n
	return out
}

// AppendNextBatch 与 NextBatch 相同，但把地址以 [Address] 形式追加到 dst。
func (c *Cursor) AppendNextBatch(dst []Address, batchSize int) []Address {
	if batchSize <= 0 || !c.HasRemaining() {
		return dst
	}
	n := min(uint64(batchSize), c.Remaining())
	dst = c.e.fill(dst, c.offset, n)
	c.offset += n
	return dst
}

// Seek 把游标移动到线性偏移 offset，用于从已知进度继续。
// offset 超过总数时游标进入耗尽状态。
func (c *Cursor) Seek(offset uint64) {
	c.offset = min(offset, c.e.total)
}

// Reset 把游标移回起点。
func (c *Cursor) Reset() {
	c.offset = 0
}
