// Package xrange 提供四维 IPv4 范围的编码与分批生成。
//
// 每个八位组有独立的闭区间 [lower, upper]（[Bound]），四个区间的笛卡尔积
// 构成待枚举的地址集合。[Enumerator] 把该集合排成一个全序，
// 并提供两种生成方式：
//
//   - 增量模式：[Cursor.NextBatch]，有状态游标，单 goroutine 顺序输出
//   - 直接模式：[Enumerator.BatchAt]，按批次下标直接计算，无状态，可并发
//
// 两种模式共用同一套混合进制换算，对相同的批大小产生逐地址相同的结果。
//
// # 快速示例
//
//	e, err := xrange.ParseEnumerator("10", "0", "0-1", "0-255")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(e.TotalSize())        // 512
//
//	c := e.Cursor()
//	for c.HasRemaining() {
//	    batch := c.NextBatch(300)     // 300 个，然后 212 个
//	    consume(batch)
//	}
//
//	second := e.BatchAt(1, 300)       // 从 "10.0.1.44" 开始的 212 个
//
// # 枚举顺序
//
// 第 3 个八位组变化最快，越过上界后回到下界并向高位进位，
// 与四位里程表计数相同，各位的进制分别为 size[3]、size[2]、size[1]、size[0]。
// 线性偏移 offset 与四元组的换算：
//
//	weight[3] = 1
//	weight[i] = weight[i+1] * size[i+1]
//	digit[i]  = (offset 除去高位后的余数) / weight[i]
//	octet[i]  = lower[i] + digit[i]
//
// # 错误
//
// 只有范围解析会失败，错误类别为 [ErrInvalidBound] 和 [ErrInvertedBound]，
// 具体错误为 *[BoundError]。批次生成永不失败：耗尽和越过末尾都返回空批次。
//
// # 容量
//
// 地址总数最大为 256^4 = 2^32，内部以 uint64 存储偏移与总数。
package xrange
