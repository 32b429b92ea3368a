package xnet

import "go4.org/netipx"

// RangeSizeUint64 计算 IPv4 范围包含的地址数量。
// 非 IPv4 范围或无效范围返回 (0, false)。
func RangeSizeUint64(r netipx.IPRange) (uint64, bool) {
	if !r.IsValid() {
		return 0, false
	}
	fromU, ok1 := AddrToUint32(r.From())
	toU, ok2 := AddrToUint32(r.To())
	if !ok1 || !ok2 {
		return 0, false
	}
	return uint64(toU-fromU) + 1, true
}

// SetSizeUint64 计算 IPv4 集合包含的地址数量。
// nil 集合返回 0；包含 IPv6 范围时这些范围不计入。
func SetSizeUint64(set *netipx.IPSet) uint64 {
	if set == nil {
		return 0
	}
	var total uint64
	for _, r := range set.Ranges() {
		n, _ := RangeSizeUint64(r)
		total += n
	}
	return total
}

// Overlaps 报告集合与范围 r 是否有交集。
func Overlaps(set *netipx.IPSet, r netipx.IPRange) bool {
	if set == nil || !r.IsValid() {
		return false
	}
	return set.OverlapsRange(r)
}

// OverlapSizeUint64 计算集合中落在 IPv4 范围 r 内的地址数量。
func OverlapSizeUint64(set *netipx.IPSet, r netipx.IPRange) uint64 {
	if !Overlaps(set, r) {
		return 0
	}
	lo, ok1 := AddrToUint32(r.From())
	hi, ok2 := AddrToUint32(r.To())
	if !ok1 || !ok2 {
		return 0
	}
	var total uint64
	for _, sr := range set.Ranges() {
		from, okf := AddrToUint32(sr.From())
		to, okt := AddrToUint32(sr.To())
		if !okf || !okt {
			continue
		}
		from, to = max(from, lo), min(to, hi)
		if from <= to {
			total += uint64(to-from) + 1
		}
	}
	return total
}
