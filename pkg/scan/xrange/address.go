package xrange

import (
	"net/netip"
	"strconv"
)

// Address 是按八位组表示的 IPv4 地址，下标 0 为最高位。
type Address [4]uint8

// AddressFromAddr 从 [netip.Addr] 创建 Address。
// 仅接受 IPv4 或 IPv4-mapped IPv6 地址。
func AddressFromAddr(addr netip.Addr) (Address, bool) {
	if !addr.Is4() && !addr.Is4In6() {
		return Address{}, false
	}
	return Address(addr.Unmap().As4()), true
}

// ParseAddress 解析点分十进制 IPv4 地址。
func ParseAddress(s string) (Address, bool) {
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return Address{}, false
	}
	return AddressFromAddr(addr)
}

// Addr 返回对应的 [netip.Addr]。
func (a Address) Addr() netip.Addr {
	return netip.AddrFrom4(a)
}

// Uint32 返回网络字节序（大端）的整数表示。
func (a Address) Uint32() uint32 {
	return uint32(a[0])<<24 | uint32(a[1])<<16 | uint32(a[2])<<8 | uint32(a[3])
}

// String 返回不带前导零的点分十进制表示，如 "10.0.1.43"。
func (a Address) String() string {
	var buf [15]byte
	return string(a.AppendTo(buf[:0]))
}

// AppendTo 将点分十进制表示追加到 dst。
// 手写格式化避免 fmt 的反射开销。
func (a Address) AppendTo(dst []byte) []byte {
	for i, o := range a {
		if i > 0 {
			dst = append(dst, '.')
		}
		dst = strconv.AppendUint(dst, uint64(o), 10)
	}
	return dst
}
