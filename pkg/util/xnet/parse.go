package xnet

import (
	"fmt"
	"net/netip"
	"strings"

	"go4.org/netipx"
)

// ParseRange 从字符串解析 IPv4 范围。支持 3 种格式：
//   - 单 IP: "192.168.1.1"
//   - CIDR: "192.168.1.0/24"
//   - 范围: "192.168.1.1-192.168.1.100"
//
// 输入会自动去除首尾空白字符。IPv4-mapped IPv6 地址会被还原为 IPv4，
// 其他 IPv6 输入返回 [ErrNotIPv4]。
func ParseRange(s string) (netipx.IPRange, error) {
	s = strings.TrimSpace(s)

	if idx := strings.Index(s, "-"); idx >= 0 {
		start, err := parseAddr4(strings.TrimSpace(s[:idx]))
		if err != nil {
			return netipx.IPRange{}, fmt.Errorf("%w: invalid range start: %w", ErrInvalidRange, err)
		}
		end, err := parseAddr4(strings.TrimSpace(s[idx+1:]))
		if err != nil {
			return netipx.IPRange{}, fmt.Errorf("%w: invalid range end: %w", ErrInvalidRange, err)
		}
		r := netipx.IPRangeFrom(start, end)
		if !r.IsValid() {
			return netipx.IPRange{}, fmt.Errorf("%w: start %s > end %s", ErrInvalidRange, start, end)
		}
		return r, nil
	}

	if strings.Contains(s, "/") {
		prefix, err := netip.ParsePrefix(s)
		if err != nil {
			return netipx.IPRange{}, fmt.Errorf("%w: invalid CIDR: %w", ErrInvalidRange, err)
		}
		if !prefix.Addr().Is4() {
			return netipx.IPRange{}, fmt.Errorf("%w: %s", ErrNotIPv4, s)
		}
		return netipx.RangeOfPrefix(prefix.Masked()), nil
	}

	addr, err := parseAddr4(s)
	if err != nil {
		return netipx.IPRange{}, fmt.Errorf("%w: %w", ErrInvalidRange, err)
	}
	return netipx.IPRangeFrom(addr, addr), nil
}

// ParseRanges 从字符串切片解析并合并为 [*netipx.IPSet]。
// 每个字符串使用 [ParseRange] 解析，结果自动合并去重。
// 空切片或 nil 返回空的 IPSet。
func ParseRanges(strs []string) (*netipx.IPSet, error) {
	var b netipx.IPSetBuilder
	for _, s := range strs {
		r, err := ParseRange(s)
		if err != nil {
			return nil, fmt.Errorf("parse range %q: %w", s, err)
		}
		b.AddRange(r)
	}
	set, err := b.IPSet()
	if err != nil {
		return nil, fmt.Errorf("build IPSet: %w", err)
	}
	return set, nil
}

// parseAddr4 解析 IPv4 地址，拒绝纯 IPv6。
func parseAddr4(s string) (netip.Addr, error) {
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}
	if addr.Is4In6() {
		addr = addr.Unmap()
	}
	if !addr.Is4() {
		return netip.Addr{}, fmt.Errorf("%w: %s", ErrNotIPv4, s)
	}
	return addr, nil
}
