// Package xnet 提供索引器使用的 IPv4 地址工具。
//
// xnet 基于 Go 标准库 [net/netip] 和社区库 [go4.org/netipx] 构建，
// 主要用于把排除列表（单 IP / CIDR / 起止范围）解析为 [*netipx.IPSet]，
// 以及 uint32 与 [netip.Addr] 的互转。
//
//	set, _ := xnet.ParseRanges([]string{
//	    "10.0.0.0/24",
//	    "10.0.1.10-10.0.1.20",
//	})
//	fmt.Println(set.Contains(netip.MustParseAddr("10.0.0.7"))) // true
//	fmt.Println(xnet.SetSizeUint64(set))                       // 267
//
// 所有可失败函数返回 error，预定义错误变量支持 errors.Is。
package xnet
