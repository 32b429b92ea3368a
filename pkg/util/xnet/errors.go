package xnet

import "errors"

var (
	// ErrInvalidAddress 表示无效的 IP 地址字符串。
	ErrInvalidAddress = errors.New("xnet: invalid IP address")

	// ErrInvalidRange 表示无效的 IP 范围格式。
	ErrInvalidRange = errors.New("xnet: invalid IP range")

	// ErrNotIPv4 表示输入不是 IPv4 地址或范围。
	ErrNotIPv4 = errors.New("xnet: not an IPv4 address")
)
