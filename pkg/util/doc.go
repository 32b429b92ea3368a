// Package util 提供通用工具相关的子包。
//
// 子包列表：
//   - xfile: 输出文件的路径校验和创建
//   - xnet: IPv4 地址和范围解析，基于 net/netip + go4.org/netipx
//   - xpool: 泛型 Worker Pool，可配置 worker/队列大小、优雅关闭
package util
