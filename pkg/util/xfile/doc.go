// Package xfile 提供输出文件的路径校验和创建。
//
// 地址列表和滚动日志都写到用户给出的路径，写之前先经 [SanitizePath]
// 规范化并拒绝 ".." 路径段、空字节和目录路径，再由 [EnsureDir] 补齐父目录。
package xfile
