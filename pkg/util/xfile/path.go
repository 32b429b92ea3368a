package xfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// DefaultDirPerm 新建父目录的权限。
	DefaultDirPerm = 0o750

	// DefaultFilePerm 新建输出文件的权限。
	DefaultFilePerm = 0o640
)

// hasDotDotSegment 判断 ".." 是否作为独立路径段出现，"app..log" 不算。
func hasDotDotSegment(path string) bool {
	for _, seg := range strings.FieldsFunc(path, func(r rune) bool { return r == '/' || r == '\\' }) {
		if seg == ".." {
			return true
		}
	}
	return false
}

// SanitizePath 规范化文件路径。
//
// 拒绝空路径、空字节、尾随分隔符和清理后仍含 ".." 段的相对路径。
// 绝对路径中的 ".." 由 [filepath.Clean] 正常消解。
func SanitizePath(filename string) (string, error) {
	if filename == "" {
		return "", ErrEmptyPath
	}
	if strings.ContainsRune(filename, 0) {
		return "", ErrNullByte
	}
	// Clean 会去掉尾随斜杠，必须先判断
	if strings.HasSuffix(filename, "/") || strings.HasSuffix(filename, "\\") {
		return "", fmt.Errorf("%q is a directory: %w", filename, ErrInvalidPath)
	}

	cleaned := filepath.Clean(filename)
	if hasDotDotSegment(cleaned) {
		return "", fmt.Errorf("%q: %w", filename, ErrPathTraversal)
	}
	if base := filepath.Base(cleaned); base == "." || base == string(filepath.Separator) {
		return "", fmt.Errorf("%q has no file name: %w", filename, ErrInvalidPath)
	}
	return cleaned, nil
}

// EnsureDir 确保文件的父目录存在，已存在时不修改权限。
func EnsureDir(filename string) error {
	if filename == "" {
		return ErrEmptyPath
	}
	if strings.ContainsRune(filename, 0) {
		return ErrNullByte
	}
	dir := filepath.Dir(filename)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, DefaultDirPerm)
}

// Create 校验路径、补齐父目录并截断创建文件。
func Create(filename string) (*os.File, error) {
	cleaned, err := SanitizePath(filename)
	if err != nil {
		return nil, err
	}
	if err := EnsureDir(cleaned); err != nil {
		return nil, fmt.Errorf("xfile: create parent dir: %w", err)
	}
	return os.OpenFile(cleaned, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, DefaultFilePerm) //nolint:gosec // 路径已经 SanitizePath 校验
}
