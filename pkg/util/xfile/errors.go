package xfile

import "errors"

var (
	// ErrEmptyPath 表示路径为空。
	ErrEmptyPath = errors.New("xfile: path is required")

	// ErrInvalidPath 表示路径指向目录或缺少文件名。
	ErrInvalidPath = errors.New("xfile: invalid path")

	// ErrPathTraversal 表示路径含有 ".." 段。
	ErrPathTraversal = errors.New("xfile: path traversal detected")

	// ErrNullByte 表示路径中包含空字节，内核会在此处截断。
	ErrNullByte = errors.New("xfile: path contains null byte")
)
