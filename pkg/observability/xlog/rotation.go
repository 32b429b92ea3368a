package xlog

import (
	"errors"
	"fmt"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/omeyang/ipindex/pkg/util/xfile"
)

// 轮转默认值
const (
	DefaultMaxSizeMB  = 100
	DefaultMaxBackups = 7
	DefaultMaxAgeDays = 30

	maxSizeMB  = 10240
	maxBackups = 1024
	maxAgeDays = 3650
)

// 轮转配置错误
var (
	ErrEmptyFilename     = errors.New("xlog: empty log filename")
	ErrInvalidMaxSize    = errors.New("xlog: invalid max size")
	ErrInvalidMaxBackups = errors.New("xlog: invalid max backups")
	ErrInvalidMaxAge     = errors.New("xlog: invalid max age")
	ErrNoCleanupPolicy   = errors.New("xlog: no cleanup policy")
)

type rotationConfig struct {
	maxSizeMB  int
	maxBackups int
	maxAgeDays int
	compress   bool
}

// RotationOption 配置日志文件轮转
type RotationOption func(*rotationConfig)

// WithMaxSize 设置单个日志文件最大大小（MB）
func WithMaxSize(mb int) RotationOption {
	return func(c *rotationConfig) { c.maxSizeMB = mb }
}

// WithMaxBackups 设置保留的备份文件数量，0 表示不按数量清理
func WithMaxBackups(n int) RotationOption {
	return func(c *rotationConfig) { c.maxBackups = n }
}

// WithMaxAge 设置备份保留天数，0 表示不按天数清理
func WithMaxAge(days int) RotationOption {
	return func(c *rotationConfig) { c.maxAgeDays = days }
}

// WithCompress 设置是否 gzip 压缩备份文件
func WithCompress(compress bool) RotationOption {
	return func(c *rotationConfig) { c.compress = compress }
}

// newRotator 创建 lumberjack 轮转 writer，父目录不存在时自动创建。
func newRotator(filename string, opts ...RotationOption) (*lumberjack.Logger, error) {
	if filename == "" {
		return nil, ErrEmptyFilename
	}
	cfg := rotationConfig{
		maxSizeMB:  DefaultMaxSizeMB,
		maxBackups: DefaultMaxBackups,
		maxAgeDays: DefaultMaxAgeDays,
		compress:   true,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	path, err := xfile.SanitizePath(filename)
	if err != nil {
		return nil, fmt.Errorf("xlog: log file: %w", err)
	}
	if err := xfile.EnsureDir(path); err != nil {
		return nil, fmt.Errorf("xlog: create log dir: %w", err)
	}

	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    cfg.maxSizeMB,
		MaxBackups: cfg.maxBackups,
		MaxAge:     cfg.maxAgeDays,
		Compress:   cfg.compress,
	}, nil
}

func (c *rotationConfig) validate() error {
	if c.maxSizeMB <= 0 || c.maxSizeMB > maxSizeMB {
		return fmt.Errorf("%w: got %d, want 1~%d", ErrInvalidMaxSize, c.maxSizeMB, maxSizeMB)
	}
	if c.maxBackups < 0 || c.maxBackups > maxBackups {
		return fmt.Errorf("%w: got %d, want 0~%d", ErrInvalidMaxBackups, c.maxBackups, maxBackups)
	}
	if c.maxAgeDays < 0 || c.maxAgeDays > maxAgeDays {
		return fmt.Errorf("%w: got %d, want 0~%d", ErrInvalidMaxAge, c.maxAgeDays, maxAgeDays)
	}
	if c.maxBackups == 0 && c.maxAgeDays == 0 {
		return fmt.Errorf("%w: max backups and max age cannot both be 0", ErrNoCleanupPolicy)
	}
	return nil
}
