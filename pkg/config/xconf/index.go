package xconf

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"go4.org/netipx"

	"github.com/omeyang/ipindex/pkg/observability/xlog"
	"github.com/omeyang/ipindex/pkg/scan/xrange"
	"github.com/omeyang/ipindex/pkg/util/xnet"
)

// Mode 批次生成模式。
type Mode string

const (
	// ModeSequential 单个游标按顺序生成批次。
	ModeSequential Mode = "sequential"
	// ModeParallel 多个 worker 按批次序号直接生成。
	ModeParallel Mode = "parallel"
)

const (
	// DefaultBatchSize 默认批次大小。
	DefaultBatchSize = 256
	// MaxWorkers 并行模式 worker 数上限。
	MaxWorkers = 1024
)

// IndexConfig 一次枚举运行的配置。
//
//	ranges: ["10", "0-3", "0-255", "0-255"]
//	batch_size: 1024
//	mode: parallel
//	workers: 8
//	ordered: true
//	exclude: ["10.0.0.0/24", "10.1.2.3"]
//	output: /tmp/addrs.txt
//	log:
//	  level: info
//	  format: json
//	progress_interval: 10s
type IndexConfig struct {
	Ranges           []string      `koanf:"ranges"`
	BatchSize        int           `koanf:"batch_size"`
	Workers          int           `koanf:"workers"`
	Mode             Mode          `koanf:"mode"`
	Ordered          bool          `koanf:"ordered"`
	Exclude          []string      `koanf:"exclude"`
	Output           string        `koanf:"output"`
	Log              LogConfig     `koanf:"log"`
	ProgressInterval time.Duration `koanf:"progress_interval"`
}

// LogConfig 日志配置。Level 为空时由命令行 -v 决定。
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	File   string `koanf:"file"`
}

// DefaultIndexConfig 返回默认配置：全地址空间、顺序模式、输出到标准输出。
func DefaultIndexConfig() *IndexConfig {
	return &IndexConfig{
		Ranges:    []string{xrange.FullBound, xrange.FullBound, xrange.FullBound, xrange.FullBound},
		BatchSize: DefaultBatchSize,
		Workers:   min(runtime.GOMAXPROCS(0), MaxWorkers),
		Mode:      ModeSequential,
		Ordered:   true,
		Output:    "-",
		Log:       LogConfig{Format: "text"},
	}
}

// LoadIndexConfig 从文件加载配置，未出现的字段使用 DefaultIndexConfig 的值，
// 加载后执行 Validate。
func LoadIndexConfig(path string, opts ...Option) (*IndexConfig, error) {
	c, err := New(path, opts...)
	if err != nil {
		return nil, err
	}
	return decodeIndexConfig(c)
}

// LoadIndexConfigBytes 与 LoadIndexConfig 相同，但从字节数据加载。
func LoadIndexConfigBytes(data []byte, format Format, opts ...Option) (*IndexConfig, error) {
	c, err := NewFromBytes(data, format, opts...)
	if err != nil {
		return nil, err
	}
	return decodeIndexConfig(c)
}

func decodeIndexConfig(c Config) (*IndexConfig, error) {
	cfg := DefaultIndexConfig()
	if err := c.Unmarshal("", cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 校验全部字段，返回的错误包含所有问题并匹配 ErrInvalidConfig。
func (c *IndexConfig) Validate() error {
	var errs []error

	if len(c.Ranges) != 4 {
		errs = append(errs, fmt.Errorf("ranges: want 4 octet bounds, got %d", len(c.Ranges)))
	} else {
		for i, r := range c.Ranges {
			if err := xrange.ValidateBound(r); err != nil {
				errs = append(errs, fmt.Errorf("ranges[%d]: %w", i, err))
			}
		}
	}
	if c.BatchSize <= 0 {
		errs = append(errs, fmt.Errorf("batch_size: must be positive, got %d", c.BatchSize))
	}
	if c.Workers < 1 || c.Workers > MaxWorkers {
		errs = append(errs, fmt.Errorf("workers: want 1~%d, got %d", MaxWorkers, c.Workers))
	}
	switch c.Mode {
	case ModeSequential, ModeParallel:
	default:
		errs = append(errs, fmt.Errorf("mode: unknown mode %q", c.Mode))
	}
	if _, err := xnet.ParseRanges(c.Exclude); err != nil {
		errs = append(errs, fmt.Errorf("exclude: %w", err))
	}
	if c.Log.Level != "" {
		if _, err := xlog.ParseLevel(c.Log.Level); err != nil {
			errs = append(errs, fmt.Errorf("log.level: %w", err))
		}
	}
	switch strings.ToLower(strings.TrimSpace(c.Log.Format)) {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format: unknown format %q", c.Log.Format))
	}
	if c.ProgressInterval < 0 {
		errs = append(errs, fmt.Errorf("progress_interval: must not be negative, got %s", c.ProgressInterval))
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

// Bounds 解析 Ranges 为四个八位组边界。
func (c *IndexConfig) Bounds() ([4]xrange.Bound, error) {
	if len(c.Ranges) != 4 {
		return [4]xrange.Bound{}, fmt.Errorf("%w: ranges: want 4 octet bounds, got %d", ErrInvalidConfig, len(c.Ranges))
	}
	return xrange.ParseBounds([4]string(c.Ranges))
}

// ExcludeSet 解析 Exclude 为地址集合，列表为空时返回空集合。
func (c *IndexConfig) ExcludeSet() (*netipx.IPSet, error) {
	return xnet.ParseRanges(c.Exclude)
}

// Stdout 报告输出是否为标准输出（空值或 "-"）。
func (c *IndexConfig) Stdout() bool {
	return c.Output == "" || c.Output == "-"
}
