package main

import (
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/omeyang/ipindex/pkg/config/xconf"
	"github.com/omeyang/ipindex/pkg/scan/xrange"
)

var rangeFlagNames = [4]string{"r0", "r1", "r2", "r3"}

// rangeFlags 四个八位组的范围参数与批次大小，index/count/batch 通用。
func rangeFlags() []cli.Flag {
	flags := make([]cli.Flag, 0, 8)
	for i, name := range rangeFlagNames {
		flags = append(flags, &cli.StringFlag{
			Name:      name,
			Usage:     fmt.Sprintf("第 %d 个八位组的范围，\"N\" 或 \"L-U\"", i),
			Value:     xrange.FullBound,
			Validator: xrange.ValidateBound,
		})
	}
	return append(flags,
		&cli.IntFlag{
			Name:    "batch-size",
			Aliases: []string{"b"},
			Usage:   "每批地址数",
			Value:   xconf.DefaultBatchSize,
			Validator: func(n int) error {
				if n <= 0 {
					return fmt.Errorf("batch size must be positive, got %d", n)
				}
				return nil
			},
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "YAML/JSON 配置文件，命令行显式给出的选项优先",
		},
	)
}

// verbosityFlag -v 计数，结果写入 n。
func verbosityFlag(n *int) cli.Flag {
	return &cli.BoolFlag{
		Name:    "verbose",
		Aliases: []string{"v"},
		Usage:   "日志详细程度，可重复（-v info，-vv debug）",
		Config:  cli.BoolConfig{Count: n},
	}
}

func excludeFlag() cli.Flag {
	return &cli.StringSliceFlag{
		Name:  "exclude",
		Usage: "排除的地址、CIDR 或 \"a-b\" 范围，可重复",
	}
}

// indexFlags index 命令专有参数。
func indexFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "mode",
			Usage: "生成模式：sequential 或 parallel",
			Value: string(xconf.ModeSequential),
		},
		&cli.IntFlag{
			Name:    "workers",
			Aliases: []string{"w"},
			Usage:   "parallel 模式的 worker 数",
			Value:   xconf.DefaultIndexConfig().Workers,
		},
		&cli.BoolFlag{
			Name:  "ordered",
			Usage: "parallel 模式下按批次顺序输出",
			Value: true,
		},
		excludeFlag(),
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "输出文件，\"-\" 为标准输出",
			Value:   "-",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "日志级别（debug/info/warn/error），优先于 -v",
		},
		&cli.StringFlag{
			Name:  "log-format",
			Usage: "日志格式：text 或 json",
			Value: "text",
		},
		&cli.StringFlag{
			Name:  "log-file",
			Usage: "日志文件（按大小轮转），默认写标准错误",
		},
		&cli.DurationFlag{
			Name:  "progress-interval",
			Usage: "进度日志间隔，0 表示关闭",
		},
	}
}

// loadConfig 合并配置：默认值 < 配置文件 < 显式给出的命令行选项。
func loadConfig(cmd *cli.Command) (*xconf.IndexConfig, error) {
	cfg := xconf.DefaultIndexConfig()
	if path := cmd.String("config"); path != "" {
		loaded, err := xconf.LoadIndexConfig(path)
		if err != nil {
			return nil, &usageError{err: err}
		}
		cfg = loaded
	}

	for i, name := range rangeFlagNames {
		if cmd.IsSet(name) {
			cfg.Ranges[i] = cmd.String(name)
		}
	}
	if cmd.IsSet("batch-size") {
		cfg.BatchSize = cmd.Int("batch-size")
	}
	overrideIndexFlags(cmd, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, &usageError{err: err}
	}
	return cfg, nil
}

func overrideIndexFlags(cmd *cli.Command, cfg *xconf.IndexConfig) {
	if cmd.IsSet("mode") {
		cfg.Mode = xconf.Mode(cmd.String("mode"))
	}
	if cmd.IsSet("workers") {
		cfg.Workers = cmd.Int("workers")
	}
	if cmd.IsSet("ordered") {
		cfg.Ordered = cmd.Bool("ordered")
	}
	if cmd.IsSet("exclude") {
		cfg.Exclude = cmd.StringSlice("exclude")
	}
	if cmd.IsSet("output") {
		cfg.Output = cmd.String("output")
	}
	if cmd.IsSet("log-level") {
		cfg.Log.Level = cmd.String("log-level")
	}
	if cmd.IsSet("log-format") {
		cfg.Log.Format = cmd.String("log-format")
	}
	if cmd.IsSet("log-file") {
		cfg.Log.File = cmd.String("log-file")
	}
	if cmd.IsSet("progress-interval") {
		cfg.ProgressInterval = cmd.Duration("progress-interval")
	}
}
