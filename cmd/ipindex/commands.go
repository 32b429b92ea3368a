package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	"github.com/omeyang/ipindex/pkg/config/xconf"
	"github.com/omeyang/ipindex/pkg/lifecycle/xrun"
	"github.com/omeyang/ipindex/pkg/observability/xlog"
	"github.com/omeyang/ipindex/pkg/observability/xmetrics"
	"github.com/omeyang/ipindex/pkg/scan/xbatch"
	"github.com/omeyang/ipindex/pkg/scan/xrange"
	"github.com/omeyang/ipindex/pkg/util/xfile"
	"github.com/omeyang/ipindex/pkg/util/xnet"
)

// 创建所有子命令。
func createCommands() []*cli.Command {
	return []*cli.Command{
		createIndexCommand(),
		createCountCommand(),
		createBatchCommand(),
	}
}

func createIndexCommand() *cli.Command {
	var verbosity int
	return &cli.Command{
		Name:                   "index",
		Usage:                  "枚举全部地址，逐行输出",
		Flags:                  append(append(rangeFlags(), verbosityFlag(&verbosity)), indexFlags()...),
		UseShortOptionHandling: true,
		OnUsageError:           onUsageError,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			lv := logVerbosity{count: verbosity, levelFlag: cmd.IsSet("log-level")}
			return cmdIndex(ctx, cmd.Root().Writer, cmd.Root().ErrWriter, cfg, lv)
		},
	}
}

func createCountCommand() *cli.Command {
	var verbosity int
	return &cli.Command{
		Name:                   "count",
		Usage:                  "输出地址总数和批次数",
		Flags:                  append(rangeFlags(), verbosityFlag(&verbosity), excludeFlag()),
		UseShortOptionHandling: true,
		OnUsageError:           onUsageError,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			e, err := enumerator(cfg)
			if err != nil {
				return err
			}
			w := cmd.Root().Writer
			fmt.Fprintf(w, "ranges:  %s\n", e)
			fmt.Fprintf(w, "total:   %d\n", e.TotalSize())
			fmt.Fprintf(w, "batches: %d (batch size %d)\n", e.BatchCount(cfg.BatchSize), cfg.BatchSize)
			if len(cfg.Exclude) > 0 {
				set, err := cfg.ExcludeSet()
				if err != nil {
					return &usageError{err: err}
				}
				r := e.IPRange()
				fmt.Fprintf(w, "exclude: %d listed, %d within %s-%s\n",
					xnet.SetSizeUint64(set), xnet.OverlapSizeUint64(set, r), r.From(), r.To())
			}
			fmt.Fprintln(cmd.Root().ErrWriter, "Done")
			return nil
		},
	}
}

func createBatchCommand() *cli.Command {
	var verbosity int
	return &cli.Command{
		Name:  "batch",
		Usage: "直接输出第 k 批（批次越界时输出为空）",
		Flags: append(append(rangeFlags(), verbosityFlag(&verbosity)),
			&cli.Uint64Flag{
				Name:     "index",
				Aliases:  []string{"k"},
				Usage:    "批次序号，从 0 开始",
				Required: true,
			},
		),
		UseShortOptionHandling: true,
		OnUsageError:           onUsageError,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			e, err := enumerator(cfg)
			if err != nil {
				return err
			}
			w := xbatch.NewWriterSink(cmd.Root().Writer)
			k := cmd.Uint64("index")
			if err := w.Emit(ctx, xbatch.Batch{Index: k, Addrs: e.BatchAt(k, cfg.BatchSize)}); err != nil {
				return err
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.Root().ErrWriter, "Done")
			return nil
		},
	}
}

func enumerator(cfg *xconf.IndexConfig) (*xrange.Enumerator, error) {
	bounds, err := cfg.Bounds()
	if err != nil {
		return nil, &usageError{err: err}
	}
	return xrange.NewEnumerator(bounds[0], bounds[1], bounds[2], bounds[3]), nil
}

// logVerbosity 命令行上与日志级别有关的输入。
type logVerbosity struct {
	count     int  // -v 出现次数
	levelFlag bool // --log-level 是否显式给出
}

// newLogger 构建日志器。级别优先级：--log-level > -v > 配置文件 log.level > 默认 warn。
func newLogger(cfg *xconf.IndexConfig, lv logVerbosity, stderr io.Writer) (xlog.LoggerWithLevel, func() error, error) {
	b := xlog.New().SetOutput(stderr).SetFormat(cfg.Log.Format)
	switch {
	case lv.levelFlag, cfg.Log.Level != "" && lv.count == 0:
		b.SetLevelString(cfg.Log.Level)
	default:
		b.SetVerbosity(lv.count)
	}
	if cfg.Log.File != "" {
		b.SetRotation(cfg.Log.File)
	}
	return b.Build()
}

// openOutput 打开地址输出目标，返回的 close 对标准输出不做任何事。
func openOutput(cfg *xconf.IndexConfig, stdout io.Writer) (io.Writer, func() error, error) {
	if cfg.Stdout() {
		return stdout, func() error { return nil }, nil
	}
	f, err := xfile.Create(cfg.Output)
	if err != nil {
		return nil, nil, fmt.Errorf("open output: %w", err)
	}
	return f, f.Close, nil
}

func cmdIndex(ctx context.Context, stdout, stderr io.Writer, cfg *xconf.IndexConfig, lv logVerbosity) (err error) {
	e, err := enumerator(cfg)
	if err != nil {
		return err
	}
	exclude, err := cfg.ExcludeSet()
	if err != nil {
		return &usageError{err: err}
	}

	logger, cleanup, err := newLogger(cfg, lv, stderr)
	if err != nil {
		return &usageError{err: err}
	}
	defer func() { _ = cleanup() }()
	xlog.SetDefault(logger)

	ctx = xlog.WithRunID(ctx, uuid.NewString())

	out, closeOut, err := openOutput(cfg, stdout)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeOut(); cerr != nil && err == nil {
			err = fmt.Errorf("close output: %w", cerr)
		}
	}()

	obs, err := xmetrics.NewOTelObserver()
	if err != nil {
		return err
	}

	writer := xbatch.NewWriterSink(out)
	var sink xbatch.Sink = writer
	var excluder *xbatch.ExcludeSink
	if len(cfg.Exclude) > 0 {
		excluder = xbatch.NewExcludeSink(writer, exclude)
		sink = excluder
	}

	stats := &xbatch.Stats{}
	opts := []xbatch.Option{
		xbatch.WithLogger(logger),
		xbatch.WithObserver(obs),
		xbatch.WithStats(stats),
		xbatch.WithWorkers(cfg.Workers),
		xbatch.WithOrdered(cfg.Ordered),
	}

	done := make(chan struct{})
	tasks := []func(context.Context) error{
		func(ctx context.Context) error {
			defer close(done)
			var runErr error
			if cfg.Mode == xconf.ModeParallel {
				runErr = xbatch.RunParallel(ctx, e, cfg.BatchSize, sink, opts...)
			} else {
				runErr = xbatch.RunSequential(ctx, e, cfg.BatchSize, sink, opts...)
			}
			if ferr := writer.Flush(); runErr == nil {
				runErr = ferr
			}
			return runErr
		},
	}
	if cfg.ProgressInterval > 0 {
		tasks = append(tasks, progressTask(cfg.ProgressInterval, done, func(ctx context.Context) error {
			logger.Info(ctx, "progress",
				slog.Uint64("batches", stats.Batches()),
				slog.Uint64("addresses", stats.Addresses()),
				slog.Uint64("total", e.TotalSize()),
			)
			return nil
		}))
	}

	err = xrun.RunWithOptions(ctx, []xrun.Option{
		xrun.WithLogger(xlog.ToSlog(logger)),
		xrun.WithName("ipindex"),
	}, tasks...)
	if err != nil {
		return err
	}
	summary := []slog.Attr{
		slog.Uint64("batches", stats.Batches()),
		slog.Uint64("addresses", stats.Addresses()),
	}
	if excluder != nil {
		summary = append(summary, slog.Uint64("excluded", excluder.Excluded()))
	}
	logger.Info(ctx, "index finished", summary...)
	fmt.Fprintln(stderr, "Done")
	return nil
}

// progressTask 周期性上报进度，done 关闭后正常返回。
func progressTask(interval time.Duration, done <-chan struct{}, report func(context.Context) error) func(context.Context) error {
	return func(ctx context.Context) error {
		tctx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			select {
			case <-done:
				cancel()
			case <-tctx.Done():
			}
		}()

		err := xrun.Ticker(interval, false, report)(tctx)
		if ctx.Err() == nil && errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}
}
