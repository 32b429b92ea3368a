// ipindex 按八位组范围枚举 IPv4 地址并分批输出。
//
// 用法:
//
//	ipindex <命令> [选项]
//
// 命令:
//
//	index    枚举全部地址，逐行输出
//	count    输出地址总数和批次数
//	batch    直接输出第 k 批
//
// 范围选项（index/count/batch 通用）:
//
//	--r0 .. --r3         四个八位组的范围，"N" 或 "L-U"（默认 0-255）
//	-b, --batch-size     批次大小（默认 256）
//	-v                   日志详细程度，可重复：-v info，-vv debug
//
// 退出码:
//
//	0: 成功，stderr 输出 "Done"
//	1: 运行失败，stderr 输出 "error in processing : <原因>"
//	2: 参数错误
//	130: 被信号中断
//
// 示例:
//
//	ipindex index --r0 10 --r1 0 --r2 0-1                  # 10.0.0.0 ~ 10.0.1.255
//	ipindex index --r0 10 --mode parallel --workers 8 -o addrs.txt
//	ipindex count --r0 10 --r1 0-3 -b 1024
//	ipindex batch --r0 10 --index 3 -b 1024
//	ipindex index --config ipindex.yaml -vv
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/omeyang/ipindex/pkg/lifecycle/xrun"
)

// 版本信息（可通过 -ldflags 注入，例如:
//
//	go build -ldflags "-X main.Version=1.0.0 -X main.GitCommit=$(git rev-parse --short HEAD)"
//
// ）。
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// 退出码
const (
	exitOK          = 0
	exitFailure     = 1
	exitUsage       = 2
	exitInterrupted = 130
)

func main() {
	os.Exit(run(context.Background(), os.Args, os.Stdout, os.Stderr))
}

// usageError 参数错误，映射为退出码 2。
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }

func (e *usageError) Unwrap() error { return e.err }

func onUsageError(_ context.Context, _ *cli.Command, err error, _ bool) error {
	return &usageError{err: err}
}

// createApp 创建 CLI 应用。stdout 接收地址输出，stderr 接收日志和状态。
func createApp(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:           "ipindex",
		Usage:          "按八位组范围枚举 IPv4 地址并分批输出",
		Version:        fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
		Writer:         stdout,
		ErrWriter:      stderr,
		Commands:       createCommands(),
		OnUsageError:   onUsageError,
		DefaultCommand: "help",
		// 禁止 urfave/cli 直接调用 os.Exit，由 run() 统一映射退出码。
		ExitErrHandler: func(_ context.Context, _ *cli.Command, _ error) {},
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	app := createApp(stdout, stderr)

	if err := app.Run(ctx, args); err != nil {
		fmt.Fprintf(stderr, "error in processing : %v\n", err)
		return exitCode(err)
	}
	return exitOK
}

func exitCode(err error) int {
	var usageErr *usageError
	var sigErr *xrun.SignalError
	switch {
	case err == nil:
		return exitOK
	case errors.As(err, &usageErr):
		return exitUsage
	case errors.As(err, &sigErr):
		return exitInterrupted
	default:
		return exitFailure
	}
}
