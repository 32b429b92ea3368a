// Package xrun 提供基于 errgroup + context 的运行生命周期管理。
//
// 一次索引运行通常由多个并发任务组成：批次生成、结果写出、进度上报。
// xrun 把它们放进同一个 [Group]，任一任务失败或收到终止信号时，
// context 被取消，其余任务随之退出。
//
//	err := xrun.RunWithOptions(ctx, []xrun.Option{xrun.WithName("index")},
//	    func(ctx context.Context) error {
//	        return runner.Run(ctx)
//	    },
//	)
//	if errors.Is(err, xrun.ErrSignal) {
//	    // 被 SIGINT/SIGTERM 中断
//	}
//
// 与常驻服务不同，[RunWithOptions] 在全部任务返回后即结束，不会一直等待信号。
// 常驻的辅助任务（如 [Ticker]）应在主任务结束时由调用方通过 [Group.Cancel] 停止，
// 或直接使用 [NewGroup] 自行编排。
package xrun
