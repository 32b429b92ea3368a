package xbatch_test

import (
	"context"
	"fmt"
	"os"

	"github.com/omeyang/ipindex/pkg/observability/xlog"
	"github.com/omeyang/ipindex/pkg/scan/xbatch"
	"github.com/omeyang/ipindex/pkg/scan/xrange"
)

func ExampleRunParallel() {
	e, err := xrange.ParseEnumerator("192", "168", "0", "1-5")
	if err != nil {
		fmt.Println(err)
		return
	}
	logger, _, _ := xlog.New().SetVerbosity(0).SetOutput(os.Stderr).Build()

	w := xbatch.NewWriterSink(os.Stdout)
	err = xbatch.RunParallel(context.Background(), e, 2, w,
		xbatch.WithWorkers(3),
		xbatch.WithLogger(logger),
	)
	if err != nil {
		fmt.Println(err)
		return
	}
	_ = w.Flush()
	// Output:
	// 192.168.0.1
	// 192.168.0.2
	// 192.168.0.3
	// 192.168.0.4
	// 192.168.0.5
}
