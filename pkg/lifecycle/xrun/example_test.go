package xrun_test

import (
	"context"
	"errors"
	"fmt"

	"github.com/omeyang/ipindex/pkg/lifecycle/xrun"
)

func ExampleGroup() {
	g, _ := xrun.NewGroup(context.Background(), xrun.WithName("index"))

	batches := make(chan int)
	g.GoWithName("producer", func(ctx context.Context) error {
		defer close(batches)
		for i := range 3 {
			select {
			case batches <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	var sum int
	g.GoWithName("consumer", func(ctx context.Context) error {
		for b := range batches {
			sum += b
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(sum)
	// Output: 3
}

func ExampleRunWithOptions() {
	errStop := errors.New("stop")
	err := xrun.RunWithOptions(context.Background(),
		[]xrun.Option{xrun.WithoutSignalHandler()},
		func(ctx context.Context) error { return errStop },
	)
	fmt.Println(errors.Is(err, errStop))
	// Output: true
}
