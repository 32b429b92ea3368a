package xrun

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
	"syscall"
	"testing"
	"time"
)

func TestGroup_Empty(t *testing.T) {
	g, _ := NewGroup(context.Background())
	if err := g.Wait(); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
}

func TestGroup_TaskError(t *testing.T) {
	expectedErr := errors.New("sink failed")

	g, _ := NewGroup(context.Background())
	var stopped atomic.Bool
	g.Go(func(ctx context.Context) error {
		return expectedErr
	})
	g.Go(func(ctx context.Context) error {
		<-ctx.Done()
		stopped.Store(true)
		return ctx.Err()
	})

	if err := g.Wait(); err != expectedErr {
		t.Errorf("expected %v, got %v", expectedErr, err)
	}
	if !stopped.Load() {
		t.Error("sibling task was not canceled")
	}
}

func TestGroup_NilFunc(t *testing.T) {
	g, _ := NewGroup(context.Background())
	g.Go(nil)
	if err := g.Wait(); !errors.Is(err, ErrNilFunc) {
		t.Errorf("expected ErrNilFunc, got %v", err)
	}
}

func TestGroup_CancelWithCause(t *testing.T) {
	cause := errors.New("limit reached")

	g, _ := NewGroup(context.Background())
	g.Go(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	g.Cancel(cause)

	if err := g.Wait(); err != cause {
		t.Errorf("expected %v, got %v", cause, err)
	}
}

func TestGroup_CancelNil(t *testing.T) {
	g, _ := NewGroup(context.Background())
	g.Go(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	g.Cancel(nil)

	if err := g.Wait(); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
}

func TestGroup_CauseSurvivesNilReturns(t *testing.T) {
	cause := errors.New("stop")
	g, _ := NewGroup(context.Background())
	g.Go(func(ctx context.Context) error {
		<-ctx.Done()
		return nil
	})
	g.Cancel(cause)

	if err := g.Wait(); err != cause {
		t.Errorf("expected %v, got %v", cause, err)
	}
}

func TestGroup_InternalCanceledNotFiltered(t *testing.T) {
	g, _ := NewGroup(context.Background())
	g.Go(func(ctx context.Context) error {
		return context.Canceled
	})
	if err := g.Wait(); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestGroup_ParentCancelFiltered(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	g, _ := NewGroup(parent)
	g.Go(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	cancel()

	if err := g.Wait(); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
}

func TestGroup_NilParent(t *testing.T) {
	//nolint:staticcheck // 验证 nil context 归一化
	g, ctx := NewGroup(nil, nil)
	if ctx == nil || g.Context() != ctx {
		t.Fatal("expected non-nil group context")
	}
	if err := g.Wait(); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
}

func TestGoWithName_Logs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	g, _ := NewGroup(context.Background(), WithLogger(logger), WithName("index"))
	g.GoWithName("writer", func(ctx context.Context) error {
		return errors.New("disk full")
	})
	_ = g.Wait()

	out := buf.String()
	for _, want := range []string{"task starting", "task exited with error", "group=index", "task=writer", "disk full"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestGoWithName_NilFunc(t *testing.T) {
	g, _ := NewGroup(context.Background())
	g.GoWithName("nil", nil)
	if err := g.Wait(); !errors.Is(err, ErrNilFunc) {
		t.Errorf("expected ErrNilFunc, got %v", err)
	}
}

func TestRun_ReturnsWhenTasksFinish(t *testing.T) {
	var ran atomic.Int32
	err := Run(context.Background(),
		func(ctx context.Context) error { ran.Add(1); return nil },
		func(ctx context.Context) error { ran.Add(1); return nil },
	)
	if err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
	if ran.Load() != 2 {
		t.Errorf("expected 2 tasks to run, got %d", ran.Load())
	}
}

func TestRun_NoTasks(t *testing.T) {
	if err := Run(context.Background()); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
}

func TestRun_NilTask(t *testing.T) {
	if err := Run(context.Background(), nil); !errors.Is(err, ErrNilFunc) {
		t.Errorf("expected ErrNilFunc, got %v", err)
	}
}

func TestRun_SignalError(t *testing.T) {
	sigCh := make(chan os.Signal, 1)
	ctx := withTestSigChan(context.Background(), sigCh)

	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		})
	}()

	time.Sleep(50 * time.Millisecond)
	sigCh <- syscall.SIGTERM

	select {
	case err := <-done:
		var sigErr *SignalError
		if !errors.As(err, &sigErr) {
			t.Fatalf("expected SignalError, got %v", err)
		}
		if sigErr.Signal != syscall.SIGTERM {
			t.Errorf("expected SIGTERM, got %v", sigErr.Signal)
		}
		if !errors.Is(err, ErrSignal) {
			t.Error("error should match ErrSignal")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for Run to return")
	}
}

func TestRunWithOptions_WithoutSignalHandler(t *testing.T) {
	sigCh := make(chan os.Signal, 1)
	sigCh <- syscall.SIGINT
	ctx := withTestSigChan(context.Background(), sigCh)

	err := RunWithOptions(ctx, []Option{WithoutSignalHandler(), WithSignals(nil)},
		func(ctx context.Context) error { return nil },
	)
	if err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
}

func TestWithSignals_DefensiveCopy(t *testing.T) {
	signals := []os.Signal{syscall.SIGINT}
	opt := WithSignals(signals)
	signals[0] = syscall.SIGKILL

	o := defaultOptions()
	opt(o)
	if o.signals[0] != syscall.SIGINT {
		t.Errorf("expected SIGINT, got %v", o.signals[0])
	}
}

func TestDefaultSignals(t *testing.T) {
	a := DefaultSignals()
	if len(a) != 4 {
		t.Fatalf("expected 4 signals, got %d", len(a))
	}
	a[0] = syscall.SIGKILL
	if DefaultSignals()[0] != syscall.SIGHUP {
		t.Error("DefaultSignals should return a fresh slice")
	}
}

func TestSignalError_Error(t *testing.T) {
	if got := (&SignalError{Signal: syscall.SIGINT}).Error(); got != "received signal interrupt" {
		t.Errorf("unexpected message %q", got)
	}
	if got := (&SignalError{}).Error(); got != "received signal <nil>" {
		t.Errorf("unexpected message %q", got)
	}
}

func TestTicker(t *testing.T) {
	var count atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- Ticker(5*time.Millisecond, true, func(ctx context.Context) error {
			if count.Add(1) >= 3 {
				cancel()
			}
			return nil
		})(ctx)
	}()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for ticker")
	}
	if count.Load() < 3 {
		t.Errorf("expected at least 3 ticks, got %d", count.Load())
	}
}

func TestTicker_Errors(t *testing.T) {
	ctx := context.Background()
	if err := Ticker(0, false, func(context.Context) error { return nil })(ctx); !errors.Is(err, ErrInvalidInterval) {
		t.Errorf("expected ErrInvalidInterval, got %v", err)
	}
	if err := Ticker(time.Second, false, nil)(ctx); !errors.Is(err, ErrNilFunc) {
		t.Errorf("expected ErrNilFunc, got %v", err)
	}

	tickErr := errors.New("tick failed")
	if err := Ticker(time.Millisecond, true, func(context.Context) error { return tickErr })(ctx); err != tickErr {
		t.Errorf("expected %v, got %v", tickErr, err)
	}

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	if err := Ticker(time.Second, true, func(context.Context) error { return nil })(canceled); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
