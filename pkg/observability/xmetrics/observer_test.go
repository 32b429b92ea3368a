package xmetrics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type nilObserver struct{}

//nolint:staticcheck // 模拟返回 nil 的自定义实现
func (nilObserver) Start(context.Context, SpanOptions) (context.Context, Span) {
	return nil, nil
}

func TestStart_NilObserver(t *testing.T) {
	//nolint:staticcheck // 验证 nil ctx 归一化
	ctx, span := Start(nil, nil, SpanOptions{})
	assert.NotNil(t, ctx)
	assert.IsType(t, NoopSpan{}, span)
	span.End(Result{})
}

func TestStart_NilReturns(t *testing.T) {
	ctx := context.Background()
	got, span := Start(ctx, nilObserver{}, SpanOptions{})
	assert.Equal(t, ctx, got)
	assert.IsType(t, NoopSpan{}, span)
}

func TestNoopObserver(t *testing.T) {
	//nolint:staticcheck // 验证 nil ctx 归一化
	ctx, span := NoopObserver{}.Start(nil, SpanOptions{})
	assert.Equal(t, context.Background(), ctx)
	assert.IsType(t, NoopSpan{}, span)
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "Internal", KindInternal.String())
	assert.Equal(t, "Producer", KindProducer.String())
	assert.Equal(t, "Consumer", KindConsumer.String())
	assert.Equal(t, "Kind(9)", Kind(9).String())
}

func TestResolveStatus(t *testing.T) {
	assert.Equal(t, StatusOK, resolveStatus(Result{}))
	assert.Equal(t, StatusError, resolveStatus(Result{Err: context.Canceled}))
	assert.Equal(t, StatusOK, resolveStatus(Result{Status: StatusOK, Err: context.Canceled}))
}
