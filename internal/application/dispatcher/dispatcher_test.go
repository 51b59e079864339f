package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/garyjia/school-leave/internal/domain/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedDispatcher() (Dispatcher, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return NewDispatcher(zap.New(core)), logs
}

func noop(ctx context.Context, evt *event.Event) error {
	return nil
}

func TestSubscribe_RunsInOrder(t *testing.T) {
	d := NewDispatcher(nil)
	var order []int

	d.Subscribe(event.TypeLeaveSubmitted, "first", func(ctx context.Context, evt *event.Event) error {
		order = append(order, 1)
		return nil
	})
	d.Subscribe(event.TypeLeaveSubmitted, "second", func(ctx context.Context, evt *event.Event) error {
		order = append(order, 2)
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), event.NewEvent(event.TypeLeaveSubmitted, "1", nil)))
	assert.Equal(t, []int{1, 2}, order)
}

func TestPublish_OnlyMatchingType(t *testing.T) {
	d := NewDispatcher(nil)
	called := false

	d.Subscribe(event.TypeLeaveApproved, "approved", func(ctx context.Context, evt *event.Event) error {
		called = true
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), event.NewEvent(event.TypeLeaveRejected, "1", nil)))
	assert.False(t, called)
}

func TestPublish_ReturnsFirstError(t *testing.T) {
	d, logs := newObservedDispatcher()
	expected := errors.New("history write failed")
	secondCalled := false

	d.Subscribe(event.TypeLeaveApproved, "history", func(ctx context.Context, evt *event.Event) error {
		return expected
	})
	d.Subscribe(event.TypeLeaveApproved, "after", func(ctx context.Context, evt *event.Event) error {
		secondCalled = true
		return nil
	})

	err := d.Publish(context.Background(), event.NewEvent(event.TypeLeaveApproved, "1", nil))

	require.Error(t, err)
	assert.ErrorIs(t, err, expected)
	assert.Contains(t, err.Error(), "history")
	assert.False(t, secondCalled)
	assert.Equal(t, 1, logs.FilterMessage("Handler failed").Len())
}

func TestPublish_RecoversPanic(t *testing.T) {
	d := NewDispatcher(nil)

	d.Subscribe(event.TypeLeaveSubmitted, "boom", func(ctx context.Context, evt *event.Event) error {
		panic("boom")
	})

	err := d.Publish(context.Background(), event.NewEvent(event.TypeLeaveSubmitted, "1", nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panic")
}

func TestPublish_AsyncHandlers(t *testing.T) {
	d := NewDispatcher(nil)
	var calls atomic.Int32
	release := make(chan struct{})

	d.SubscribeAsync(event.TypeLeaveSubmitted, "notify", func(ctx context.Context, evt *event.Event) error {
		<-release
		calls.Add(1)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, d.Publish(ctx, event.NewEvent(event.TypeLeaveSubmitted, "1", nil)))
	assert.Equal(t, int32(0), calls.Load(), "publish must not wait for async handlers")

	cancel()
	close(release)
	require.NoError(t, d.Close())
	assert.Equal(t, int32(1), calls.Load())
}

func TestPublish_AsyncContextNotCancelled(t *testing.T) {
	d := NewDispatcher(nil)
	var ctxErr error

	d.SubscribeAsync(event.TypeLeaveSubmitted, "notify", func(ctx context.Context, evt *event.Event) error {
		time.Sleep(10 * time.Millisecond)
		ctxErr = ctx.Err()
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, d.Publish(ctx, event.NewEvent(event.TypeLeaveSubmitted, "1", nil)))
	cancel()

	require.NoError(t, d.Close())
	assert.NoError(t, ctxErr)
}

func TestPublish_AsyncErrorIsLoggedNotReturned(t *testing.T) {
	d, logs := newObservedDispatcher()

	d.SubscribeAsync(event.TypeLeaveSubmitted, "notify", func(ctx context.Context, evt *event.Event) error {
		return errors.New("lark unavailable")
	})

	require.NoError(t, d.Publish(context.Background(), event.NewEvent(event.TypeLeaveSubmitted, "1", nil)))
	require.NoError(t, d.Close())
	assert.Equal(t, 1, logs.FilterMessage("Async handler failed").Len())
}

func TestListHandlers(t *testing.T) {
	d := NewDispatcher(nil)
	d.Subscribe(event.TypeLeaveApproved, "history", noop)
	d.SubscribeAsync(event.TypeLeaveApproved, "notify", noop)
	d.Subscribe(event.TypeLeaveRejected, "history", noop)

	handlers := d.ListHandlers(event.TypeLeaveApproved)
	require.Len(t, handlers, 2)
	assert.Equal(t, "history", handlers[0].Name)
	assert.False(t, handlers[0].Async)
	assert.True(t, handlers[1].Async)
	assert.Nil(t, handlers[0].Handler)

	assert.Empty(t, d.ListHandlers(event.TypeLeaveSubmitted))
}

func TestClose(t *testing.T) {
	d, logs := newObservedDispatcher()
	d.Subscribe(event.TypeLeaveSubmitted, "history", noop)

	require.NoError(t, d.Close())
	assert.ErrorIs(t, d.Close(), ErrClosed)

	err := d.Publish(context.Background(), event.NewEvent(event.TypeLeaveSubmitted, "1", nil))
	assert.ErrorIs(t, err, ErrClosed)
	assert.Equal(t, 1, logs.FilterMessage("Event dropped, dispatcher is closed").Len())
}

func TestConcurrentPublish(t *testing.T) {
	d := NewDispatcher(nil)
	var calls atomic.Int32

	for i := 0; i < 5; i++ {
		d.Subscribe(event.TypeLeaveApproved, fmt.Sprintf("handler-%d", i), func(ctx context.Context, evt *event.Event) error {
			calls.Add(1)
			return nil
		})
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = d.Publish(context.Background(), event.NewEvent(event.TypeLeaveApproved, "1", nil))
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(50), calls.Load())
}
