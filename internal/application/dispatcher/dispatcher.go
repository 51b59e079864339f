package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/garyjia/school-leave/internal/domain/event"
	"go.uber.org/zap"
)

// ErrClosed is returned when publishing to a closed dispatcher
var ErrClosed = errors.New("dispatcher is closed")

// Dispatcher routes leave events to subscribed handlers
type Dispatcher interface {
	// Subscribe registers a handler that runs inside Publish, in subscription order
	Subscribe(eventType event.Type, name string, handler Handler)

	// SubscribeAsync registers a handler that runs on its own goroutine
	SubscribeAsync(eventType event.Type, name string, handler Handler)

	// Publish starts the async handlers, then runs the synchronous ones and
	// returns the first synchronous error
	Publish(ctx context.Context, evt *event.Event) error

	// ListHandlers returns the subscriptions of an event type
	ListHandlers(eventType event.Type) []HandlerInfo

	// Close rejects further events and waits for running async handlers
	Close() error
}

type eventDispatcher struct {
	mu       sync.RWMutex
	handlers map[event.Type][]HandlerInfo
	logger   *zap.Logger

	wg     sync.WaitGroup
	closed bool
}

// NewDispatcher creates a dispatcher; a nil logger disables logging
func NewDispatcher(logger *zap.Logger) Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &eventDispatcher{
		handlers: make(map[event.Type][]HandlerInfo),
		logger:   logger,
	}
}

func (d *eventDispatcher) Subscribe(eventType event.Type, name string, handler Handler) {
	d.subscribe(HandlerInfo{Name: name, EventType: eventType, Handler: handler})
}

func (d *eventDispatcher) SubscribeAsync(eventType event.Type, name string, handler Handler) {
	d.subscribe(HandlerInfo{Name: name, EventType: eventType, Handler: handler, Async: true})
}

func (d *eventDispatcher) subscribe(info HandlerInfo) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.handlers[info.EventType] = append(d.handlers[info.EventType], info)

	d.logger.Debug("Handler registered",
		zap.String("event_type", info.EventType.String()),
		zap.String("handler_name", info.Name),
		zap.Bool("async", info.Async))
}

func (d *eventDispatcher) Publish(ctx context.Context, evt *event.Event) error {
	d.mu.RLock()
	if d.closed {
		d.mu.RUnlock()
		d.logger.Warn("Event dropped, dispatcher is closed",
			zap.String("event_type", evt.Type.String()),
			zap.String("event_id", evt.ID))
		return ErrClosed
	}
	handlers := append([]HandlerInfo(nil), d.handlers[evt.Type]...)
	for _, info := range handlers {
		if info.Async {
			d.wg.Add(1)
		}
	}
	d.mu.RUnlock()

	d.logger.Debug("Publishing event",
		zap.String("event_type", evt.Type.String()),
		zap.String("event_id", evt.ID),
		zap.String("leave_id", evt.LeaveID),
		zap.Int("handler_count", len(handlers)))

	// Async handlers outlive the request that published the event
	detached := context.WithoutCancel(ctx)
	for _, info := range handlers {
		if !info.Async {
			continue
		}
		go func(h HandlerInfo) {
			defer d.wg.Done()
			if err := d.safeExecute(detached, evt, h); err != nil {
				d.logger.Error("Async handler failed",
					zap.String("event_type", evt.Type.String()),
					zap.String("event_id", evt.ID),
					zap.String("handler_name", h.Name),
					zap.Error(err))
			}
		}(info)
	}

	for _, info := range handlers {
		if info.Async {
			continue
		}
		if err := d.safeExecute(ctx, evt, info); err != nil {
			d.logger.Error("Handler failed",
				zap.String("event_type", evt.Type.String()),
				zap.String("event_id", evt.ID),
				zap.String("handler_name", info.Name),
				zap.Error(err))
			return fmt.Errorf("handler %s failed: %w", info.Name, err)
		}
	}

	return nil
}

// ListHandlers omits the handler functions
func (d *eventDispatcher) ListHandlers(eventType event.Type) []HandlerInfo {
	d.mu.RLock()
	defer d.mu.RUnlock()

	handlers := d.handlers[eventType]
	result := make([]HandlerInfo, len(handlers))
	for i, h := range handlers {
		result[i] = HandlerInfo{Name: h.Name, EventType: h.EventType, Async: h.Async}
	}
	return result
}

func (d *eventDispatcher) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrClosed
	}
	d.closed = true
	d.mu.Unlock()

	d.logger.Info("Closing dispatcher, waiting for async handlers")
	d.wg.Wait()
	d.logger.Info("Dispatcher closed")

	return nil
}

func (d *eventDispatcher) safeExecute(ctx context.Context, evt *event.Event, info HandlerInfo) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()

	return info.Handler(ctx, evt)
}
