// Package service implements the leave use cases on top of the cached store.
package service

import (
	"context"
	"time"

	"github.com/garyjia/school-leave/internal/domain/event"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// EventPublisher delivers domain events to subscribed handlers
type EventPublisher interface {
	Publish(ctx context.Context, evt *event.Event) error
}

type correlationKey struct{}

// WithCorrelationID tags ctx so that events published while serving it share the id
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

// CorrelationID returns the id set by WithCorrelationID, or ""
func CorrelationID(ctx context.Context) string {
	id, _ := ctx.Value(correlationKey{}).(string)
	return id
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, *event.Event) error { return nil }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func orDefaults(publisher EventPublisher, logger Logger, now func() time.Time) (EventPublisher, Logger, func() time.Time) {
	if publisher == nil {
		publisher = nopPublisher{}
	}
	if logger == nil {
		logger = nopLogger{}
	}
	if now == nil {
		now = time.Now
	}
	return publisher, logger, now
}
