package dispatcher

import (
	"context"

	"github.com/garyjia/school-leave/internal/domain/event"
)

// Handler processes domain events
type Handler func(ctx context.Context, evt *event.Event) error

// HandlerInfo describes a subscription
type HandlerInfo struct {
	Name      string
	EventType event.Type
	Async     bool
	Handler   Handler
}
