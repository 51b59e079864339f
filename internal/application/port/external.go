package port

import (
	"context"

	"github.com/garyjia/school-leave/internal/domain/entity"
)

// LeaveGateway is the transport to the remote spreadsheet endpoint.
// Every method returns a non-nil error when the endpoint cannot be reached
// or answers with a failure status.
type LeaveGateway interface {
	List(ctx context.Context) ([]entity.LeaveRequest, error)
	Create(ctx context.Context, leave *entity.LeaveRequest) error
	Delete(ctx context.Context, id string) error
	UpdateStatus(ctx context.Context, id string, status entity.LeaveStatus, note string) error
}

// LeaveStore is the cached view of the remote store used by the application
type LeaveStore interface {
	// FetchAll never fails; on transport errors it returns the last good list
	FetchAll(ctx context.Context, forceRefresh bool) []entity.LeaveRequest
	Create(ctx context.Context, leave *entity.LeaveRequest) error
	Remove(ctx context.Context, id string) error
	SetStatus(ctx context.Context, id string, status entity.LeaveStatus, note string) error
	InvalidateCache()
}

// MessageSender delivers plain-text chat messages to reviewers
type MessageSender interface {
	SendText(ctx context.Context, receiveID string, text string) error
}
