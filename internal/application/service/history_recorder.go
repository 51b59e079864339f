package service

import (
	"context"
	"fmt"

	"github.com/garyjia/school-leave/internal/application/dispatcher"
	"github.com/garyjia/school-leave/internal/application/port"
	"github.com/garyjia/school-leave/internal/domain/entity"
	"github.com/garyjia/school-leave/internal/domain/event"
)

var eventActions = map[event.Type]entity.HistoryAction{
	event.TypeLeaveSubmitted: entity.ActionSubmit,
	event.TypeLeaveApproved:  entity.ActionApprove,
	event.TypeLeaveRejected:  entity.ActionReject,
	event.TypeLeaveWithdrawn: entity.ActionWithdraw,
}

// HistoryRecorder writes one history row per leave event
type HistoryRecorder struct {
	repo port.HistoryRepository
	tx   port.TransactionManager
}

// NewHistoryRecorder creates a recorder over repo. Rows are written inside
// a transaction of tx; a nil tx writes directly.
func NewHistoryRecorder(repo port.HistoryRepository, tx port.TransactionManager) *HistoryRecorder {
	return &HistoryRecorder{repo: repo, tx: tx}
}

// Register subscribes the recorder to every leave event
func (r *HistoryRecorder) Register(d dispatcher.Dispatcher) {
	for _, t := range event.AllTypes() {
		d.Subscribe(t, "history_recorder", r.Handle)
	}
}

// Handle stores evt as a history row
func (r *HistoryRecorder) Handle(ctx context.Context, evt *event.Event) error {
	action, ok := eventActions[evt.Type]
	if !ok {
		return fmt.Errorf("no history action for event type %s", evt.Type)
	}

	history := &entity.LeaveHistory{
		LeaveID:   evt.LeaveID,
		Action:    action,
		Note:      evt.GetPayloadString(event.KeyNote),
		FullName:  evt.GetPayloadString(event.KeyFullName),
		Succeeded: evt.GetPayloadBool(event.KeySucceeded),
		Error:     evt.GetPayloadString(event.KeyError),
		CreatedAt: evt.Timestamp,
	}
	if status, ok := entity.ParseStatus(evt.GetPayloadString(event.KeyStatus)); ok {
		history.Status = status
	}

	if err := r.inTransaction(ctx, func(ctx context.Context) error {
		return r.repo.Create(ctx, history)
	}); err != nil {
		return fmt.Errorf("record %s for %q: %w", action, evt.LeaveID, err)
	}
	return nil
}

func (r *HistoryRecorder) inTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if r.tx == nil {
		return fn(ctx)
	}
	return r.tx.WithTransaction(ctx, fn)
}
