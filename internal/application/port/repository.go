package port

import (
	"context"

	"github.com/garyjia/school-leave/internal/domain/entity"
)

// HistoryRepository persists the local audit trail of remote writes
type HistoryRepository interface {
	Create(ctx context.Context, history *entity.LeaveHistory) error
	GetByLeaveID(ctx context.Context, leaveID string) ([]*entity.LeaveHistory, error)
	ListRecent(ctx context.Context, limit int) ([]*entity.LeaveHistory, error)
}

// TransactionManager handles database transactions
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
