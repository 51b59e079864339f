package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/garyjia/school-leave/internal/application/port"
	"github.com/garyjia/school-leave/internal/domain/entity"
	"github.com/garyjia/school-leave/internal/infrastructure/persistence/sqlite"
	"go.uber.org/zap"
)

// HistoryRepository implements port.HistoryRepository on SQLite
type HistoryRepository struct {
	db     *sqlite.DB
	logger *zap.Logger
}

// NewHistoryRepository creates a new history repository
func NewHistoryRepository(db *sqlite.DB, logger *zap.Logger) *HistoryRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HistoryRepository{db: db, logger: logger}
}

var _ port.HistoryRepository = (*HistoryRepository)(nil)

const historyColumns = `id, leave_id, action, status, note, full_name, succeeded, error, created_at`

// Create inserts a record and sets its ID. A zero CreatedAt is set to now.
func (r *HistoryRepository) Create(ctx context.Context, history *entity.LeaveHistory) error {
	if history.CreatedAt.IsZero() {
		history.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO leave_history (
			leave_id, action, status, note, full_name, succeeded, error, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.Executor(ctx).ExecContext(ctx, query,
		history.LeaveID,
		string(history.Action),
		string(history.Status),
		history.Note,
		history.FullName,
		history.Succeeded,
		history.Error,
		history.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		r.logger.Error("Failed to create history record",
			zap.String("leave_id", history.LeaveID),
			zap.Error(err))
		return fmt.Errorf("failed to create history: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	history.ID = id
	return nil
}

// GetByLeaveID returns the records of one request, oldest first
func (r *HistoryRepository) GetByLeaveID(ctx context.Context, leaveID string) ([]*entity.LeaveHistory, error) {
	query := `SELECT ` + historyColumns + ` FROM leave_history WHERE leave_id = ? ORDER BY id ASC`

	rows, err := r.db.Executor(ctx).QueryContext(ctx, query, leaveID)
	if err != nil {
		r.logger.Error("Failed to get history by leave ID",
			zap.String("leave_id", leaveID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	defer rows.Close()

	return scanHistory(rows)
}

// ListRecent returns at most limit records, newest first
func (r *HistoryRepository) ListRecent(ctx context.Context, limit int) ([]*entity.LeaveHistory, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT ` + historyColumns + ` FROM leave_history ORDER BY id DESC LIMIT ?`

	rows, err := r.db.Executor(ctx).QueryContext(ctx, query, limit)
	if err != nil {
		r.logger.Error("Failed to list history", zap.Error(err))
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	return scanHistory(rows)
}

func scanHistory(rows *sql.Rows) ([]*entity.LeaveHistory, error) {
	records := make([]*entity.LeaveHistory, 0)
	for rows.Next() {
		var (
			record    entity.LeaveHistory
			action    string
			status    string
			createdAt string
		)
		if err := rows.Scan(
			&record.ID,
			&record.LeaveID,
			&action,
			&status,
			&record.Note,
			&record.FullName,
			&record.Succeeded,
			&record.Error,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan history: %w", err)
		}

		record.Action = entity.HistoryAction(action)
		record.Status = entity.LeaveStatus(status)
		if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			record.CreatedAt = t
		}
		records = append(records, &record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history: %w", err)
	}
	return records, nil
}
