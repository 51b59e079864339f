package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/garyjia/school-leave/internal/domain/entity"
	"github.com/garyjia/school-leave/internal/infrastructure/persistence/sqlite"
	"github.com/garyjia/school-leave/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) (*HistoryRepository, *sqlite.DB) {
	t.Helper()

	db, err := database.New(database.Config{Path: filepath.Join(t.TempDir(), "history.db")}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, database.NewMigrator(db, nil).Run(sqlite.Migrations()))

	wrapped := sqlite.NewDB(db.DB, nil)
	return NewHistoryRepository(wrapped, nil), wrapped
}

func TestHistoryRepository_CreateAndGet(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	created := time.Date(2023, 10, 25, 9, 30, 0, 0, time.UTC)

	first := &entity.LeaveHistory{
		LeaveID:   "17",
		Action:    entity.ActionSubmit,
		Status:    entity.StatusPending,
		FullName:  "สมชาย ใจดี",
		Succeeded: true,
		CreatedAt: created,
	}
	second := &entity.LeaveHistory{
		LeaveID:   "17",
		Action:    entity.ActionReject,
		Status:    entity.StatusRejected,
		Note:      "-",
		Succeeded: false,
		Error:     "remote store unavailable",
	}
	other := &entity.LeaveHistory{LeaveID: "18", Action: entity.ActionWithdraw, Succeeded: true}

	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))
	require.NoError(t, repo.Create(ctx, other))
	assert.NotZero(t, first.ID)
	assert.Greater(t, second.ID, first.ID)
	assert.False(t, second.CreatedAt.IsZero())

	records, err := repo.GetByLeaveID(ctx, "17")
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, entity.ActionSubmit, records[0].Action)
	assert.Equal(t, entity.StatusPending, records[0].Status)
	assert.Equal(t, "สมชาย ใจดี", records[0].FullName)
	assert.True(t, records[0].Succeeded)
	assert.True(t, created.Equal(records[0].CreatedAt))

	assert.Equal(t, entity.ActionReject, records[1].Action)
	assert.Equal(t, "-", records[1].Note)
	assert.False(t, records[1].Succeeded)
	assert.Equal(t, "remote store unavailable", records[1].Error)
}

func TestHistoryRepository_ListRecent(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	for _, id := range []string{"1", "2", "3"} {
		require.NoError(t, repo.Create(ctx, &entity.LeaveHistory{LeaveID: id, Action: entity.ActionApprove}))
	}

	records, err := repo.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "3", records[0].LeaveID)
	assert.Equal(t, "2", records[1].LeaveID)

	empty, err := repo.GetByLeaveID(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestHistoryRepository_TransactionRollback(t *testing.T) {
	repo, db := newTestRepo(t)
	ctx := context.Background()

	err := db.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := repo.Create(txCtx, &entity.LeaveHistory{LeaveID: "9", Action: entity.ActionSubmit}); err != nil {
			return err
		}
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	records, err := repo.GetByLeaveID(ctx, "9")
	require.NoError(t, err)
	assert.Empty(t, records)
}
