package service

import (
	"context"
	"sync"
	"time"

	"github.com/garyjia/school-leave/internal/domain/calendar"
	"github.com/garyjia/school-leave/internal/domain/entity"
	"github.com/garyjia/school-leave/internal/domain/event"
)

type mockStore struct {
	leaves        []entity.LeaveRequest
	createFunc    func(ctx context.Context, leave *entity.LeaveRequest) error
	removeFunc    func(ctx context.Context, id string) error
	setStatusFunc func(ctx context.Context, id string, status entity.LeaveStatus, note string) error

	fetches     int
	refreshes   int
	invalidated int
}

func (m *mockStore) FetchAll(ctx context.Context, forceRefresh bool) []entity.LeaveRequest {
	m.fetches++
	if forceRefresh {
		m.refreshes++
	}
	out := make([]entity.LeaveRequest, len(m.leaves))
	copy(out, m.leaves)
	return out
}

func (m *mockStore) Create(ctx context.Context, leave *entity.LeaveRequest) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, leave)
	}
	return nil
}

func (m *mockStore) Remove(ctx context.Context, id string) error {
	if m.removeFunc != nil {
		return m.removeFunc(ctx, id)
	}
	return nil
}

func (m *mockStore) SetStatus(ctx context.Context, id string, status entity.LeaveStatus, note string) error {
	if m.setStatusFunc != nil {
		return m.setStatusFunc(ctx, id, status, note)
	}
	return nil
}

func (m *mockStore) InvalidateCache() {
	m.invalidated++
}

type mockPublisher struct {
	mu      sync.Mutex
	events  []*event.Event
	pubFunc func(ctx context.Context, evt *event.Event) error
}

func (m *mockPublisher) Publish(ctx context.Context, evt *event.Event) error {
	m.mu.Lock()
	m.events = append(m.events, evt)
	m.mu.Unlock()
	if m.pubFunc != nil {
		return m.pubFunc(ctx, evt)
	}
	return nil
}

func (m *mockPublisher) last() *event.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.events) == 0 {
		return nil
	}
	return m.events[len(m.events)-1]
}

type mockLogger struct{}

func (m *mockLogger) Info(msg string, keysAndValues ...interface{})  {}
func (m *mockLogger) Error(msg string, keysAndValues ...interface{}) {}

func fixedNow() time.Time {
	return time.Date(2023, 10, 20, 9, 0, 0, 0, time.UTC)
}

func storedLeaves() []entity.LeaveRequest {
	return []entity.LeaveRequest{
		{
			ID: "1", FullName: "สมชาย ใจดี", Position: "ครูชำนาญการ",
			Department: entity.DepartmentMath, LeaveType: entity.LeaveTypeSick,
			StartDate: calendar.MustParseDate("2023-11-01"), EndDate: calendar.MustParseDate("2023-11-02"),
			TotalDays: 2, Status: entity.StatusPending,
			CreatedAt: time.Date(2023, 10, 30, 8, 0, 0, 0, time.UTC),
		},
		{
			ID: "2", FullName: "สมหญิง รักเรียน", Position: "ครูผู้ช่วย",
			Department: entity.DepartmentThai, LeaveType: entity.LeaveTypePersonal,
			StartDate: calendar.MustParseDate("2023-10-25"), EndDate: calendar.MustParseDate("2023-10-29"),
			TotalDays: 3, Status: entity.StatusApproved,
			CreatedAt: time.Date(2023, 10, 20, 8, 0, 0, 0, time.UTC),
		},
		{
			ID: "3", FullName: "สมชาย ใจดี", Position: "ครูชำนาญการ",
			Department: entity.DepartmentMath, LeaveType: entity.LeaveTypeSick,
			StartDate: calendar.MustParseDate("2023-09-04"), EndDate: calendar.MustParseDate("2023-09-08"),
			TotalDays: 5, Status: entity.StatusRejected, Note: "-",
			CreatedAt: time.Date(2023, 11, 1, 8, 0, 0, 0, time.UTC),
		},
	}
}

func validSubmission() *entity.Submission {
	return &entity.Submission{
		FullName:   "สมชาย ใจดี",
		Position:   "ครูชำนาญการ",
		Department: entity.DepartmentMath,
		LeaveType:  entity.LeaveTypeSick,
		StartDate:  calendar.MustParseDate("2023-11-01"),
		EndDate:    calendar.MustParseDate("2023-11-02"),
		Reason:     "ไข้หวัด",
		Address:    "บ้าน",
		Contact:    "0812345678",
	}
}
