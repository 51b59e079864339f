package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/garyjia/school-leave/internal/application/port"
	"github.com/garyjia/school-leave/internal/domain/calendar"
	"github.com/garyjia/school-leave/internal/domain/entity"
	"github.com/garyjia/school-leave/internal/domain/event"
	"github.com/garyjia/school-leave/internal/domain/workflow"
)

// RejectNotePlaceholder is stored when a rejection comes without a note
const RejectNotePlaceholder = "-"

// ListFilter narrows the history list
type ListFilter struct {
	// Query matches a substring of the full name or department, ignoring case
	Query string
	// Status keeps only requests in this status when set
	Status entity.LeaveStatus
	// Refresh bypasses the cache
	Refresh bool
}

// LeaveService manages leave requests
type LeaveService interface {
	Submit(ctx context.Context, sub *entity.Submission) (*entity.LeaveRequest, error)
	List(ctx context.Context, filter ListFilter) []entity.LeaveRequest
	Get(ctx context.Context, id string) (*entity.LeaveRequest, error)
	Pending(ctx context.Context, refresh bool) []entity.LeaveRequest
	Withdraw(ctx context.Context, id string) error
	Approve(ctx context.Context, id, reviewer string) error
	Reject(ctx context.Context, id, note, reviewer string) error
	WorkingDays(start, end calendar.Date) int
}

type leaveServiceImpl struct {
	store     port.LeaveStore
	publisher EventPublisher
	logger    Logger
	now       func() time.Time
}

// NewLeaveService creates a new LeaveService
func NewLeaveService(store port.LeaveStore, publisher EventPublisher, logger Logger) LeaveService {
	return newLeaveService(store, publisher, logger, nil)
}

func newLeaveService(store port.LeaveStore, publisher EventPublisher, logger Logger, now func() time.Time) *leaveServiceImpl {
	publisher, logger, now = orDefaults(publisher, logger, now)
	return &leaveServiceImpl{
		store:     store,
		publisher: publisher,
		logger:    logger,
		now:       now,
	}
}

// Submit validates the submission and stores it as a new PENDING request.
// Nothing is sent when validation fails.
func (s *leaveServiceImpl) Submit(ctx context.Context, sub *entity.Submission) (*entity.LeaveRequest, error) {
	if err := sub.Validate(); err != nil {
		return nil, err
	}

	leave := sub.ToLeaveRequest(s.now())
	err := s.store.Create(ctx, leave)

	s.publish(ctx, event.TypeLeaveSubmitted, leave.ID, map[string]interface{}{
		event.KeyFullName:   leave.FullName,
		event.KeyDepartment: leave.Department.Label(),
		event.KeyLeaveType:  leave.LeaveType.Label(),
		event.KeyStartDate:  leave.StartDate.String(),
		event.KeyEndDate:    leave.EndDate.String(),
		event.KeyTotalDays:  leave.TotalDays,
		event.KeyStatus:     leave.Status.Label(),
	}, err)

	if err != nil {
		return nil, err
	}

	s.logger.Info("Leave request submitted", "full_name", leave.FullName, "total_days", leave.TotalDays)
	return leave, nil
}

// List returns the filtered requests, newest first
func (s *leaveServiceImpl) List(ctx context.Context, filter ListFilter) []entity.LeaveRequest {
	all := s.store.FetchAll(ctx, filter.Refresh)

	query := strings.ToLower(strings.TrimSpace(filter.Query))
	result := make([]entity.LeaveRequest, 0, len(all))
	for _, leave := range all {
		if filter.Status != "" && leave.Status != filter.Status {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(leave.FullName), query) &&
			!strings.Contains(strings.ToLower(leave.Department.Label()), query) {
			continue
		}
		result = append(result, leave)
	}

	sortNewestFirst(result)
	return result
}

// Get returns one request or entity.ErrLeaveNotFound
func (s *leaveServiceImpl) Get(ctx context.Context, id string) (*entity.LeaveRequest, error) {
	if leave := s.find(ctx, id); leave != nil {
		return leave, nil
	}
	return nil, fmt.Errorf("%w: %s", entity.ErrLeaveNotFound, id)
}

// Pending returns the requests awaiting review, newest first
func (s *leaveServiceImpl) Pending(ctx context.Context, refresh bool) []entity.LeaveRequest {
	return s.List(ctx, ListFilter{Status: entity.StatusPending, Refresh: refresh})
}

// Withdraw deletes a request that has not been reviewed yet. Ids unknown
// locally are forwarded to the store as they are.
func (s *leaveServiceImpl) Withdraw(ctx context.Context, id string) error {
	leave := s.find(ctx, id)
	if err := checkTransition(leave, workflow.TriggerWithdraw); err != nil {
		return err
	}

	err := s.store.Remove(ctx, id)
	s.publish(ctx, event.TypeLeaveWithdrawn, id, leavePayload(leave), err)
	if err != nil {
		return err
	}

	s.logger.Info("Leave request withdrawn", "id", id)
	return nil
}

// Approve marks a pending request as approved
func (s *leaveServiceImpl) Approve(ctx context.Context, id, reviewer string) error {
	return s.review(ctx, id, workflow.TriggerApprove, entity.StatusApproved, "", reviewer)
}

// Reject marks a pending request as rejected. A blank note is stored as "-".
func (s *leaveServiceImpl) Reject(ctx context.Context, id, note, reviewer string) error {
	note = strings.TrimSpace(note)
	if note == "" {
		note = RejectNotePlaceholder
	}
	return s.review(ctx, id, workflow.TriggerReject, entity.StatusRejected, note, reviewer)
}

// WorkingDays counts Monday to Friday days from start to end inclusive
func (s *leaveServiceImpl) WorkingDays(start, end calendar.Date) int {
	return calendar.WorkingDays(start, end)
}

func (s *leaveServiceImpl) review(ctx context.Context, id string, trigger workflow.Trigger, status entity.LeaveStatus, note, reviewer string) error {
	leave := s.find(ctx, id)
	if err := checkTransition(leave, trigger); err != nil {
		return err
	}

	err := s.store.SetStatus(ctx, id, status, note)

	evtType := event.TypeLeaveApproved
	if trigger == workflow.TriggerReject {
		evtType = event.TypeLeaveRejected
	}
	payload := leavePayload(leave)
	payload[event.KeyStatus] = status.Label()
	payload[event.KeyNote] = note
	payload[event.KeyReviewer] = reviewer
	s.publish(ctx, evtType, id, payload, err)

	if err != nil {
		return err
	}

	s.logger.Info("Leave request reviewed", "id", id, "status", status.Code(), "reviewer", reviewer)
	return nil
}

func (s *leaveServiceImpl) find(ctx context.Context, id string) *entity.LeaveRequest {
	for _, leave := range s.store.FetchAll(ctx, false) {
		if leave.ID == id {
			found := leave
			return &found
		}
	}
	return nil
}

// publish emits evt with the outcome of the remote write. Handler errors
// are logged only; the write has already happened.
func (s *leaveServiceImpl) publish(ctx context.Context, evtType event.Type, leaveID string, payload map[string]interface{}, writeErr error) {
	payload[event.KeySucceeded] = writeErr == nil
	if writeErr != nil {
		payload[event.KeyError] = writeErr.Error()
	}

	evt := event.NewEventWithCorrelation(evtType, leaveID, payload, CorrelationID(ctx))
	if err := s.publisher.Publish(ctx, evt); err != nil {
		s.logger.Error("Failed to publish event", "type", evtType.String(), "leave_id", leaveID, "error", err)
	}
}

// checkTransition rejects the trigger for a request known to be in a state
// that does not permit it. An unknown request passes.
func checkTransition(leave *entity.LeaveRequest, trigger workflow.Trigger) error {
	if leave == nil {
		return nil
	}

	machine, err := workflow.ForStatus(leave.Status.Code())
	if err != nil {
		if errors.Is(err, workflow.ErrInvalidState) {
			return fmt.Errorf("%w: %s from status %q", workflow.ErrInvalidTransition, trigger, leave.Status)
		}
		return err
	}
	return machine.Fire(trigger)
}

// Actions lists the review actions the status of leave allows, in lower
// case (e.g. "approve"). A status outside the lifecycle allows none.
func Actions(leave *entity.LeaveRequest) []string {
	actions := []string{}
	if leave == nil {
		return actions
	}
	machine, err := workflow.ForStatus(leave.Status.Code())
	if err != nil {
		return actions
	}
	for _, trigger := range machine.PermittedTriggers() {
		actions = append(actions, strings.ToLower(trigger.String()))
	}
	return actions
}

func leavePayload(leave *entity.LeaveRequest) map[string]interface{} {
	payload := make(map[string]interface{})
	if leave == nil {
		return payload
	}
	payload[event.KeyFullName] = leave.FullName
	payload[event.KeyDepartment] = leave.Department.Label()
	payload[event.KeyLeaveType] = leave.LeaveType.Label()
	payload[event.KeyStartDate] = leave.StartDate.String()
	payload[event.KeyEndDate] = leave.EndDate.String()
	payload[event.KeyTotalDays] = leave.TotalDays
	payload[event.KeyStatus] = leave.Status.Label()
	return payload
}

func sortNewestFirst(leaves []entity.LeaveRequest) {
	sort.SliceStable(leaves, func(i, j int) bool {
		return leaves[i].CreatedAt.After(leaves[j].CreatedAt)
	})
}
