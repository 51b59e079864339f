package entity

import (
	"reflect"
	"time"

	"github.com/garyjia/school-leave/internal/domain/calendar"
	"github.com/garyjia/school-leave/pkg/utils"
	"github.com/go-playground/validator/v10"
)

// LeaveRequest is one leave record as kept by the remote store
type LeaveRequest struct {
	ID         string        `json:"id"`
	FullName   string        `json:"fullName"`
	Position   string        `json:"position"`
	Department Department    `json:"department"`
	LeaveType  LeaveType     `json:"leaveType"`
	StartDate  calendar.Date `json:"startDate"`
	EndDate    calendar.Date `json:"endDate"`
	TotalDays  int           `json:"totalDays"`
	Reason     string        `json:"reason"`
	Address    string        `json:"address"`
	Contact    string        `json:"contact"`
	Status     LeaveStatus   `json:"status"`
	CreatedAt  time.Time     `json:"createdAt"`
	Note       string        `json:"note,omitempty"`
}

// Submission holds the fields a staff member fills in
type Submission struct {
	FullName   string        `json:"fullName" validate:"notblank"`
	Position   string        `json:"position" validate:"notblank"`
	Department Department    `json:"department"`
	LeaveType  LeaveType     `json:"leaveType"`
	StartDate  calendar.Date `json:"startDate" validate:"notblank"`
	EndDate    calendar.Date `json:"endDate" validate:"notblank"`
	Reason     string        `json:"reason" validate:"notblank"`
	Address    string        `json:"address" validate:"notblank"`
	Contact    string        `json:"contact" validate:"notblank"`
}

var submissionValidator = newSubmissionValidator()

func newSubmissionValidator() *validator.Validate {
	v := utils.NewValidator()
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(calendar.Date); ok {
			return d.String()
		}
		return nil
	}, calendar.Date{})
	return v
}

// TotalDays returns the working days covered by the submission
func (s *Submission) TotalDays() int {
	return calendar.WorkingDays(s.StartDate, s.EndDate)
}

// Validate returns nil or a *ValidationError for the first problem found:
// blank required fields, then unknown department or leave type, then the
// date range, then a period without working days.
func (s *Submission) Validate() error {
	if err := submissionValidator.Struct(s); err != nil {
		if fe, ok := utils.FirstFieldError(err); ok {
			return &ValidationError{Field: fe.Field(), Message: "is required"}
		}
		return &ValidationError{Field: "submission", Message: err.Error(), Err: err}
	}

	if !s.Department.IsValid() {
		return &ValidationError{Field: "department", Message: "unknown department"}
	}
	if !s.LeaveType.IsValid() {
		return &ValidationError{Field: "leaveType", Message: "unknown leave type"}
	}

	if s.EndDate.Before(s.StartDate) {
		return &ValidationError{
			Field:   "endDate",
			Message: "must not be before startDate",
			Err:     ErrInvalidDateRange,
		}
	}

	if s.TotalDays() <= 0 {
		return &ValidationError{
			Field:   "totalDays",
			Message: "only Monday to Friday count as leave days; the period has none",
			Err:     ErrNoWorkingDays,
		}
	}

	return nil
}

// ToLeaveRequest builds a new PENDING record created at now. The id is left
// empty for the remote store to assign.
func (s *Submission) ToLeaveRequest(now time.Time) *LeaveRequest {
	return &LeaveRequest{
		FullName:   s.FullName,
		Position:   s.Position,
		Department: s.Department,
		LeaveType:  s.LeaveType,
		StartDate:  s.StartDate,
		EndDate:    s.EndDate,
		TotalDays:  s.TotalDays(),
		Reason:     s.Reason,
		Address:    s.Address,
		Contact:    s.Contact,
		Status:     StatusPending,
		CreatedAt:  now,
	}
}
