package entity

import (
	"errors"
	"fmt"
)

var (
	// ErrLeaveNotFound is returned when no request has the given id
	ErrLeaveNotFound = errors.New("leave request not found")

	// ErrInvalidDateRange is returned when the end date precedes the start date
	ErrInvalidDateRange = errors.New("end date is before start date")

	// ErrNoWorkingDays is returned when the requested period has no Monday-to-Friday day
	ErrNoWorkingDays = errors.New("period contains no working days")
)

// ValidationError describes the first invalid field of a submission
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
