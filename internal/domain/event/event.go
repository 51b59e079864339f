package event

import (
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cast"
)

// Payload keys shared by publishers and handlers
const (
	KeyFullName   = "full_name"
	KeyDepartment = "department"
	KeyLeaveType  = "leave_type"
	KeyStartDate  = "start_date"
	KeyEndDate    = "end_date"
	KeyTotalDays  = "total_days"
	KeyStatus     = "status"
	KeyNote       = "note"
	KeyReviewer   = "reviewer"
	KeySucceeded  = "succeeded"
	KeyError      = "error"
)

// Event is something that happened to a leave request in this service.
// Failed remote writes are published too, with KeySucceeded set to false.
type Event struct {
	ID            string                 `json:"id"`
	Type          Type                   `json:"type"`
	LeaveID       string                 `json:"leave_id"`
	Payload       map[string]interface{} `json:"payload"`
	Timestamp     time.Time              `json:"timestamp"`
	CorrelationID string                 `json:"correlation_id"`
}

// NewEvent creates an event with a fresh ID and the current time
func NewEvent(eventType Type, leaveID string, payload map[string]interface{}) *Event {
	return NewEventWithCorrelation(eventType, leaveID, payload, uuid.NewString())
}

// NewEventWithCorrelation creates an event that belongs to an existing
// correlation chain, usually the HTTP request ID
func NewEventWithCorrelation(eventType Type, leaveID string, payload map[string]interface{}, correlationID string) *Event {
	if payload == nil {
		payload = make(map[string]interface{})
	}
	if correlationID == "" {
		correlationID = uuid.NewString()
	}
	return &Event{
		ID:            uuid.NewString(),
		Type:          eventType,
		LeaveID:       leaveID,
		Payload:       payload,
		Timestamp:     time.Now(),
		CorrelationID: correlationID,
	}
}

// WithPayload returns a copy of the event with key set; e is unchanged
func (e *Event) WithPayload(key string, value interface{}) *Event {
	payload := make(map[string]interface{}, len(e.Payload)+1)
	for k, v := range e.Payload {
		payload[k] = v
	}
	payload[key] = value

	copied := *e
	copied.Payload = payload
	return &copied
}

// GetPayloadString returns the value under key as a string, "" if absent
func (e *Event) GetPayloadString(key string) string {
	return cast.ToString(e.Payload[key])
}

// GetPayloadInt returns the value under key as an int, 0 if absent or not numeric
func (e *Event) GetPayloadInt(key string) int {
	return cast.ToInt(e.Payload[key])
}

// GetPayloadBool returns the value under key as a bool, false if absent
func (e *Event) GetPayloadBool(key string) bool {
	return cast.ToBool(e.Payload[key])
}
