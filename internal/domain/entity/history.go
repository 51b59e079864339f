package entity

import "time"

// HistoryAction is an action this service performed against the remote store
type HistoryAction string

const (
	ActionSubmit   HistoryAction = "SUBMIT"
	ActionApprove  HistoryAction = "APPROVE"
	ActionReject   HistoryAction = "REJECT"
	ActionWithdraw HistoryAction = "WITHDRAW"
)

// LeaveHistory is the local audit trail of remote writes
type LeaveHistory struct {
	ID        int64         `json:"id"`
	LeaveID   string        `json:"leave_id"`
	Action    HistoryAction `json:"action"`
	Status    LeaveStatus   `json:"status,omitempty"`
	Note      string        `json:"note,omitempty"`
	FullName  string        `json:"full_name"`
	Succeeded bool          `json:"succeeded"`
	Error     string        `json:"error,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}
