package http

import (
	"github.com/garyjia/school-leave/internal/domain/entity"
	"github.com/garyjia/school-leave/pkg/utils"
)

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status     string      `json:"status"`
	Timestamp  string      `json:"timestamp"`
	Version    string      `json:"version"`
	Components interface{} `json:"components,omitempty"`
}

// Option is one entry of a closed set
type Option struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// MetaResponse lists the choices offered by the request form
type MetaResponse struct {
	Departments []Option `json:"departments"`
	LeaveTypes  []Option `json:"leaveTypes"`
	Statuses    []Option `json:"statuses"`
	Positions   []string `json:"positions"`
}

// WorkingDaysRequest is the body of POST /api/v1/working-days
type WorkingDaysRequest struct {
	StartDate string `json:"startDate" binding:"notblank"`
	EndDate   string `json:"endDate" binding:"notblank"`
}

// WorkingDaysResponse carries the day count
type WorkingDaysResponse struct {
	TotalDays int `json:"totalDays"`
}

// LeaveDetailResponse is a leave request with the actions its status allows
type LeaveDetailResponse struct {
	*entity.LeaveRequest
	Actions []string `json:"actions"`
}

// ListLeavesQuery are the query parameters of GET /api/v1/leaves
type ListLeavesQuery struct {
	Query   string `form:"q"`
	Status  string `form:"status"`
	Refresh bool   `form:"refresh"`
}

// RejectRequest is the body of the reject route
type RejectRequest struct {
	Note string `json:"note"`
}

// HistoryQuery are the query parameters of the history route
type HistoryQuery struct {
	LeaveID string `form:"leave_id"`
	Limit   int    `form:"limit" binding:"omitempty,min=1,max=500"`
}

func newMetaResponse() MetaResponse {
	meta := MetaResponse{Positions: entity.Positions()}
	for _, d := range entity.AllDepartments() {
		meta.Departments = append(meta.Departments, Option{Code: d.Code(), Label: d.Label()})
	}
	for _, t := range entity.AllLeaveTypes() {
		meta.LeaveTypes = append(meta.LeaveTypes, Option{Code: t.Code(), Label: t.Label()})
	}
	for _, s := range entity.AllStatuses() {
		meta.Statuses = append(meta.Statuses, Option{Code: s.Code(), Label: s.Label()})
	}
	return meta
}

// sanitizeSubmission strips control characters from the free-text fields
func sanitizeSubmission(sub *entity.Submission) {
	sub.FullName = utils.SanitizeString(sub.FullName)
	sub.Position = utils.SanitizeString(sub.Position)
	sub.Reason = utils.SanitizeString(sub.Reason)
	sub.Address = utils.SanitizeString(sub.Address)
	sub.Contact = utils.SanitizeString(sub.Contact)
}
