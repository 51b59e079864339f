package http

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/school-leave/internal/application/service"
	"github.com/garyjia/school-leave/internal/domain/calendar"
	"github.com/garyjia/school-leave/internal/domain/entity"
)

const (
	// ReviewerHeader names the reviewer recorded on approve and reject
	ReviewerHeader = "X-Reviewer"

	defaultReviewer = "admin"
	htmlContentType = "text/html; charset=utf-8"
)

// Handlers contains all HTTP request handlers
type Handlers struct {
	services Services
	logger   Logger
	now      func() time.Time
	meta     MetaResponse
}

// NewHandlers creates a new Handlers instance
func NewHandlers(services Services, logger Logger, now func() time.Time) *Handlers {
	if now == nil {
		now = time.Now
	}
	return &Handlers{
		services: services,
		logger:   logger,
		now:      now,
		meta:     newMetaResponse(),
	}
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: h.now().UTC().Format(time.RFC3339),
		Version:   "1.0.0",
	}

	code := http.StatusOK
	if h.services.Health != nil {
		healthy, details := h.services.Health.HealthReport()
		resp.Components = details
		if !healthy {
			resp.Status = "unhealthy"
			code = http.StatusServiceUnavailable
		}
	}

	c.JSON(code, Response{Success: code == http.StatusOK, Data: resp})
}

// Meta handles GET /api/v1/meta
func (h *Handlers) Meta(c *gin.Context) {
	c.JSON(http.StatusOK, Response{Success: true, Data: h.meta})
}

// WorkingDays handles POST /api/v1/working-days
func (h *Handlers) WorkingDays(c *gin.Context) {
	var req WorkingDaysRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "startDate and endDate are required")
		return
	}

	start, err := calendar.ParseDate(req.StartDate, nil)
	if err != nil {
		badRequest(c, fmt.Sprintf("invalid startDate: %v", err))
		return
	}
	end, err := calendar.ParseDate(req.EndDate, nil)
	if err != nil {
		badRequest(c, fmt.Sprintf("invalid endDate: %v", err))
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    WorkingDaysResponse{TotalDays: h.services.Leaves.WorkingDays(start, end)},
	})
}

// ListLeaves handles GET /api/v1/leaves
func (h *Handlers) ListLeaves(c *gin.Context) {
	var q ListLeavesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "invalid query parameters")
		return
	}

	filter := service.ListFilter{Query: q.Query, Refresh: q.Refresh}
	if q.Status != "" {
		status, ok := entity.ParseStatus(q.Status)
		if !ok {
			badRequest(c, fmt.Sprintf("unknown status %q", q.Status))
			return
		}
		filter.Status = status
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    h.services.Leaves.List(c.Request.Context(), filter),
	})
}

// GetLeave handles GET /api/v1/leaves/:id
func (h *Handlers) GetLeave(c *gin.Context) {
	leave, err := h.services.Leaves.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, "failed to get leave request", err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: LeaveDetailResponse{
		LeaveRequest: leave,
		Actions:      service.Actions(leave),
	}})
}

// SubmitLeave handles POST /api/v1/leaves
func (h *Handlers) SubmitLeave(c *gin.Context) {
	var sub entity.Submission
	if err := c.ShouldBindJSON(&sub); err != nil {
		badRequest(c, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	sanitizeSubmission(&sub)

	leave, err := h.services.Leaves.Submit(c.Request.Context(), &sub)
	if err != nil {
		h.respondError(c, "failed to submit leave request", err)
		return
	}
	c.JSON(http.StatusCreated, Response{Success: true, Data: leave})
}

// WithdrawLeave handles DELETE /api/v1/leaves/:id
func (h *Handlers) WithdrawLeave(c *gin.Context) {
	if err := h.services.Leaves.Withdraw(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, "failed to withdraw leave request", err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true})
}

// LeaveMemo handles GET /api/v1/leaves/:id/memo
func (h *Handlers) LeaveMemo(c *gin.Context) {
	html, err := h.services.Reports.Memo(c.Request.Context(), c.Param("id"), h.now())
	if err != nil {
		h.respondError(c, "failed to render memo", err)
		return
	}
	c.Data(http.StatusOK, htmlContentType, html)
}

// PreviewMemo handles POST /api/v1/memo/preview
func (h *Handlers) PreviewMemo(c *gin.Context) {
	var sub entity.Submission
	if err := c.ShouldBindJSON(&sub); err != nil {
		badRequest(c, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	sanitizeSubmission(&sub)

	html, err := h.services.Reports.MemoFromSubmission(&sub, h.now())
	if err != nil {
		h.respondError(c, "failed to render memo", err)
		return
	}
	c.Data(http.StatusOK, htmlContentType, html)
}

// Dashboard handles GET /api/v1/stats
func (h *Handlers) Dashboard(c *gin.Context) {
	c.JSON(http.StatusOK, Response{Success: true, Data: h.services.Stats.Dashboard(c.Request.Context())})
}

// StaffStats handles GET /api/v1/stats/staff
func (h *Handlers) StaffStats(c *gin.Context) {
	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		badRequest(c, "name is required")
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: h.services.Stats.Staff(c.Request.Context(), name)})
}

// PendingLeaves handles GET /api/v1/admin/pending
func (h *Handlers) PendingLeaves(c *gin.Context) {
	refresh := c.Query("refresh") == "true"
	c.JSON(http.StatusOK, Response{Success: true, Data: h.services.Leaves.Pending(c.Request.Context(), refresh)})
}

// ApproveLeave handles POST /api/v1/admin/leaves/:id/approve
func (h *Handlers) ApproveLeave(c *gin.Context) {
	if err := h.services.Leaves.Approve(c.Request.Context(), c.Param("id"), reviewer(c)); err != nil {
		h.respondError(c, "failed to approve leave request", err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true})
}

// RejectLeave handles POST /api/v1/admin/leaves/:id/reject
func (h *Handlers) RejectLeave(c *gin.Context) {
	var req RejectRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, fmt.Sprintf("invalid request body: %v", err))
			return
		}
	}

	if err := h.services.Leaves.Reject(c.Request.Context(), c.Param("id"), req.Note, reviewer(c)); err != nil {
		h.respondError(c, "failed to reject leave request", err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true})
}

// ExportCSV handles GET /api/v1/admin/reports/leaves.csv
func (h *Handlers) ExportCSV(c *gin.Context) {
	exp, err := h.services.Reports.ExportCSV(c.Request.Context(), h.now())
	if err != nil {
		h.respondError(c, "failed to export csv", err)
		return
	}
	sendExport(c, exp)
}

// ExportWorkbook handles GET /api/v1/admin/reports/leaves.xlsx
func (h *Handlers) ExportWorkbook(c *gin.Context) {
	exp, err := h.services.Reports.ExportWorkbook(c.Request.Context(), h.now())
	if err != nil {
		h.respondError(c, "failed to export workbook", err)
		return
	}
	sendExport(c, exp)
}

// History handles GET /api/v1/admin/history
func (h *Handlers) History(c *gin.Context) {
	var q HistoryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "invalid query parameters")
		return
	}

	ctx := c.Request.Context()
	var (
		rows []*entity.LeaveHistory
		err  error
	)
	if q.LeaveID != "" {
		rows, err = h.services.History.GetByLeaveID(ctx, q.LeaveID)
	} else {
		rows, err = h.services.History.ListRecent(ctx, q.Limit)
	}
	if err != nil {
		h.respondError(c, "failed to load history", err)
		return
	}
	if rows == nil {
		rows = []*entity.LeaveHistory{}
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: rows})
}

// InvalidateCache handles POST /api/v1/admin/cache/invalidate
func (h *Handlers) InvalidateCache(c *gin.Context) {
	h.services.Cache.InvalidateCache()
	h.logger.Info("Leave cache invalidated", "request_id", c.GetString(requestIDKey))
	c.JSON(http.StatusOK, Response{Success: true})
}

func reviewer(c *gin.Context) string {
	if r := strings.TrimSpace(c.GetHeader(ReviewerHeader)); r != "" {
		return r
	}
	return defaultReviewer
}

// ArchivedReport handles GET /api/v1/admin/reports/archive/:name
func (h *Handlers) ArchivedReport(c *gin.Context) {
	exp, err := h.services.Reports.Archived(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.respondError(c, "failed to read archived report", err)
		return
	}
	sendExport(c, exp)
}

// DeleteArchivedReport handles DELETE /api/v1/admin/reports/archive/:name
func (h *Handlers) DeleteArchivedReport(c *gin.Context) {
	if err := h.services.Reports.DeleteArchived(c.Request.Context(), c.Param("name")); err != nil {
		h.respondError(c, "failed to delete archived report", err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true})
}

func sendExport(c *gin.Context, exp *service.Export) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exp.FileName))
	c.Data(http.StatusOK, exp.ContentType, exp.Content)
}
