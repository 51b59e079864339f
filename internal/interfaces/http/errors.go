package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/school-leave/internal/application/service"
	"github.com/garyjia/school-leave/internal/domain/entity"
	"github.com/garyjia/school-leave/internal/domain/workflow"
	"github.com/garyjia/school-leave/internal/infrastructure/store"
)

// statusFor maps an application error to its HTTP status
func statusFor(err error) int {
	var verr *entity.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrLeaveNotFound), errors.Is(err, service.ErrArchiveNotFound):
		return http.StatusNotFound
	case errors.Is(err, workflow.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, store.ErrTransport):
		return http.StatusBadGateway
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as a failed Response. Validation errors carry
// the offending field in data.
func (h *Handlers) respondError(c *gin.Context, msg string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error(msg, "error", err, "request_id", c.GetString(requestIDKey))
	}

	resp := Response{Success: false, Error: err.Error()}
	var verr *entity.ValidationError
	if errors.As(err, &verr) {
		resp.Data = verr
	}
	if status == http.StatusInternalServerError {
		resp.Error = msg
	}
	c.JSON(status, resp)
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, Response{Success: false, Error: msg})
}
