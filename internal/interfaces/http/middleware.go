package http

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/garyjia/school-leave/internal/application/service"
)

const (
	// RequestIDHeader carries the request id in both directions
	RequestIDHeader = "X-Request-ID"
	// AdminPassphraseHeader authenticates admin routes
	AdminPassphraseHeader = "X-Admin-Passphrase"

	requestIDKey = "request_id"
)

// ErrUnauthorized is returned for admin routes without a valid passphrase
var ErrUnauthorized = errors.New("unauthorized")

// requestIDMiddleware reuses a sane incoming X-Request-ID or generates one,
// echoes it back and tags the request context for event correlation
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}

		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Request = c.Request.WithContext(service.WithCorrelationID(c.Request.Context(), id))

		c.Next()
	}
}

// adminMiddleware rejects requests whose passphrase header does not match.
// An empty configured passphrase locks the admin routes.
func adminMiddleware(passphrase string, logger Logger) gin.HandlerFunc {
	expected := []byte(passphrase)
	return func(c *gin.Context) {
		given := []byte(c.GetHeader(AdminPassphraseHeader))
		if len(expected) == 0 || subtle.ConstantTimeCompare(given, expected) != 1 {
			logger.Error("Admin authentication failed",
				"path", c.Request.URL.Path,
				"client_ip", c.ClientIP(),
				"request_id", c.GetString(requestIDKey))
			c.AbortWithStatusJSON(http.StatusUnauthorized, Response{
				Success: false,
				Error:   ErrUnauthorized.Error(),
			})
			return
		}
		c.Next()
	}
}
