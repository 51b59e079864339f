// Package http provides HTTP server adapter for the application layer.
// This is a thin adapter layer that translates HTTP requests to application service calls.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/garyjia/school-leave/internal/application/port"
	"github.com/garyjia/school-leave/internal/application/service"
	"github.com/garyjia/school-leave/pkg/utils"
)

// Logger interface for logging operations
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// CacheInvalidator drops the cached leave list
type CacheInvalidator interface {
	InvalidateCache()
}

// HealthReporter reports whether the service and its components are healthy
type HealthReporter interface {
	HealthReport() (healthy bool, details interface{})
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	AdminPassphrase string
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:            "0.0.0.0",
		Port:            8080,
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Services are the application services exposed over HTTP
type Services struct {
	Leaves  service.LeaveService
	Stats   service.StatsService
	Reports service.ReportService
	History port.HistoryRepository
	Cache   CacheInvalidator
	// Health is optional; without it /health always reports healthy
	Health HealthReporter
}

// Server is the HTTP server adapter
type Server struct {
	config     ServerConfig
	httpServer *http.Server
	router     *gin.Engine
	services   Services
	logger     Logger
	now        func() time.Time
}

// NewServer creates a new HTTP server with the given services
func NewServer(config ServerConfig, services Services, logger Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	registerBindingValidators()

	router := gin.New()

	server := &Server{
		config:   config,
		router:   router,
		services: services,
		logger:   logger,
		now:      time.Now,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

func registerBindingValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		utils.RegisterNotBlank(v)
	}
}

// setupMiddleware configures middleware for the router
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(requestIDMiddleware())
	s.router.Use(s.loggingMiddleware())
}

// loggingMiddleware creates a logging middleware
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		s.logger.Info("HTTP request",
			"method", method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
			"client_ip", c.ClientIP(),
			"request_id", c.GetString(requestIDKey),
		)
	}
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	h := NewHandlers(s.services, s.logger, s.now)

	s.router.GET("/health", h.HealthCheck)

	api := s.router.Group("/api/v1")
	{
		api.GET("/meta", h.Meta)
		api.POST("/working-days", h.WorkingDays)

		api.GET("/leaves", h.ListLeaves)
		api.POST("/leaves", h.SubmitLeave)
		api.GET("/leaves/:id", h.GetLeave)
		api.DELETE("/leaves/:id", h.WithdrawLeave)
		api.GET("/leaves/:id/memo", h.LeaveMemo)
		api.POST("/memo/preview", h.PreviewMemo)

		api.GET("/stats", h.Dashboard)
		api.GET("/stats/staff", h.StaffStats)
	}

	admin := api.Group("/admin", adminMiddleware(s.config.AdminPassphrase, s.logger))
	{
		admin.GET("/pending", h.PendingLeaves)
		admin.POST("/leaves/:id/approve", h.ApproveLeave)
		admin.POST("/leaves/:id/reject", h.RejectLeave)
		admin.GET("/reports/leaves.csv", h.ExportCSV)
		admin.GET("/reports/leaves.xlsx", h.ExportWorkbook)
		admin.GET("/reports/archive/:name", h.ArchivedReport)
		admin.DELETE("/reports/archive/:name", h.DeleteArchivedReport)
		admin.GET("/history", h.History)
		admin.POST("/cache/invalidate", h.InvalidateCache)
	}
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	addr := s.Address()

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("Starting HTTP server", "address", addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("HTTP server shutdown requested")
		return s.Stop()
	case err := <-errCh:
		s.logger.Error("HTTP server error", "error", err)
		return err
	}
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	s.logger.Info("Stopping HTTP server")

	timeout := s.config.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
		return err
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

// Router returns the underlying gin router (for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Address returns the server address
func (s *Server) Address() string {
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}
