package container

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/garyjia/school-leave/internal/application/dispatcher"
	"github.com/garyjia/school-leave/internal/application/port"
	"github.com/garyjia/school-leave/internal/config"
	"github.com/garyjia/school-leave/internal/domain/event"
	"github.com/garyjia/school-leave/internal/infrastructure/store"
	httpapi "github.com/garyjia/school-leave/internal/interfaces/http"
	"go.uber.org/zap"
)

// Container manages all application dependencies and lifecycle.
// It follows Clean Architecture principles with ordered initialization
// and reverse-order teardown.
type Container struct {
	config *config.Config
	logger *zap.Logger
	loc    *time.Location

	// Infrastructure - Data
	database *DatabaseBundle

	// Infrastructure - External
	store     *store.Client
	messenger port.MessageSender

	// Infrastructure - Storage
	fileStorage port.FileStorage

	// Application
	dispatcher dispatcher.Dispatcher
	services   *ServiceBundle

	// Interfaces
	server *httpapi.Server

	// Lifecycle
	mu     sync.RWMutex
	ready  atomic.Bool
	closed atomic.Bool
}

// HealthStatus represents the health of all components.
type HealthStatus struct {
	Overall    bool                       `json:"overall"`
	Components map[string]ComponentHealth `json:"components"`
}

// ComponentHealth represents health of a single component.
type ComponentHealth struct {
	Healthy bool   `json:"healthy"`
	Message string `json:"message,omitempty"`
}

// NewContainer creates a new container from configuration.
// It does not initialize components - call Start() to initialize.
func NewContainer(cfg *config.Config, logger *zap.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("invalid time zone: %w", err)
	}

	return &Container{
		config: cfg,
		logger: logger,
		loc:    loc,
	}, nil
}

// Start initializes all components.
// Components are initialized in dependency order:
// 1. Database and history repository
// 2. External clients (remote store, Lark)
// 3. Storage
// 4. Event dispatcher and handlers
// 5. Application services
// 6. HTTP server
func (c *Container) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container has been closed")
	}
	if c.ready.Load() {
		return fmt.Errorf("container already started")
	}

	c.logger.Info("Starting container initialization")

	db, err := ProvideDatabase(&c.config.Database, c.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	c.database = db
	c.logger.Info("Database initialized")

	c.store, err = ProvideStore(&c.config.Remote, c.loc, c.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize remote store: %w", err)
	}
	c.messenger = ProvideMessenger(&c.config.Lark, c.logger)
	c.logger.Info("External clients initialized")

	c.fileStorage = ProvideStorage(&c.config.Storage, c.logger)
	c.logger.Info("Storage initialized")

	c.dispatcher = ProvideDispatcher(c.logger)
	RegisterHandlers(c.dispatcher, c.database, c.messenger, c.config.Lark.ReceiveID, c.logger)
	c.logger.Info("Dispatcher initialized")

	c.services, err = ProvideServices(&ServiceDeps{
		Store:      c.store,
		Publisher:  c.dispatcher,
		Storage:    c.fileStorage,
		SchoolName: c.config.School.Name,
		Location:   c.loc,
		Logger:     c.logger,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	c.logger.Info("Application services initialized")

	c.server = httpapi.NewServer(httpapi.ServerConfig{
		Host:            c.config.Server.Host,
		Port:            c.config.Server.Port,
		ReadTimeout:     c.config.Server.ReadTimeout,
		WriteTimeout:    c.config.Server.WriteTimeout,
		ShutdownTimeout: c.config.Server.ShutdownTimeout,
		AdminPassphrase: c.config.Admin.Passphrase,
	}, httpapi.Services{
		Leaves:  c.services.Leaves,
		Stats:   c.services.Stats,
		Reports: c.services.Reports,
		History: c.database.History,
		Cache:   c.store,
		Health:  c,
	}, newLoggerAdapter(c.logger))

	c.ready.Store(true)
	c.logger.Info("Container started successfully")

	return nil
}

// Close gracefully shuts down all components in reverse order.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container already closed")
	}

	c.logger.Info("Closing container")

	var errs []error

	// Drain async notifications before the database goes away
	if c.dispatcher != nil {
		if err := c.dispatcher.Close(); err != nil {
			c.logger.Error("Failed to close dispatcher", zap.Error(err))
			errs = append(errs, fmt.Errorf("close dispatcher: %w", err))
		} else {
			c.logger.Info("Dispatcher closed")
		}
	}

	if c.database != nil {
		if err := c.database.Conn.Close(); err != nil {
			c.logger.Error("Failed to close database", zap.Error(err))
			errs = append(errs, fmt.Errorf("close database: %w", err))
		} else {
			c.logger.Info("Database closed")
		}
	}

	c.closed.Store(true)
	c.ready.Store(false)

	if len(errs) > 0 {
		c.logger.Error("Container closed with errors", zap.Int("error_count", len(errs)))
		return fmt.Errorf("container closed with %d errors", len(errs))
	}

	c.logger.Info("Container closed successfully")
	return nil
}

// Ready returns true when all components are initialized.
func (c *Container) Ready() bool {
	return c.ready.Load()
}

// Server returns the HTTP server built by Start.
func (c *Container) Server() *httpapi.Server {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.server
}

// Services returns the application services built by Start.
func (c *Container) Services() *ServiceBundle {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.services
}

// Health returns health status of all components.
func (c *Container) Health() *HealthStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()

	status := &HealthStatus{
		Overall:    true,
		Components: make(map[string]ComponentHealth),
	}

	if c.database != nil {
		if err := c.database.Conn.Ping(); err != nil {
			status.Components["database"] = ComponentHealth{
				Healthy: false,
				Message: fmt.Sprintf("ping failed: %v", err),
			}
			status.Overall = false
		} else {
			status.Components["database"] = ComponentHealth{Healthy: true}
		}
	} else {
		status.Components["database"] = ComponentHealth{Healthy: false, Message: "not initialized"}
		status.Overall = false
	}

	// The remote store is not called here; an unreachable endpoint degrades reads only
	if c.store != nil {
		msg := "cache empty"
		if age, ok := c.store.CacheAge(); ok {
			msg = fmt.Sprintf("cache age: %s", age.Round(time.Second))
		}
		status.Components["remote_store"] = ComponentHealth{Healthy: true, Message: msg}
	} else {
		status.Components["remote_store"] = ComponentHealth{Healthy: false, Message: "not initialized"}
		status.Overall = false
	}

	if c.dispatcher != nil {
		handlers := 0
		for _, t := range event.AllTypes() {
			handlers += len(c.dispatcher.ListHandlers(t))
		}
		status.Components["dispatcher"] = ComponentHealth{
			Healthy: true,
			Message: fmt.Sprintf("%d handlers", handlers),
		}
	} else {
		status.Components["dispatcher"] = ComponentHealth{Healthy: false, Message: "not initialized"}
		status.Overall = false
	}

	notify := ComponentHealth{Healthy: true, Message: "disabled"}
	if c.messenger != nil {
		notify.Message = "lark"
	}
	status.Components["notifications"] = notify

	return status
}

// HealthReport adapts Health for the HTTP health check.
func (c *Container) HealthReport() (bool, interface{}) {
	h := c.Health()
	return h.Overall, h
}
