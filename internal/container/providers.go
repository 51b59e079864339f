// Package container provides dependency injection and lifecycle management
// for the leave request service following Clean Architecture principles.
package container

import (
	"fmt"
	"time"

	"github.com/garyjia/school-leave/internal/application/dispatcher"
	"github.com/garyjia/school-leave/internal/application/port"
	"github.com/garyjia/school-leave/internal/application/service"
	"github.com/garyjia/school-leave/internal/config"
	infraLark "github.com/garyjia/school-leave/internal/infrastructure/external/lark"
	"github.com/garyjia/school-leave/internal/infrastructure/external/sheets"
	"github.com/garyjia/school-leave/internal/infrastructure/persistence/repository"
	"github.com/garyjia/school-leave/internal/infrastructure/persistence/sqlite"
	"github.com/garyjia/school-leave/internal/infrastructure/storage"
	"github.com/garyjia/school-leave/internal/infrastructure/store"
	"github.com/garyjia/school-leave/pkg/database"
	"go.uber.org/zap"
)

// DatabaseBundle holds database-related components.
type DatabaseBundle struct {
	Conn           *database.DB
	TransactionMgr port.TransactionManager
	History        port.HistoryRepository
}

// ServiceBundle groups all application services.
type ServiceBundle struct {
	Leaves  service.LeaveService
	Stats   service.StatsService
	Reports service.ReportService
}

// ServiceDeps holds the dependencies of ProvideServices.
type ServiceDeps struct {
	Store      port.LeaveStore
	Publisher  service.EventPublisher
	Storage    port.FileStorage
	SchoolName string
	Location   *time.Location
	Logger     *zap.Logger
}

// ProvideDatabase opens the history database and applies the embedded migrations.
func ProvideDatabase(cfg *config.DatabaseConfig, logger *zap.Logger) (*DatabaseBundle, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	conn, err := database.New(database.Config{
		Path:            cfg.Path,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	}, logger)
	if err != nil {
		return nil, err
	}

	if err := database.NewMigrator(conn, logger).Run(sqlite.Migrations()); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	db := sqlite.NewDB(conn.DB, logger)
	return &DatabaseBundle{
		Conn:           conn,
		TransactionMgr: db,
		History:        repository.NewHistoryRepository(db, logger),
	}, nil
}

// ProvideStore creates the cached client of the remote spreadsheet endpoint.
func ProvideStore(cfg *config.RemoteConfig, loc *time.Location, logger *zap.Logger) (*store.Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("remote config is required")
	}
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("remote endpoint is required")
	}

	gateway := sheets.NewGateway(sheets.Config{
		Endpoint: cfg.Endpoint,
		Timeout:  cfg.Timeout,
		Location: loc,
	}, logger)

	return store.NewClient(gateway, logger, store.WithCacheTTL(cfg.CacheTTL)), nil
}

// ProvideMessenger creates the Lark messenger, or returns nil when
// notifications are not configured.
func ProvideMessenger(cfg *config.LarkConfig, logger *zap.Logger) port.MessageSender {
	larkCfg := infraLark.Config{
		AppID:         cfg.AppID,
		AppSecret:     cfg.AppSecret,
		ReceiveIDType: cfg.ReceiveIDType,
		ReceiveID:     cfg.ReceiveID,
	}
	if !larkCfg.Enabled() {
		logger.Info("Lark notifications disabled")
		return nil
	}
	return infraLark.NewMessenger(infraLark.NewSDKClient(larkCfg), larkCfg, logger)
}

// ProvideStorage creates the report archive, or returns nil when no
// directory is configured.
func ProvideStorage(cfg *config.StorageConfig, logger *zap.Logger) port.FileStorage {
	if cfg.ReportDir == "" {
		return nil
	}
	return storage.NewLocalFileStorage(cfg.ReportDir, logger)
}

// ProvideDispatcher creates the event dispatcher.
func ProvideDispatcher(logger *zap.Logger) dispatcher.Dispatcher {
	return dispatcher.NewDispatcher(logger)
}

// ProvideServices creates all application services.
func ProvideServices(deps *ServiceDeps) (*ServiceBundle, error) {
	if deps == nil || deps.Store == nil {
		return nil, fmt.Errorf("leave store is required")
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	adapter := newLoggerAdapter(deps.Logger)
	leaves := service.NewLeaveService(deps.Store, deps.Publisher, adapter)

	return &ServiceBundle{
		Leaves: leaves,
		Stats:  service.NewStatsService(deps.Store),
		Reports: service.NewReportService(leaves, deps.Storage, service.ReportConfig{
			SchoolName: deps.SchoolName,
			Location:   deps.Location,
		}, adapter),
	}, nil
}

// RegisterHandlers subscribes the history recorder and, when a messenger
// is available, the reviewer notifier.
func RegisterHandlers(d dispatcher.Dispatcher, db *DatabaseBundle, messenger port.MessageSender, receiveID string, logger *zap.Logger) {
	service.NewHistoryRecorder(db.History, db.TransactionMgr).Register(d)
	if messenger != nil {
		service.NewReviewerNotifier(messenger, receiveID, newLoggerAdapter(logger)).Register(d)
	}
}
