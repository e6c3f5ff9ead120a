package app

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	dbpkg "github.com/yungbote/lore-backend/internal/data/db"
	"github.com/yungbote/lore-backend/internal/data/repos"
	"github.com/yungbote/lore-backend/internal/http"
	"github.com/yungbote/lore-backend/internal/observability"
	"github.com/yungbote/lore-backend/internal/pkg/timewindow"
	"github.com/yungbote/lore-backend/internal/platform/envutil"
	"github.com/yungbote/lore-backend/internal/platform/logger"
	"github.com/yungbote/lore-backend/internal/temporalx/temporalworker"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Cfg      Config
	Clients  Clients
	Repos    repos.Set
	Services Services
	Server   *http.Server
	Worker   *temporalworker.Runner

	dbService    *dbpkg.Service
	otelShutdown func(context.Context) error
}

// bootstrap builds what the API and the worker share: logger, config,
// tracing, database and repos.
func bootstrap(ctx context.Context, component string) (*App, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	log = log.With("process", component)

	a := &App{Log: log, Cfg: cfg}
	a.otelShutdown = observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: cfg.ServiceName + "-" + component,
		Environment: cfg.Environment,
		Version:     cfg.Version,
	})

	a.dbService, err = dbpkg.Open(log, cfg.DB)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("init database: %w", err)
	}
	a.DB = a.dbService.DB()
	if envutil.Bool("DB_AUTO_MIGRATE", true) {
		if err := dbpkg.AutoMigrateAll(a.DB); err != nil {
			a.Close()
			return nil, fmt.Errorf("automigrate: %w", err)
		}
	}
	a.Repos = wireRepos(a.DB, log)
	return a, nil
}

// New wires the HTTP API.
func New(ctx context.Context) (*App, error) {
	a, err := bootstrap(ctx, "api")
	if err != nil {
		return nil, err
	}
	loc, err := timewindow.LoadLocation(a.Cfg.ReferenceTimezone)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Clients, err = wireAPIClients(ctx, a.Log, a.Cfg)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Services = wireServices(a.DB, a.Log, a.Cfg, a.Repos, a.Clients, loc)
	handlers := wireHandlers(a.Log, a.DB, a.Services)
	middleware := wireMiddleware(a.Log, a.Services)
	a.Server = wireServer(a.Log, a.Cfg, handlers, middleware)
	return a, nil
}

// NewWorker wires the Temporal worker hosting the recap and sweep workflows.
func NewWorker(ctx context.Context) (*App, error) {
	a, err := bootstrap(ctx, "worker")
	if err != nil {
		return nil, err
	}
	a.Clients, err = wireWorkerClients(ctx, a.Log, a.Cfg)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Worker, err = wireWorker(a.DB, a.Log, a.Cfg, a.Repos, a.Clients)
	if err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// Run serves HTTP until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	addr := ":" + a.Cfg.Port
	a.Log.Info("Starting HTTP server", "addr", addr)
	return a.Server.Run(ctx, addr)
}

// RunWorker polls the task queue until ctx is cancelled.
func (a *App) RunWorker(ctx context.Context) error {
	if a == nil || a.Worker == nil {
		return fmt.Errorf("worker not initialized")
	}
	if err := a.Worker.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	return nil
}

func (a *App) Close() {
	if a == nil {
		return
	}
	a.Clients.Close()
	if a.dbService != nil {
		if err := a.dbService.Close(); err != nil {
			a.Log.Warn("database close failed", "error", err)
		}
	}
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = a.otelShutdown(ctx)
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
