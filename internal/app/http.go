package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/lore-backend/internal/http"
	httpH "github.com/yungbote/lore-backend/internal/http/handlers"
	httpMW "github.com/yungbote/lore-backend/internal/http/middleware"
	"github.com/yungbote/lore-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health *httpH.HealthHandler
	Moment *httpH.MomentHandler
	Recap  *httpH.RecapHandler
	User   *httpH.UserHandler
}

func wireHandlers(log *logger.Logger, db *gorm.DB, services Services) Handlers {
	log.Info("Wiring handlers...")
	var pinger httpH.Pinger
	if sqlDB, err := db.DB(); err == nil {
		pinger = sqlDB
	}
	return Handlers{
		Health: httpH.NewHealthHandler(pinger),
		Moment: httpH.NewMomentHandler(services.Moment),
		Recap:  httpH.NewRecapHandler(services.Recap),
		User:   httpH.NewUserHandler(services.User),
	}
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
	}
}

func wireServer(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware) *http.Server {
	return http.NewServer(http.RouterConfig{
		Log:            log,
		ServiceName:    cfg.ServiceName,
		AllowedOrigins: cfg.AllowedOrigins,
		AuthMiddleware: middleware.Auth,
		MomentHandler:  handlers.Moment,
		RecapHandler:   handlers.Recap,
		UserHandler:    handlers.User,
		HealthHandler:  handlers.Health,
	})
}
