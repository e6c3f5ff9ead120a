package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/lore-backend/internal/http/handlers"
	httpMW "github.com/yungbote/lore-backend/internal/http/middleware"
	"github.com/yungbote/lore-backend/internal/observability"
	"github.com/yungbote/lore-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	AllowedOrigins []string

	AuthMiddleware *httpMW.AuthMiddleware
	MomentHandler  *httpH.MomentHandler
	RecapHandler   *httpH.RecapHandler
	UserHandler    *httpH.UserHandler
	HealthHandler  *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics())
	r.Use(httpMW.CORS(cfg.AllowedOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	r.GET("/metrics", gin.WrapH(observability.Handler()))

	protected := r.Group("/api")
	if cfg.AuthMiddleware != nil {
		protected.Use(cfg.AuthMiddleware.RequireAuth())
	}
	{
		// Moments
		if cfg.MomentHandler != nil {
			protected.POST("/moments", cfg.MomentHandler.AddMoment)
			protected.GET("/moments", cfg.MomentHandler.ListToday)
		}

		// Recaps
		if cfg.RecapHandler != nil {
			protected.GET("/recaps", cfg.RecapHandler.ListRecaps)
			protected.GET("/recaps/:id", cfg.RecapHandler.GetRecap)
		}

		// User
		if cfg.UserHandler != nil {
			protected.GET("/user/preferences", cfg.UserHandler.GetPreferences)
			protected.PATCH("/user/art-style", cfg.UserHandler.UpdateArtStyle)
		}
	}

	return r
}
