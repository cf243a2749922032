package http

import (
	"github.com/gin-gonic/gin"

	httpH "github.com/kinfolkhq/kinfolk-backend/internal/http/handlers"
	httpMW "github.com/kinfolkhq/kinfolk-backend/internal/http/middleware"
	"github.com/kinfolkhq/kinfolk-backend/internal/observability"
)

type RouterConfig struct {
	AuthMiddleware *httpMW.AuthMiddleware
	Metrics        *observability.Metrics
	AllowedOrigins []string

	ContentHandler *httpH.ContentHandler
	HealthHandler  *httpH.HealthHandler
	MetricsHandler *httpH.MetricsHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.Default()
	r.Use(httpMW.CORS(cfg.AllowedOrigins))
	r.Use(httpMW.Metrics(cfg.Metrics))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	// Operator surface (unauthenticated)
	if cfg.MetricsHandler != nil {
		r.GET("/metrics", cfg.MetricsHandler.Expose)
	}

	api := r.Group("/api")
	{
		if cfg.AuthMiddleware != nil {
			api.Use(cfg.AuthMiddleware.RequireAuth())
		}

		if cfg.ContentHandler != nil {
			api.POST("/content/questions/next", cfg.ContentHandler.NextQuestion)
			api.POST("/content/questions/personalized", cfg.ContentHandler.PersonalizedQuestion)
			api.POST("/content/todos/next", cfg.ContentHandler.NextTodo)
			api.POST("/content/records/:id/reuse", cfg.ContentHandler.ReuseRecord)
			api.GET("/content/pools", cfg.ContentHandler.PoolStatus)
		}
	}

	return r
}
