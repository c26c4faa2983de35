package router

import (
	"time"

	"github.com/centrex/auth-service/config"
	"github.com/centrex/auth-service/internal/handler"
	"github.com/centrex/auth-service/internal/middleware"
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Auth   *handler.AuthHandler
	Health *handler.HealthHandler
}

// Setup assembles the gin engine: global middleware, the health probe
// and the versioned API groups.
func Setup(cfg *config.Config, handlers Handlers, authMW *middleware.AuthMiddleware) *gin.Engine {
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	r.Use(middleware.RecoveryMiddleware())
	r.Use(middleware.RequestContextMiddleware())
	r.Use(middleware.LoggingMiddleware())
	r.Use(middleware.CORS())
	r.Use(middleware.RequestTimeoutMiddleware(cfg.App.Timeout))

	r.GET("/api/health", handlers.Health.Check)

	v1 := r.Group("/api/v1")
	v1.Use(middleware.RateLimit(cfg.RateLimit.Request, time.Duration(cfg.RateLimit.Duration)*time.Second))

	registerAuthRoutes(v1, handlers.Auth, authMW)

	return r
}
