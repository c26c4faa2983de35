package router

import (
	"github.com/centrex/auth-service/internal/handler"
	"github.com/centrex/auth-service/internal/middleware"
	"github.com/gin-gonic/gin"
)

func registerAuthRoutes(rg *gin.RouterGroup, h *handler.AuthHandler, authMW *middleware.AuthMiddleware) {
	auth := rg.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
	}

	protected := rg.Group("/auth")
	protected.Use(authMW.RequireAuth())
	{
		protected.POST("/logout", h.Logout)
		protected.GET("/user", h.Me)
		protected.GET("/devices", h.Devices)
	}
}
