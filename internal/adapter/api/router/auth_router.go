package router

import (
	"github.com/labstack/echo/v4"

	"tradepost/internal/adapter/api/handler"
	"tradepost/internal/adapter/api/middleware"
)

func SetupAuthRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	authHandler := handler.GetAuthHandler()

	auth := e.Group("/v1/auth")
	auth.POST("/register", authHandler.Register)
	auth.GET("/me", authHandler.Me, authMiddleware.Authenticate)
}
