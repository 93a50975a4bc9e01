package router

import (
	"github.com/labstack/echo/v4"

	"tradepost/internal/adapter/api/handler"
	"tradepost/internal/adapter/api/middleware"
)

func SetupUserRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	userHandler := handler.GetUserHandler()

	users := e.Group("/v1/users")
	users.GET("/:id", userHandler.GetProfile)
	users.PUT("/me", userHandler.UpdateProfile, authMiddleware.Authenticate)
	users.POST("/:id/follow", userHandler.Follow, authMiddleware.Authenticate)
	users.DELETE("/:id/follow", userHandler.Unfollow, authMiddleware.Authenticate)

	admin := e.Group("/v1/admin/users")
	admin.Use(authMiddleware.Authenticate)
	admin.Use(adminMiddleware.AdminOnly)
	admin.GET("", userHandler.ListUsers)
	admin.PUT("/:id/status", userHandler.SetStatus)
}
