package router

import (
	"github.com/labstack/echo/v4"

	"tradepost/internal/adapter/api/handler"
	"tradepost/internal/adapter/api/middleware"
)

func SetupCategoryRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	categoryHandler := handler.GetCategoryHandler()

	categories := e.Group("/v1/categories")
	categories.GET("", categoryHandler.List)
	categories.GET("/:id", categoryHandler.GetByID)

	admin := e.Group("/v1/admin/categories")
	admin.Use(authMiddleware.Authenticate)
	admin.Use(adminMiddleware.AdminOnly)
	admin.POST("", categoryHandler.Create)
	admin.PUT("/:id", categoryHandler.Update)
	admin.DELETE("/:id", categoryHandler.Delete)
}
