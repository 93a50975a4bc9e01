package router

import (
	"github.com/labstack/echo/v4"

	"tradepost/internal/adapter/api/handler"
	"tradepost/internal/adapter/api/middleware"
)

func SetupItemRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	itemHandler := handler.GetItemHandler()
	messagingHandler := handler.GetMessagingHandler()

	items := e.Group("/v1/items")
	items.GET("", itemHandler.List)
	items.GET("/:id", itemHandler.GetByID)
	items.GET("/seller/:id", itemHandler.ListBySeller)

	items.POST("", itemHandler.Create, authMiddleware.Authenticate)
	items.GET("/mine", itemHandler.MyItems, authMiddleware.Authenticate)
	items.PUT("/:id", itemHandler.Update, authMiddleware.Authenticate)
	items.POST("/:id/sold", itemHandler.MarkSold, authMiddleware.Authenticate)
	items.DELETE("/:id", itemHandler.Delete, authMiddleware.Authenticate)
	items.POST("/:id/interest", messagingHandler.ExpressInterest, authMiddleware.Authenticate)

	admin := e.Group("/v1/admin/items")
	admin.Use(authMiddleware.Authenticate)
	admin.Use(adminMiddleware.AdminOnly)
	admin.PUT("/:id/approval", itemHandler.SetApproval)
}
