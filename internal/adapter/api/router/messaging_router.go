package router

import (
	"github.com/labstack/echo/v4"

	"tradepost/internal/adapter/api/handler"
	"tradepost/internal/adapter/api/middleware"
)

func SetupMessagingRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	messagingHandler := handler.GetMessagingHandler()

	conversations := e.Group("/v1/conversations")
	conversations.Use(authMiddleware.Authenticate)
	conversations.GET("", messagingHandler.ListConversations)
	conversations.GET("/:id/messages", messagingHandler.ListMessages)
	conversations.POST("/:id/read", messagingHandler.MarkConversationRead)

	messages := e.Group("/v1/messages")
	messages.Use(authMiddleware.Authenticate)
	messages.POST("", messagingHandler.SendMessage)
	messages.GET("/unread-count", messagingHandler.UnreadCount)
}
