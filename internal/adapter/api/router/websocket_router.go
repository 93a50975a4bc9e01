package router

import (
	"github.com/labstack/echo/v4"

	"tradepost/internal/adapter/api/handler"
)

func SetupWebSocketRouter(e *echo.Echo, wsHandler *handler.WebSocketHandler) {
	// Token auth happens inside the handler, against the ?token query
	// parameter, not through the HTTP auth middleware.
	e.GET("/ws", wsHandler.HandleConnection)
}
