package router

import (
	"github.com/labstack/echo/v4"

	"tradepost/internal/adapter/api/middleware"
)

func Setup(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	SetupAuthRouter(e, authMiddleware)
	SetupUserRouter(e, authMiddleware, adminMiddleware)
	SetupCategoryRouter(e, authMiddleware, adminMiddleware)
	SetupItemRouter(e, authMiddleware, adminMiddleware)
	SetupMessagingRouter(e, authMiddleware)
	SetupHealthRouter(e)
}
