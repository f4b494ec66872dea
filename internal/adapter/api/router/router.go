package router

import (
	"github.com/labstack/echo/v4"

	"threadmarket/internal/adapter/api/middleware"
)

func Setup(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	SetupHealthRouter(e)
	SetupAuthRouter(e)
	SetupUserRouter(e, authMiddleware)
	SetupProductRouter(e, authMiddleware)
	SetupReviewRouter(e, authMiddleware)
	SetupWishlistRouter(e, authMiddleware)
	SetupChatRouter(e, authMiddleware)
}
