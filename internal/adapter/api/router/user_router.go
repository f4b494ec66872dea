package router

import (
	"github.com/labstack/echo/v4"

	"threadmarket/internal/adapter/api/handler"
	"threadmarket/internal/adapter/api/middleware"
)

func SetupUserRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	userHandler := handler.GetUserHandler()

	users := e.Group("/v1/users")
	users.GET("/:id", userHandler.GetUser)

	me := e.Group("/v1/users/me")
	me.Use(authMiddleware.Authenticate)
	me.GET("", userHandler.GetMe)
	me.PATCH("", userHandler.UpdateMe)
}
