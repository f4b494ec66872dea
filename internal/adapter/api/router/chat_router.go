package router

import (
	"github.com/labstack/echo/v4"

	"threadmarket/internal/adapter/api/handler"
	"threadmarket/internal/adapter/api/middleware"
)

func SetupChatRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	chatHandler := handler.GetChatHandler()

	chats := e.Group("/v1/chats")
	chats.Use(authMiddleware.Authenticate)

	chats.POST("", chatHandler.CreateChat)
	chats.GET("", chatHandler.ListChats)
	chats.GET("/:chatId/messages", chatHandler.GetMessages)
	chats.POST("/:chatId/messages", chatHandler.SendMessage)
	chats.POST("/:chatId/read", chatHandler.MarkChatRead)
}
