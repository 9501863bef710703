package router

import (
	"github.com/labstack/echo/v4"

	"skillswap/internal/adapter/api/handler"
	"skillswap/internal/adapter/api/middleware"
)

// SetupChatRouter sets up the chat request and message routes (the socket lives on /ws).
func SetupChatRouter(e *echo.Echo, chatHandler *handler.ChatHandler, authMiddleware *middleware.AuthMiddleware) {
	chatGroup := e.Group("/v1/chat")
	chatGroup.Use(authMiddleware.Authenticate)

	// Requests
	chatGroup.POST("/request", chatHandler.CreateRequest)
	chatGroup.GET("/requests/pending", chatHandler.PendingRequests)
	chatGroup.GET("/requests/sent", chatHandler.SentRequests)
	chatGroup.POST("/request/respond", chatHandler.RespondToRequest)

	// Accepted chats
	chatGroup.GET("/chats", chatHandler.ActiveChats)
	chatGroup.GET("/chats/:chatRequestId/messages", chatHandler.GetMessages)
	chatGroup.POST("/message", chatHandler.SendMessage)
}
