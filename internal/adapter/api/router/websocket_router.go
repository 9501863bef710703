package router

import (
	"github.com/labstack/echo/v4"

	"skillswap/internal/adapter/api/handler"
)

// SetupWebSocketRouter registers /ws. The handler authenticates itself since
// the token may arrive as a query parameter.
func SetupWebSocketRouter(e *echo.Echo, wsHandler *handler.WebSocketHandler) {
	e.GET("/ws", wsHandler.HandleWebSocket)
}
