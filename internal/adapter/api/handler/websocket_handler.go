package handler

import (
	"net/http"

	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"skillswap/internal/adapter/api/middleware"
	ws "skillswap/internal/infrastructure/websocket"
	"skillswap/pkg/logger"
)

type WebSocketHandler struct {
	wsManager      *ws.Manager
	events         ws.EventHandler
	authMiddleware *middleware.AuthMiddleware
	upgrader       gorillaws.Upgrader
}

// NewWebSocketHandler accepts connections from the given origins; an empty
// list accepts any origin.
func NewWebSocketHandler(wsManager *ws.Manager, events ws.EventHandler, authMiddleware *middleware.AuthMiddleware, allowedOrigins []string) *WebSocketHandler {
	return &WebSocketHandler{
		wsManager:      wsManager,
		events:         events,
		authMiddleware: authMiddleware,
		upgrader: gorillaws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if len(allowed) == 0 || origin == "" {
			return true
		}
		for _, o := range allowed {
			if o == "*" || o == origin {
				return true
			}
		}
		return false
	}
}

// HandleWebSocket authenticates with the token query parameter (browsers
// cannot set headers on the handshake) or the usual header and cookie.
func (h *WebSocketHandler) HandleWebSocket(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		var err error
		if token, err = middleware.TokenFromRequest(c.Request()); err != nil {
			return err
		}
	}

	uid, err := h.authMiddleware.UserIDFromToken(c.Request().Context(), token)
	if err != nil {
		return err
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// The upgrader has already written the HTTP error.
		logger.Warn("WebSocket upgrade failed for user %s: %v", uid, err)
		return nil
	}

	h.wsManager.Connect(uid, conn, h.events)
	return nil
}
