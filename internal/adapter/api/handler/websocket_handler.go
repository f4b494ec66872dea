package handler

import (
	"net/http"

	"firebase.google.com/go/v4/auth"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	ws "threadmarket/internal/infrastructure/websocket"
	"threadmarket/pkg/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebSocketHandler struct {
	manager    *ws.Manager
	authClient *auth.Client
}

func NewWebSocketHandler(manager *ws.Manager, authClient *auth.Client) *WebSocketHandler {
	return &WebSocketHandler{
		manager:    manager,
		authClient: authClient,
	}
}

// Connect upgrades the request and keeps the connection registered for
// message pushes until the client disconnects. The ID token comes in a query
// parameter because browsers cannot set headers on WebSocket upgrades.
func (h *WebSocketHandler) Connect(c echo.Context) error {
	idToken := c.QueryParam("token")
	if idToken == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "Token is required")
	}

	token, err := h.authClient.VerifyIDToken(c.Request().Context(), idToken)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		logger.Warn("WebSocket upgrade failed for %s: %v", token.UID, err)
		return err
	}

	client := &ws.Client{
		UserID: token.UID,
		Conn:   conn,
		Send:   make(chan []byte, 16),
	}

	h.manager.Register <- client

	go client.WritePump()
	client.ReadPump(h.manager)

	return nil
}
