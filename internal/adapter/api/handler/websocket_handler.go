package handler

import (
	"context"
	"encoding/json"
	"net/http"

	gorilla "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"tradepost/internal/adapter/api/middleware"
	"tradepost/internal/infrastructure/websocket"
	"tradepost/internal/usecase"
	"tradepost/pkg/logger"
)

var upgrader = gorilla.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebSocketHandler struct {
	registry         *websocket.Registry
	messagingUseCase *usecase.MessagingUseCase
	authMiddleware   *middleware.AuthMiddleware
}

func NewWebSocketHandler(
	registry *websocket.Registry,
	messagingUseCase *usecase.MessagingUseCase,
	authMiddleware *middleware.AuthMiddleware,
) *WebSocketHandler {
	return &WebSocketHandler{
		registry:         registry,
		messagingUseCase: messagingUseCase,
		authMiddleware:   authMiddleware,
	}
}

// HandleConnection upgrades the request and runs the connection until the
// peer goes away. The token travels as a query parameter because browser
// WebSocket dials cannot carry an Authorization header.
func (h *WebSocketHandler) HandleConnection(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "Token is required")
	}

	userID, err := h.authMiddleware.GetUIDFromToken(c.Request().Context(), token)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		logger.Error("websocket upgrade failed for user %s: %v", userID, err)
		return err
	}

	client := websocket.NewClient(userID, conn)
	h.registry.Register(client)

	// Presence first so other users learn about the connection before the
	// ack reaches this client.
	h.messagingUseCase.RecordPresence(userID)

	if data, err := json.Marshal(websocket.NewConnectedEvent(userID)); err == nil {
		client.TrySend(data)
	}

	go client.WritePump()
	client.ReadPump(h.handleInbound)

	// The read loop has returned, the peer is gone. Announce the departure
	// while the registry still counts this connection, then drop it.
	h.messagingUseCase.RecordPresence(userID)
	h.registry.Unregister(client)
	client.Close()

	return nil
}

func (h *WebSocketHandler) handleInbound(client *websocket.Client, data []byte) {
	var event websocket.InboundEvent
	if err := json.Unmarshal(data, &event); err != nil {
		logger.Debug("discarding malformed frame from user %s: %v", client.UserID, err)
		return
	}

	ctx := context.Background()

	switch event.Type {
	case websocket.InboundTyping:
		if event.ConversationID == "" {
			return
		}
		h.messagingUseCase.RelayTyping(ctx, client.UserID, event.ConversationID, event.IsTyping)
	case websocket.InboundPresencePing:
		h.messagingUseCase.RecordPresence(client.UserID)
	default:
		logger.Debug("unknown frame type %q from user %s", event.Type, client.UserID)
	}
}
