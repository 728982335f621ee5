package server

import (
	"context"

	"studentvoice/internal/middleware"
	"studentvoice/internal/models"
	"studentvoice/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// publishBroadcastEvent fans an event out to every feed subscriber. With Redis
// it goes through pub/sub so every API instance delivers it; otherwise it is
// delivered to this instance's hub directly.
func (s *Server) publishBroadcastEvent(ctx context.Context, eventType string, payload any) {
	message, err := models.NewRealtimeEvent(eventType, payload)
	if err != nil {
		middleware.Logger.ErrorContext(ctx, "failed to marshal event", "type", eventType, "error", err)
		return
	}
	observability.WebSocketEventsTotal.WithLabelValues(eventType).Inc()

	if s.notifier.Enabled() {
		// Detached from the request so a client disconnect does not drop the publish.
		if err := s.notifier.PublishBroadcast(context.WithoutCancel(ctx), message); err != nil {
			middleware.Logger.WarnContext(ctx, "failed to publish event, delivering locally",
				"type", eventType, "error", err)
			s.hub.BroadcastAll(message)
		}
		return
	}
	s.hub.BroadcastAll(message)
}

// WebSocketFeedHandler upgrades authenticated requests to the feed event stream.
// @Summary Realtime feed events
// @Tags realtime
// @Router /ws [get]
// @Security BearerAuth
func (s *Server) WebSocketFeedHandler() fiber.Handler {
	upgrade := websocket.New(func(conn *websocket.Conn) {
		userID, ok := conn.Locals("userID").(uint)
		if !ok {
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"unauthorized"}`))
			_ = conn.Close()
			return
		}

		client, err := s.hub.Register(userID, conn)
		if err != nil {
			middleware.Logger.Warn("websocket registration rejected", "user_id", userID, "error", err)
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"`+err.Error()+`"}`))
			_ = conn.Close()
			return
		}

		go client.WritePump()
		client.ReadPump()
	})

	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return models.RespondWithError(c, fiber.StatusUpgradeRequired,
				models.NewValidationError("WebSocket upgrade required"))
		}
		return upgrade(c)
	}
}
