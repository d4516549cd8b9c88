package server

import (
	"identify/internal/notifications"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// WebsocketHandler returns the live activity feed endpoint. The auth
// middleware has already validated the token (header or ?token=) and set
// userID before the connection upgrades.
func (s *Server) WebsocketHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userID, _ := conn.Locals("userID").(uint)

		if s.hub == nil {
			// No Redis, no feed.
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"live feed unavailable"}`))
			_ = conn.Close()
			return
		}

		client := notifications.NewClient(s.hub, conn, userID)
		s.hub.Register(client)

		go client.WritePump()
		client.ReadPump()
	})
}
