package handlers

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/pkucode2025/wedemo2025-sub001/internal/middleware"
	"github.com/pkucode2025/wedemo2025-sub001/internal/utils"
	ws "github.com/pkucode2025/wedemo2025-sub001/internal/websocket"
)

const localChatID = "chatID"

// WebSocketUpgrade checks the handshake before the connection is upgraded:
// it must be a websocket upgrade for a chat the caller belongs to.
func (h *Handler) WebSocketUpgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.NewError(fiber.StatusUpgradeRequired, "WebSocket upgrade required")
	}

	chatID := c.Query("chatId")
	if chatID == "" {
		return errMissingChatID
	}
	if !utils.IsChatParticipant(chatID, middleware.GetUserID(c)) {
		return errNotChatMember
	}

	c.Locals(localChatID, chatID)
	return c.Next()
}

// WebSocketHandler subscribes the connection to its chat until it closes
func (h *Handler) WebSocketHandler(c *websocket.Conn) {
	userID, _ := c.Locals(middleware.LocalUserID).(string)
	chatID, _ := c.Locals(localChatID).(string)

	client := ws.NewClient(userID, chatID, c, h.hub)
	if !h.hub.Register(client) {
		c.Close()
		return
	}

	go client.WritePump()
	client.ReadPump() // This blocks until connection closes
}
