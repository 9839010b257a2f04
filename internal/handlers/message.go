package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/pkucode2025/wedemo2025-sub001/internal/apperr"
	"github.com/pkucode2025/wedemo2025-sub001/internal/middleware"
	"github.com/pkucode2025/wedemo2025-sub001/internal/models"
	"github.com/pkucode2025/wedemo2025-sub001/internal/utils"
	ws "github.com/pkucode2025/wedemo2025-sub001/internal/websocket"
)

// SendMessageRequest represents send message request body
type SendMessageRequest struct {
	ChatID   string `json:"chatId"`
	SenderID string `json:"senderId"`
	Content  string `json:"content"`
}

var (
	errMissingChatID    = apperr.Validation("chatId is required")
	errReservedSender   = apperr.Validation("senderId \"system\" is reserved")
	errSenderMismatch   = apperr.Forbidden("senderId does not match the authenticated user")
	errNotChatMember    = apperr.Forbidden("you are not a participant of this chat")
	errMissingMsgFields = apperr.Validation("chatId, senderId and content are required")
)

// GetMessages returns a chat's history oldest first
func (h *Handler) GetMessages(c *fiber.Ctx) error {
	chatID := c.Query("chatId")
	if chatID == "" {
		return errMissingChatID
	}

	messages, err := h.store.ListMessages(c.UserContext(), chatID, c.QueryInt("limit", 0))
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, messages)
}

// SendMessage appends a message to a chat. With a bearer token the sender
// is the caller; without one the body's senderId is used.
func (h *Handler) SendMessage(c *fiber.Ctx) error {
	var req SendMessageRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	if userID := middleware.GetUserID(c); userID != "" {
		if req.SenderID != "" && req.SenderID != userID {
			return errSenderMismatch
		}
		req.SenderID = userID
		if req.ChatID != "" && !utils.IsChatParticipant(req.ChatID, userID) {
			return errNotChatMember
		}
	}

	if req.ChatID == "" || req.SenderID == "" || strings.TrimSpace(req.Content) == "" {
		return errMissingMsgFields
	}
	if req.SenderID == models.SystemSenderID {
		return errReservedSender
	}

	msg, err := h.store.CreateMessage(c.UserContext(), req.ChatID, req.SenderID, req.Content)
	if err != nil {
		return err
	}

	h.hub.Broadcast(msg.ChatID, ws.MessageCreated(*msg))
	return success(c, fiber.StatusOK, msg)
}
