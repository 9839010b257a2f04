package websocket

import (
	"time"

	"github.com/pkucode2025/wedemo2025-sub001/internal/models"
)

// EventType represents different WebSocket event types
type EventType string

const (
	// Message events
	EventMessageCreated EventType = "message_created"

	// Typing events
	EventTypingStart EventType = "typing_start"
	EventTypingStop  EventType = "typing_stop"
)

// WSMessage represents a WebSocket message structure
type WSMessage struct {
	Type      EventType   `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// MessageCreated wraps a stored chat message for subscribers of its chat.
func MessageCreated(msg models.Message) WSMessage {
	return WSMessage{Type: EventMessageCreated, Payload: msg, Timestamp: time.Now()}
}

// TypingPayload represents typing indicator payload
type TypingPayload struct {
	UserID string `json:"userId"`
	ChatID string `json:"chatId"`
}

// IncomingMessage represents messages received from clients
type IncomingMessage struct {
	Type EventType `json:"type"`
}
