package models

import "time"

// SystemSenderID marks messages written by the server rather than a user.
const SystemSenderID = "system"

// Message represents a chat message
type Message struct {
	ID        int64     `json:"id" db:"id"`
	ChatID    string    `json:"chatId" db:"chat_id"`
	SenderID  string    `json:"senderId" db:"sender_id"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
