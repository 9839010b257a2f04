package store

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/pkucode2025/wedemo2025-sub001/internal/models"
)

const (
	DefaultMessageLimit = 200
	MaxMessageLimit     = 500
)

// ListMessages returns the latest limit messages of a chat in the order they
// were written.
func (s *Store) ListMessages(ctx context.Context, chatID string, limit int) ([]models.Message, error) {
	switch {
	case limit < 1:
		limit = DefaultMessageLimit
	case limit > MaxMessageLimit:
		limit = MaxMessageLimit
	}

	rows, err := s.db.Query(ctx, `
		SELECT id, chat_id, sender_id, content, created_at
		FROM messages
		WHERE chat_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, chatID, limit)
	if err != nil {
		return nil, persistence("store.ListMessages", err)
	}
	defer rows.Close()

	messages := []models.Message{}
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.ChatID, &m.SenderID, &m.Content, &m.CreatedAt); err != nil {
			return nil, persistence("store.ListMessages.Scan", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, persistence("store.ListMessages.Rows", err)
	}

	// Reverse to chronological order (query returns DESC)
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

func (s *Store) CreateMessage(ctx context.Context, chatID, senderID, content string) (*models.Message, error) {
	return insertMessage(ctx, s.db, chatID, senderID, content)
}

type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func insertMessage(ctx context.Context, db rowQuerier, chatID, senderID, content string) (*models.Message, error) {
	m := models.Message{ChatID: chatID, SenderID: senderID, Content: content}
	err := db.QueryRow(ctx, `
		INSERT INTO messages (chat_id, sender_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, chatID, senderID, content).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return nil, persistence("store.insertMessage", err)
	}
	return &m, nil
}
