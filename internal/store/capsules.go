package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"

	"github.com/pkucode2025/wedemo2025-sub001/internal/apperr"
	"github.com/pkucode2025/wedemo2025-sub001/internal/models"
)

var (
	ErrCapsuleNotFound    = apperr.NotFound("capsule not found")
	ErrCapsuleLocked      = apperr.Forbidden("capsule is still locked")
	ErrNotCapsuleReceiver = apperr.Forbidden("only the receiver can open this capsule")
	ErrReceiverNotFound   = apperr.NotFound("receiver not found")
)

const capsuleSenderFK = "capsules_sender_id_fkey"

const capsuleColumns = `id, sender_id, receiver_id, content, media_url, unlock_at, is_opened, created_at`

func scanCapsule(row scanner) (*models.Capsule, error) {
	var c models.Capsule
	err := row.Scan(&c.ID, &c.SenderID, &c.ReceiverID, &c.Content,
		&c.MediaURL, &c.UnlockAt, &c.IsOpened, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateCapsule inserts c. An unknown receiver is reported as
// ErrReceiverNotFound, an unknown sender as ErrUnknownUser.
func (s *Store) CreateCapsule(ctx context.Context, c *models.Capsule) error {
	err := s.db.QueryRow(ctx, `
		INSERT INTO capsules (id, sender_id, receiver_id, content, media_url, unlock_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING is_opened, created_at
	`, c.ID, c.SenderID, c.ReceiverID, c.Content, c.MediaURL, c.UnlockAt).
		Scan(&c.IsOpened, &c.CreatedAt)
	if err != nil {
		if pgErrorCode(err) == codeForeignKeyViolation {
			if pgConstraint(err) == capsuleSenderFK {
				return ErrUnknownUser
			}
			return ErrReceiverNotFound
		}
		return persistence("store.CreateCapsule", err)
	}
	return nil
}

func (s *Store) listCapsules(ctx context.Context, op, query, userID string) ([]models.Capsule, error) {
	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, persistence(op, err)
	}
	defer rows.Close()

	capsules := []models.Capsule{}
	for rows.Next() {
		c, err := scanCapsule(rows)
		if err != nil {
			return nil, persistence(op+".Scan", err)
		}
		capsules = append(capsules, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, persistence(op+".Rows", err)
	}
	return capsules, nil
}

// ListReceivedCapsules returns the capsules addressed to userID, soonest to unlock first.
func (s *Store) ListReceivedCapsules(ctx context.Context, userID string) ([]models.Capsule, error) {
	return s.listCapsules(ctx, "store.ListReceivedCapsules",
		`SELECT `+capsuleColumns+` FROM capsules WHERE receiver_id = $1 ORDER BY unlock_at ASC, created_at ASC`,
		userID)
}

// ListSentCapsules returns the capsules userID created, newest first.
func (s *Store) ListSentCapsules(ctx context.Context, userID string) ([]models.Capsule, error) {
	return s.listCapsules(ctx, "store.ListSentCapsules",
		`SELECT `+capsuleColumns+` FROM capsules WHERE sender_id = $1 ORDER BY created_at DESC`,
		userID)
}

func (s *Store) GetCapsule(ctx context.Context, id string) (*models.Capsule, error) {
	c, err := scanCapsule(s.db.QueryRow(ctx, `SELECT `+capsuleColumns+` FROM capsules WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCapsuleNotFound
	}
	if err != nil {
		return nil, persistence("store.GetCapsule", err)
	}
	return c, nil
}

// OpenCapsule marks the capsule opened for its receiver once unlockAt has
// passed. Opening an already opened capsule succeeds again.
func (s *Store) OpenCapsule(ctx context.Context, id, receiverID string) (*models.Capsule, error) {
	c, err := s.GetCapsule(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.ReceiverID != receiverID {
		return nil, ErrNotCapsuleReceiver
	}

	now := s.now()
	if c.IsLocked(now) {
		return nil, ErrCapsuleLocked
	}

	opened, err := scanCapsule(s.db.QueryRow(ctx, `
		UPDATE capsules SET is_opened = true
		WHERE id = $1 AND receiver_id = $2 AND unlock_at <= $3
		RETURNING `+capsuleColumns,
		id, receiverID, now))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCapsuleNotFound
	}
	if err != nil {
		return nil, persistence("store.OpenCapsule", err)
	}
	return opened, nil
}
