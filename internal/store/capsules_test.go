package store

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkucode2025/wedemo2025-sub001/internal/apperr"
	"github.com/pkucode2025/wedemo2025-sub001/internal/models"
)

var capsuleRowColumns = []string{"id", "sender_id", "receiver_id", "content", "media_url", "unlock_at", "is_opened", "created_at"}

func capsuleRows(caps ...models.Capsule) *pgxmock.Rows {
	rows := pgxmock.NewRows(capsuleRowColumns)
	for _, c := range caps {
		rows.AddRow(c.ID, c.SenderID, c.ReceiverID, c.Content, c.MediaURL, c.UnlockAt, c.IsOpened, c.CreatedAt)
	}
	return rows
}

func TestCreateCapsule(t *testing.T) {
	s, mock := newMockStore(t)
	now := fixedNow()
	c := &models.Capsule{ID: "c1", SenderID: "alice", ReceiverID: "bob", Content: "hi", UnlockAt: now.Add(time.Hour)}

	mock.ExpectQuery("INSERT INTO capsules").
		WithArgs("c1", "alice", "bob", "hi", "", now.Add(time.Hour)).
		WillReturnRows(pgxmock.NewRows([]string{"is_opened", "created_at"}).AddRow(false, now))

	require.NoError(t, s.CreateCapsule(context.Background(), c))
	assert.Equal(t, now, c.CreatedAt)
	assert.False(t, c.IsOpened)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateCapsule_UnknownReceiver(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("INSERT INTO capsules").
		WillReturnError(&pgconn.PgError{Code: codeForeignKeyViolation, ConstraintName: "capsules_receiver_id_fkey"})

	err := s.CreateCapsule(context.Background(), &models.Capsule{ID: "c1", SenderID: "alice", ReceiverID: "ghost"})
	assert.ErrorIs(t, err, ErrReceiverNotFound)
}

func TestCreateCapsule_UnknownSender(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("INSERT INTO capsules").
		WillReturnError(&pgconn.PgError{Code: codeForeignKeyViolation, ConstraintName: "capsules_sender_id_fkey"})

	err := s.CreateCapsule(context.Background(), &models.Capsule{ID: "c1", SenderID: "deleted", ReceiverID: "bob"})
	assert.ErrorIs(t, err, ErrUnknownUser)
	assert.Equal(t, apperr.KindAuth, apperr.KindOf(err))
}

func TestOpenCapsule(t *testing.T) {
	now := fixedNow()
	unlocked := models.Capsule{
		ID: "c1", SenderID: "alice", ReceiverID: "bob", Content: "hi",
		UnlockAt: now.Add(-time.Minute), CreatedAt: now.Add(-time.Hour),
	}

	s, mock := newMockStore(t)
	s.WithClock(func() time.Time { return now })

	mock.ExpectQuery("FROM capsules WHERE id").
		WithArgs("c1").
		WillReturnRows(capsuleRows(unlocked))
	opened := unlocked
	opened.IsOpened = true
	mock.ExpectQuery("UPDATE capsules SET is_opened = true").
		WithArgs("c1", "bob", now).
		WillReturnRows(capsuleRows(opened))

	c, err := s.OpenCapsule(context.Background(), "c1", "bob")
	require.NoError(t, err)

	assert.True(t, c.IsOpened)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOpenCapsule_Rejections(t *testing.T) {
	now := fixedNow()
	locked := models.Capsule{ID: "c1", SenderID: "alice", ReceiverID: "bob", UnlockAt: now.Add(time.Hour)}
	unlocked := models.Capsule{ID: "c2", SenderID: "alice", ReceiverID: "bob", UnlockAt: now.Add(-time.Hour)}

	tests := []struct {
		name       string
		rows       *pgxmock.Rows
		receiverID string
		want       error
	}{
		{"missing", pgxmock.NewRows(capsuleRowColumns), "bob", ErrCapsuleNotFound},
		{"still locked", capsuleRows(locked), "bob", ErrCapsuleLocked},
		{"sender cannot open", capsuleRows(unlocked), "alice", ErrNotCapsuleReceiver},
		{"stranger cannot open", capsuleRows(unlocked), "mallory", ErrNotCapsuleReceiver},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := newMockStore(t)
			s.WithClock(func() time.Time { return now })
			mock.ExpectQuery("FROM capsules WHERE id").WillReturnRows(tt.rows)

			_, err := s.OpenCapsule(context.Background(), "c1", tt.receiverID)

			assert.ErrorIs(t, err, tt.want)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestOpenCapsule_AtUnlockInstant(t *testing.T) {
	now := fixedNow()
	c := models.Capsule{ID: "c1", SenderID: "alice", ReceiverID: "bob", UnlockAt: now}

	s, mock := newMockStore(t)
	s.WithClock(func() time.Time { return now })

	mock.ExpectQuery("FROM capsules WHERE id").WillReturnRows(capsuleRows(c))
	c.IsOpened = true
	mock.ExpectQuery("UPDATE capsules").WithArgs("c1", "bob", now).WillReturnRows(capsuleRows(c))

	_, err := s.OpenCapsule(context.Background(), "c1", "bob")
	assert.NoError(t, err)
}

func TestListCapsules(t *testing.T) {
	now := fixedNow()
	c := models.Capsule{ID: "c1", SenderID: "alice", ReceiverID: "bob", UnlockAt: now, CreatedAt: now}

	s, mock := newMockStore(t)
	mock.ExpectQuery("WHERE receiver_id").WithArgs("bob").WillReturnRows(capsuleRows(c))
	mock.ExpectQuery("WHERE sender_id").WithArgs("bob").WillReturnRows(capsuleRows())

	received, err := s.ListReceivedCapsules(context.Background(), "bob")
	require.NoError(t, err)
	assert.Len(t, received, 1)

	sent, err := s.ListSentCapsules(context.Background(), "bob")
	require.NoError(t, err)
	assert.NotNil(t, sent)
	assert.Empty(t, sent)
}
