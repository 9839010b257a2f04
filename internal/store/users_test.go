package store

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkucode2025/wedemo2025-sub001/internal/apperr"
	"github.com/pkucode2025/wedemo2025-sub001/internal/models"
)

func strPtr(s string) *string { return &s }

func TestBuildProfileUpdate(t *testing.T) {
	query, args, err := buildProfileUpdate([]assignment{
		{"display_name", "Alice"},
		{"bio", ""},
	}, "u1")
	require.NoError(t, err)

	assert.Equal(t,
		"UPDATE users SET display_name = $1, bio = $2, updated_at = now() WHERE id = $3 RETURNING "+userColumns,
		query)
	assert.Equal(t, []any{"Alice", "", "u1"}, args)
}

func TestBuildProfileUpdate_RejectsUnknownColumn(t *testing.T) {
	_, _, err := buildProfileUpdate([]assignment{{"password_hash", "x"}}, "u1")
	assert.Error(t, err)
}

func TestProfileAssignments(t *testing.T) {
	tests := []struct {
		name string
		upd  models.ProfileUpdate
		want []assignment
	}{
		{"nothing", models.ProfileUpdate{}, nil},
		{"blank display name ignored", models.ProfileUpdate{DisplayName: strPtr("   ")}, nil},
		{"blank avatar ignored", models.ProfileUpdate{AvatarURL: strPtr("")}, nil},
		{"bio may be cleared", models.ProfileUpdate{Bio: strPtr("")}, []assignment{{"bio", ""}}},
		{
			"all fields trimmed",
			models.ProfileUpdate{DisplayName: strPtr(" Bob "), AvatarURL: strPtr("/uploads/a.png"), Bio: strPtr(" hi ")},
			[]assignment{{"display_name", "Bob"}, {"avatar_url", "/uploads/a.png"}, {"bio", "hi"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, profileAssignments(tt.upd))
		})
	}
}

func TestUpdateProfile(t *testing.T) {
	s, mock := newMockStore(t)
	now := fixedNow()

	mock.ExpectQuery("UPDATE users SET display_name").
		WithArgs("Alice", "u1").
		WillReturnRows(userRow(models.User{ID: "u1", Username: "alice", DisplayName: "Alice", CreatedAt: now, UpdatedAt: now}))

	u, err := s.UpdateProfile(context.Background(), "u1", models.ProfileUpdate{DisplayName: strPtr("Alice")})
	require.NoError(t, err)

	assert.Equal(t, "Alice", u.DisplayName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProfile_Empty(t *testing.T) {
	s, mock := newMockStore(t)

	_, err := s.UpdateProfile(context.Background(), "u1", models.ProfileUpdate{})

	assert.ErrorIs(t, err, ErrEmptyProfileUpdate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProfile_UnknownUser(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("UPDATE users SET bio").
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	_, err := s.UpdateProfile(context.Background(), "ghost", models.ProfileUpdate{Bio: strPtr("hello")})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestCreateUser(t *testing.T) {
	s, mock := newMockStore(t)
	now := fixedNow()
	u := &models.User{ID: "u1", Username: "alice", PasswordHash: "hash", DisplayName: "alice"}

	mock.ExpectQuery("INSERT INTO users").
		WithArgs("u1", "alice", "hash", "alice", "", "").
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	require.NoError(t, s.CreateUser(context.Background(), u))
	assert.Equal(t, now, u.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUser_UsernameTaken(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(&pgconn.PgError{Code: codeUniqueViolation, ConstraintName: "users_username_key"})

	err := s.CreateUser(context.Background(), &models.User{ID: "u2", Username: "alice"})

	assert.ErrorIs(t, err, ErrUsernameTaken)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestGetUserByUsername(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("FROM users WHERE username").
		WithArgs("alice").
		WillReturnRows(userRow(models.User{ID: "u1", Username: "alice", PasswordHash: "hash"}))

	u, err := s.GetUserByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "hash", u.PasswordHash)

	mock.ExpectQuery("FROM users WHERE username").
		WithArgs("nobody").
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	_, err = s.GetUserByUsername(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetUserByID_DatabaseError(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("FROM users WHERE id").
		WillReturnError(errors.New("too many connections"))

	_, err := s.GetUserByID(context.Background(), "u1")

	assert.Equal(t, apperr.KindPersistence, apperr.KindOf(err))
	assert.Equal(t, "internal server error", apperr.PublicMessage(err))
}
