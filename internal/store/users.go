package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"

	"github.com/pkucode2025/wedemo2025-sub001/internal/apperr"
	"github.com/pkucode2025/wedemo2025-sub001/internal/models"
)

var (
	ErrUserNotFound       = apperr.NotFound("user not found")
	ErrUsernameTaken      = apperr.Validation("username already exists")
	ErrEmptyProfileUpdate = apperr.Validation("no profile fields to update")
)

const userColumns = `id, username, password_hash, display_name, avatar_url, bio, created_at, updated_at`

func scanUser(row scanner) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.DisplayName,
		&u.AvatarURL, &u.Bio, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, username).Scan(&exists)
	if err != nil {
		return false, persistence("store.UsernameExists", err)
	}
	return exists, nil
}

// CreateUser inserts u and fills in the timestamps the database assigned.
func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	err := s.db.QueryRow(ctx, `
		INSERT INTO users (id, username, password_hash, display_name, avatar_url, bio)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`, u.ID, u.Username, u.PasswordHash, u.DisplayName, u.AvatarURL, u.Bio).
		Scan(&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if pgErrorCode(err) == codeUniqueViolation {
			return ErrUsernameTaken
		}
		return persistence("store.CreateUser", err)
	}
	return nil
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	u, err := scanUser(s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, persistence("store.GetUserByID", err)
	}
	return u, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	u, err := scanUser(s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, persistence("store.GetUserByUsername", err)
	}
	return u, nil
}

// updatableProfileColumns is the complete set of columns UpdateProfile may write.
var updatableProfileColumns = map[string]bool{
	"display_name": true,
	"avatar_url":   true,
	"bio":          true,
}

type assignment struct {
	column string
	value  any
}

// profileAssignments picks the fields of upd that should be written.
// Display name and avatar are only changed when non-empty; bio may be cleared.
func profileAssignments(upd models.ProfileUpdate) []assignment {
	var set []assignment
	if upd.DisplayName != nil {
		if name := strings.TrimSpace(*upd.DisplayName); name != "" {
			set = append(set, assignment{"display_name", name})
		}
	}
	if upd.AvatarURL != nil {
		if avatar := strings.TrimSpace(*upd.AvatarURL); avatar != "" {
			set = append(set, assignment{"avatar_url", avatar})
		}
	}
	if upd.Bio != nil {
		set = append(set, assignment{"bio", strings.TrimSpace(*upd.Bio)})
	}
	return set
}

// buildProfileUpdate renders the UPDATE statement for set. The user ID is
// always the last placeholder.
func buildProfileUpdate(set []assignment, userID string) (string, []any, error) {
	clauses := make([]string, 0, len(set)+1)
	args := make([]any, 0, len(set)+1)

	for i, a := range set {
		if !updatableProfileColumns[a.column] {
			return "", nil, fmt.Errorf("column %q is not updatable", a.column)
		}
		clauses = append(clauses, fmt.Sprintf("%s = $%d", a.column, i+1))
		args = append(args, a.value)
	}
	clauses = append(clauses, "updated_at = now()")
	args = append(args, userID)

	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(clauses, ", "), len(args), userColumns)
	return query, args, nil
}

// UpdateProfile applies a partial profile update and returns the new row.
func (s *Store) UpdateProfile(ctx context.Context, userID string, upd models.ProfileUpdate) (*models.User, error) {
	set := profileAssignments(upd)
	if len(set) == 0 {
		return nil, ErrEmptyProfileUpdate
	}

	query, args, err := buildProfileUpdate(set, userID)
	if err != nil {
		return nil, persistence("store.UpdateProfile.build", err)
	}

	u, err := scanUser(s.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, persistence("store.UpdateProfile", err)
	}
	return u, nil
}
