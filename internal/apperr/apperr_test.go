package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestStatusOf(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", Validation("bad"), fiber.StatusBadRequest},
		{"auth", Unauthorized("no"), fiber.StatusUnauthorized},
		{"not found", NotFound("gone"), fiber.StatusNotFound},
		{"forbidden", Forbidden("locked"), fiber.StatusForbidden},
		{"method", New(KindMethodNotAllowed, "nope"), fiber.StatusMethodNotAllowed},
		{"persistence", Persistence(errors.New("conn reset")), fiber.StatusInternalServerError},
		{"plain error", errors.New("boom"), fiber.StatusInternalServerError},
		{"wrapped validation", fmt.Errorf("handler: %w", Validation("bad")), fiber.StatusBadRequest},
		{"fiber error", fiber.ErrMethodNotAllowed, fiber.StatusMethodNotAllowed},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, StatusOf(tc.err))
		})
	}
}

func TestPublicMessage_HidesPersistenceCause(t *testing.T) {
	err := Persistence(errors.New(`duplicate key value violates unique constraint "users_pkey"`))

	assert.Equal(t, "internal server error", PublicMessage(err))
	assert.Contains(t, err.Error(), "users_pkey")
}

func TestPublicMessage_ClientErrors(t *testing.T) {
	assert.Equal(t, "username is required", PublicMessage(Validation("username is required")))
	assert.Equal(t, "internal server error", PublicMessage(errors.New("raw")))
}

func TestIs_MatchesSentinelThroughWrapping(t *testing.T) {
	sentinel := NotFound("friend request not found")
	wrapped := fmt.Errorf("accept: %w", NotFound("friend request not found"))

	assert.True(t, errors.Is(wrapped, sentinel))
	assert.False(t, errors.Is(wrapped, NotFound("user not found")))
}
