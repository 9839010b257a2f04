package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pkucode2025/wedemo2025-sub001/internal/apperr"
	"github.com/pkucode2025/wedemo2025-sub001/internal/middleware"
	"github.com/pkucode2025/wedemo2025-sub001/internal/models"
)

// GetUser returns a public profile, served from the profile cache when possible.
func (h *Handler) GetUser(c *fiber.Ctx) error {
	userID := c.Params("id")
	if userID == "" {
		return apperr.Validation("User ID is required")
	}

	if cached, ok := h.profiles.Get(c.UserContext(), userID); ok {
		return success(c, fiber.StatusOK, cached)
	}

	user, err := h.store.GetUserByID(c.UserContext(), userID)
	if err != nil {
		return err
	}

	profile := user.ToPublic()
	h.profiles.Set(c.UserContext(), profile)
	return success(c, fiber.StatusOK, profile)
}

// UpdateMe applies a partial profile update for the caller.
func (h *Handler) UpdateMe(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req models.ProfileUpdate
	if err := parseBody(c, &req); err != nil {
		return err
	}

	user, err := h.store.UpdateProfile(c.UserContext(), userID, req)
	if err != nil {
		return err
	}

	h.profiles.Invalidate(c.UserContext(), userID)
	return success(c, fiber.StatusOK, user.ToPublic())
}
