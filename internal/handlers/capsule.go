package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/pkucode2025/wedemo2025-sub001/internal/apperr"
	"github.com/pkucode2025/wedemo2025-sub001/internal/middleware"
	"github.com/pkucode2025/wedemo2025-sub001/internal/models"
)

// CreateCapsuleRequest represents create capsule request body
type CreateCapsuleRequest struct {
	ReceiverID string    `json:"receiverId"`
	Content    string    `json:"content"`
	MediaURL   string    `json:"mediaUrl"`
	UnlockAt   time.Time `json:"unlockAt"`
}

// OpenCapsuleRequest represents open capsule request body
type OpenCapsuleRequest struct {
	CapsuleID string `json:"capsuleId"`
}

const (
	boxReceived = "received"
	boxSent     = "sent"
)

// GetCapsules lists the caller's received (default) or sent capsules.
// Received capsules that are still locked come back without their content.
func (h *Handler) GetCapsules(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var (
		capsules []models.Capsule
		err      error
	)
	switch box := c.Query("box", boxReceived); box {
	case boxReceived:
		capsules, err = h.store.ListReceivedCapsules(c.UserContext(), userID)
	case boxSent:
		capsules, err = h.store.ListSentCapsules(c.UserContext(), userID)
	default:
		return apperr.Validation("box must be received or sent")
	}
	if err != nil {
		return err
	}

	now := h.now()
	views := make([]models.CapsuleView, 0, len(capsules))
	for _, capsule := range capsules {
		views = append(views, capsule.ViewFor(userID, now))
	}
	return success(c, fiber.StatusOK, views)
}

// CreateCapsule seals a capsule for another user
func (h *Handler) CreateCapsule(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req CreateCapsuleRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	req.ReceiverID = strings.TrimSpace(req.ReceiverID)
	if req.ReceiverID == "" {
		return apperr.Validation("receiverId is required")
	}
	if strings.TrimSpace(req.Content) == "" && strings.TrimSpace(req.MediaURL) == "" {
		return apperr.Validation("content or mediaUrl is required")
	}
	if req.UnlockAt.IsZero() {
		return apperr.Validation("unlockAt is required")
	}

	capsule := &models.Capsule{
		ID:         uuid.NewString(),
		SenderID:   userID,
		ReceiverID: req.ReceiverID,
		Content:    req.Content,
		MediaURL:   strings.TrimSpace(req.MediaURL),
		UnlockAt:   req.UnlockAt.UTC(),
	}
	if err := h.store.CreateCapsule(c.UserContext(), capsule); err != nil {
		return err
	}
	return success(c, fiber.StatusCreated, capsule)
}

// OpenCapsule opens a capsule addressed to the caller once it has unlocked
func (h *Handler) OpenCapsule(c *fiber.Ctx) error {
	var req OpenCapsuleRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.CapsuleID == "" {
		return apperr.Validation("capsuleId is required")
	}

	capsule, err := h.store.OpenCapsule(c.UserContext(), req.CapsuleID, middleware.GetUserID(c))
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, capsule)
}
