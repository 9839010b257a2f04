package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/pkucode2025/wedemo2025-sub001/internal/apperr"
	"github.com/pkucode2025/wedemo2025-sub001/internal/middleware"
	"github.com/pkucode2025/wedemo2025-sub001/internal/utils"
	ws "github.com/pkucode2025/wedemo2025-sub001/internal/websocket"
)

// FriendRequestBody represents send friend request body
type FriendRequestBody struct {
	ToUserID string `json:"toUserId"`
}

// AcceptFriendRequestBody represents accept friend request body. The
// accepting user is always the caller.
type AcceptFriendRequestBody struct {
	RequestID  string `json:"requestId"`
	FromUserID string `json:"fromUserId"`
}

// DeleteFriendBody represents remove friend body
type DeleteFriendBody struct {
	FriendID string `json:"friendId"`
}

// SendFriendRequest asks another user to become friends
func (h *Handler) SendFriendRequest(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req FriendRequestBody
	if err := parseBody(c, &req); err != nil {
		return err
	}
	req.ToUserID = strings.TrimSpace(req.ToUserID)
	if req.ToUserID == "" {
		return apperr.Validation("toUserId is required")
	}

	request, err := h.store.SendFriendRequest(c.UserContext(), userID, req.ToUserID)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusCreated, request)
}

// GetFriendRequests lists requests waiting for the caller
func (h *Handler) GetFriendRequests(c *fiber.Ctx) error {
	requests, err := h.store.ListPendingRequests(c.UserContext(), middleware.GetUserID(c))
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, requests)
}

// AcceptFriendRequest accepts a pending request addressed to the caller and
// pushes the welcome message to anyone already watching the new chat. When
// the pair were already friends message is null.
func (h *Handler) AcceptFriendRequest(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req AcceptFriendRequestBody
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.RequestID == "" || req.FromUserID == "" {
		return apperr.Validation("requestId and fromUserId are required")
	}

	welcome, err := h.store.AcceptFriendRequest(c.UserContext(), req.RequestID, userID, req.FromUserID)
	if err != nil {
		return err
	}

	chatID := utils.ChatID(userID, req.FromUserID)
	if welcome != nil {
		h.hub.Broadcast(chatID, ws.MessageCreated(*welcome))
	}
	h.log.Info("friend request accepted", "requestId", req.RequestID, "chatId", chatID)

	return success(c, fiber.StatusOK, fiber.Map{
		"chatId":  chatID,
		"message": welcome,
	})
}

// GetFriends lists the caller's friends with their chat IDs
func (h *Handler) GetFriends(c *fiber.Ctx) error {
	friends, err := h.store.ListFriends(c.UserContext(), middleware.GetUserID(c))
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, friends)
}

// DeleteFriend removes a friendship in both directions together with the
// chat history. Removing someone who is not a friend succeeds.
func (h *Handler) DeleteFriend(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req DeleteFriendBody
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.FriendID == "" {
		return apperr.Validation("friendId is required")
	}
	if req.FriendID == userID {
		return apperr.Validation("friendId must be another user")
	}

	if err := h.store.DeleteFriendship(c.UserContext(), userID, req.FriendID); err != nil {
		return err
	}

	return success(c, fiber.StatusOK, fiber.Map{
		"friendId": req.FriendID,
		"chatId":   utils.ChatID(userID, req.FriendID),
	})
}
