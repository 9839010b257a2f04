package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/pkucode2025/wedemo2025-sub001/internal/apperr"
	"github.com/pkucode2025/wedemo2025-sub001/internal/models"
	"github.com/pkucode2025/wedemo2025-sub001/internal/store"
	"github.com/pkucode2025/wedemo2025-sub001/internal/utils"
)

// RegisterRequest represents registration request body
type RegisterRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

// LoginRequest represents login request body
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	Token string            `json:"token"`
	User  models.PublicUser `json:"user"`
}

var (
	errMissingCredentials = apperr.Validation("Username and password are required")
	errPasswordTooShort   = apperr.Validation("Password must be at least 6 characters")
	errBadCredentials     = apperr.Unauthorized("Invalid username or password")
)

// Register handles user registration
func (h *Handler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return errMissingCredentials
	}
	if len(req.Password) < utils.MinPasswordLength {
		return errPasswordTooShort
	}

	exists, err := h.store.UsernameExists(c.UserContext(), req.Username)
	if err != nil {
		return err
	}
	if exists {
		return store.ErrUsernameTaken
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return apperr.Persistence(errors.Wrap(err, "hash password"))
	}

	displayName := strings.TrimSpace(req.DisplayName)
	if displayName == "" {
		displayName = req.Username
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		PasswordHash: hash,
		DisplayName:  displayName,
	}
	if err := h.store.CreateUser(c.UserContext(), user); err != nil {
		return err
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		return apperr.Persistence(errors.Wrap(err, "issue token"))
	}

	h.log.Info("user registered", "userId", user.ID, "username", user.Username)
	return success(c, fiber.StatusCreated, AuthResponse{Token: token, User: user.ToPublic()})
}

// Login handles user login
func (h *Handler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return errMissingCredentials
	}

	user, err := h.store.GetUserByUsername(c.UserContext(), req.Username)
	if errors.Is(err, store.ErrUserNotFound) {
		return errBadCredentials
	}
	if err != nil {
		return err
	}

	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		return errBadCredentials
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		return apperr.Persistence(errors.Wrap(err, "issue token"))
	}

	return success(c, fiber.StatusOK, AuthResponse{Token: token, User: user.ToPublic()})
}
