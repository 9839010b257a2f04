package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/pkucode2025/wedemo2025-sub001/internal/apperr"
	"github.com/pkucode2025/wedemo2025-sub001/internal/utils"
)

const bearerPrefix = "Bearer "

// LocalUserID is the fiber.Ctx locals key holding the authenticated user.
const LocalUserID = "userID"

var (
	ErrNoToken      = apperr.Unauthorized("Unauthorized - No token provided")
	ErrInvalidToken = apperr.Unauthorized("Unauthorized - Invalid token")
)

// Authenticate resolves an Authorization header value to a user ID.
// The scheme prefix is case sensitive and followed by exactly one space.
func Authenticate(header string, codec utils.TokenCodec) (string, error) {
	if header == "" {
		return "", ErrNoToken
	}
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", ErrInvalidToken
	}

	token := strings.TrimPrefix(header, bearerPrefix)
	if token == "" {
		return "", ErrNoToken
	}
	return validate(token, codec)
}

func validate(token string, codec utils.TokenCodec) (string, error) {
	userID, err := codec.Validate(token)
	if err != nil {
		return "", apperr.Wrap(apperr.KindAuth, ErrInvalidToken.Error(), err)
	}
	return userID, nil
}

// AuthMiddleware rejects requests without a valid bearer token and stores
// the caller's ID in the request locals.
func AuthMiddleware(codec utils.TokenCodec) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := Authenticate(c.Get(fiber.HeaderAuthorization), codec)
		if err != nil {
			return err
		}

		c.Locals(LocalUserID, userID)
		return c.Next()
	}
}

// OptionalAuth lets anonymous requests through. A request that does send an
// Authorization header must send a valid one.
func OptionalAuth(codec utils.TokenCodec) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return c.Next()
		}

		userID, err := Authenticate(header, codec)
		if err != nil {
			return err
		}

		c.Locals(LocalUserID, userID)
		return c.Next()
	}
}

// WebSocketAuth accepts the token from the Authorization header or, since
// browsers cannot set headers on a websocket handshake, from the token
// query parameter.
func WebSocketAuth(codec utils.TokenCodec) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var (
			userID string
			err    error
		)
		if header := c.Get(fiber.HeaderAuthorization); header != "" {
			userID, err = Authenticate(header, codec)
		} else if token := c.Query("token"); token != "" {
			userID, err = validate(token, codec)
		} else {
			err = ErrNoToken
		}
		if err != nil {
			return err
		}

		c.Locals(LocalUserID, userID)
		return c.Next()
	}
}

// GetUserID gets user ID from context
func GetUserID(c *fiber.Ctx) string {
	userID, ok := c.Locals(LocalUserID).(string)
	if !ok {
		return ""
	}
	return userID
}
