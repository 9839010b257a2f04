package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// RateLimiter creates a rate limiting middleware. A disabled limiter passes
// every request through.
func RateLimiter(enabled bool, max int, expiration time.Duration) fiber.Handler {
	if !enabled {
		return func(c *fiber.Ctx) error { return c.Next() }
	}

	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: expiration,
		KeyGenerator: func(c *fiber.Ctx) string {
			// Use user ID if authenticated, otherwise use IP
			if userID := GetUserID(c); userID != "" {
				return userID
			}
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return fiber.NewError(fiber.StatusTooManyRequests, "Too many requests, please try again later")
		},
	})
}

// StrictRateLimiter for sensitive endpoints (e.g., auth)
func StrictRateLimiter(enabled bool) fiber.Handler {
	return RateLimiter(enabled, 5, 15*time.Minute) // 5 requests per 15 minutes
}

// ModerateRateLimiter for message writes
func ModerateRateLimiter(enabled bool) fiber.Handler {
	return RateLimiter(enabled, 30, 1*time.Minute) // 30 requests per minute
}

// UploadRateLimiter for file uploads
func UploadRateLimiter(enabled bool) fiber.Handler {
	return RateLimiter(enabled, 10, 5*time.Minute) // 10 uploads per 5 minutes
}
