package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/pkucode2025/wedemo2025-sub001/internal/apperr"
)

// ErrorHandler renders every error that reaches Fiber as
// {"success": false, "error": "..."}. Server side failures are logged with
// their cause and reported to the client with a generic message.
func ErrorHandler(log *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := apperr.StatusOf(err)
		if status >= fiber.StatusInternalServerError {
			log.Error("request failed",
				"method", c.Method(),
				"path", c.Path(),
				"status", status,
				"error", err,
			)
		}

		return c.Status(status).JSON(fiber.Map{
			"success": false,
			"error":   apperr.PublicMessage(err),
		})
	}
}
