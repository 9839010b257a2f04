package handlers

import "github.com/gofiber/fiber/v2"

// Health reports database reachability and realtime hub load
func (h *Handler) Health(c *fiber.Ctx) error {
	if err := h.db.Ping(c.UserContext()); err != nil {
		h.log.Warn("health check failed", "error", err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"success": false,
			"error":   "database unavailable",
		})
	}

	return success(c, fiber.StatusOK, fiber.Map{
		"status":      "ok",
		"activeChats": h.hub.ChatCount(),
	})
}
