package routes

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/pkucode2025/wedemo2025-sub001/internal/config"
	"github.com/pkucode2025/wedemo2025-sub001/internal/handlers"
)

// NewApp builds the Fiber application with its middleware and routes.
func NewApp(h *handlers.Handler, cfg *config.Config, log *slog.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      cfg.Server.AppName,
		ErrorHandler: handlers.ErrorHandler(log),
		BodyLimit:    int(cfg.Upload.MaxSize) + 1024*1024,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.AllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	SetupRoutes(app, h, cfg)
	return app
}
