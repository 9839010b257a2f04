package routes

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/pkucode2025/wedemo2025-sub001/internal/config"
	"github.com/pkucode2025/wedemo2025-sub001/internal/handlers"
	"github.com/pkucode2025/wedemo2025-sub001/internal/middleware"
)

// SetupRoutes configures all application routes
func SetupRoutes(app *fiber.App, h *handlers.Handler, cfg *config.Config) {
	limit := cfg.RateLimit.Enabled
	auth := middleware.AuthMiddleware(h.Tokens())

	// Serve uploaded files (public)
	app.Static(handlers.UploadRoute, cfg.Upload.Dir)

	api := app.Group("/api")

	// Health check (public)
	api.Get("/health", h.Health)

	// Auth routes (public)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", middleware.StrictRateLimiter(limit), h.Register)
	authGroup.Post("/login", middleware.StrictRateLimiter(limit), h.Login)

	// Profiles
	api.Get("/users/:id", h.GetUser)
	api.Put("/me/update", auth, h.UpdateMe)

	// Friend routes (protected)
	friends := api.Group("/friends", auth)
	friends.Get("/", h.GetFriends)
	friends.Post("/request", h.SendFriendRequest)
	friends.Get("/requests", h.GetFriendRequests)
	friends.Post("/accept", h.AcceptFriendRequest)
	friends.Post("/delete", h.DeleteFriend)

	// Message routes: reads are public, writes take an optional bearer token
	api.Get("/messages", h.GetMessages)
	api.Post("/messages", middleware.OptionalAuth(h.Tokens()), middleware.ModerateRateLimiter(limit), h.SendMessage)

	// Capsule routes (protected)
	capsules := api.Group("/capsules", auth)
	capsules.Get("/", h.GetCapsules)
	capsules.Post("/", h.CreateCapsule)
	capsules.Put("/", h.OpenCapsule)

	// Upload routes (protected)
	api.Post("/upload", auth, middleware.UploadRateLimiter(limit), h.UploadFile)

	// WebSocket route (protected)
	api.Get("/ws", middleware.WebSocketAuth(h.Tokens()), h.WebSocketUpgrade, websocket.New(h.WebSocketHandler))
}
