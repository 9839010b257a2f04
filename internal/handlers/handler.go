package handlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/pkucode2025/wedemo2025-sub001/internal/apperr"
	"github.com/pkucode2025/wedemo2025-sub001/internal/cache"
	"github.com/pkucode2025/wedemo2025-sub001/internal/config"
	"github.com/pkucode2025/wedemo2025-sub001/internal/store"
	"github.com/pkucode2025/wedemo2025-sub001/internal/utils"
	ws "github.com/pkucode2025/wedemo2025-sub001/internal/websocket"
)

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the long lived dependencies every handler shares. They are
// built once in main and never mutated afterwards.
type Deps struct {
	Store    *store.Store
	DB       Pinger
	Tokens   utils.TokenCodec
	Profiles cache.ProfileCache
	Hub      *ws.Hub
	Upload   config.Upload
	Log      *slog.Logger
	Now      func() time.Time
}

type Handler struct {
	store    *store.Store
	db       Pinger
	tokens   utils.TokenCodec
	profiles cache.ProfileCache
	hub      *ws.Hub
	upload   config.Upload
	log      *slog.Logger
	now      func() time.Time
}

func New(d Deps) *Handler {
	h := &Handler{
		store:    d.Store,
		db:       d.DB,
		tokens:   d.Tokens,
		profiles: d.Profiles,
		hub:      d.Hub,
		upload:   d.Upload,
		log:      d.Log,
		now:      d.Now,
	}
	if h.profiles == nil {
		h.profiles = cache.Nop{}
	}
	if h.now == nil {
		h.now = time.Now
	}
	return h
}

// Tokens exposes the codec so routes can build the auth middleware.
func (h *Handler) Tokens() utils.TokenCodec {
	return h.tokens
}

func success(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

var errInvalidBody = apperr.Validation("Invalid request body")

func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return apperr.Wrap(apperr.KindValidation, errInvalidBody.Error(), err)
	}
	return nil
}
