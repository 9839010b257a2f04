package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkucode2025/wedemo2025-sub001/internal/cache"
	"github.com/pkucode2025/wedemo2025-sub001/internal/config"
	"github.com/pkucode2025/wedemo2025-sub001/internal/database"
	"github.com/pkucode2025/wedemo2025-sub001/internal/handlers"
	"github.com/pkucode2025/wedemo2025-sub001/internal/logger"
	"github.com/pkucode2025/wedemo2025-sub001/internal/routes"
	"github.com/pkucode2025/wedemo2025-sub001/internal/store"
	"github.com/pkucode2025/wedemo2025-sub001/internal/utils"
	ws "github.com/pkucode2025/wedemo2025-sub001/internal/websocket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		log.Error("failed to apply schema", "error", err)
		os.Exit(1)
	}

	profiles, closeCache, err := cache.Open(ctx, cfg.Redis, log)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer closeCache()

	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	hub := ws.NewHub(log)
	go hub.Run(hubCtx)

	h := handlers.New(handlers.Deps{
		Store:    store.New(pool),
		DB:       pool,
		Tokens:   newTokenCodec(cfg.Auth),
		Profiles: profiles,
		Hub:      hub,
		Upload:   cfg.Upload,
		Log:      log,
	})

	app := routes.NewApp(h, cfg, log)

	go func() {
		<-ctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		stopHub()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Error("shutdown failed", "error", err)
		}
	}()

	log.Info("server starting", "port", cfg.Server.Port, "tokenMode", cfg.Auth.TokenMode)
	if err := app.Listen(":" + cfg.Server.Port); err != nil {
		log.Error("server stopped", "error", err)
	}
}

func newTokenCodec(cfg config.Auth) utils.TokenCodec {
	if cfg.TokenMode == config.TokenModeSigned {
		return utils.NewSignedCodec(cfg.TokenSecret, cfg.TokenTTL)
	}
	return utils.NewLegacyCodec(cfg.TokenTTL)
}
