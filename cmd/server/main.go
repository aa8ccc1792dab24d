package main

import (
	"context"

	"github.com/pfcmatch/backend/internal/app"
	"github.com/pfcmatch/backend/internal/auth"
	"github.com/pfcmatch/backend/internal/cache"
	"github.com/pfcmatch/backend/internal/config"
	"github.com/pfcmatch/backend/internal/db"
	"github.com/pfcmatch/backend/internal/logger"
	"github.com/pfcmatch/backend/internal/server"
	"github.com/pfcmatch/backend/internal/service/admin"
	"github.com/pfcmatch/backend/internal/service/chat"
	"github.com/pfcmatch/backend/internal/service/feed"
	"github.com/pfcmatch/backend/internal/service/match"
	"github.com/pfcmatch/backend/internal/service/pool"
	"github.com/pfcmatch/backend/internal/service/profile"
	"github.com/pfcmatch/backend/internal/service/swipe"
	"github.com/pfcmatch/backend/internal/storage"
)

func main() {
	cfg := config.New()

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	log := logger.L()

	// Init DB
	database, err := db.NewDB(cfg)
	if err != nil {
		log.Error("failed to init db", "err", err)
		return
	}

	// Init Redis
	redisCache := cache.NewRedisCache(cfg)
	if err := redisCache.Ping(context.Background()); err != nil {
		log.Error("failed to connect to redis", "err", err)
		return
	}

	// Photo storage collaborator
	uploader, err := storage.NewMinioUploader(cfg)
	if err != nil {
		log.Error("failed to init storage", "err", err)
		return
	}

	tokens := auth.NewTokenService(cfg)
	creds := auth.NewConfigCredentials(cfg)

	appCtx := app.New(cfg, database, redisCache, uploader, tokens, creds, log)

	registrars := []server.Registrar{
		admin.NewRegistrar(appCtx),
		pool.NewRegistrar(appCtx),
		profile.NewRegistrar(appCtx),
		feed.NewRegistrar(appCtx),
		swipe.NewRegistrar(appCtx),
		match.NewRegistrar(appCtx),
		chat.NewRegistrar(appCtx),
	}

	addr := cfg.HTTP.Host + ":" + cfg.HTTP.Port
	log.Info("starting HTTP server", "addr", addr)

	if err := server.StartHTTPServer(cfg, registrars...); err != nil {
		log.Error("failed to start HTTP server", "err", err)
	}
}
