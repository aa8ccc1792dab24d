package app

import (
	"log/slog"

	"gorm.io/gorm"

	"github.com/pfcmatch/backend/internal/auth"
	"github.com/pfcmatch/backend/internal/cache"
	"github.com/pfcmatch/backend/internal/config"
	"github.com/pfcmatch/backend/internal/storage"
)

// AppContext holds shared dependencies (DB, Redis, storage, auth, Logger).
type AppContext struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisCache  *cache.RedisCache
	Storage     storage.Uploader
	Tokens      *auth.TokenService
	Credentials auth.CredentialProvider
	Logger      *slog.Logger
}

// New creates a new AppContext.
func New(
	cfg *config.Config,
	db *gorm.DB,
	rdb *cache.RedisCache,
	store storage.Uploader,
	tokens *auth.TokenService,
	creds auth.CredentialProvider,
	logger *slog.Logger,
) *AppContext {
	return &AppContext{
		Config:      cfg,
		DB:          db,
		RedisCache:  rdb,
		Storage:     store,
		Tokens:      tokens,
		Credentials: creds,
		Logger:      logger,
	}
}
