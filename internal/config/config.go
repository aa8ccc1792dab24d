package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// LogConfig controls the global logger.
type LogConfig struct {
	Level     string
	Format    string
	Component string
	Source    bool
}

type Config struct {
	Log LogConfig

	DB struct {
		DSN      string
		Host     string
		Port     string
		User     string
		Password string
		Name     string
	}

	Redis struct {
		Addr     string
		Password string
		DB       int
	}

	HTTP struct {
		Host string
		Port string
	}

	Auth struct {
		// JWTSecret signs and verifies bearer tokens. User tokens are minted
		// by the auth collaborator with the same secret.
		JWTSecret string
		// Admin credentials live outside the codebase: username plus a
		// bcrypt hash of the password.
		AdminUsername     string
		AdminPasswordHash string
		AdminTokenTTL     time.Duration
	}

	Storage struct {
		Endpoint  string
		AccessKey string
		SecretKey string
		Bucket    string
		UseSSL    bool
		// PublicBaseURL prefixes object paths in returned photo URLs.
		PublicBaseURL string
	}

	Pool struct {
		// FallbackCode is always accepted during onboarding even without a
		// pool_configs row.
		FallbackCode   string
		StatusCacheTTL time.Duration
	}

	Feed struct {
		// MutualInterest additionally requires candidates to be interested
		// in the caller's gender. Off by default; pending product decision.
		MutualInterest bool
		DefaultLimit   int
	}
}

func New() *Config {
	// .env is optional; real deployments use the environment directly.
	_ = godotenv.Load()

	cfg := &Config{}

	// Logger
	cfg.Log.Level = getEnvDefault("LOG_LEVEL", "info")
	cfg.Log.Format = getEnvDefault("LOG_FORMAT", "text")
	cfg.Log.Component = getEnvDefault("LOG_COMPONENT", "pfc_match")
	cfg.Log.Source = isTruthy(os.Getenv("LOG_SOURCE"))

	// Database
	cfg.DB.DSN = os.Getenv("MYSQL_DSN")
	if cfg.DB.DSN == "" {
		cfg.DB.Host = getEnvDefault("DB_HOST", "localhost")
		cfg.DB.Port = getEnvDefault("DB_PORT", "3306")
		cfg.DB.User = getEnvDefault("DB_USER", "root")
		cfg.DB.Password = getEnvDefault("DB_PASSWORD", "root")
		cfg.DB.Name = getEnvDefault("DB_NAME", "pfcmatch")

		cfg.DB.DSN = fmt.Sprintf(
			"%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
			cfg.DB.User, cfg.DB.Password, cfg.DB.Host, cfg.DB.Port, cfg.DB.Name,
		)
	}

	// Redis
	cfg.Redis.Addr = getEnvDefault("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnvDefault("REDIS_PASSWORD", "")
	if dbStr := getEnvDefault("REDIS_DB", "0"); dbStr != "" {
		if dbInt, err := strconv.Atoi(dbStr); err == nil {
			cfg.Redis.DB = dbInt
		}
	}

	// HTTP
	cfg.HTTP.Host = getEnvDefault("HTTP_HOST", "0.0.0.0")
	cfg.HTTP.Port = getEnvDefault("HTTP_PORT", "8080")

	// Auth
	cfg.Auth.JWTSecret = getEnvDefault("JWT_SECRET", "dev-secret-change-me")
	cfg.Auth.AdminUsername = getEnvDefault("ADMIN_USERNAME", "")
	cfg.Auth.AdminPasswordHash = getEnvDefault("ADMIN_PASSWORD_HASH", "")
	cfg.Auth.AdminTokenTTL = getEnvDuration("ADMIN_TOKEN_TTL", 24*time.Hour)

	// Storage
	cfg.Storage.Endpoint = getEnvDefault("STORAGE_ENDPOINT", "localhost:9000")
	cfg.Storage.AccessKey = getEnvDefault("STORAGE_ACCESS_KEY", "")
	cfg.Storage.SecretKey = getEnvDefault("STORAGE_SECRET_KEY", "")
	cfg.Storage.Bucket = getEnvDefault("STORAGE_BUCKET", "photos")
	cfg.Storage.UseSSL = isTruthy(os.Getenv("STORAGE_USE_SSL"))
	cfg.Storage.PublicBaseURL = getEnvDefault("STORAGE_PUBLIC_URL", "")

	// Pool
	cfg.Pool.FallbackCode = getEnvDefault("POOL_FALLBACK_CODE", "abc123")
	cfg.Pool.StatusCacheTTL = getEnvDuration("POOL_STATUS_CACHE_TTL", time.Minute)

	// Feed
	cfg.Feed.MutualInterest = isTruthy(os.Getenv("FEED_MUTUAL_INTEREST"))
	if n, err := strconv.Atoi(getEnvDefault("FEED_DEFAULT_LIMIT", "10")); err == nil && n > 0 {
		cfg.Feed.DefaultLimit = n
	} else {
		cfg.Feed.DefaultLimit = 10
	}

	return cfg
}

func getEnvDefault(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func getEnvDuration(k string, def time.Duration) time.Duration {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y", "on":
		return true
	}
	return false
}
