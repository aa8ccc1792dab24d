package admin_test

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/pfcmatch/backend/internal/app"
	"github.com/pfcmatch/backend/internal/auth"
	"github.com/pfcmatch/backend/internal/config"
	apperr "github.com/pfcmatch/backend/internal/errors"
	"github.com/pfcmatch/backend/internal/service/admin"
)

func setupService(t *testing.T) (*admin.Service, *auth.TokenService) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	cfg := config.New()
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.AdminUsername = "root"
	cfg.Auth.AdminPasswordHash = string(hash)
	cfg.Auth.AdminTokenTTL = time.Hour

	tokens := auth.NewTokenService(cfg)
	creds := auth.NewConfigCredentials(cfg)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	appCtx := app.New(cfg, nil, nil, nil, tokens, creds, logger)
	return admin.NewService(appCtx), tokens
}

func TestLoginIssuesAdminToken(t *testing.T) {
	svc, tokens := setupService(t)

	token, err := svc.Login("root", "s3cret")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	id, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.True(t, id.Admin)
	assert.Equal(t, "admin:root", id.ID)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := setupService(t)

	_, err := svc.Login("root", "wrong")
	assert.ErrorIs(t, err, apperr.ErrNotAuthenticated)

	_, err = svc.Login("admin", "s3cret")
	assert.ErrorIs(t, err, apperr.ErrNotAuthenticated)
}
