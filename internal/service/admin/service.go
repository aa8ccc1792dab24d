// Package admin implements the admin login flow on top of the injected
// credential provider. No credentials live in this codebase.
package admin

import (
	"github.com/pfcmatch/backend/internal/app"
	"github.com/pfcmatch/backend/internal/auth"
	apperr "github.com/pfcmatch/backend/internal/errors"
)

type Service struct {
	appCtx *app.AppContext
}

func NewService(appCtx *app.AppContext) *Service {
	return &Service{appCtx: appCtx}
}

// Login verifies the credentials against the provider and issues an admin
// bearer token.
func (s *Service) Login(username, password string) (string, error) {
	if !s.appCtx.Credentials.VerifyAdmin(username, password) {
		s.appCtx.Logger.Warn("admin login rejected", "username", username)
		return "", apperr.ErrNotAuthenticated
	}

	token, err := s.appCtx.Tokens.Sign(auth.Identity{ID: "admin:" + username, Admin: true})
	if err != nil {
		return "", apperr.Store("sign admin token", username, err)
	}

	s.appCtx.Logger.Info("admin logged in", "username", username)
	return token, nil
}
