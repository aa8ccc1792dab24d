// Package auth is the identity collaborator boundary. The backend trusts
// bearer tokens only; user tokens are minted by the external auth service
// with the shared secret, admin tokens by the login flow below.
package auth

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/pfcmatch/backend/internal/config"
	apperr "github.com/pfcmatch/backend/internal/errors"
)

// Identity is the resolved caller.
type Identity struct {
	ID    string
	Email string
	Admin bool
}

// Claims is the JWT payload shared with the auth collaborator.
type Claims struct {
	Email string `json:"email,omitempty"`
	Admin bool   `json:"adm,omitempty"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies bearer tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(cfg *config.Config) *TokenService {
	return &TokenService{
		secret: []byte(cfg.Auth.JWTSecret),
		ttl:    cfg.Auth.AdminTokenTTL,
	}
}

// Sign issues a token for the given identity.
func (s *TokenService) Sign(id Identity) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: id.Email,
		Admin: id.Admin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify parses a bearer token into an Identity.
func (s *TokenService) Verify(token string) (Identity, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperr.ErrNotAuthenticated
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid || claims.Subject == "" {
		return Identity{}, apperr.ErrNotAuthenticated
	}
	return Identity{ID: claims.Subject, Email: claims.Email, Admin: claims.Admin}, nil
}

// CredentialProvider answers whether a username/password pair carries the
// admin capability. Injected so secrets never live in code.
type CredentialProvider interface {
	VerifyAdmin(username, password string) bool
}

// ConfigCredentials checks against the configured admin username and
// bcrypt password hash.
type ConfigCredentials struct {
	username string
	hash     []byte
}

func NewConfigCredentials(cfg *config.Config) *ConfigCredentials {
	return &ConfigCredentials{
		username: cfg.Auth.AdminUsername,
		hash:     []byte(cfg.Auth.AdminPasswordHash),
	}
}

func (p *ConfigCredentials) VerifyAdmin(username, password string) bool {
	if p.username == "" || len(p.hash) == 0 {
		return false
	}
	if username != p.username {
		return false
	}
	return bcrypt.CompareHashAndPassword(p.hash, []byte(password)) == nil
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):]), true
	}
	return "", false
}
