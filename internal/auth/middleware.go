package auth

import (
	"github.com/gin-gonic/gin"

	apperr "github.com/pfcmatch/backend/internal/errors"
	"github.com/pfcmatch/backend/internal/utils/response"
)

const identityKey = "auth.identity"

// Middleware resolves the caller identity from the Authorization header and
// rejects the request if none can be resolved. No partial work happens for
// unauthenticated calls.
func Middleware(tokens *TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := BearerToken(c.GetHeader("Authorization"))
		if !ok {
			response.AbortError(c, apperr.ErrNotAuthenticated)
			return
		}
		id, err := tokens.Verify(token)
		if err != nil {
			response.AbortError(c, apperr.ErrNotAuthenticated)
			return
		}
		c.Set(identityKey, id)
		c.Next()
	}
}

// RequireAdmin rejects callers without the admin claim. Runs after
// Middleware, before any store access.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := CurrentUser(c)
		if !ok || !id.Admin {
			response.AbortError(c, apperr.ErrUnauthorized)
			return
		}
		c.Next()
	}
}

// CurrentUser returns the identity resolved by Middleware.
func CurrentUser(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}
