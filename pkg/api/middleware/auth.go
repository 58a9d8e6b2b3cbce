package middleware

import (
	"context"

	"prompt_architect/pkg/api/httpx"
	"prompt_architect/pkg/core/auth"

	"github.com/gin-gonic/gin"
)

const (
	identityKey = "identity"
	userIDKey   = "user_id"
)

// Authenticator is implemented by *auth.Gate.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (auth.Identity, error)
}

// Auth requires a valid bearer token of an allow-listed account and stores
// the resulting identity on the context.
func Auth(gate Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := auth.BearerToken(c.GetHeader("Authorization"))
		id, err := gate.Authenticate(c.Request.Context(), token)
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		c.Set(identityKey, id)
		c.Set(userIDKey, id.UserID)
		c.Next()
	}
}

// RequireAdmin must run after Auth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !Identity(c).Admin {
			httpx.WriteError(c, auth.ErrForbidden)
			return
		}
		c.Next()
	}
}

// Identity returns the caller set by Auth, or the zero Identity.
func Identity(c *gin.Context) auth.Identity {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(auth.Identity); ok {
			return id
		}
	}
	return auth.Identity{}
}
