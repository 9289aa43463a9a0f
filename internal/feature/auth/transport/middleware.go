// Package transport provides the session middleware for the auth feature.
package transport

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ContextLogin is the gin context key holding the authenticated login name.
const ContextLogin = "login"

// LoginResolver resolves a session token to the login name behind it.
// Following Go convention: interfaces are defined by the consumer
// (middleware), not the provider (usecase).
type LoginResolver interface {
	Resolve(ctx context.Context, token string) (string, error)
}

// SessionRequired returns a Gin middleware that restricts access to requests
// carrying a valid session token and stores the login in the context.
func SessionRequired(sessions LoginResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		token := strings.TrimPrefix(auth, "Bearer ")

		login, err := sessions.Resolve(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid session"})
			return
		}

		c.Set(ContextLogin, login)
		c.Next()
	}
}

// LoginFromContext returns the login name set by SessionRequired.
func LoginFromContext(c *gin.Context) (string, bool) {
	login, ok := c.Get(ContextLogin)
	if !ok {
		return "", false
	}
	s, ok := login.(string)
	return s, ok && s != ""
}
