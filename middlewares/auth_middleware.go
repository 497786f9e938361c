// middlewares/auth_middleware.go
package middlewares

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"pupcare/models"
	"pupcare/services"

	"github.com/gin-gonic/gin"
)

// SessionResolver turns a bearer token into a live session.
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (*models.Session, error)
}

// AuthMiddleware resolves the request's session and stores "userID" and
// "sessionID" in the gin context.
func AuthMiddleware(auth SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		sess, err := auth.ResolveSession(c.Request.Context(), tokenString)
		if err != nil {
			if errors.Is(err, services.ErrUnauthorized) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired session"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.Set("userID", sess.UserID)
		c.Set("sessionID", sess.ID)
		c.Next()
	}
}

// bearerToken reads the Authorization header. Browsers cannot set headers on
// websocket upgrades, so ?token= is accepted there too.
func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if websocketUpgrade(c.Request) {
		return c.Query("token")
	}
	return ""
}

func websocketUpgrade(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("Upgrade"), "websocket")
}
