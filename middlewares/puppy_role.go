package middlewares

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"pupcare/models"
	"pupcare/services"

	"github.com/gin-gonic/gin"
)

// RoleResolver reports a user's role on a puppy.
type RoleResolver interface {
	RoleFor(ctx context.Context, puppyID, userID uint) (models.Role, error)
}

// RequirePuppyRole loads the caller's membership for the :id puppy and
// rejects it with 403 unless the role is at least minRole. It stores "puppyID"
// and "role" for the handlers.
func RequirePuppyRole(members RoleResolver, minRole models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil || id == 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid puppy id"})
			return
		}
		uid := c.GetUint("userID")

		role, err := members.RoleFor(c.Request.Context(), uint(id), uid)
		if err != nil {
			if errors.Is(err, services.ErrForbidden) {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "you do not have access to this puppy"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if !role.AtLeast(minRole) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": string(role) + "s cannot do this"})
			return
		}

		c.Set("puppyID", uint(id))
		c.Set("role", role)
		c.Next()
	}
}
