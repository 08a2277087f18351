// README: Firebase ID-token authentication and role gating.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"samaha/internal/infra"
	"samaha/internal/modules/user"
	"samaha/internal/types"
)

const (
	ctxKeyUID  = "uid"
	ctxKeyRole = "role"
)

// RoleResolver looks up the role stored for an authenticated user.
type RoleResolver interface {
	Role(ctx context.Context, uid types.ID) (user.Role, error)
}

// Auth verifies the Bearer token and injects the caller's uid and role.
func Auth(verifier infra.TokenVerifier, roles RoleResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Login required"})
			return
		}
		token, err := verifier.VerifyIDToken(c.Request.Context(), strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		role, err := roles.Role(c.Request.Context(), types.ID(token.UID))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unknown user"})
			return
		}
		c.Set(ctxKeyUID, token.UID)
		c.Set(ctxKeyRole, string(role))
		c.Next()
	}
}

// RoleRequired enforces that the caller holds one of the allowed roles.
func RoleRequired(allowed ...user.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ctxKeyRole)
		for _, a := range allowed {
			if role == string(a) {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin only"})
	}
}

// CallerUID returns the authenticated user's id.
func CallerUID(c *gin.Context) types.ID {
	return types.ID(c.GetString(ctxKeyUID))
}

// CallerRole returns the authenticated user's role.
func CallerRole(c *gin.Context) user.Role {
	return user.Role(c.GetString(ctxKeyRole))
}
