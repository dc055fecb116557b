package middleware

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/fruitika/storefront-api/auth"
	"github.com/fruitika/storefront-api/models"
	"github.com/gin-gonic/gin"
)

// RoleSource reports the role a user holds right now.
type RoleSource interface {
	CurrentRole(ctx context.Context, userID string) (models.Role, error)
}

// RequireAdmin admits either a matching X-API-KEY (for scripts) or a JWT
// carrying the admin role. When roles is set the role is also checked
// against the database, so a revoked admin loses access before the token
// expires.
func RequireAdmin(tokens *auth.TokenIssuer, roles RoleSource, apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key := c.GetHeader("X-API-KEY"); key != "" && apiKey != "" &&
			subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) == 1 {
			c.Set("role", "admin")
			c.Next()
			return
		}

		tokenString := bearer(c)
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or missing API key"})
			c.Abort()
			return
		}
		claims, err := tokens.Parse(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}
		if !claims.IsAdmin() {
			c.JSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			c.Abort()
			return
		}

		if roles != nil {
			role, err := roles.CurrentRole(c.Request.Context(), claims.UserID)
			if err != nil && !errors.Is(err, auth.ErrUserNotFound) {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "could not verify admin access"})
				c.Abort()
				return
			}
			if role != models.RoleAdmin {
				c.JSON(http.StatusForbidden, gin.H{"error": "admin access required"})
				c.Abort()
				return
			}
		}

		setClaims(c, claims)
		c.Next()
	}
}
