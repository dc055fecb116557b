package middleware

import (
	"net/http"
	"strings"

	"github.com/fruitika/storefront-api/auth"
	"github.com/fruitika/storefront-api/checkout"
	"github.com/gin-gonic/gin"
)

const claimsKey = "claims"

func bearer(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	if header == "" && c.IsWebsocket() {
		// browsers cannot set headers on a websocket handshake
		return c.Query("token")
	}
	return strings.TrimSpace(header)
}

// ValidateToken rejects requests without a valid session JWT and exposes
// the claims to later handlers.
func ValidateToken(tokens *auth.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearer(c)
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is missing"})
			c.Abort()
			return
		}

		claims, err := tokens.Parse(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

// OptionalToken attaches claims when a valid token is present and lets the
// request through either way.
func OptionalToken(tokens *auth.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString := bearer(c); tokenString != "" {
			if claims, err := tokens.Parse(tokenString); err == nil {
				setClaims(c, claims)
			}
		}
		c.Next()
	}
}

func setClaims(c *gin.Context, claims *auth.Claims) {
	c.Set(claimsKey, claims)
	c.Set("user_id", claims.UserID)
	c.Set("email", claims.Email)
	c.Set("role", string(claims.Role))
}

func Claims(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}

// Identity returns the buyer for checkout, or nil when nobody is signed in.
func Identity(c *gin.Context) *checkout.Identity {
	claims, ok := Claims(c)
	if !ok {
		return nil
	}
	return &checkout.Identity{UserID: claims.UserID, Email: claims.Email, Name: claims.Name}
}
