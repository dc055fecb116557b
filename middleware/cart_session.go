package middleware

import (
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	CartSessionCookie = "cart_session"
	CartSessionHeader = "X-Cart-Session"
	cartSessionKey    = "cart_session"
)

var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9-]{8,64}$`)

// CartSession resolves the browsing session that owns the cart. The id comes
// from the cookie, then the header; a new one is minted when neither holds a
// usable id. It is echoed back on both so API and browser clients can keep
// it.
func CartSession(ttl time.Duration, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := c.Cookie(CartSessionCookie)
		if !sessionIDPattern.MatchString(id) {
			id = c.GetHeader(CartSessionHeader)
		}
		if !sessionIDPattern.MatchString(id) {
			id = uuid.NewString()
		}

		c.Set(cartSessionKey, id)
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(CartSessionCookie, id, int(ttl.Seconds()), "/", "", secure, true)
		c.Header(CartSessionHeader, id)
		c.Next()
	}
}

func CartSessionID(c *gin.Context) string {
	return c.GetString(cartSessionKey)
}
