package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fruitika/storefront-api/auth"
	"github.com/fruitika/storefront-api/logger"
	"github.com/fruitika/storefront-api/models"
	"github.com/fruitika/storefront-api/payment"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func issue(t *testing.T, tokens *auth.TokenIssuer, role models.Role) string {
	token, err := tokens.Issue(&models.User{ID: "u1", Email: "a@example.com", Role: role})
	require.NoError(t, err)
	return token
}

func TestValidateToken(t *testing.T) {
	tokens := auth.NewTokenIssuer("secret", time.Hour)
	r := gin.New()
	r.GET("/me", ValidateToken(tokens), func(c *gin.Context) {
		id := Identity(c)
		c.String(http.StatusOK, id.UserID+"|"+c.GetString("role"))
	})

	tests := []struct {
		name   string
		header string
		code   int
		body   string
	}{
		{"missing", "", http.StatusUnauthorized, ""},
		{"garbage", "Bearer nope", http.StatusUnauthorized, ""},
		{"bearer", "Bearer " + issue(t, tokens, models.RoleUser), http.StatusOK, "u1|user"},
		{"bare token", issue(t, tokens, models.RoleUser), http.StatusOK, "u1|user"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.code, w.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, w.Body.String())
			}
		})
	}
}

func TestOptionalToken(t *testing.T) {
	tokens := auth.NewTokenIssuer("secret", time.Hour)
	r := gin.New()
	r.GET("/x", OptionalToken(tokens), func(c *gin.Context) {
		if Identity(c) == nil {
			c.String(http.StatusOK, "anonymous")
			return
		}
		c.String(http.StatusOK, "signed-in")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, "anonymous", w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer "+issue(t, tokens, models.RoleUser))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "signed-in", w.Body.String())
}

func TestRequireAdmin(t *testing.T) {
	tokens := auth.NewTokenIssuer("secret", time.Hour)
	r := gin.New()
	r.GET("/admin", RequireAdmin(tokens, nil, "key-123"), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	tests := []struct {
		name    string
		headers map[string]string
		code    int
	}{
		{"nothing", nil, http.StatusUnauthorized},
		{"wrong key", map[string]string{"X-API-KEY": "nope"}, http.StatusUnauthorized},
		{"api key", map[string]string{"X-API-KEY": "key-123"}, http.StatusNoContent},
		{"user token", map[string]string{"Authorization": "Bearer " + issue(t, tokens, models.RoleUser)}, http.StatusForbidden},
		{"admin token", map[string]string{"Authorization": "Bearer " + issue(t, tokens, models.RoleAdmin)}, http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.code, w.Code)
		})
	}
}

type roleTable map[string]models.Role

func (r roleTable) CurrentRole(_ context.Context, userID string) (models.Role, error) {
	if userID == "down" {
		return "", errors.New("connection refused")
	}
	role, ok := r[userID]
	if !ok {
		return "", auth.ErrUserNotFound
	}
	return role, nil
}

func TestRequireAdmin_RoleCheckedAgainstStore(t *testing.T) {
	tokens := auth.NewTokenIssuer("secret", time.Hour)
	roles := roleTable{"u1": models.RoleAdmin, "revoked": models.RoleUser}
	r := gin.New()
	r.GET("/admin", RequireAdmin(tokens, roles, ""), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	adminToken := func(id string) string {
		token, err := tokens.Issue(&models.User{ID: id, Email: id + "@example.com", Role: models.RoleAdmin})
		require.NoError(t, err)
		return token
	}

	tests := []struct {
		name string
		user string
		code int
	}{
		{"still admin", "u1", http.StatusNoContent},
		{"revoked since login", "revoked", http.StatusForbidden},
		{"deleted user", "gone", http.StatusForbidden},
		{"store unavailable", "down", http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			req.Header.Set("Authorization", "Bearer "+adminToken(tt.user))
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.code, w.Code)
		})
	}
}

func TestRequireAdmin_EmptyConfiguredKeyNeverMatches(t *testing.T) {
	r := gin.New()
	r.GET("/admin", RequireAdmin(auth.NewTokenIssuer("secret", time.Hour), nil, ""), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("X-API-KEY", "")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCartSession(t *testing.T) {
	r := gin.New()
	r.GET("/cart", CartSession(time.Hour, false), func(c *gin.Context) {
		c.String(http.StatusOK, CartSessionID(c))
	})

	// New session minted.
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cart", nil))
	minted := w.Body.String()
	assert.Len(t, minted, 36)
	assert.Equal(t, minted, w.Header().Get(CartSessionHeader))
	assert.Contains(t, w.Header().Get("Set-Cookie"), CartSessionCookie+"="+minted)

	// Header is honoured.
	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set(CartSessionHeader, "session-from-header")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "session-from-header", w.Body.String())

	// Cookie wins over header.
	req = httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.AddCookie(&http.Cookie{Name: CartSessionCookie, Value: "session-from-cookie"})
	req.Header.Set(CartSessionHeader, "session-from-header")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "session-from-cookie", w.Body.String())

	// Junk is replaced.
	req = httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set(CartSessionHeader, "../../etc")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotEqual(t, "../../etc", w.Body.String())
}

func TestRazorpayWebhookAuth(t *testing.T) {
	r := gin.New()
	r.POST("/hook", RazorpayWebhookAuth("whsec", logger.Discard()), func(c *gin.Context) {
		c.String(http.StatusOK, string(WebhookBody(c)))
	})

	body := `{"event":"payment.captured"}`
	send := func(sig string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/hook", strings.NewReader(body))
		if sig != "" {
			req.Header.Set("X-Razorpay-Signature", sig)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := send(payment.Sign("whsec", []byte(body)))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, body, w.Body.String())

	assert.Equal(t, http.StatusForbidden, send("").Code)
	assert.Equal(t, http.StatusForbidden, send(payment.Sign("other", []byte(body))).Code)
}

func TestRazorpayWebhookAuth_NoSecret(t *testing.T) {
	r := gin.New()
	r.POST("/hook", RazorpayWebhookAuth("", logger.Discard()), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/hook", strings.NewReader("{}")))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
