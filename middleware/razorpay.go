package middleware

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"

	"github.com/fruitika/storefront-api/payment"
	"github.com/gin-gonic/gin"
)

const (
	webhookBodyKey  = "webhook_body"
	maxWebhookBytes = 1 << 20
)

// RazorpayWebhookAuth verifies X-Razorpay-Signature over the raw body and
// stores the body for the handler.
func RazorpayWebhookAuth(secret string, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "webhook secret is not configured"})
			c.Abort()
			return
		}

		body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBytes))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read webhook body"})
			c.Abort()
			return
		}

		signature := c.GetHeader("X-Razorpay-Signature")
		if signature == "" {
			c.JSON(http.StatusForbidden, gin.H{"error": "missing webhook signature"})
			c.Abort()
			return
		}
		if !payment.VerifyWebhookSignature(secret, body, signature) {
			log.Warn("razorpay webhook signature mismatch", "remote", c.ClientIP())
			c.JSON(http.StatusForbidden, gin.H{"error": "invalid webhook signature"})
			c.Abort()
			return
		}

		c.Set(webhookBodyKey, body)
		c.Request.Body = io.NopCloser(bytes.NewReader(body))
		c.Next()
	}
}

func WebhookBody(c *gin.Context) []byte {
	v, _ := c.Get(webhookBodyKey)
	body, _ := v.([]byte)
	return body
}
