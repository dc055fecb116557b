package adminController

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// TestMailer sends the diagnostics email.
type TestMailer interface {
	Test(ctx context.Context, to string) error
}

// SendTestEmail checks the SMTP setup. Without a "to" the admin inbox is used.
func SendTestEmail(m TestMailer, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			To string `json:"to" binding:"omitempty,email"`
		}
		if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if err := m.Test(c.Request.Context(), req.To); err != nil {
			log.Error("test email failed", "error", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to send test email", "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Test email sent successfully"})
	}
}
