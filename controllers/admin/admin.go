package adminController

import (
	"log/slog"
	"net/http"

	"github.com/fruitika/storefront-api/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func GetAllAdmins(db *gorm.DB, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var admins []models.User

		if err := db.WithContext(c.Request.Context()).
			Where("role = ?", models.RoleAdmin).
			Order("created_at ASC").
			Find(&admins).Error; err != nil {
			log.Error("❌ Failed to fetch admins", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch admins"})
			return
		}

		c.JSON(http.StatusOK, admins)
	}
}
