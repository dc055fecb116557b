package adminController

import (
	"net/http"

	"github.com/fruitika/storefront-api/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type submission interface {
	models.Contact | models.Quote | models.Career
}

// listNewestFirst serves one submission table, newest first.
func listNewestFirst[T submission](db *gorm.DB, what string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var rows []T
		if err := db.WithContext(c.Request.Context()).Order("created_at DESC").Find(&rows).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch " + what})
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

func GetContacts(db *gorm.DB) gin.HandlerFunc {
	return listNewestFirst[models.Contact](db, "contacts")
}

func GetQuotes(db *gorm.DB) gin.HandlerFunc {
	return listNewestFirst[models.Quote](db, "quotes")
}

func GetCareers(db *gorm.DB) gin.HandlerFunc {
	return listNewestFirst[models.Career](db, "careers")
}
