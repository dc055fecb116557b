package adminController

import (
	"net/http"
	"strings"

	"github.com/fruitika/storefront-api/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type roleRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// PromoteAdmin grants the admin role to an existing account.
func PromoteAdmin(db *gorm.DB) gin.HandlerFunc {
	return setRole(db, models.RoleAdmin, "Admin approved")
}

// DemoteAdmin takes the admin role away again. The account itself stays.
func DemoteAdmin(db *gorm.DB) gin.HandlerFunc {
	return setRole(db, models.RoleUser, "Admin access revoked")
}

func setRole(db *gorm.DB, role models.Role, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req roleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}

		res := db.WithContext(c.Request.Context()).
			Model(&models.User{}).
			Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).
			Update("role", role)
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update role"})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": message})
	}
}
