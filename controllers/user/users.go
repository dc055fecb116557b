package userControllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/fruitika/storefront-api/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type UpdateUserInput struct {
	Name    *string         `json:"name" binding:"omitempty,max=120"`
	Phone   *string         `json:"phone" binding:"omitempty,max=32"`
	Picture *string         `json:"picture" binding:"omitempty,url"`
	Address *models.Address `json:"address"`
}

// Profile is the signed-in user plus a summary of their order history.
type Profile struct {
	models.User
	OrderCount  int64      `json:"order_count"`
	LastOrderAt *time.Time `json:"last_order_at,omitempty"`
}

func loadProfile(db *gorm.DB, userID string) (*Profile, error) {
	var p Profile
	if err := db.First(&p.User, "id = ?", userID).Error; err != nil {
		return nil, err
	}

	orders := db.Model(&models.Order{}).Where("user_id = ?", userID)
	if err := orders.Count(&p.OrderCount).Error; err != nil {
		return nil, err
	}
	if p.OrderCount > 0 {
		var last models.Order
		if err := db.Select("created_at").Where("user_id = ?", userID).
			Order("created_at DESC").First(&last).Error; err != nil {
			return nil, err
		}
		p.LastOrderAt = &last.CreatedAt
	}
	return &p, nil
}

func respondProfile(c *gin.Context, db *gorm.DB, userID string) {
	profile, err := loadProfile(db.WithContext(c.Request.Context()), userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load profile"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

// GET /user/me
func GetUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		respondProfile(c, db, c.GetString("user_id"))
	}
}

// GET /admin/users
func GetAllUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var users []models.User
		if err := db.WithContext(c.Request.Context()).
			Omit("password_hash").
			Order("created_at DESC").
			Find(&users).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
			return
		}
		c.JSON(http.StatusOK, users)
	}
}

// PUT /user/me. Only the fields present in the body change; email, role
// and provider are never writable here.
func UpdateUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		var input UpdateUserInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		columns := map[string]any{}
		set := func(col string, v *string) {
			if v != nil {
				columns[col] = strings.TrimSpace(*v)
			}
		}
		set("name", input.Name)
		set("phone", input.Phone)
		set("picture", input.Picture)
		if a := input.Address; a != nil {
			set("street", &a.Street)
			set("city", &a.City)
			set("state", &a.State)
			set("postal_code", &a.PostalCode)
			set("country", &a.Country)
		}

		if len(columns) > 0 {
			res := db.WithContext(c.Request.Context()).
				Model(&models.User{}).
				Where("id = ?", userID).
				Updates(columns)
			if res.Error != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
				return
			}
			if res.RowsAffected == 0 {
				c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
				return
			}
		}

		respondProfile(c, db, userID)
	}
}
