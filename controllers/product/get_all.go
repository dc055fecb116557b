package productcontroller

import (
	"net/http"
	"strings"

	"github.com/fruitika/storefront-api/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var sortOrders = map[string]string{
	"price-low":  "price ASC",
	"price-high": "price DESC",
	"rating":     "rating DESC",
	"featured":   "featured DESC, rating DESC",
	"newest":     "created_at DESC",
}

// GetProducts lists the catalog. Query: category, search, sortBy.
func GetProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		category := strings.ToLower(strings.TrimSpace(c.Query("category")))
		search := strings.ToLower(strings.TrimSpace(c.Query("search")))
		sortBy := c.DefaultQuery("sortBy", "featured")

		order, ok := sortOrders[sortBy]
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sortBy"})
			return
		}

		query := db.WithContext(c.Request.Context()).Model(&models.Product{})
		if category != "" && category != "all" {
			query = query.Where("category = ?", category)
		}
		if search != "" {
			like := "%" + search + "%"
			query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
		}

		var products []models.Product
		if err := query.Order(order).Order("id ASC").Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}
		c.JSON(http.StatusOK, products)
	}
}
