package productcontroller

import (
	"math"
	"net/http"
	"strings"

	"github.com/fruitika/storefront-api/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ProductInput struct {
	Name        string   `json:"name" binding:"required"`
	Category    string   `json:"category" binding:"required"`
	Description string   `json:"description"`
	Price       float64  `json:"price" binding:"required,gt=0"`
	Image       string   `json:"image" binding:"required"`
	Images      []string `json:"images"`
	Rating      float64  `json:"rating" binding:"gte=0,lte=5"`
	InStock     *bool    `json:"in_stock"`
	Featured    bool     `json:"featured"`
}

func (in ProductInput) apply(p *models.Product) {
	p.Name = strings.TrimSpace(in.Name)
	p.Category = strings.ToLower(strings.TrimSpace(in.Category))
	p.Description = in.Description
	p.Price = math.Round(in.Price*100) / 100
	p.Image = in.Image
	p.Images = in.Images
	p.Rating = in.Rating
	p.Featured = in.Featured
	if in.InStock != nil {
		p.InStock = *in.InStock
	}
}

// CreateProduct adds a catalog entry (admin).
func CreateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		product := models.Product{InStock: true}
		input.apply(&product)
		if err := db.WithContext(c.Request.Context()).Create(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
			return
		}
		c.JSON(http.StatusCreated, product)
	}
}
