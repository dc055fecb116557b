package cartControllers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/fruitika/storefront-api/cart"
	"github.com/fruitika/storefront-api/checkout"
	"github.com/fruitika/storefront-api/middleware"
	"github.com/fruitika/storefront-api/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CartItemInput struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity"`
}

type QuantityInput struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// View is the cart as the storefront renders it. Totals are always computed
// server side.
type View struct {
	SessionID string             `json:"session_id"`
	Items     []cart.Line        `json:"items"`
	Count     int                `json:"count"`
	Summary   checkout.Breakdown `json:"summary"`
}

func view(sessionID string, c *cart.Cart, pricing checkout.Pricing) View {
	lines := c.Lines()
	if lines == nil {
		lines = []cart.Line{}
	}
	return View{
		SessionID: sessionID,
		Items:     lines,
		Count:     c.TotalItemCount(),
		Summary:   pricing.Quote(lines),
	}
}

func storeFailed(c *gin.Context, log *slog.Logger, err error) {
	log.Error("cart store failed", "session", middleware.CartSessionID(c), "error", err)
	c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Cart is temporarily unavailable"})
}

// GET /cart
func GetCart(store cart.SessionStore, pricing checkout.Pricing, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid := middleware.CartSessionID(c)
		current, err := store.Load(c.Request.Context(), sid)
		if err != nil {
			storeFailed(c, log, err)
			return
		}
		c.JSON(http.StatusOK, view(sid, current, pricing))
	}
}

// POST /cart/items
func AddItem(db *gorm.DB, store cart.SessionStore, pricing checkout.Pricing, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CartItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		var product models.Product
		if err := db.WithContext(c.Request.Context()).First(&product, "id = ?", input.ProductID).Error; err != nil {
			status := http.StatusInternalServerError
			errMsg := "Failed to validate product"
			if errors.Is(err, gorm.ErrRecordNotFound) {
				status = http.StatusBadRequest
				errMsg = "Product does not exist"
			}
			c.JSON(status, gin.H{"error": errMsg})
			return
		}
		if !product.InStock {
			c.JSON(http.StatusConflict, gin.H{"error": "Product is out of stock"})
			return
		}

		item, err := product.CartItem()
		if err != nil {
			log.Error("catalog entry rejected by cart", "product_id", product.ID, "error", err)
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}

		sid := middleware.CartSessionID(c)
		updated, err := store.Update(c.Request.Context(), sid, func(ct *cart.Cart) error {
			ct.AddItem(item, input.Quantity)
			return nil
		})
		if err != nil {
			storeFailed(c, log, err)
			return
		}
		c.JSON(http.StatusOK, view(sid, updated, pricing))
	}
}

// PUT /cart/items/:product_id
func SetQuantity(store cart.SessionStore, pricing checkout.Pricing, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input QuantityInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		productID := c.Param("product_id")
		sid := middleware.CartSessionID(c)
		updated, err := store.Update(c.Request.Context(), sid, func(ct *cart.Cart) error {
			ct.SetQuantity(productID, *input.Quantity)
			return nil
		})
		if err != nil {
			storeFailed(c, log, err)
			return
		}
		c.JSON(http.StatusOK, view(sid, updated, pricing))
	}
}

// DELETE /cart/items/:product_id
func RemoveItem(store cart.SessionStore, pricing checkout.Pricing, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID := c.Param("product_id")
		sid := middleware.CartSessionID(c)
		updated, err := store.Update(c.Request.Context(), sid, func(ct *cart.Cart) error {
			ct.RemoveItem(productID)
			return nil
		})
		if err != nil {
			storeFailed(c, log, err)
			return
		}
		c.JSON(http.StatusOK, view(sid, updated, pricing))
	}
}

// DELETE /cart
func ClearCart(store cart.SessionStore, pricing checkout.Pricing, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid := middleware.CartSessionID(c)
		updated, err := store.Update(c.Request.Context(), sid, func(ct *cart.Cart) error {
			ct.Clear()
			return nil
		})
		if err != nil {
			storeFailed(c, log, err)
			return
		}
		c.JSON(http.StatusOK, view(sid, updated, pricing))
	}
}
