package routes

import (
	cartControllers "github.com/fruitika/storefront-api/controllers/cart"
	formControllers "github.com/fruitika/storefront-api/controllers/forms"
	productcontroller "github.com/fruitika/storefront-api/controllers/product"
	"github.com/gin-gonic/gin"
)

// SetupStoreRoutes registers the public catalog, cart and form endpoints.
func SetupStoreRoutes(r *gin.Engine, d *Deps) {
	pricing := d.Assembler.Pricing()

	// ──────────────── Browse Products ────────────────
	r.GET("/products", productcontroller.GetProducts(d.DB))
	r.GET("/products/:id", productcontroller.GetProductByID(d.DB))

	// ──────────────── Shopping Cart (per session) ────────────────
	cartGroup := r.Group("/cart")
	cartGroup.Use(d.cartSession())
	{
		cartGroup.GET("", cartControllers.GetCart(d.Carts, pricing, d.Log))
		cartGroup.POST("/items", cartControllers.AddItem(d.DB, d.Carts, pricing, d.Log))
		cartGroup.PUT("/items/:product_id", cartControllers.SetQuantity(d.Carts, pricing, d.Log))
		cartGroup.DELETE("/items/:product_id", cartControllers.RemoveItem(d.Carts, pricing, d.Log))
		cartGroup.DELETE("", cartControllers.ClearCart(d.Carts, pricing, d.Log))
	}

	// ──────────────── Forms ────────────────
	r.POST("/contact", formControllers.SubmitContact(d.DB, d.Notifications, d.Log))
	r.POST("/quote", formControllers.SubmitQuote(d.DB, d.Notifications, d.Log))
	r.POST("/careers", formControllers.SubmitCareer(d.DB, d.Notifications, d.Log))
}
