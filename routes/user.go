package routes

import (
	orderControllers "github.com/fruitika/storefront-api/controllers/order"
	userControllers "github.com/fruitika/storefront-api/controllers/user"
	"github.com/fruitika/storefront-api/middleware"
	"github.com/gin-gonic/gin"
)

// SetupUserRoutes registers all “/user/*” endpoints. Requires JWT middleware.
func SetupUserRoutes(r *gin.Engine, d *Deps) {
	userGroup := r.Group("/user")
	userGroup.Use(middleware.ValidateToken(d.Auth.Tokens()))
	{
		// ──────────────── User Profile ────────────────
		userGroup.GET("/me", userControllers.GetUser(d.DB))    // GET /user/me
		userGroup.PUT("/me", userControllers.UpdateUser(d.DB)) // PUT /user/me

		// ──────────────── Order History ────────────────
		userGroup.GET("/orders", orderControllers.GetUserOrdersHandler(d.Orders)) // GET /user/orders
	}
}
