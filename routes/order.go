package routes

import (
	orderControllers "github.com/fruitika/storefront-api/controllers/order"
	"github.com/fruitika/storefront-api/middleware"
	"github.com/gin-gonic/gin"
)

func SetupOrderRoutes(r *gin.Engine, d *Deps) {
	validate := middleware.ValidateToken(d.Auth.Tokens())

	// Place an order from the session cart once the payment is confirmed
	r.POST("/checkout", d.cartSession(), validate, orderControllers.PlaceOrderHandler(orderControllers.CheckoutDeps{
		Carts:     d.Carts,
		Assembler: d.Assembler,
		Gateway:   d.Gateway,
		Orders:    d.Orders,
		Notifier:  d.Notifier,
		Log:       d.Log,
	}))

	orders := r.Group("/orders")
	{
		// Public tracking page
		orders.GET("/track/:trackingID", orderControllers.TrackOrderHandler(d.Orders))

		// Owner or admin
		orders.GET("/:orderID", validate, orderControllers.GetOrderByIDHandler(d.Orders))
	}
}
