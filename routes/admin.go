package routes

import (
	adminController "github.com/fruitika/storefront-api/controllers/admin"
	orderControllers "github.com/fruitika/storefront-api/controllers/order"
	productcontroller "github.com/fruitika/storefront-api/controllers/product"
	userControllers "github.com/fruitika/storefront-api/controllers/user"
	"github.com/fruitika/storefront-api/middleware"
	"github.com/gin-gonic/gin"
)

// SetupAdminRoutes registers all “/admin/*” endpoints. Requires an admin JWT or the API key.
func SetupAdminRoutes(r *gin.Engine, d *Deps) {
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.RequireAdmin(d.Auth.Tokens(), d.Auth, d.Config.Auth.AdminAPIKey))
	{
		// ─────────── Admin & User Management ───────────
		adminGroup.GET("/admins", adminController.GetAllAdmins(d.DB, d.Log))
		adminGroup.GET("/users", userControllers.GetAllUsers(d.DB))

		adminMgmt := adminGroup.Group("/admin-management")
		{
			adminMgmt.POST("/approve", adminController.PromoteAdmin(d.DB))
			adminMgmt.POST("/revoke", adminController.DemoteAdmin(d.DB))
		}

		// ─────────── Product Management ───────────
		productAdmin := adminGroup.Group("/products")
		{
			productAdmin.POST("", productcontroller.CreateProduct(d.DB))
			productAdmin.PUT("/:id", productcontroller.UpdateProduct(d.DB))
			productAdmin.GET("", productcontroller.GetProducts(d.DB))
			productAdmin.DELETE("/:id", productcontroller.DeleteProduct(d.DB))
		}

		// ─────────── Orders ───────────
		orderAdmin := adminGroup.Group("/orders")
		{
			orderAdmin.GET("", orderControllers.GetAllOrdersHandler(d.Orders))
			orderAdmin.GET("/export", adminController.ExportOrders(d.Orders, d.Log))
			orderAdmin.PUT("/:orderID/status", orderControllers.UpdateOrderStatusHandler(d.Orders))

			// websocket endpoint for real-time order updates
			orderAdmin.GET("/feed", orderControllers.OrderWebSocketHandler(d.Hub))
		}

		// ─────────── Form Submissions ───────────
		adminGroup.GET("/contacts", adminController.GetContacts(d.DB))
		adminGroup.GET("/quotes", adminController.GetQuotes(d.DB))
		adminGroup.GET("/careers", adminController.GetCareers(d.DB))
		adminGroup.GET("/submissions/export", adminController.ExportSubmissions(d.DB, d.Log))

		adminGroup.POST("/test-email", adminController.SendTestEmail(d.Notifications, d.Log))
	}
}
