package routes

import (
	paymentControllers "github.com/fruitika/storefront-api/controllers/payment"
	"github.com/fruitika/storefront-api/middleware"
	"github.com/gin-gonic/gin"
)

func SetupPaymentRoutes(r *gin.Engine, d *Deps) {
	payment := r.Group("/payment")
	{
		// Opens a Razorpay order for the session cart total
		payment.POST("/create", d.cartSession(),
			paymentControllers.CreatePaymentHandler(d.Carts, d.Assembler.Pricing(), d.Gateway, d.Log))

		// Webhook endpoint: middleware verifies the signature over the raw body
		payment.POST("/webhook",
			middleware.RazorpayWebhookAuth(d.Config.Razorpay.WebhookSecret, d.Log),
			paymentControllers.WebhookHandler(d.Orders, d.Log),
		)
	}
}
