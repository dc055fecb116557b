package routes

import (
	"log/slog"
	"net/http"

	"github.com/fruitika/storefront-api/auth"
	"github.com/fruitika/storefront-api/cart"
	"github.com/fruitika/storefront-api/checkout"
	"github.com/fruitika/storefront-api/config"
	"github.com/fruitika/storefront-api/events"
	"github.com/fruitika/storefront-api/mailer"
	"github.com/fruitika/storefront-api/middleware"
	"github.com/fruitika/storefront-api/orderfeed"
	"github.com/fruitika/storefront-api/payment"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Deps is everything the handlers are built from.
type Deps struct {
	DB            *gorm.DB
	Config        *config.Config
	Log           *slog.Logger
	Auth          *auth.Service
	Carts         cart.SessionStore
	Orders        *checkout.GormOrderStore
	Assembler     *checkout.Assembler
	Gateway       payment.Gateway // nil when Razorpay is not configured
	Notifications *mailer.Notifications
	Notifier      events.OrderNotifier
	Hub           *orderfeed.Hub
}

func (d *Deps) cartSession() gin.HandlerFunc {
	return middleware.CartSession(d.Config.Checkout.CartTTL, d.Config.Environment == "production")
}

// SetupRoutes is the single entry‐point that wires up every route group.
func SetupRoutes(r *gin.Engine, d *Deps) {
	r.GET("/health", healthHandler(d.DB))

	// 1️⃣ Public Auth routes (no middleware)
	SetupAuthRoutes(r, d)

	// 2️⃣ Storefront: catalog, session cart, forms
	SetupStoreRoutes(r, d)

	// 3️⃣ User routes (JWT‐protected)
	SetupUserRoutes(r, d)

	// order + checkout routes
	SetupOrderRoutes(r, d)

	// razorpay payment routes
	SetupPaymentRoutes(r, d)

	// 4️⃣ Admin routes (admin JWT or API key)
	SetupAdminRoutes(r, d)
}

func healthHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
