package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fruitika/storefront-api/auth"
	"github.com/fruitika/storefront-api/cart"
	"github.com/fruitika/storefront-api/checkout"
	"github.com/fruitika/storefront-api/config"
	"github.com/fruitika/storefront-api/events"
	"github.com/fruitika/storefront-api/logger"
	"github.com/fruitika/storefront-api/mailer"
	"github.com/fruitika/storefront-api/models"
	"github.com/fruitika/storefront-api/orderfeed"
	"github.com/fruitika/storefront-api/payment"
	"github.com/fruitika/storefront-api/routes"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const sweepInterval = 10 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("❌ Invalid configuration", "error", err)
		os.Exit(1)
	}

	log, err := logger.Init(cfg.Log)
	if err != nil {
		slog.Error("❌ Logger setup failed", "error", err)
		os.Exit(1)
	}
	log.Info("✅ Starting application...", "env", cfg.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Init DB
	db := initDatabase(cfg.Database, log)

	// Auto-migrate all tables
	if err := models.AutoMigrate(db); err != nil {
		log.Error("❌ AutoMigrate failed", "error", err)
		os.Exit(1)
	}

	if cfg.SeedData {
		n, err := models.Seed(db, cfg.Seed.AdminEmail, cfg.Seed.AdminPassword)
		if err != nil {
			log.Error("❌ Seeding failed", "error", err)
			os.Exit(1)
		}
		log.Info("🌱 Seeded catalog", "products", n, "admin", cfg.Seed.AdminEmail)
	}

	carts := initCartStore(ctx, cfg, log)

	pricing, err := checkout.NewPricing(cfg.Checkout.ShippingFlat, cfg.Checkout.TaxRate, cfg.Checkout.Currency)
	if err != nil {
		log.Error("❌ Invalid checkout pricing", "error", err)
		os.Exit(1)
	}
	orders := checkout.NewGormOrderStore(db)
	assembler := checkout.NewAssembler(orders, pricing, log)

	var gateway payment.Gateway
	if rp, err := payment.NewRazorpayClient(cfg.Razorpay); err == nil {
		gateway = rp
	} else {
		log.Warn("⚠️ Razorpay disabled", "reason", err)
	}

	notifications := mailer.NewNotifications(mailer.New(cfg.Mail, log), cfg.Mail.AdminEmail)

	var verifier auth.TokenVerifier
	if cfg.Auth.FirebaseCredentials != "" {
		fv, err := auth.NewFirebaseVerifier(ctx, cfg.Auth.FirebaseCredentials, cfg.Auth.FirebaseProjectID)
		if err != nil {
			log.Error("❌ Firebase init failed", "error", err)
			os.Exit(1)
		}
		verifier = fv
	} else {
		log.Warn("⚠️ Google sign-in disabled, FIREBASE_CREDENTIALS_JSON not set")
	}
	authSvc := auth.NewService(db, auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL), verifier)

	hub := orderfeed.NewHub(log)
	defer hub.Close()

	fanout := events.NewFanout(log).
		Add("order_feed", hub).
		Add("order_email", events.NotifierFunc(notifications.OrderConfirmed))
	if len(cfg.Kafka.Brokers) > 0 {
		publisher := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.OrderTopic)
		defer publisher.Close()
		fanout.Add("kafka", publisher)
		log.Info("📣 Publishing order events", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.OrderTopic)
	}

	// Gin setup
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	// Resume uploads are capped at 5MB in the handler
	r.MaxMultipartMemory = 8 << 20

	// CORS settings
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-KEY", "X-Cart-Session"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Cart-Session"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Setup routes
	routes.SetupRoutes(r, &routes.Deps{
		DB:            db,
		Config:        cfg,
		Log:           log,
		Auth:          authSvc,
		Carts:         carts,
		Orders:        orders,
		Assembler:     assembler,
		Gateway:       gateway,
		Notifications: notifications,
		Notifier:      fanout,
		Hub:           hub,
	})

	// Start server
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		log.Info("🚀 Server running", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("❌ Failed to start server", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("🛑 Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("❌ Graceful shutdown failed", "error", err)
	}
}

// initDatabase sets up the GORM DB connection
func initDatabase(cfg config.DatabaseConfig, log *slog.Logger) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Error("❌ DB connection failed", "error", err)
		os.Exit(1)
	}
	return db
}

// initCartStore uses Redis when REDIS_ADDR is set so that several instances
// share carts; otherwise carts live in process memory.
func initCartStore(ctx context.Context, cfg *config.Config, log *slog.Logger) cart.SessionStore {
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			log.Error("❌ Redis connection failed", "addr", cfg.Redis.Addr, "error", err)
			os.Exit(1)
		}
		log.Info("🛒 Carts stored in Redis", "addr", cfg.Redis.Addr)
		return cart.NewRedisStore(client, cfg.Checkout.CartTTL)
	}

	store := cart.NewMemoryStore(cfg.Checkout.CartTTL)
	go sweepCarts(ctx, store, log)
	log.Info("🛒 Carts stored in memory")
	return store
}

// sweepCarts drops expired in-memory carts until ctx ends.
func sweepCarts(ctx context.Context, store *cart.MemoryStore, log *slog.Logger) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := store.Sweep(); n > 0 {
				log.Debug("🗑️ Removed expired carts", "count", n)
			}
		}
	}
}
