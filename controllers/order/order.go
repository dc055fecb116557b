package orderControllers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/fruitika/storefront-api/cart"
	"github.com/fruitika/storefront-api/checkout"
	"github.com/fruitika/storefront-api/events"
	"github.com/fruitika/storefront-api/middleware"
	"github.com/fruitika/storefront-api/models"
	"github.com/fruitika/storefront-api/payment"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const notifyTimeout = 30 * time.Second

// OrderRepository is the read/update side of order persistence the
// handlers need.
type OrderRepository interface {
	GetOrder(ctx context.Context, orderID string) (*models.Order, error)
	GetByTrackingID(ctx context.Context, trackingID string) (*models.Order, error)
	ListForUser(ctx context.Context, userID string) ([]models.Order, error)
	ListAll(ctx context.Context) ([]models.Order, error)
	UpdateStatus(ctx context.Context, orderID string, u checkout.StatusUpdate) (*models.Order, error)
}

// -------- Request Structs --------

type CheckoutRequest struct {
	GatewayOrderID string              `json:"razorpay_order_id"`
	PaymentID      string              `json:"razorpay_payment_id"`
	Signature      string              `json:"razorpay_signature"`
	IdempotencyKey string              `json:"idempotency_key" binding:"omitempty,max=64"`
	Customer       models.CustomerInfo `json:"customer"`
}

type UpdateOrderStatusRequest struct {
	Status      string `json:"status" binding:"required"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

// CheckoutDeps bundles the collaborators of the checkout endpoint.
type CheckoutDeps struct {
	Carts     cart.SessionStore
	Assembler *checkout.Assembler
	Gateway   payment.Gateway // nil when payments are not configured
	Orders    OrderRepository
	Notifier  events.OrderNotifier
	Log       *slog.Logger
}

// -------- Handlers --------

// PlaceOrderHandler turns the session cart into an order once the payment
// is confirmed with the gateway. The cart is only cleared if the order was
// recorded.
func PlaceOrderHandler(d CheckoutDeps) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		identity := middleware.Identity(c)
		if identity == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": checkout.ErrLoginRequired.Error()})
			return
		}

		var req CheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var confirmation *checkout.PaymentConfirmation
		if req.PaymentID != "" {
			if d.Gateway == nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": payment.ErrNotConfigured.Error()})
				return
			}
			conf, err := d.Gateway.Confirm(ctx, req.GatewayOrderID, req.PaymentID, req.Signature)
			if err != nil {
				d.Log.Warn("payment confirmation failed", "user_id", identity.UserID, "gateway_order", req.GatewayOrderID, "error", err)
				if errors.Is(err, payment.ErrGateway) {
					c.JSON(http.StatusBadGateway, gin.H{"error": "Could not reach the payment gateway, please try again"})
					return
				}
				c.JSON(http.StatusPaymentRequired, gin.H{"error": err.Error()})
				return
			}
			confirmation = conf
		}

		// The Redis store may re-run the closure after a concurrent write, so
		// the key is fixed here and every run submits the same one.
		if req.IdempotencyKey == "" {
			req.IdempotencyKey = uuid.NewString()
		}
		var result *checkout.Result
		created := false
		_, err := d.Carts.Update(ctx, middleware.CartSessionID(c), func(ct *cart.Cart) error {
			res, err := d.Assembler.PlaceOrder(ctx, identity, ct, confirmation, req.IdempotencyKey, req.Customer)
			if err != nil {
				return err
			}
			result = res
			created = created || !res.Duplicate
			return nil
		})
		if err != nil {
			writeCheckoutError(c, d.Log, err)
			return
		}

		status := http.StatusCreated
		if !created {
			status = http.StatusOK
		} else if d.Notifier != nil {
			go notify(context.WithoutCancel(ctx), d, result.OrderID)
		}

		resp := gin.H{
			"message":   "Order placed successfully",
			"order_id":  result.OrderID,
			"breakdown": result.Breakdown,
			"duplicate": !created,
		}
		if order, err := d.Orders.GetOrder(ctx, result.OrderID); err == nil {
			resp["tracking_id"] = order.TrackingID
		}
		c.JSON(status, resp)
	}
}

func notify(ctx context.Context, d CheckoutDeps, orderID string) {
	ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()

	order, err := d.Orders.GetOrder(ctx, orderID)
	if err != nil {
		d.Log.Error("load order for notification failed", "order_id", orderID, "error", err)
		return
	}
	// the fanout logs each failing sink itself
	d.Notifier.OrderPlaced(ctx, order)
}

func writeCheckoutError(c *gin.Context, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, checkout.ErrLoginRequired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, checkout.ErrCartEmpty):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, checkout.ErrPaymentRequired), errors.Is(err, checkout.ErrPaymentMismatch),
		errors.Is(err, checkout.ErrPaymentUsed):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": err.Error()})
	case errors.Is(err, checkout.ErrOrderFailed):
		c.JSON(http.StatusBadGateway, gin.H{"error": checkout.ErrOrderFailed.Error()})
	default:
		log.Error("checkout failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Cart is temporarily unavailable"})
	}
}

// GetOrderByIDHandler returns one order to its owner or an admin.
func GetOrderByIDHandler(orders OrderRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, _ := middleware.Claims(c)
		order, err := orders.GetOrder(c.Request.Context(), c.Param("orderID"))
		if errors.Is(err, checkout.ErrOrderNotFound) ||
			(err == nil && (claims == nil || (order.UserID != claims.UserID && !claims.IsAdmin()))) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load order"})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// TrackingView is the public projection of an order; it carries no
// customer contact details.
type TrackingView struct {
	TrackingID   string               `json:"tracking_id"`
	Status       models.OrderStatus   `json:"status"`
	Items        []models.OrderItem   `json:"items"`
	Total        float64              `json:"total"`
	Currency     string               `json:"currency"`
	City         string               `json:"city,omitempty"`
	CreatedAt    time.Time            `json:"created_at"`
	ShippedAt    *time.Time           `json:"shipped_at,omitempty"`
	DeliveredAt  *time.Time           `json:"delivered_at,omitempty"`
	TrackingLogs []models.TrackingLog `json:"tracking_logs"`
}

// TrackOrderHandler serves GET /orders/track/:trackingID.
func TrackOrderHandler(orders OrderRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := orders.GetByTrackingID(c.Request.Context(), c.Param("trackingID"))
		if errors.Is(err, checkout.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found. Please check your tracking ID."})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load order"})
			return
		}
		c.JSON(http.StatusOK, TrackingView{
			TrackingID:   order.TrackingID,
			Status:       order.Status,
			Items:        order.Items,
			Total:        order.Total,
			Currency:     order.Currency,
			City:         order.Customer.City,
			CreatedAt:    order.CreatedAt,
			ShippedAt:    order.ShippedAt,
			DeliveredAt:  order.DeliveredAt,
			TrackingLogs: order.TrackingLogs,
		})
	}
}

func GetUserOrdersHandler(orders OrderRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		list, err := orders.ListForUser(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

func GetAllOrdersHandler(orders OrderRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := orders.ListAll(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// UpdateOrderStatusHandler moves an order along and records a tracking log.
func UpdateOrderStatusHandler(orders OrderRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		newStatus, err := models.ParseOrderStatus(req.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		order, err := orders.UpdateStatus(c.Request.Context(), c.Param("orderID"), checkout.StatusUpdate{
			Status:      newStatus,
			Location:    req.Location,
			Description: req.Description,
		})
		if errors.Is(err, checkout.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update order status"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Order status updated successfully", "order": order})
	}
}
