package paymentControllers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/fruitika/storefront-api/cart"
	"github.com/fruitika/storefront-api/checkout"
	"github.com/fruitika/storefront-api/middleware"
	"github.com/fruitika/storefront-api/payment"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PaymentLedger is the order-side bookkeeping driven by gateway webhooks.
type PaymentLedger interface {
	MarkPaid(ctx context.Context, gatewayOrderID, paymentRef string) (int64, error)
	MarkPaymentFailed(ctx context.Context, gatewayOrderID string) (int64, error)
}

// CreatePaymentResponse is what the browser needs to open Razorpay checkout.
type CreatePaymentResponse struct {
	KeyID     string             `json:"key_id"`
	OrderID   string             `json:"razorpay_order_id"`
	Amount    int64              `json:"amount"`
	Currency  string             `json:"currency"`
	Breakdown checkout.Breakdown `json:"breakdown"`
}

// CreatePaymentHandler prices the session cart on the server and opens a
// gateway order for exactly that total.
func CreatePaymentHandler(store cart.SessionStore, pricing checkout.Pricing, gateway payment.Gateway, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if gateway == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": payment.ErrNotConfigured.Error()})
			return
		}

		ct, err := store.Load(c.Request.Context(), middleware.CartSessionID(c))
		if err != nil {
			log.Error("load cart failed", "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Cart is temporarily unavailable"})
			return
		}
		if ct.IsEmpty() {
			c.JSON(http.StatusBadRequest, gin.H{"error": checkout.ErrCartEmpty.Error()})
			return
		}

		breakdown := pricing.Quote(ct.Lines())
		receipt := "rcpt_" + uuid.NewString()[:8]
		order, err := gateway.CreateOrder(c.Request.Context(), breakdown.TotalMinor(), pricing.Currency, receipt)
		if err != nil {
			log.Error("create gateway order failed", "receipt", receipt, "error", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "Could not start the payment, please try again"})
			return
		}

		log.Info("gateway order created", "razorpay_order_id", order.ID, "amount", order.Amount, "receipt", receipt)
		c.JSON(http.StatusOK, CreatePaymentResponse{
			KeyID:     gateway.KeyID(),
			OrderID:   order.ID,
			Amount:    order.Amount,
			Currency:  order.Currency,
			Breakdown: breakdown,
		})
	}
}

// WebhookHandler reconciles payment status from Razorpay callbacks. It runs
// behind middleware.RazorpayWebhookAuth, which has verified the signature.
func WebhookHandler(ledger PaymentLedger, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ev, err := payment.ParseWebhook(middleware.WebhookBody(c))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		p := ev.Payment()
		log := log.With("event", ev.Event, "razorpay_order_id", p.OrderID, "payment_id", p.ID)

		var updated int64
		switch ev.Event {
		case payment.EventPaymentCaptured, payment.EventOrderPaid:
			updated, err = ledger.MarkPaid(c.Request.Context(), p.OrderID, p.ID)
		case payment.EventPaymentFailed:
			// only pending orders change; a failed retry never downgrades a paid order
			updated, err = ledger.MarkPaymentFailed(c.Request.Context(), p.OrderID)
		default:
			log.Debug("ignoring webhook event")
			c.JSON(http.StatusOK, gin.H{"status": "ignored"})
			return
		}
		if err != nil {
			log.Error("webhook update failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record payment"})
			return
		}

		log.Info("webhook processed", "orders_updated", updated)
		c.JSON(http.StatusOK, gin.H{"status": "ok", "orders_updated": updated})
	}
}
