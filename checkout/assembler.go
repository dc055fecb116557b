// Package checkout turns a session cart and a confirmed payment into a
// persisted order.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fruitika/storefront-api/cart"
	"github.com/fruitika/storefront-api/models"
	"github.com/google/uuid"
)

// Identity is the authenticated buyer. A nil *Identity means nobody is
// logged in.
type Identity struct {
	UserID string
	Email  string
	Name   string
}

// PaymentConfirmation is the gateway's proof of a completed charge.
type PaymentConfirmation struct {
	Reference      string // gateway payment id
	GatewayOrderID string
	AmountMinor    int64
	Currency       string
}

type LineSnapshot struct {
	ProductID string
	Name      string
	Quantity  int
	UnitPrice float64
}

// OrderRequest is everything the persistence layer needs to record one
// order. IdempotencyKey identifies the checkout attempt: submitting the same
// key twice must yield the same order.
type OrderRequest struct {
	IdempotencyKey   string
	BuyerID          string
	Lines            []LineSnapshot
	Breakdown        Breakdown
	Currency         string
	PaymentReference string
	GatewayOrderID   string
	Customer         models.CustomerInfo
}

// OrderStore records orders. CreateOrder reports duplicate=true when the
// idempotency key or the payment was already used, together with the first
// order id.
type OrderStore interface {
	CreateOrder(ctx context.Context, req *OrderRequest) (orderID string, duplicate bool, err error)
	GetOrder(ctx context.Context, orderID string) (*models.Order, error)
}

// Stage names where a checkout attempt is, for logs.
type Stage string

const (
	StageEditingCart     Stage = "editing_cart"
	StageAwaitingPayment Stage = "awaiting_payment"
	StageSubmitting      Stage = "submitting_order"
	StageConfirmed       Stage = "confirmed"
	StageFailed          Stage = "failed_retryable"
)

type Result struct {
	OrderID   string    `json:"order_id"`
	Breakdown Breakdown `json:"breakdown"`
	Duplicate bool      `json:"duplicate"`
}

type Assembler struct {
	store   OrderStore
	pricing Pricing
	log     *slog.Logger
}

func NewAssembler(store OrderStore, pricing Pricing, log *slog.Logger) *Assembler {
	if log == nil {
		log = slog.Default()
	}
	return &Assembler{store: store, pricing: pricing, log: log.With("component", "checkout")}
}

func (a *Assembler) Pricing() Pricing {
	return a.pricing
}

// PlaceOrder validates the attempt, submits exactly one order to the store
// and clears the cart once the store has accepted it. On any error the cart
// is left untouched. Nothing is retried here.
func (a *Assembler) PlaceOrder(
	ctx context.Context,
	identity *Identity,
	c *cart.Cart,
	payment *PaymentConfirmation,
	idempotencyKey string,
	customer models.CustomerInfo,
) (*Result, error) {
	if identity == nil || identity.UserID == "" {
		return nil, ErrLoginRequired
	}
	if c == nil || c.IsEmpty() {
		return nil, ErrCartEmpty
	}

	lines := c.Lines()
	breakdown := a.pricing.Quote(lines)
	log := a.log.With("user_id", identity.UserID, "total", breakdown.Total.StringFixed(2))

	if payment == nil || payment.Reference == "" {
		log.Info("checkout blocked", "stage", StageAwaitingPayment)
		return nil, ErrPaymentRequired
	}
	if payment.AmountMinor < breakdown.TotalMinor() ||
		!strings.EqualFold(payment.Currency, a.pricing.Currency) {
		log.Warn("payment does not match order",
			"stage", StageAwaitingPayment,
			"payment_ref", payment.Reference,
			"paid_minor", payment.AmountMinor,
			"paid_currency", payment.Currency,
			"due_minor", breakdown.TotalMinor(),
		)
		return nil, ErrPaymentMismatch
	}

	if idempotencyKey == "" {
		idempotencyKey = uuid.NewString()
	}

	req := &OrderRequest{
		IdempotencyKey:   idempotencyKey,
		BuyerID:          identity.UserID,
		Lines:            snapshot(lines),
		Breakdown:        breakdown,
		Currency:         a.pricing.Currency,
		PaymentReference: payment.Reference,
		GatewayOrderID:   payment.GatewayOrderID,
		Customer:         customer,
	}
	if req.Customer.Email == "" {
		req.Customer.Email = identity.Email
	}

	log.Info("submitting order", "stage", StageSubmitting, "idempotency_key", idempotencyKey)
	orderID, duplicate, err := a.store.CreateOrder(ctx, req)
	if errors.Is(err, ErrPaymentUsed) {
		log.Warn("payment reused", "stage", StageAwaitingPayment, "payment_ref", payment.Reference)
		return nil, ErrPaymentUsed
	}
	if err != nil {
		log.Error("order submission failed", "stage", StageFailed, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrOrderFailed, err)
	}

	c.Clear()
	log.Info("order confirmed", "stage", StageConfirmed, "order_id", orderID, "duplicate", duplicate)

	return &Result{OrderID: orderID, Breakdown: breakdown, Duplicate: duplicate}, nil
}

func snapshot(lines []cart.Line) []LineSnapshot {
	out := make([]LineSnapshot, len(lines))
	for i, l := range lines {
		out[i] = LineSnapshot{
			ProductID: l.ProductID,
			Name:      l.Name,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		}
	}
	return out
}
