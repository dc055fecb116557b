// Package payment talks to the Razorpay hosted checkout.
package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fruitika/storefront-api/checkout"
	"github.com/fruitika/storefront-api/config"
	"github.com/go-resty/resty/v2"
)

var (
	ErrInvalidSignature = errors.New("invalid payment signature")
	ErrNotPaid          = errors.New("gateway order has not been paid")
	ErrGateway          = errors.New("payment gateway error")
	ErrNotConfigured    = errors.New("payment gateway is not configured")
)

// GatewayOrder is a Razorpay order, the server-side handle the browser
// checkout pays against. Amounts are in minor units.
type GatewayOrder struct {
	ID         string `json:"id"`
	Amount     int64  `json:"amount"`
	AmountPaid int64  `json:"amount_paid"`
	AmountDue  int64  `json:"amount_due"`
	Currency   string `json:"currency"`
	Receipt    string `json:"receipt"`
	Status     string `json:"status"` // created, attempted, paid
}

type Gateway interface {
	// KeyID is the public key the browser checkout is opened with.
	KeyID() string
	CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (*GatewayOrder, error)
	Confirm(ctx context.Context, gatewayOrderID, paymentID, signature string) (*checkout.PaymentConfirmation, error)
}

type apiError struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

type RazorpayClient struct {
	http      *resty.Client
	keyID     string
	keySecret string
}

func NewRazorpayClient(cfg config.RazorpayConfig) (*RazorpayClient, error) {
	if cfg.KeyID == "" || cfg.KeySecret == "" {
		return nil, ErrNotConfigured
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.APIURL, "/")).
		SetBasicAuth(cfg.KeyID, cfg.KeySecret).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &RazorpayClient{http: client, keyID: cfg.KeyID, keySecret: cfg.KeySecret}, nil
}

func (r *RazorpayClient) KeyID() string {
	return r.keyID
}

// CreateOrder opens a gateway order for the given amount. Razorpay
// auto-captures payments made against it.
func (r *RazorpayClient) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (*GatewayOrder, error) {
	if amountMinor <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrGateway)
	}

	var out GatewayOrder
	var apiErr apiError
	resp, err := r.http.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"amount":          amountMinor,
			"currency":        strings.ToUpper(currency),
			"receipt":         receipt,
			"payment_capture": 1,
		}).
		SetResult(&out).
		SetError(&apiErr).
		Post("/orders")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGateway, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: create order (%d): %s", ErrGateway, resp.StatusCode(), apiErr.Error.Description)
	}
	return &out, nil
}

func (r *RazorpayClient) FetchOrder(ctx context.Context, gatewayOrderID string) (*GatewayOrder, error) {
	var out GatewayOrder
	var apiErr apiError
	resp, err := r.http.R().
		SetContext(ctx).
		SetPathParam("id", gatewayOrderID).
		SetResult(&out).
		SetError(&apiErr).
		Get("/orders/{id}")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGateway, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: fetch order (%d): %s", ErrGateway, resp.StatusCode(), apiErr.Error.Description)
	}
	return &out, nil
}

// Confirm checks the checkout signature and then asks the gateway how much
// was actually paid, so the amount never comes from the browser.
func (r *RazorpayClient) Confirm(ctx context.Context, gatewayOrderID, paymentID, signature string) (*checkout.PaymentConfirmation, error) {
	if gatewayOrderID == "" || paymentID == "" {
		return nil, ErrInvalidSignature
	}
	if !VerifyPaymentSignature(r.keySecret, gatewayOrderID, paymentID, signature) {
		return nil, ErrInvalidSignature
	}

	order, err := r.FetchOrder(ctx, gatewayOrderID)
	if err != nil {
		return nil, err
	}
	if order.AmountPaid <= 0 {
		return nil, ErrNotPaid
	}

	return &checkout.PaymentConfirmation{
		Reference:      paymentID,
		GatewayOrderID: order.ID,
		AmountMinor:    order.AmountPaid,
		Currency:       order.Currency,
	}, nil
}
