package paymentControllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fruitika/storefront-api/cart"
	"github.com/fruitika/storefront-api/checkout"
	"github.com/fruitika/storefront-api/logger"
	"github.com/fruitika/storefront-api/middleware"
	"github.com/fruitika/storefront-api/payment"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const webhookSecret = "whsec"

type fakeGateway struct {
	amount   int64
	currency string
	err      error
}

func (g *fakeGateway) KeyID() string { return "rzp_test_key" }

func (g *fakeGateway) CreateOrder(_ context.Context, amountMinor int64, currency, receipt string) (*payment.GatewayOrder, error) {
	if g.err != nil {
		return nil, g.err
	}
	g.amount, g.currency = amountMinor, currency
	return &payment.GatewayOrder{ID: "order_gw_1", Amount: amountMinor, Currency: currency, Receipt: receipt, Status: "created"}, nil
}

func (g *fakeGateway) Confirm(context.Context, string, string, string) (*checkout.PaymentConfirmation, error) {
	return nil, errors.New("not used")
}

type fakeLedger struct {
	paid   map[string]string
	failed []string
}

func (l *fakeLedger) MarkPaid(_ context.Context, gatewayOrderID, paymentRef string) (int64, error) {
	l.paid[gatewayOrderID] = paymentRef
	return 1, nil
}

func (l *fakeLedger) MarkPaymentFailed(_ context.Context, gatewayOrderID string) (int64, error) {
	l.failed = append(l.failed, gatewayOrderID)
	return 1, nil
}

func newRouter(t *testing.T, gateway payment.Gateway, store cart.SessionStore, ledger PaymentLedger) *gin.Engine {
	pricing, err := checkout.NewPricing("15.99", "0.10", "INR")
	require.NoError(t, err)
	log := logger.Discard()

	r := gin.New()
	r.POST("/payment/create", middleware.CartSession(time.Hour, false), CreatePaymentHandler(store, pricing, gateway, log))
	r.POST("/payment/webhook", middleware.RazorpayWebhookAuth(webhookSecret, log), WebhookHandler(ledger, log))
	return r
}

func createPayment(r *gin.Engine, sid string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/payment/create", nil)
	req.Header.Set(middleware.CartSessionHeader, sid)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreatePayment_QuotesSessionCart(t *testing.T) {
	store := cart.NewMemoryStore(time.Hour)
	item, err := cart.NewItem("1", "Sweet Lime", 10, "")
	require.NoError(t, err)
	_, err = store.Update(context.Background(), "session-pay-1", func(c *cart.Cart) error {
		c.AddItem(item, 2)
		return nil
	})
	require.NoError(t, err)

	gw := &fakeGateway{}
	w := createPayment(newRouter(t, gw, store, nil), "session-pay-1")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// 20.00 + 15.99 shipping + 2.00 tax
	assert.EqualValues(t, 3799, gw.amount)
	assert.Equal(t, "INR", gw.currency)

	var resp struct {
		KeyID   string `json:"key_id"`
		OrderID string `json:"razorpay_order_id"`
		Amount  int64  `json:"amount"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "rzp_test_key", resp.KeyID)
	assert.Equal(t, "order_gw_1", resp.OrderID)
	assert.EqualValues(t, 3799, resp.Amount)
}

func TestCreatePayment_Errors(t *testing.T) {
	store := cart.NewMemoryStore(time.Hour)

	assert.Equal(t, http.StatusServiceUnavailable, createPayment(newRouter(t, nil, store, nil), "session-pay-2").Code)
	assert.Equal(t, http.StatusBadRequest, createPayment(newRouter(t, &fakeGateway{}, store, nil), "session-pay-2").Code)

	item, _ := cart.NewItem("1", "Sweet Lime", 10, "")
	_, err := store.Update(context.Background(), "session-pay-2", func(c *cart.Cart) error {
		c.AddItem(item, 1)
		return nil
	})
	require.NoError(t, err)
	down := &fakeGateway{err: payment.ErrGateway}
	assert.Equal(t, http.StatusBadGateway, createPayment(newRouter(t, down, store, nil), "session-pay-2").Code)
}

func sendWebhook(t *testing.T, r *gin.Engine, event string, sign bool) *httptest.ResponseRecorder {
	body, err := json.Marshal(map[string]any{
		"event": event,
		"payload": map[string]any{
			"payment": map[string]any{
				"entity": map[string]any{"id": "pay_9", "order_id": "order_gw_9", "amount": 3799, "currency": "INR"},
			},
		},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/payment/webhook", bytes.NewReader(body))
	if sign {
		req.Header.Set("X-Razorpay-Signature", payment.Sign(webhookSecret, body))
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestWebhook(t *testing.T) {
	ledger := &fakeLedger{paid: map[string]string{}}
	r := newRouter(t, &fakeGateway{}, cart.NewMemoryStore(time.Hour), ledger)

	assert.Equal(t, http.StatusForbidden, sendWebhook(t, r, payment.EventPaymentCaptured, false).Code)
	assert.Empty(t, ledger.paid)

	assert.Equal(t, http.StatusOK, sendWebhook(t, r, payment.EventPaymentCaptured, true).Code)
	assert.Equal(t, "pay_9", ledger.paid["order_gw_9"])

	assert.Equal(t, http.StatusOK, sendWebhook(t, r, payment.EventPaymentFailed, true).Code)
	assert.Equal(t, []string{"order_gw_9"}, ledger.failed)

	w := sendWebhook(t, r, "refund.created", true)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ignored")
}
