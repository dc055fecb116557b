package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fruitika/storefront-api/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testKeyID     = "rzp_test_key"
	testKeySecret = "rzp_test_secret"
)

type fakeRazorpay struct {
	orders  map[string]GatewayOrder
	created []map[string]any
}

func (f *fakeRazorpay) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	user, pass, ok := r.BasicAuth()
	if !ok || user != testKeyID || pass != testKeySecret {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"Authentication failed"}}`))
		return
	}

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/orders":
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		f.created = append(f.created, body)
		json.NewEncoder(w).Encode(GatewayOrder{
			ID:       "order_new",
			Amount:   int64(body["amount"].(float64)),
			Currency: body["currency"].(string),
			Receipt:  body["receipt"].(string),
			Status:   "created",
		})
	case r.Method == http.MethodGet && len(r.URL.Path) > len("/orders/"):
		o, ok := f.orders[r.URL.Path[len("/orders/"):]]
		if !ok {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"The id provided does not exist"}}`))
			return
		}
		json.NewEncoder(w).Encode(o)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func setupRazorpay(t *testing.T) (*RazorpayClient, *fakeRazorpay) {
	fake := &fakeRazorpay{orders: map[string]GatewayOrder{
		"order_paid":   {ID: "order_paid", Amount: 2899, AmountPaid: 2899, Currency: "INR", Status: "paid"},
		"order_unpaid": {ID: "order_unpaid", Amount: 2899, Currency: "INR", Status: "attempted"},
	}}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	client, err := NewRazorpayClient(config.RazorpayConfig{
		KeyID:     testKeyID,
		KeySecret: testKeySecret,
		APIURL:    srv.URL,
	})
	require.NoError(t, err)
	return client, fake
}

func TestNewRazorpayClient_NotConfigured(t *testing.T) {
	_, err := NewRazorpayClient(config.RazorpayConfig{})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestCreateOrder(t *testing.T) {
	client, fake := setupRazorpay(t)

	order, err := client.CreateOrder(context.Background(), 2899, "inr", "rcpt-1")
	require.NoError(t, err)
	assert.Equal(t, "order_new", order.ID)
	assert.EqualValues(t, 2899, order.Amount)

	require.Len(t, fake.created, 1)
	assert.Equal(t, "INR", fake.created[0]["currency"])
	assert.EqualValues(t, 1, fake.created[0]["payment_capture"])
}

func TestCreateOrder_RejectsZeroAmount(t *testing.T) {
	client, fake := setupRazorpay(t)

	_, err := client.CreateOrder(context.Background(), 0, "INR", "r")
	assert.ErrorIs(t, err, ErrGateway)
	assert.Empty(t, fake.created)
}

func TestCreateOrder_AuthFailure(t *testing.T) {
	client, _ := setupRazorpay(t)
	client.http.SetBasicAuth(testKeyID, "wrong")

	_, err := client.CreateOrder(context.Background(), 100, "INR", "r")
	require.ErrorIs(t, err, ErrGateway)
	assert.Contains(t, err.Error(), "Authentication failed")
}

func TestConfirm(t *testing.T) {
	client, _ := setupRazorpay(t)
	sig := Sign(testKeySecret, []byte("order_paid|pay_123"))

	conf, err := client.Confirm(context.Background(), "order_paid", "pay_123", sig)
	require.NoError(t, err)
	assert.Equal(t, "pay_123", conf.Reference)
	assert.Equal(t, "order_paid", conf.GatewayOrderID)
	assert.EqualValues(t, 2899, conf.AmountMinor)
	assert.Equal(t, "INR", conf.Currency)
}

func TestConfirm_BadSignature(t *testing.T) {
	client, _ := setupRazorpay(t)

	_, err := client.Confirm(context.Background(), "order_paid", "pay_123", Sign("other", []byte("order_paid|pay_123")))
	assert.ErrorIs(t, err, ErrInvalidSignature)

	_, err = client.Confirm(context.Background(), "order_paid", "pay_123", "not-hex")
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestConfirm_NotPaid(t *testing.T) {
	client, _ := setupRazorpay(t)
	sig := Sign(testKeySecret, []byte("order_unpaid|pay_1"))

	_, err := client.Confirm(context.Background(), "order_unpaid", "pay_1", sig)
	assert.ErrorIs(t, err, ErrNotPaid)
}

func TestConfirm_UnknownOrder(t *testing.T) {
	client, _ := setupRazorpay(t)
	sig := Sign(testKeySecret, []byte("order_missing|pay_1"))

	_, err := client.Confirm(context.Background(), "order_missing", "pay_1", sig)
	assert.ErrorIs(t, err, ErrGateway)
}

func TestWebhook(t *testing.T) {
	body := []byte(`{"event":"payment.captured","payload":{"payment":{"entity":{"id":"pay_1","order_id":"order_paid","amount":2899,"currency":"INR","status":"captured"}}}}`)
	sig := Sign("whsec", body)

	assert.True(t, VerifyWebhookSignature("whsec", body, sig))
	assert.False(t, VerifyWebhookSignature("whsec", append(body, ' '), sig))
	assert.False(t, VerifyWebhookSignature("", body, sig))

	ev, err := ParseWebhook(body)
	require.NoError(t, err)
	assert.Equal(t, EventPaymentCaptured, ev.Event)
	assert.Equal(t, "order_paid", ev.Payment().OrderID)

	_, err = ParseWebhook([]byte(`{}`))
	assert.Error(t, err)
}
