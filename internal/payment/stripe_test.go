package payment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripeClient_CreateSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_key", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("Idempotency-Key"))

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "payment", r.PostForm.Get("mode"))
		assert.Equal(t, "try", r.PostForm.Get("line_items[0][price_data][currency]"))
		assert.Equal(t, "2500", r.PostForm.Get("line_items[0][price_data][unit_amount]"))
		assert.Equal(t, "7", r.PostForm.Get("metadata[user_id]"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"cs_test_abc","url":"https://checkout.stripe.com/pay/cs_test_abc","status":"open","payment_status":"unpaid"}`))
	}))
	defer srv.Close()

	client := NewStripeClient("sk_test_key", srv.URL)
	sess, err := client.CreateSession(context.Background(), CreateSessionParams{
		AmountCents: 2500,
		Currency:    "TRY",
		ProductName: "CrewCar Wallet - Medium Package",
		SuccessURL:  "https://crewcar.app/wallet?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:   "https://crewcar.app/wallet",
		Metadata:    map[string]string{"user_id": "7", "package_id": "medium"},
	})

	require.NoError(t, err)
	assert.Equal(t, "cs_test_abc", sess.SessionID)
	assert.Equal(t, "https://checkout.stripe.com/pay/cs_test_abc", sess.URL)
}

func TestStripeClient_GetStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/checkout/sessions/cs_test_abc", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"cs_test_abc","status":"complete","payment_status":"paid","amount_total":2500,"currency":"try"}`))
	}))
	defer srv.Close()

	client := NewStripeClient("sk_test_key", srv.URL)
	status, err := client.GetStatus(context.Background(), "cs_test_abc")

	require.NoError(t, err)
	assert.Equal(t, "complete", status.Status)
	assert.Equal(t, "paid", status.PaymentStatus)
	assert.Equal(t, int64(2500), status.AmountTotal)
	assert.Equal(t, "TRY", status.Currency)
}

func TestStripeClient_ServerErrorIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewStripeClient("sk_test_key", srv.URL)
	_, err := client.GetStatus(context.Background(), "cs_test_abc")

	assert.ErrorIs(t, err, ErrPaymentUnavailable)
}

func TestStripeClient_ConnectionRefusedIsUnavailable(t *testing.T) {
	client := NewStripeClient("sk_test_key", "http://127.0.0.1:1")
	_, err := client.GetStatus(context.Background(), "cs_test_abc")

	assert.ErrorIs(t, err, ErrPaymentUnavailable)
}
