package payments

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"storefront-service/internal/cart"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v81"
)

func newTestStripe(t *testing.T, handler http.Handler) *Stripe {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		URL:               stripe.String(srv.URL),
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelNull},
	})
	s, err := NewStripe("sk_test_123", &stripe.Backends{API: backend, Connect: backend, Uploads: backend})
	require.NoError(t, err)
	return s
}

func TestNewStripeRequiresKey(t *testing.T) {
	_, err := NewStripe("", nil)
	require.ErrorIs(t, err, ErrNotConfigured)
}

func TestStripeCreateOrder(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/payment_intents", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "1619", r.PostForm.Get("amount"))
		assert.Equal(t, "usd", r.PostForm.Get("currency"))
		assert.Equal(t, "manual", r.PostForm.Get("capture_method"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"pi_123","object":"payment_intent","status":"requires_payment_method","amount":1619}`))
	})
	s := newTestStripe(t, mux)

	items := furElise()
	id, err := s.CreateOrder(context.Background(), cart.ComputeTotals(items), items)
	require.NoError(t, err)
	require.Equal(t, "pi_123", id)
}

func TestStripeCaptureSucceeded(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/payment_intents/pi_123/capture", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"pi_123","object":"payment_intent","status":"succeeded","latest_charge":"ch_456","amount":1619,"amount_received":1619,"currency":"usd"}`))
	})
	s := newTestStripe(t, mux)

	capture, err := s.CaptureOrder(context.Background(), "pi_123")
	require.NoError(t, err)
	require.Equal(t, Succeeded, capture.Outcome)
	require.Equal(t, "ch_456", capture.TransactionID)
	require.Equal(t, "USD", capture.Currency)
	require.True(t, capture.Amount.Equal(decimal.RequireFromString("16.19")))
	require.True(t, capture.Covers(cart.ComputeTotals(furElise())))
}

func TestStripeCaptureDeclined(t *testing.T) {
	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/payment_intents/pi_123/capture", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"error":{"type":"card_error","code":"card_declined","message":"Your card was declined."}}`))
	})
	s := newTestStripe(t, mux)

	capture, err := s.CaptureOrder(context.Background(), "pi_123")
	require.NoError(t, err)
	require.Equal(t, Declined, capture.Outcome)
	require.Equal(t, "Your card was declined.", capture.Reason)
	require.EqualValues(t, 1, calls.Load())
}
