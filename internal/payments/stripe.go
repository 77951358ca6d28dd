package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"storefront-service/internal/cart"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"
)

// Stripe uses manually captured PaymentIntents: CreateOrder authorizes, CaptureOrder moves funds.
type Stripe struct {
	api *client.API
}

// NewStripe builds a Stripe processor. backends may be nil to use the public API.
// Network retries are disabled so each call is attempted exactly once.
func NewStripe(secretKey string, backends *stripe.Backends) (*Stripe, error) {
	if secretKey == "" {
		return nil, ErrNotConfigured
	}
	if backends == nil {
		cfg := &stripe.BackendConfig{MaxNetworkRetries: stripe.Int64(0)}
		backends = &stripe.Backends{
			API:     stripe.GetBackendWithConfig(stripe.APIBackend, cfg),
			Connect: stripe.GetBackendWithConfig(stripe.ConnectBackend, cfg),
			Uploads: stripe.GetBackendWithConfig(stripe.UploadsBackend, cfg),
		}
	}
	api := &client.API{}
	api.Init(secretKey, backends)
	return &Stripe{api: api}, nil
}

func (s *Stripe) Name() string { return "stripe" }

func (s *Stripe) CreateOrder(ctx context.Context, totals cart.Totals, items []cart.LineItem) (string, error) {
	cents := ChargeAmount(totals).Shift(2).IntPart()
	if cents <= 0 {
		return "", fmt.Errorf("payment amount must be positive")
	}

	type summary struct {
		ID       string `json:"id"`
		Quantity int    `json:"quantity"`
	}
	lines := make([]summary, 0, len(items))
	for _, item := range items {
		lines = append(lines, summary{ID: item.ID, Quantity: item.Quantity})
	}
	jsonLines, err := json.Marshal(lines)
	if err != nil {
		return "", fmt.Errorf("failed to marshal line items: %w", err)
	}

	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(cents),
		Currency:      stripe.String(string(stripe.CurrencyUSD)),
		CaptureMethod: stripe.String(string(stripe.PaymentIntentCaptureMethodManual)),
		Description:   stripe.String("Sheet music purchase"),
	}
	params.Context = ctx
	params.AddMetadata("items", string(jsonLines))
	params.AddMetadata("tax", totals.Tax.Round(2).StringFixed(2))

	pi, err := s.api.PaymentIntents.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create payment intent: %w", err)
	}
	return pi.ID, nil
}

func (s *Stripe) CaptureOrder(ctx context.Context, processorOrderID string) (Capture, error) {
	params := &stripe.PaymentIntentCaptureParams{}
	params.Context = ctx

	pi, err := s.api.PaymentIntents.Capture(processorOrderID, params)
	if err != nil {
		var serr *stripe.Error
		if errors.As(err, &serr) && serr.Code == stripe.ErrorCodeCardDeclined {
			return Capture{
				Outcome:          Declined,
				ProcessorOrderID: processorOrderID,
				Status:           string(serr.Code),
				Reason:           serr.Msg,
			}, nil
		}
		return Capture{}, fmt.Errorf("failed to capture payment intent: %w", err)
	}

	capture := Capture{
		ProcessorOrderID: processorOrderID,
		TransactionID:    pi.ID,
		Status:           string(pi.Status),
		Amount:           decimal.New(pi.AmountReceived, -2),
		Currency:         strings.ToUpper(string(pi.Currency)),
	}
	if pi.LatestCharge != nil && pi.LatestCharge.ID != "" {
		capture.TransactionID = pi.LatestCharge.ID
	}
	if pi.Status == stripe.PaymentIntentStatusSucceeded {
		capture.Outcome = Succeeded
	} else {
		capture.Outcome = Declined
		capture.Reason = "payment intent status " + string(pi.Status)
	}
	return capture, nil
}
