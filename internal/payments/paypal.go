package payments

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"storefront-service/internal/cart"

	"github.com/plutov/paypal/v4"
	"github.com/shopspring/decimal"
)

const (
	PayPalSandboxURL    = "https://api-m.sandbox.paypal.com"
	PayPalProductionURL = "https://api-m.paypal.com"
)

type PayPalConfig struct {
	ClientID     string
	ClientSecret string
	BaseURL      string
	BrandName    string
	ReturnURL    string
	CancelURL    string
	HTTPClient   *http.Client
}

// PayPal talks to the Orders v2 REST API. The client fetches and refreshes the
// OAuth token itself.
type PayPal struct {
	cfg    PayPalConfig
	client *paypal.Client
}

func NewPayPal(cfg PayPalConfig) (*PayPal, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, ErrNotConfigured
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = PayPalSandboxURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	client, err := paypal.NewClient(cfg.ClientID, cfg.ClientSecret, cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("error creating paypal client: %w", err)
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	client.SetHTTPClient(httpClient)
	return &PayPal{cfg: cfg, client: client}, nil
}

func (p *PayPal) Name() string { return "paypal" }

func usd(value decimal.Decimal) *paypal.Money {
	return &paypal.Money{Currency: Currency, Value: value.StringFixed(2)}
}

// CreateOrder registers a CAPTURE-intent order for the cart total with an item and tax breakdown.
func (p *PayPal) CreateOrder(ctx context.Context, totals cart.Totals, items []cart.LineItem) (string, error) {
	unit := paypal.PurchaseUnitRequest{
		Amount: &paypal.PurchaseUnitAmount{
			Currency: Currency,
			Value:    ChargeAmount(totals).StringFixed(2),
			Breakdown: &paypal.PurchaseUnitAmountBreakdown{
				ItemTotal: usd(totals.Subtotal.Round(2)),
				TaxTotal:  usd(totals.Tax.Round(2)),
			},
		},
		Description: "Sheet music purchase",
	}
	for _, item := range items {
		unit.Items = append(unit.Items, paypal.Item{
			Name:       item.Name,
			SKU:        item.ID,
			Quantity:   strconv.Itoa(item.Quantity),
			UnitAmount: usd(item.Price),
		})
	}

	appContext := &paypal.ApplicationContext{
		BrandName:          p.cfg.BrandName,
		ShippingPreference: "NO_SHIPPING",
		UserAction:         "PAY_NOW",
		ReturnURL:          p.cfg.ReturnURL,
		CancelURL:          p.cfg.CancelURL,
	}

	order, err := p.client.CreateOrder(ctx, "CAPTURE", []paypal.PurchaseUnitRequest{unit}, nil, appContext)
	if err != nil {
		return "", fmt.Errorf("paypal create order: %w", err)
	}
	if order.ID == "" {
		return "", fmt.Errorf("paypal create order returned no id")
	}
	return order.ID, nil
}

// CaptureOrder finalizes an approved order. Only a COMPLETED order counts as Succeeded.
func (p *PayPal) CaptureOrder(ctx context.Context, processorOrderID string) (Capture, error) {
	if processorOrderID == "" {
		return Capture{}, fmt.Errorf("paypal order id is empty")
	}

	resp, err := p.client.CaptureOrder(ctx, processorOrderID, paypal.CaptureOrderRequest{})
	if err != nil {
		var perr *paypal.ErrorResponse
		if errors.As(err, &perr) && perr.Response != nil && perr.Response.StatusCode == http.StatusUnprocessableEntity {
			for _, d := range perr.Details {
				if d.Issue == "INSTRUMENT_DECLINED" {
					return Capture{
						Outcome:          Declined,
						ProcessorOrderID: processorOrderID,
						Status:           d.Issue,
						Reason:           d.Description,
					}, nil
				}
			}
		}
		return Capture{}, fmt.Errorf("paypal capture: %w", err)
	}

	capture := Capture{
		ProcessorOrderID: processorOrderID,
		TransactionID:    resp.ID,
		Status:           resp.Status,
	}
	if len(resp.PurchaseUnits) > 0 && resp.PurchaseUnits[0].Payments != nil && len(resp.PurchaseUnits[0].Payments.Captures) > 0 {
		captured := resp.PurchaseUnits[0].Payments.Captures[0]
		capture.TransactionID = captured.ID
		if captured.Amount != nil {
			// an unparseable amount stays zero and fails the amount check downstream
			capture.Currency = captured.Amount.Currency
			capture.Amount, _ = decimal.NewFromString(captured.Amount.Value)
		}
	}
	if resp.Status == "COMPLETED" {
		capture.Outcome = Succeeded
	} else {
		capture.Outcome = Declined
		capture.Reason = "capture status " + resp.Status
	}
	return capture, nil
}
