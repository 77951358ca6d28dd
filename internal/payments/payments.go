package payments

import (
	"context"
	"errors"
	"strings"

	"storefront-service/internal/cart"

	"github.com/shopspring/decimal"
)

// Currency is the only currency the storefront charges in.
const Currency = "USD"

var (
	ErrNotConfigured = errors.New("payment processor is not configured")
	ErrDeclined      = errors.New("payment was declined")
)

type Outcome int

const (
	Failed Outcome = iota
	Succeeded
	Declined
)

func (o Outcome) String() string {
	switch o {
	case Succeeded:
		return "succeeded"
	case Declined:
		return "declined"
	default:
		return "failed"
	}
}

// Capture is the result of finalizing a previously approved payment.
type Capture struct {
	Outcome          Outcome `json:"-"`
	ProcessorOrderID string  `json:"processor_order_id"`
	TransactionID    string  `json:"transaction_id,omitempty"`
	Status           string  `json:"status"`
	Reason           string  `json:"reason,omitempty"`

	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency,omitempty"`
}

// Covers reports whether the captured amount is exactly the charge for totals.
func (c Capture) Covers(totals cart.Totals) bool {
	return strings.EqualFold(c.Currency, Currency) && c.Amount.Equal(ChargeAmount(totals))
}

// ChargeAmount is the amount a processor is asked to collect for totals: the
// subtotal and the tax, each rounded to cents.
func ChargeAmount(totals cart.Totals) decimal.Decimal {
	return totals.Subtotal.Round(2).Add(totals.Tax.Round(2))
}

// Processor creates a payable order sized to the cart total and later captures it
// once the shopper has approved it. Every call is attempted once.
type Processor interface {
	Name() string
	CreateOrder(ctx context.Context, totals cart.Totals, items []cart.LineItem) (string, error)
	CaptureOrder(ctx context.Context, processorOrderID string) (Capture, error)
}
