package cart

import "github.com/shopspring/decimal"

// TaxRate is the flat sales tax applied to every cart subtotal.
var TaxRate = decimal.RequireFromString("0.08")

// LineItem is one product selected for purchase.
type LineItem struct {
	ID       string          `json:"id"`       // Product identifier, unique within a cart
	Name     string          `json:"name"`     // Display title of the piece
	Composer string          `json:"composer"` // Display composer
	Price    decimal.Decimal `json:"price"`    // Unit price in dollars
	Quantity int             `json:"quantity"` // Number of copies, always >= 1 inside a cart
}

// LineTotal is Price * Quantity.
func (li LineItem) LineTotal() decimal.Decimal {
	return li.Price.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Totals holds the amounts derived from the current line items. Values are exact;
// round only when presenting them.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// Rounded returns the totals rounded to cents for display.
func (t Totals) Rounded() Totals {
	return Totals{
		Subtotal: t.Subtotal.Round(2),
		Tax:      t.Tax.Round(2),
		Total:    t.Total.Round(2),
	}
}

type CartResponse struct {
	Items   []LineItem `json:"items"`
	Count   int        `json:"count"`
	Totals  Totals     `json:"totals"`
	Display Totals     `json:"display"`
}
