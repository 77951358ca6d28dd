package orders

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"storefront-service/internal/cart"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusCompleted  Status = "completed"
	StatusPaid       Status = "paid" // only set by the payment-capture path
)

var knownStatuses = []Status{StatusPending, StatusProcessing, StatusShipped, StatusCompleted, StatusPaid}

func ParseStatus(s string) (Status, error) {
	for _, known := range knownStatuses {
		if string(known) == s {
			return known, nil
		}
	}
	return "", fmt.Errorf("unknown order status %q", s)
}

// AdminSettable reports whether an administrator may move an order to this status.
func (s Status) AdminSettable() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusCompleted:
		return true
	}
	return false
}

type Customer struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	Phone        string `json:"phone,omitempty"`
	Organization string `json:"organization,omitempty"`
}

func (c Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

type Address struct {
	Line1   string `json:"line1"`
	Line2   string `json:"line2,omitempty"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

// Order is what the checkout page submits. Once handed to the gateway it is not
// modified by the shopper side again.
type Order struct {
	OrderID   string          `json:"orderId"`
	Customer  *Customer       `json:"customer"`
	Address   *Address        `json:"address"`
	Items     []cart.LineItem `json:"items"`
	Notes     string          `json:"notes,omitempty"`
	OrderDate time.Time       `json:"orderDate"`
}

func (o *Order) Totals() cart.Totals {
	return cart.ComputeTotals(o.Items)
}

// NewOrderID returns a timestamp-derived id that is unique per submission attempt.
func NewOrderID(now time.Time) string {
	return fmt.Sprintf("ORD-%d-%s", now.UnixMilli(), strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

// Record is the row shape stored in the orders table.
type Record struct {
	ID                   int64           `json:"id"`
	OrderID              string          `json:"order_id"`
	CustomerName         string          `json:"customer_name"`
	CustomerEmail        string          `json:"customer_email"`
	CustomerPhone        string          `json:"customer_phone,omitempty"`
	CustomerOrganization string          `json:"customer_organization,omitempty"`
	ShippingAddress      json.RawMessage `json:"shipping_address"`
	OrderItems           json.RawMessage `json:"order_items"`
	OrderTotal           decimal.Decimal `json:"order_total"`
	Notes                string          `json:"notes,omitempty"`
	OrderDate            time.Time       `json:"order_date"`
	Status               Status          `json:"status"`
	PaymentMethod        string          `json:"payment_method,omitempty"`
	PaymentID            string          `json:"payment_id,omitempty"`
	PaypalOrderID        string          `json:"paypal_order_id,omitempty"`
	CreatedAt            time.Time       `json:"created_at"`
}

// Payment annotates a record created through the payment-capture path.
type Payment struct {
	Method           string
	TransactionID    string
	ProcessorOrderID string
}

// NewRecord converts an order into its stored shape. order_total is recomputed from
// the items rather than trusted from the client.
func NewRecord(o *Order, status Status, payment *Payment) (Record, error) {
	address, err := json.Marshal(o.Address)
	if err != nil {
		return Record{}, fmt.Errorf("failed to serialize shipping address: %w", err)
	}
	items, err := json.Marshal(o.Items)
	if err != nil {
		return Record{}, fmt.Errorf("failed to serialize order items: %w", err)
	}

	rec := Record{
		OrderID:         o.OrderID,
		ShippingAddress: address,
		OrderItems:      items,
		OrderTotal:      o.Totals().Total,
		Notes:           o.Notes,
		OrderDate:       o.OrderDate,
		Status:          status,
	}
	if o.Customer != nil {
		rec.CustomerName = o.Customer.FullName()
		rec.CustomerEmail = o.Customer.Email
		rec.CustomerPhone = o.Customer.Phone
		rec.CustomerOrganization = o.Customer.Organization
	}
	if payment != nil {
		rec.PaymentMethod = payment.Method
		rec.PaymentID = payment.TransactionID
		rec.PaypalOrderID = payment.ProcessorOrderID
	}
	return rec, nil
}

// Stats summarises the orders table for the admin dashboard.
type Stats struct {
	Total        int             `json:"total"`
	ByStatus     map[Status]int  `json:"by_status"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
}

type SecurityEvent struct {
	EventType   string
	Description string
	IPAddress   string
	UserAgent   string
}
