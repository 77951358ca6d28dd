package kafka

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TopicOrderCreated       = `storefront.order-created`
	TopicOrderPaid          = `storefront.order-paid`
	TopicOrderStatusUpdated = `storefront.order-status-updated`
)

// OrderEvent is published whenever an order row is written.
type OrderEvent struct {
	OrderID       string          `json:"order_id"`
	Status        string          `json:"status"`
	PreviousState string          `json:"previous_status,omitempty"`
	CustomerEmail string          `json:"customer_email,omitempty"`
	OrderTotal    decimal.Decimal `json:"order_total"`
	PaymentID     string          `json:"payment_id,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}
