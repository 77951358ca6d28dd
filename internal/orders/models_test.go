package orders

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"storefront-service/internal/cart"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestNewRecord(t *testing.T) {
	o := validOrder()
	o.Customer.Phone = "555-0100"
	o.Notes = "gift wrap"

	rec, err := NewRecord(o, StatusPending, nil)
	require.NoError(t, err)
	require.Equal(t, "ORD-1700000000000", rec.OrderID)
	require.Equal(t, "Clara Schumann", rec.CustomerName)
	require.Equal(t, "clara@example.com", rec.CustomerEmail)
	require.Equal(t, "555-0100", rec.CustomerPhone)
	require.Equal(t, StatusPending, rec.Status)
	require.True(t, rec.OrderTotal.Equal(decimal.RequireFromString("16.1892")), rec.OrderTotal.String())
	require.Empty(t, rec.PaymentMethod)

	var items []cart.LineItem
	require.NoError(t, json.Unmarshal(rec.OrderItems, &items))
	require.Len(t, items, 1)
	require.Equal(t, "fur-elise", items[0].ID)

	var addr Address
	require.NoError(t, json.Unmarshal(rec.ShippingAddress, &addr))
	require.Equal(t, "Nashville", addr.City)
}

func TestNewRecordWithPayment(t *testing.T) {
	rec, err := NewRecord(validOrder(), StatusPaid, &Payment{
		Method:           "paypal",
		TransactionID:    "CAP-1",
		ProcessorOrderID: "PAY-1",
	})
	require.NoError(t, err)
	require.Equal(t, StatusPaid, rec.Status)
	require.Equal(t, "paypal", rec.PaymentMethod)
	require.Equal(t, "CAP-1", rec.PaymentID)
	require.Equal(t, "PAY-1", rec.PaypalOrderID)
}

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"pending", "processing", "shipped", "completed", "paid"} {
		status, err := ParseStatus(s)
		require.NoError(t, err)
		require.Equal(t, s, string(status))
	}
	_, err := ParseStatus("refunded")
	require.Error(t, err)

	require.True(t, StatusShipped.AdminSettable())
	require.False(t, StatusPaid.AdminSettable())
}

func TestNewOrderID(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	a, b := NewOrderID(now), NewOrderID(now)
	require.True(t, strings.HasPrefix(a, "ORD-1700000000123-"))
	require.NotEqual(t, a, b)
}

func TestLineItemPriceDecoding(t *testing.T) {
	var items []cart.LineItem
	require.NoError(t, json.Unmarshal([]byte(`[{"id":"a","price":"14.99","quantity":1},{"id":"b","price":12.5,"quantity":2}]`), &items))
	require.True(t, items[0].Price.Equal(decimal.RequireFromString("14.99")))
	require.True(t, items[1].Price.Equal(decimal.RequireFromString("12.5")))

	err := json.Unmarshal([]byte(`[{"id":"a","price":"free","quantity":1}]`), &items)
	require.Error(t, err)
}
