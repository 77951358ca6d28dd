package orders

import (
	"testing"
	"time"

	"storefront-service/internal/cart"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func validOrder() *Order {
	return &Order{
		OrderID: "ORD-1700000000000",
		Customer: &Customer{
			FirstName: "Clara",
			LastName:  "Schumann",
			Email:     "clara@example.com",
		},
		Address: &Address{
			Line1:   "1 Music Row",
			City:    "Nashville",
			State:   "TN",
			ZipCode: "37203",
			Country: "US",
		},
		Items: []cart.LineItem{{
			ID:       "fur-elise",
			Name:     "Für Elise",
			Composer: "Ludwig van Beethoven",
			Price:    decimal.RequireFromString("14.99"),
			Quantity: 1,
		}},
		OrderDate: time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC),
	}
}

func TestValidateAcceptsCompleteOrder(t *testing.T) {
	res := Validate(validOrder())
	require.True(t, res.Valid, res.Reason)
	require.Empty(t, res.Reason)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(o *Order)
		field  string
	}{
		{"missing order id", func(o *Order) { o.OrderID = "" }, "orderId"},
		{"missing customer", func(o *Order) { o.Customer = nil }, "customer"},
		{"missing address", func(o *Order) { o.Address = nil }, "address"},
		{"missing items", func(o *Order) { o.Items = nil }, "items"},
		{"missing email", func(o *Order) { o.Customer.Email = "" }, "customer.email"},
		{"missing first name", func(o *Order) { o.Customer.FirstName = "" }, "customer.firstName"},
		{"missing last name", func(o *Order) { o.Customer.LastName = "" }, "customer.lastName"},
		{"malformed email", func(o *Order) { o.Customer.Email = "not-an-email" }, "customer.email"},
		{"email without tld", func(o *Order) { o.Customer.Email = "a@b" }, "customer.email"},
		{"email with space", func(o *Order) { o.Customer.Email = "a b@c.co" }, "customer.email"},
		{"empty items", func(o *Order) { o.Items = []cart.LineItem{} }, "items"},
		{"item without name", func(o *Order) { o.Items[0].Name = "" }, "items[0].name"},
		{"item with zero price", func(o *Order) { o.Items[0].Price = decimal.Zero }, "items[0].price"},
		{"item with negative price", func(o *Order) { o.Items[0].Price = decimal.NewFromInt(-1) }, "items[0].price"},
		{"item with zero quantity", func(o *Order) { o.Items[0].Quantity = 0 }, "items[0].quantity"},
		{"item with negative quantity", func(o *Order) { o.Items[0].Quantity = -2 }, "items[0].quantity"},
		{"item without composer", func(o *Order) { o.Items[0].Composer = "" }, "items[0].composer"},
		{"address without street", func(o *Order) { o.Address.Line1 = "" }, "address.line1"},
		{"address without country", func(o *Order) { o.Address.Country = "" }, "address.country"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := validOrder()
			tt.mutate(o)
			res := Validate(o)
			require.False(t, res.Valid)
			require.Equal(t, tt.field, res.Field)
			require.NotEmpty(t, res.Reason)
		})
	}
}

func TestValidateEmailReason(t *testing.T) {
	o := validOrder()
	o.Customer.Email = "not-an-email"
	res := Validate(o)
	require.False(t, res.Valid)
	require.Contains(t, res.Reason, "email")

	o.Customer.Email = "a@b.co"
	require.True(t, Validate(o).Valid)
}

func TestValidateReportsFirstFailure(t *testing.T) {
	o := validOrder()
	o.Customer.Email = "broken"
	o.Items = []cart.LineItem{}
	res := Validate(o)
	require.Equal(t, "customer.email", res.Field)
}

func TestValidateSecondItem(t *testing.T) {
	o := validOrder()
	o.Items = append(o.Items, cart.LineItem{ID: "romance", Name: "Romance", Price: decimal.RequireFromString("12.99"), Quantity: 1})
	res := Validate(o)
	require.Equal(t, "items[1].composer", res.Field)
}

func TestValidateNil(t *testing.T) {
	require.False(t, Validate(nil).Valid)
}
