package orders

import (
	"fmt"
	"regexp"
)

// emailPattern accepts local@domain.tld. It is intentionally permissive.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Result is the outcome of Validate. Field names the first offending field.
type Result struct {
	Valid  bool   `json:"valid"`
	Field  string `json:"field,omitempty"`
	Reason string `json:"reason,omitempty"`
}

func invalid(field, reason string) Result {
	return Result{Field: field, Reason: reason}
}

// Validate checks an order before it may reach any collaborator. It stops at the
// first failing rule.
func Validate(o *Order) Result {
	if o == nil {
		return invalid("order", "order is required")
	}

	switch {
	case o.OrderID == "":
		return invalid("orderId", "orderId is required")
	case o.Customer == nil:
		return invalid("customer", "customer is required")
	case o.Address == nil:
		return invalid("address", "address is required")
	case o.Items == nil:
		return invalid("items", "items is required")
	}

	c := o.Customer
	switch {
	case c.Email == "":
		return invalid("customer.email", "customer email is required")
	case c.FirstName == "":
		return invalid("customer.firstName", "customer first name is required")
	case c.LastName == "":
		return invalid("customer.lastName", "customer last name is required")
	}

	if !emailPattern.MatchString(c.Email) {
		return invalid("customer.email", "customer email has an invalid format")
	}

	if len(o.Items) == 0 {
		return invalid("items", "items must contain at least one entry")
	}

	// A zero price or quantity counts as missing.
	for i, item := range o.Items {
		field := fmt.Sprintf("items[%d]", i)
		switch {
		case item.Name == "":
			return invalid(field+".name", "item name is required")
		case item.Price.IsZero():
			return invalid(field+".price", "item price is required")
		case item.Price.IsNegative():
			return invalid(field+".price", "item price must not be negative")
		case item.Quantity == 0:
			return invalid(field+".quantity", "item quantity is required")
		case item.Quantity < 0:
			return invalid(field+".quantity", "item quantity must be at least 1")
		case item.Composer == "":
			return invalid(field+".composer", "item composer is required")
		}
	}

	a := o.Address
	switch {
	case a.Line1 == "":
		return invalid("address.line1", "street address is required")
	case a.City == "":
		return invalid("address.city", "city is required")
	case a.State == "":
		return invalid("address.state", "state is required")
	case a.ZipCode == "":
		return invalid("address.zipCode", "postal code is required")
	case a.Country == "":
		return invalid("address.country", "country is required")
	}

	return Result{Valid: true}
}
