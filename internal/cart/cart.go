package cart

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be greater than 0")
	ErrItemNotFound    = errors.New("cart item not found")
)

// Cart is an ordered collection of line items keyed by product id.
// Insertion order is the display order.
type Cart struct {
	items []LineItem
}

// New builds a cart from previously stored items. Entries sharing an id are merged.
func New(items ...LineItem) *Cart {
	c := &Cart{}
	for _, item := range items {
		c.AddItem(item)
	}
	return c
}

// AddItem increments the quantity of an existing entry with the same id, or appends
// the item. A missing or non-positive quantity counts as 1.
func (c *Cart) AddItem(item LineItem) {
	quantity := item.Quantity
	if quantity < 1 {
		quantity = 1
	}

	if i := c.indexOf(item.ID); i >= 0 {
		c.items[i].Quantity += quantity
		return
	}

	item.Quantity = quantity
	c.items = append(c.items, item)
}

// UpdateQuantity sets the quantity of the entry with the given id. Non-positive
// quantities are rejected; removal is only done through RemoveItem.
// The cart is left untouched whenever an error is returned.
func (c *Cart) UpdateQuantity(id string, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	i := c.indexOf(id)
	if i < 0 {
		return ErrItemNotFound
	}
	c.items[i].Quantity = quantity
	return nil
}

// RemoveItem drops the entry with the given id. Removing an absent id is a no-op.
func (c *Cart) RemoveItem(id string) {
	i := c.indexOf(id)
	if i < 0 {
		return
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
}

func (c *Cart) Clear() {
	c.items = nil
}

// Items returns a copy of the line items in display order.
func (c *Cart) Items() []LineItem {
	out := make([]LineItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) Len() int {
	return len(c.items)
}

// Count is the total number of copies across all entries.
func (c *Cart) Count() int {
	n := 0
	for _, item := range c.items {
		n += item.Quantity
	}
	return n
}

func (c *Cart) Totals() Totals {
	return ComputeTotals(c.items)
}

func (c *Cart) Response() CartResponse {
	totals := c.Totals()
	return CartResponse{
		Items:   c.Items(),
		Count:   c.Count(),
		Totals:  totals,
		Display: totals.Rounded(),
	}
}

func (c *Cart) indexOf(id string) int {
	for i := range c.items {
		if c.items[i].ID == id {
			return i
		}
	}
	return -1
}

// ComputeTotals derives subtotal, tax and total from the given items:
// subtotal = sum(price * quantity), tax = subtotal * TaxRate, total = subtotal + tax.
func ComputeTotals(items []LineItem) Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.LineTotal())
	}
	tax := subtotal.Mul(TaxRate)
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax),
	}
}
