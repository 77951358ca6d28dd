package products

import (
	"time"

	"storefront-service/internal/cart"

	"github.com/shopspring/decimal"
)

// Product is one catalogue piece.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Composer    string          `json:"composer"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Difficulty  string          `json:"difficulty,omitempty"`
	Description string          `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// LineItem converts the product into a cart line at catalogue price.
func (p Product) LineItem(quantity int) cart.LineItem {
	return cart.LineItem{
		ID:       p.ID,
		Name:     p.Name,
		Composer: p.Composer,
		Price:    p.Price,
		Quantity: quantity,
	}
}
