package handlers

import (
	"context"
	"errors"
	"fmt"

	"storefront-service/internal/checkout"
	"storefront-service/internal/orders"
	"storefront-service/internal/products"
)

const catalogueCollaborator = "catalogue"

// priceFromCatalogue replaces each line's name, composer and price with the
// catalogue's. Only the product id and quantity are taken from the client.
func (h *Handler) priceFromCatalogue(ctx context.Context, o *orders.Order) error {
	if h.catalogue == nil {
		return &checkout.ConfigurationError{Collaborator: catalogueCollaborator, Err: errors.New("no catalogue")}
	}
	for i, item := range o.Items {
		product, err := h.catalogue.GetProduct(ctx, item.ID)
		if err != nil {
			if errors.Is(err, products.ErrProductNotFound) {
				return &checkout.ValidationError{Field: fmt.Sprintf("items[%d].id", i), Reason: "unknown product " + item.ID}
			}
			return &checkout.CollaboratorError{Collaborator: catalogueCollaborator, Err: err}
		}
		o.Items[i] = product.LineItem(item.Quantity)
	}
	return nil
}
