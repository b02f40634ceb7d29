package commercesdk

import (
	"context"
	"net/http"
)

// Cart fetches the user's current cart items.
func (c *Client) Cart(ctx context.Context, token, userID string) ([]CartItem, error) {
	resp, err := c.doJSON(ctx, http.MethodGet, "/cart/"+userID+"/", token, nil, nil)
	if err != nil {
		return nil, err
	}

	var items []CartItem
	if err := decodeJSON(resp, &items, http.StatusOK); err != nil {
		return nil, err
	}

	return items, nil
}

// UpdateCartItem sets the quantity of a cart line.
func (c *Client) UpdateCartItem(ctx context.Context, token, itemID string, quantity int) error {
	payload := struct {
		Quantity int `json:"quantity"`
	}{Quantity: quantity}

	resp, err := c.doJSON(ctx, http.MethodPatch, "/cart/item/"+itemID+"/", token, nil, payload)
	if err != nil {
		return err
	}

	return checkStatus(resp, http.StatusOK)
}

// RemoveCartItem deletes a cart line.
func (c *Client) RemoveCartItem(ctx context.Context, token, itemID string) error {
	resp, err := c.doJSON(ctx, http.MethodDelete, "/cart/item/"+itemID+"/", token, nil, nil)
	if err != nil {
		return err
	}

	return checkStatus(resp, http.StatusNoContent)
}

// TotalQuantity sums the quantities of the given cart items.
func TotalQuantity(items []CartItem) int {
	var total int
	for _, item := range items {
		total += item.Quantity
	}
	return total
}
