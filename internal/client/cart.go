package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/openmart/dashboard/internal/domain/cart"
)

var _ cart.Client = (*Cart)(nil)

// Cart talks to the cart service. All operations are scoped to one user.
type Cart struct {
	base
}

// NewCart returns a cart client for the service at baseURL.
func NewCart(baseURL string, opts Options) *Cart {
	return &Cart{newBase(baseURL, opts)}
}

// GetCart fetches the user's current cart.
func (c *Cart) GetCart(ctx context.Context, userID string) (*cart.Cart, error) {
	var out cart.Cart
	if err := c.do(ctx, http.MethodGet, "/cart/"+url.PathEscape(userID), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddItem adds quantity units of a product to the user's cart. The cart
// service accumulates quantity when the product is already present.
func (c *Cart) AddItem(ctx context.Context, userID string, productID int64, quantity int) error {
	payload := struct {
		ProductID int64 `json:"product_id"`
		Quantity  int   `json:"quantity"`
	}{ProductID: productID, Quantity: quantity}

	return c.do(ctx, http.MethodPost, "/cart/"+url.PathEscape(userID)+"/items", nil, payload, nil)
}

// UpdateItem sets the quantity of an existing cart line. The cart service
// takes the new quantity as a query parameter, not a body.
func (c *Cart) UpdateItem(ctx context.Context, userID string, productID int64, quantity int) error {
	query := url.Values{"quantity": {strconv.Itoa(quantity)}}
	return c.do(ctx, http.MethodPut, c.itemPath(userID, productID), query, nil, nil)
}

// RemoveItem deletes a cart line.
func (c *Cart) RemoveItem(ctx context.Context, userID string, productID int64) error {
	return c.do(ctx, http.MethodDelete, c.itemPath(userID, productID), nil, nil, nil)
}

func (c *Cart) itemPath(userID string, productID int64) string {
	return fmt.Sprintf("/cart/%s/items/%d", url.PathEscape(userID), productID)
}
