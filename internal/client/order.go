package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/openmart/dashboard/internal/domain/order"
)

var _ order.Client = (*Order)(nil)

// Order talks to the order service.
type Order struct {
	base
}

// NewOrder returns an order client for the service at baseURL.
func NewOrder(baseURL string, opts Options) *Order {
	return &Order{newBase(baseURL, opts)}
}

// ListOrders fetches all orders visible to the dashboard.
func (c *Order) ListOrders(ctx context.Context) ([]order.Order, error) {
	var orders []order.Order
	if err := c.do(ctx, http.MethodGet, "/orders", nil, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// CreateOrder asks the order service to turn the user's cart into an order.
// The service reads the cart itself and clears it on success.
func (c *Order) CreateOrder(ctx context.Context, userID string) (*order.Order, error) {
	payload := struct {
		UserID string `json:"user_id"`
	}{UserID: userID}

	var created order.Order
	if err := c.do(ctx, http.MethodPost, "/orders", nil, payload, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// PayOrder drives the order through its payment flow and returns the updated
// order, with status paid and the payment reference set.
func (c *Order) PayOrder(ctx context.Context, orderID int64) (*order.Order, error) {
	var paid order.Order
	path := fmt.Sprintf("/orders/%d/payment", orderID)
	if err := c.do(ctx, http.MethodPost, path, nil, nil, &paid); err != nil {
		return nil, err
	}
	return &paid, nil
}
