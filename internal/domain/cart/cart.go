package cart

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// Item is a single cart line. ProductName and ProductPrice are denormalized
// snapshots supplied by the cart service; either may be absent when the
// service could not resolve the product at read time.
type Item struct {
	ID           int64           `json:"id"`
	UserID       string          `json:"user_id"`
	ProductID    int64           `json:"product_id"`
	Quantity     int             `json:"quantity"`
	ProductName  string          `json:"product_name"`
	ProductPrice decimal.Decimal `json:"product_price"`
}

// DisplayName returns the denormalized product name, or a placeholder derived
// from the product ID when the name is missing.
func (i Item) DisplayName() string {
	if i.ProductName != "" {
		return i.ProductName
	}
	return fmt.Sprintf("Product %d", i.ProductID)
}

// Subtotal is the line total at the snapshotted unit price.
func (i Item) Subtotal() decimal.Decimal {
	return i.ProductPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart mirrors one user's cart as reported by the cart service. Total is the
// service-computed value and is trusted as-is; its zero value renders as 0
// when the service omits it.
type Cart struct {
	UserID string          `json:"user_id"`
	Items  []Item          `json:"items"`
	Total  decimal.Decimal `json:"total"`
}

// IsEmpty reports whether the cart has no lines. A nil cart is empty.
func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Items) == 0
}

// Client defines the cart service operations used by the dashboard.
type Client interface {
	GetCart(ctx context.Context, userID string) (*Cart, error)
	AddItem(ctx context.Context, userID string, productID int64, quantity int) error
	UpdateItem(ctx context.Context, userID string, productID int64, quantity int) error
	RemoveItem(ctx context.Context, userID string, productID int64) error
}
