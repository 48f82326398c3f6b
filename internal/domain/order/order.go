// Package order defines the order entities mirrored from the order service.
//
// Orders are created and mutated server-side; the dashboard only reflects
// them. The single transition the dashboard drives is pending → paid, via the
// payment endpoint. All other status changes arrive through refreshes.
package order

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Status is the order lifecycle state as reported by the order service.
type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusPaid       Status = "paid"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// Terminal reports whether the order can no longer change state.
func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// Payable reports whether the dashboard may send this order to payment.
// Only pending orders accept payment.
func (s Status) Payable() bool {
	return s == StatusPending
}

// sqliteLayout is the bare timestamp format the order service emits for rows
// that never round-tripped through an explicit serializer.
const sqliteLayout = "2006-01-02 15:04:05"

// Time accepts both RFC 3339 and SQLite-style timestamps on the wire.
type Time struct {
	time.Time
}

func (t *Time) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := time.Parse(time.RFC3339, s)
	if err != nil {
		parsed, err = time.Parse(sqliteLayout, s)
	}
	if err != nil {
		return errors.Wrap(err, "parse timestamp")
	}
	t.Time = parsed
	return nil
}

func (t Time) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Format(time.RFC3339))
}

// Item is an order line captured at order-creation time. Items are immutable
// once the order exists.
type Item struct {
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

// Order mirrors one order as reported by the order service. Only Status,
// PaymentID, and UpdatedAt change after creation.
type Order struct {
	ID          int64           `json:"id"`
	UserID      string          `json:"user_id"`
	Status      Status          `json:"status"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Items       []Item          `json:"items"`
	PaymentID   string          `json:"payment_id"`
	CreatedAt   Time            `json:"created_at"`
	UpdatedAt   Time            `json:"updated_at"`
}

// Client defines the order service operations used by the dashboard.
type Client interface {
	ListOrders(ctx context.Context) ([]Order, error)
	CreateOrder(ctx context.Context, userID string) (*Order, error)
	PayOrder(ctx context.Context, orderID int64) (*Order, error)
}
