package catalog

import (
	"context"

	"github.com/shopspring/decimal"
)

// Product is a catalog item mirrored from the catalog service. The dashboard
// holds a read-only copy; the catalog service owns the entity.
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Category    string          `json:"category"`
}

// InStock reports whether the product can currently be added to a cart.
func (p Product) InStock() bool {
	return p.Stock > 0
}

// CreateProductRequest holds the validated input for creating a product.
type CreateProductRequest struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	Category    string
}

// Client defines the catalog service operations used by the dashboard.
type Client interface {
	ListProducts(ctx context.Context) ([]Product, error)
	CreateProduct(ctx context.Context, req CreateProductRequest) (*Product, error)
}
