package client

import (
	"context"
	"net/http"

	"github.com/openmart/dashboard/internal/domain/catalog"
)

var _ catalog.Client = (*Catalog)(nil)

// Catalog talks to the catalog service.
type Catalog struct {
	base
}

// NewCatalog returns a catalog client for the service at baseURL.
func NewCatalog(baseURL string, opts Options) *Catalog {
	return &Catalog{newBase(baseURL, opts)}
}

// ListProducts fetches the full product catalog.
func (c *Catalog) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	var products []catalog.Product
	if err := c.do(ctx, http.MethodGet, "/products", nil, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// CreateProduct adds a product to the catalog and returns the created entity.
func (c *Catalog) CreateProduct(ctx context.Context, req catalog.CreateProductRequest) (*catalog.Product, error) {
	// The catalog service expects price as a plain JSON number.
	payload := struct {
		Name        string  `json:"name"`
		Description string  `json:"description"`
		Price       float64 `json:"price"`
		Stock       int     `json:"stock"`
		Category    string  `json:"category"`
	}{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price.InexactFloat64(),
		Stock:       req.Stock,
		Category:    req.Category,
	}

	var created catalog.Product
	if err := c.do(ctx, http.MethodPost, "/products", nil, payload, &created); err != nil {
		return nil, err
	}
	return &created, nil
}
