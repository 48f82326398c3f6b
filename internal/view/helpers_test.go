package view

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/shopspring/decimal"

	"github.com/openmart/dashboard/internal/domain/cart"
	"github.com/openmart/dashboard/internal/domain/catalog"
	"github.com/openmart/dashboard/internal/domain/order"
)

// --- Fake service clients ---

type fakeCatalog struct {
	mu       sync.Mutex
	products []catalog.Product
	created  []catalog.CreateProductRequest
	listErr  error
	listGate chan struct{} // when non-nil, ListProducts blocks until closed

	listCalls   atomic.Int32
	createCalls atomic.Int32
}

func (f *fakeCatalog) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	f.listCalls.Add(1)
	if f.listGate != nil {
		select {
		case <-f.listGate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.products, nil
}

func (f *fakeCatalog) CreateProduct(_ context.Context, req catalog.CreateProductRequest) (*catalog.Product, error) {
	f.createCalls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, req)
	p := catalog.Product{ID: int64(len(f.created)), Name: req.Name, Price: req.Price, Stock: req.Stock}
	f.products = append(f.products, p)
	return &p, nil
}

type fakeCart struct {
	mu     sync.Mutex
	cart   *cart.Cart
	getErr error
	opErr  error

	getCalls    atomic.Int32
	addCalls    atomic.Int32
	updateCalls atomic.Int32
	removeCalls atomic.Int32
}

func (f *fakeCart) GetCart(_ context.Context, userID string) (*cart.Cart, error) {
	f.getCalls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.cart == nil {
		return &cart.Cart{UserID: userID}, nil
	}
	return f.cart, nil
}

func (f *fakeCart) AddItem(_ context.Context, _ string, _ int64, _ int) error {
	f.addCalls.Add(1)
	return f.opErr
}

func (f *fakeCart) UpdateItem(_ context.Context, _ string, _ int64, _ int) error {
	f.updateCalls.Add(1)
	return f.opErr
}

func (f *fakeCart) RemoveItem(_ context.Context, _ string, _ int64) error {
	f.removeCalls.Add(1)
	return f.opErr
}

type fakeOrders struct {
	mu        sync.Mutex
	orders    []order.Order
	listErr   error
	createErr error
	payErr    error

	listCalls   atomic.Int32
	createCalls atomic.Int32
	payCalls    atomic.Int32
}

func (f *fakeOrders) ListOrders(_ context.Context) ([]order.Order, error) {
	f.listCalls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.orders, nil
}

func (f *fakeOrders) CreateOrder(_ context.Context, userID string) (*order.Order, error) {
	f.createCalls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	o := order.Order{ID: int64(len(f.orders) + 1), UserID: userID, Status: order.StatusPending}
	f.orders = append(f.orders, o)
	return &o, nil
}

func (f *fakeOrders) PayOrder(_ context.Context, orderID int64) (*order.Order, error) {
	f.payCalls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.payErr != nil {
		return nil, f.payErr
	}
	for i := range f.orders {
		if f.orders[i].ID == orderID {
			f.orders[i].Status = order.StatusPaid
			f.orders[i].PaymentID = "pay-test"
			paid := f.orders[i]
			return &paid, nil
		}
	}
	return nil, f.payErr
}

// fakeRefresher records which domains were refreshed, in order.
type fakeRefresher struct {
	mu      sync.Mutex
	domains []string
	err     error
}

func (f *fakeRefresher) record(domain string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.domains = append(f.domains, domain)
	return f.err
}

func (f *fakeRefresher) RefreshProducts(context.Context) error { return f.record("products") }
func (f *fakeRefresher) RefreshCart(context.Context) error     { return f.record("cart") }
func (f *fakeRefresher) RefreshOrders(context.Context) error   { return f.record("orders") }

func (f *fakeRefresher) refreshed() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.domains...)
}

// --- Entity helpers ---

func testProducts() []catalog.Product {
	return []catalog.Product{
		testProduct(1, "Laptop", "999.99"),
		testProduct(2, "Mouse", "29.99"),
	}
}

func testProduct(id int64, name string, price string) catalog.Product {
	return catalog.Product{
		ID:       id,
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Stock:    10,
		Category: "Electronics",
	}
}

func testOrder(id int64, status order.Status) order.Order {
	return order.Order{
		ID:          id,
		UserID:      "user-test",
		Status:      status,
		TotalAmount: decimal.RequireFromString("59.98"),
		Items: []order.Item{
			{ProductID: 7, ProductName: "Mouse", Quantity: 2, Price: decimal.RequireFromString("29.99")},
		},
	}
}

func testCart(items ...cart.Item) *cart.Cart {
	c := &cart.Cart{UserID: "user-test", Items: items, Total: decimal.Zero}
	for _, item := range items {
		c.Total = c.Total.Add(item.Subtotal())
	}
	return c
}
