package view

import (
	"context"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/openmart/dashboard/internal/client"
	"github.com/openmart/dashboard/internal/domain/cart"
	"github.com/openmart/dashboard/internal/domain/catalog"
	"github.com/openmart/dashboard/internal/domain/order"
)

// Local validation failures. These are raised before any request is sent;
// they never reach the network layer.
var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrEmptyCart       = errors.New("cart is empty")
	ErrOrderNotFound   = errors.New("order not found")
	ErrOrderNotPayable = errors.New("order is not awaiting payment")
	ErrNameRequired    = errors.New("product name is required")
	ErrInvalidPrice    = errors.New("price must be a decimal number")
	ErrInvalidStock    = errors.New("stock must be a non-negative integer")
)

// Mutator executes a single user command against the owning service and, on
// success, refreshes the domains the command affects. The store is never
// updated optimistically; it only ever reflects confirmed server state, so a
// failed command leaves the view untouched.
type Mutator struct {
	store   *Store
	catalog catalog.Client
	cart    cart.Client
	orders  order.Client
	refresh Refresher
	userID  string
}

// NewMutator wires a mutation coordinator. refresh is usually the Scheduler.
func NewMutator(store *Store, cat catalog.Client, crt cart.Client, ord order.Client, refresh Refresher, userID string) *Mutator {
	return &Mutator{
		store:   store,
		catalog: cat,
		cart:    crt,
		orders:  ord,
		refresh: refresh,
		userID:  userID,
	}
}

// AddToCart adds quantity units of a product to the session cart. The cart
// service accumulates quantity server-side when the product is already in
// the cart.
func (m *Mutator) AddToCart(ctx context.Context, productID int64, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	if err := m.cart.AddItem(ctx, m.userID, productID, quantity); err != nil {
		return errors.Wrap(err, "add item")
	}
	m.refreshAfter(ctx, m.refresh.RefreshCart)
	return nil
}

// UpdateCartQuantity sets the quantity of a cart line. A quantity of zero or
// less removes the item, behaving exactly like RemoveFromCart.
func (m *Mutator) UpdateCartQuantity(ctx context.Context, productID int64, quantity int) error {
	if quantity <= 0 {
		return m.RemoveFromCart(ctx, productID)
	}
	if err := m.cart.UpdateItem(ctx, m.userID, productID, quantity); err != nil {
		return errors.Wrap(err, "update item")
	}
	m.refreshAfter(ctx, m.refresh.RefreshCart)
	return nil
}

// RemoveFromCart deletes a cart line.
func (m *Mutator) RemoveFromCart(ctx context.Context, productID int64) error {
	if err := m.cart.RemoveItem(ctx, m.userID, productID); err != nil {
		return errors.Wrap(err, "remove item")
	}
	m.refreshAfter(ctx, m.refresh.RefreshCart)
	return nil
}

// CreateOrder turns the current cart into an order. The emptiness check runs
// against the local snapshot, so an empty cart never produces a request. On
// success both the cart (cleared server-side) and the orders are refreshed.
func (m *Mutator) CreateOrder(ctx context.Context) (*order.Order, error) {
	if m.store.Snapshot().Cart.IsEmpty() {
		return nil, ErrEmptyCart
	}
	created, err := m.orders.CreateOrder(ctx, m.userID)
	if err != nil {
		return nil, errors.Wrap(err, "create order")
	}
	m.refreshAfter(ctx, m.refresh.RefreshOrders, m.refresh.RefreshCart)
	return created, nil
}

// PayOrder drives a pending order through payment. Preconditions are checked
// against the snapshot: the order must exist and still be pending.
func (m *Mutator) PayOrder(ctx context.Context, orderID int64) (*order.Order, error) {
	snap := m.store.Snapshot()
	var target *order.Order
	for i := range snap.Orders {
		if snap.Orders[i].ID == orderID {
			target = &snap.Orders[i]
			break
		}
	}
	if target == nil {
		return nil, ErrOrderNotFound
	}
	if !target.Status.Payable() {
		return nil, ErrOrderNotPayable
	}

	paid, err := m.orders.PayOrder(ctx, orderID)
	if err != nil {
		return nil, errors.Wrap(err, "pay order")
	}
	m.refreshAfter(ctx, m.refresh.RefreshOrders)
	return paid, nil
}

// CreateProductInput carries raw form values. Price and Stock arrive as text
// and are validated locally before any request is sent.
type CreateProductInput struct {
	Name        string
	Description string
	Price       string
	Stock       string
	Category    string
}

// parse validates the raw input and produces a typed request.
func (in CreateProductInput) parse() (catalog.CreateProductRequest, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return catalog.CreateProductRequest{}, ErrNameRequired
	}

	price, err := decimal.NewFromString(strings.TrimSpace(in.Price))
	if err != nil || price.IsNegative() {
		return catalog.CreateProductRequest{}, ErrInvalidPrice
	}

	stock := 0
	if raw := strings.TrimSpace(in.Stock); raw != "" {
		stock, err = strconv.Atoi(raw)
		if err != nil || stock < 0 {
			return catalog.CreateProductRequest{}, ErrInvalidStock
		}
	}

	return catalog.CreateProductRequest{
		Name:        name,
		Description: in.Description,
		Price:       price,
		Stock:       stock,
		Category:    in.Category,
	}, nil
}

// CreateProduct validates the input locally, creates the product, and
// refreshes the catalog.
func (m *Mutator) CreateProduct(ctx context.Context, in CreateProductInput) (*catalog.Product, error) {
	req, err := in.parse()
	if err != nil {
		return nil, err
	}
	created, err := m.catalog.CreateProduct(ctx, req)
	if err != nil {
		return nil, errors.Wrap(err, "create product")
	}
	m.refreshAfter(ctx, m.refresh.RefreshProducts)
	return created, nil
}

// refreshAfter runs the targeted refreshes for a successful mutation.
// Refresh failures are swallowed: the store keeps its previous snapshot and
// the next periodic cycle catches up.
func (m *Mutator) refreshAfter(ctx context.Context, refreshes ...func(context.Context) error) {
	for _, refresh := range refreshes {
		if err := refresh(ctx); err != nil {
			zctx.From(ctx).Warn("Post-mutation refresh failed", zap.Error(err))
		}
	}
}

// Notice is the user-facing message for a failed command: the server detail
// when the failure came from a backend, the plain error text otherwise.
func Notice(err error) string {
	var remote *client.RemoteError
	if errors.As(err, &remote) {
		return remote.UserMessage()
	}
	return err.Error()
}
