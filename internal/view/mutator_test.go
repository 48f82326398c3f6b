package view

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openmart/dashboard/internal/client"
	"github.com/openmart/dashboard/internal/domain/cart"
	"github.com/openmart/dashboard/internal/domain/order"
)

type mutatorFixture struct {
	store   *Store
	catalog *fakeCatalog
	cart    *fakeCart
	orders  *fakeOrders
	refresh *fakeRefresher
	mutator *Mutator
}

func newMutatorFixture() *mutatorFixture {
	f := &mutatorFixture{
		store:   NewStore(),
		catalog: &fakeCatalog{},
		cart:    &fakeCart{},
		orders:  &fakeOrders{},
		refresh: &fakeRefresher{},
	}
	f.mutator = NewMutator(f.store, f.catalog, f.cart, f.orders, f.refresh, "user-test")
	return f
}

func TestAddToCart(t *testing.T) {
	f := newMutatorFixture()

	require.NoError(t, f.mutator.AddToCart(context.Background(), 7, 1))
	assert.Equal(t, int32(1), f.cart.addCalls.Load())
	assert.Equal(t, []string{"cart"}, f.refresh.refreshed())
}

func TestAddToCart_InvalidQuantity(t *testing.T) {
	f := newMutatorFixture()

	err := f.mutator.AddToCart(context.Background(), 7, 0)
	require.ErrorIs(t, err, ErrInvalidQuantity)
	assert.Zero(t, f.cart.addCalls.Load(), "no request for invalid input")
	assert.Empty(t, f.refresh.refreshed())
}

func TestAddToCart_RemoteFailureDoesNotRefresh(t *testing.T) {
	f := newMutatorFixture()
	f.cart.opErr = &client.RemoteError{Status: 400, Detail: "Insufficient stock"}

	err := f.mutator.AddToCart(context.Background(), 7, 3)
	require.Error(t, err)
	assert.Equal(t, "Insufficient stock", Notice(err))
	assert.Empty(t, f.refresh.refreshed(), "failed mutation must not touch the store")
}

func TestUpdateCartQuantity_ZeroBehavesLikeRemove(t *testing.T) {
	for _, quantity := range []int{0, -1, -10} {
		f := newMutatorFixture()

		require.NoError(t, f.mutator.UpdateCartQuantity(context.Background(), 7, quantity))
		assert.Equal(t, int32(1), f.cart.removeCalls.Load(), "quantity %d", quantity)
		assert.Zero(t, f.cart.updateCalls.Load())
		assert.Equal(t, []string{"cart"}, f.refresh.refreshed())
	}
}

func TestUpdateCartQuantity_Positive(t *testing.T) {
	f := newMutatorFixture()

	require.NoError(t, f.mutator.UpdateCartQuantity(context.Background(), 7, 3))
	assert.Equal(t, int32(1), f.cart.updateCalls.Load())
	assert.Zero(t, f.cart.removeCalls.Load())
}

func TestCreateOrder_EmptyCartRejectedLocally(t *testing.T) {
	f := newMutatorFixture()
	// Snapshot has no cart at all.
	_, err := f.mutator.CreateOrder(context.Background())
	require.ErrorIs(t, err, ErrEmptyCart)
	assert.Zero(t, f.orders.createCalls.Load(), "no request sent")
	assert.Empty(t, f.refresh.refreshed())

	// An explicitly empty cart behaves the same.
	f.store.SetCart(testCart())
	_, err = f.mutator.CreateOrder(context.Background())
	require.ErrorIs(t, err, ErrEmptyCart)
	assert.Zero(t, f.orders.createCalls.Load())
}

func TestCreateOrder_RefreshesOrdersAndCart(t *testing.T) {
	f := newMutatorFixture()
	f.store.SetCart(testCart(cart.Item{ProductID: 7, Quantity: 2}))

	created, err := f.mutator.CreateOrder(context.Background())
	require.NoError(t, err)
	assert.Equal(t, order.StatusPending, created.Status)
	assert.ElementsMatch(t, []string{"orders", "cart"}, f.refresh.refreshed())
}

func TestPayOrder(t *testing.T) {
	f := newMutatorFixture()
	f.orders.orders = []order.Order{testOrder(5, order.StatusPending)}
	f.store.SetOrders(f.orders.orders)

	paid, err := f.mutator.PayOrder(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, order.StatusPaid, paid.Status)
	assert.Equal(t, "pay-test", paid.PaymentID)
	assert.Equal(t, []string{"orders"}, f.refresh.refreshed())
}

func TestPayOrder_Preconditions(t *testing.T) {
	tests := []struct {
		name    string
		orders  []order.Order
		orderID int64
		wantErr error
	}{
		{
			name:    "unknown order",
			orders:  []order.Order{testOrder(1, order.StatusPending)},
			orderID: 99,
			wantErr: ErrOrderNotFound,
		},
		{
			name:    "already paid",
			orders:  []order.Order{testOrder(5, order.StatusPaid)},
			orderID: 5,
			wantErr: ErrOrderNotPayable,
		},
		{
			name:    "cancelled",
			orders:  []order.Order{testOrder(5, order.StatusCancelled)},
			orderID: 5,
			wantErr: ErrOrderNotPayable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newMutatorFixture()
			f.store.SetOrders(tt.orders)

			_, err := f.mutator.PayOrder(context.Background(), tt.orderID)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, f.orders.payCalls.Load(), "no request sent")
		})
	}
}

func TestCreateProduct(t *testing.T) {
	f := newMutatorFixture()

	created, err := f.mutator.CreateProduct(context.Background(), CreateProductInput{
		Name:     "Desk",
		Price:    "149.50",
		Stock:    "3",
		Category: "Furniture",
	})
	require.NoError(t, err)
	assert.Equal(t, "Desk", created.Name)
	assert.Equal(t, []string{"products"}, f.refresh.refreshed())

	require.Len(t, f.catalog.created, 1)
	assert.Equal(t, "149.5", f.catalog.created[0].Price.String())
	assert.Equal(t, 3, f.catalog.created[0].Stock)
}

func TestCreateProduct_LocalValidation(t *testing.T) {
	tests := []struct {
		name    string
		input   CreateProductInput
		wantErr error
	}{
		{"missing name", CreateProductInput{Price: "10"}, ErrNameRequired},
		{"blank name", CreateProductInput{Name: "   ", Price: "10"}, ErrNameRequired},
		{"missing price", CreateProductInput{Name: "Desk"}, ErrInvalidPrice},
		{"non-numeric price", CreateProductInput{Name: "Desk", Price: "ten"}, ErrInvalidPrice},
		{"negative price", CreateProductInput{Name: "Desk", Price: "-5"}, ErrInvalidPrice},
		{"non-numeric stock", CreateProductInput{Name: "Desk", Price: "10", Stock: "lots"}, ErrInvalidStock},
		{"fractional stock", CreateProductInput{Name: "Desk", Price: "10", Stock: "1.5"}, ErrInvalidStock},
		{"negative stock", CreateProductInput{Name: "Desk", Price: "10", Stock: "-1"}, ErrInvalidStock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newMutatorFixture()

			_, err := f.mutator.CreateProduct(context.Background(), tt.input)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, f.catalog.createCalls.Load(), "validation failures never reach the network")
		})
	}
}

func TestCreateProduct_EmptyStockDefaultsToZero(t *testing.T) {
	f := newMutatorFixture()

	_, err := f.mutator.CreateProduct(context.Background(), CreateProductInput{
		Name:  "Desk",
		Price: "10",
	})
	require.NoError(t, err)
	require.Len(t, f.catalog.created, 1)
	assert.Zero(t, f.catalog.created[0].Stock)
}

func TestNotice(t *testing.T) {
	remote := &client.RemoteError{Status: 404, Detail: "Order not found"}
	assert.Equal(t, "Order not found", Notice(remote))

	noDetail := &client.RemoteError{Status: 500}
	assert.Equal(t, "request failed with status 500", Notice(noDetail))

	assert.Equal(t, "cart is empty", Notice(ErrEmptyCart))
}
