// Package view implements the aggregation core of the dashboard: the state
// store holding the merged snapshot, the refresh scheduler that polls the
// three backend services, and the mutation coordinator that executes user
// commands.
package view

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/openmart/dashboard/internal/domain/cart"
	"github.com/openmart/dashboard/internal/domain/catalog"
	"github.com/openmart/dashboard/internal/domain/order"
)

// domainCount is the number of independent backend domains the dashboard
// aggregates: catalog, cart, and orders.
const domainCount = 3

// Snapshot is one render-ready view of all three domains. Domain data is
// replaced wholesale on refresh and never mutated in place, so consumers may
// read slices without copying.
type Snapshot struct {
	Products []catalog.Product `json:"products"`
	Cart     *cart.Cart        `json:"cart"`
	Orders   []order.Order     `json:"orders"`
	Selected *order.Order      `json:"selected_order,omitempty"`

	// Loading is true until the first refresh cycle finishes, successfully
	// or not.
	Loading bool `json:"loading"`

	// Error is true when the last cycle failed for every domain at once,
	// i.e. total connectivity loss. Single-domain failures leave stale data
	// in place without raising it.
	Error bool `json:"error"`
}

// Stats summarizes the snapshot for the dashboard overview.
type Stats struct {
	Products     int             `json:"products"`
	CartItems    int             `json:"cart_items"`
	Orders       int             `json:"orders"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	Delivered    int             `json:"delivered"`
	InProgress   int             `json:"in_progress"`
}

// Stats computes the overview numbers from the snapshot.
func (s Snapshot) Stats() Stats {
	st := Stats{
		Products:     len(s.Products),
		Orders:       len(s.Orders),
		TotalRevenue: decimal.Zero,
	}
	if s.Cart != nil {
		st.CartItems = len(s.Cart.Items)
	}
	for _, o := range s.Orders {
		st.TotalRevenue = st.TotalRevenue.Add(o.TotalAmount)
		switch {
		case o.Status == order.StatusDelivered:
			st.Delivered++
		case !o.Status.Terminal():
			st.InProgress++
		}
	}
	return st
}

// Store holds the latest successfully fetched state per domain. Writes
// replace a domain wholesale; field-by-field merging is never done, so
// readers always observe an internally consistent domain snapshot.
//
// A closed store drops all subsequent writes. That lets in-flight fetches
// finish after teardown without resurrecting state.
type Store struct {
	mu       sync.RWMutex
	products []catalog.Product
	cart     *cart.Cart
	orders   []order.Order
	selected *order.Order
	loading  bool
	err      bool
	closed   bool
}

// NewStore returns an empty store in the loading state.
func NewStore() *Store {
	return &Store{loading: true}
}

// SetProducts replaces the catalog snapshot.
func (s *Store) SetProducts(products []catalog.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.products = products
}

// SetCart replaces the cart snapshot.
func (s *Store) SetCart(c *cart.Cart) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.cart = c
}

// SetOrders replaces the orders snapshot and re-binds the current selection
// against it: the held copy is swapped for the fresh one, or cleared when the
// selected order is no longer present.
func (s *Store) SetOrders(orders []order.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.orders = orders
	s.rebindSelection()
}

// rebindSelection re-resolves the selected order by ID against the current
// orders slice. Caller must hold mu.
func (s *Store) rebindSelection() {
	if s.selected == nil {
		return
	}
	for i := range s.orders {
		if s.orders[i].ID == s.selected.ID {
			fresh := s.orders[i]
			s.selected = &fresh
			return
		}
	}
	s.selected = nil
}

// Select marks the order with the given ID as inspected and reports whether
// it exists in the current snapshot.
func (s *Store) Select(orderID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	for i := range s.orders {
		if s.orders[i].ID == orderID {
			selected := s.orders[i]
			s.selected = &selected
			return true
		}
	}
	return false
}

// ClearSelection drops the inspected order, if any.
func (s *Store) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = nil
}

// Selected returns a copy of the inspected order, or nil.
func (s *Store) Selected() *order.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected == nil {
		return nil
	}
	selected := *s.selected
	return &selected
}

// FinishCycle records the outcome of one full refresh cycle. failed is the
// number of domains whose fetch failed this cycle; the global error flag is
// raised only when every domain failed. The loading flag clears on the first
// cycle regardless of outcome.
func (s *Store) FinishCycle(failed int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.loading = false
	s.err = failed >= domainCount
}

// Snapshot returns the current merged view.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{
		Products: s.products,
		Cart:     s.cart,
		Orders:   s.orders,
		Loading:  s.loading,
		Error:    s.err,
	}
	if s.selected != nil {
		selected := *s.selected
		snap.Selected = &selected
	}
	return snap
}

// Close tears the store down: state is dropped, the selection cleared, and
// all later writes become no-ops.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.products = nil
	s.cart = nil
	s.orders = nil
	s.selected = nil
}
