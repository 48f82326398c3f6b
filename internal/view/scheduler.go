package view

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/openmart/dashboard/internal/domain/cart"
	"github.com/openmart/dashboard/internal/domain/catalog"
	"github.com/openmart/dashboard/internal/domain/order"
)

// DefaultPollInterval is how often a full refresh cycle runs when no
// interval is configured.
const DefaultPollInterval = 5 * time.Second

// Refresher triggers targeted per-domain refreshes. The mutation coordinator
// uses it to pull fresh state after a successful command.
type Refresher interface {
	RefreshProducts(ctx context.Context) error
	RefreshCart(ctx context.Context) error
	RefreshOrders(ctx context.Context) error
}

// Scheduler drives the periodic refresh of all three domains: one full cycle
// immediately on Start, then one per interval. Ticks that arrive while a
// periodic cycle is still in flight are skipped; targeted refreshes requested
// through the Refresher methods run standalone and may overlap a cycle, since
// every store write is a whole-domain replacement and last write wins.
type Scheduler struct {
	store   *Store
	catalog catalog.Client
	cart    cart.Client
	orders  order.Client
	userID  string

	interval time.Duration
	inFlight atomic.Bool
	cancel   context.CancelFunc
	done     chan struct{}
}

var _ Refresher = (*Scheduler)(nil)

// NewScheduler wires a scheduler to the store and the three service clients.
// The cart domain is fetched for userID.
func NewScheduler(store *Store, cat catalog.Client, crt cart.Client, ord order.Client, userID string, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Scheduler{
		store:    store,
		catalog:  cat,
		cart:     crt,
		orders:   ord,
		userID:   userID,
		interval: interval,
	}
}

// Start launches the polling loop. Stop cancels it; cancelling the parent
// context works too.
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	go s.loop(ctx)
}

// Stop cancels the polling loop and waits for it to exit. A cycle already in
// flight is abandoned: its requests run to completion but their store writes
// are dropped once the store is closed.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	if s.done != nil {
		<-s.done
	}
}

func (s *Scheduler) loop(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// tick starts one periodic cycle unless a prior one is still running.
func (s *Scheduler) tick(ctx context.Context) {
	if !s.inFlight.CompareAndSwap(false, true) {
		zctx.From(ctx).Debug("Previous refresh cycle still in flight, skipping tick")
		return
	}
	go func() {
		defer s.inFlight.Store(false)
		s.runCycle(ctx)
	}()
}

// runCycle fetches all three domains concurrently. A domain that fails keeps
// its previous snapshot; the cycle counts as a full failure only when every
// domain failed.
func (s *Scheduler) runCycle(ctx context.Context) {
	lg := zctx.From(ctx)
	start := time.Now()

	// Deliberately a plain errgroup with no shared cancellation: one
	// domain's failure must not abort its siblings.
	var g errgroup.Group
	var failures atomic.Int32

	fetch := func(domain string, refresh func(context.Context) error) {
		g.Go(func() error {
			if err := refresh(ctx); err != nil {
				failures.Add(1)
				lg.Warn("Domain fetch failed, keeping stale data",
					zap.String("domain", domain),
					zap.Error(err),
				)
			}
			return nil
		})
	}
	fetch("products", s.RefreshProducts)
	fetch("cart", s.RefreshCart)
	fetch("orders", s.RefreshOrders)
	_ = g.Wait()

	failed := int(failures.Load())
	s.store.FinishCycle(failed)

	if failed >= domainCount {
		lg.Error("Refresh cycle failed for all domains",
			zap.Duration("took", time.Since(start)),
		)
		return
	}
	lg.Debug("Refresh cycle complete",
		zap.Int("failed_domains", failed),
		zap.Duration("took", time.Since(start)),
	)
}

// RefreshProducts fetches the catalog and applies it to the store.
func (s *Scheduler) RefreshProducts(ctx context.Context) error {
	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return errors.Wrap(err, "list products")
	}
	s.store.SetProducts(products)
	return nil
}

// RefreshCart fetches the session cart and applies it to the store.
func (s *Scheduler) RefreshCart(ctx context.Context) error {
	c, err := s.cart.GetCart(ctx, s.userID)
	if err != nil {
		return errors.Wrap(err, "get cart")
	}
	s.store.SetCart(c)
	return nil
}

// RefreshOrders fetches the order list and applies it to the store, which
// also re-binds the current selection.
func (s *Scheduler) RefreshOrders(ctx context.Context) error {
	orders, err := s.orders.ListOrders(ctx)
	if err != nil {
		return errors.Wrap(err, "list orders")
	}
	s.store.SetOrders(orders)
	return nil
}
