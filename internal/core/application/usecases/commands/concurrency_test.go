package commands_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/product"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is a shared in-memory store with the same atomicity guarantees the
// postgres adapters provide: guarded stock decrements and guarded status
// updates, both under a single mutex. It lets the handlers race for real.
type memStore struct {
	mu       sync.Mutex
	orders   map[string]*order.Order
	statuses map[string]order.Status
	stock    map[string]int
	products map[string]*product.Product
}

func newMemStore() *memStore {
	return &memStore{
		orders:   make(map[string]*order.Order),
		statuses: make(map[string]order.Status),
		stock:    make(map[string]int),
		products: make(map[string]*product.Product),
	}
}

func (s *memStore) addProduct(p *product.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID().String()] = p
	s.stock[p.ID().String()] = p.Stock()
}

func (s *memStore) stockOf(id kernel.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stock[id.String()]
}

type memOrderRepo struct{ store *memStore }

func (r *memOrderRepo) Add(_ context.Context, o *order.Order) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.orders[o.ID().String()] = o
	r.store.statuses[o.ID().String()] = o.Status()
	return nil
}

func (r *memOrderRepo) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	o, ok := r.store.orders[id.String()]
	if !ok {
		return nil, errs.NewObjectNotFoundError("order", id)
	}

	var riderID *kernel.UUID
	if o.Rider() != nil {
		rider := *o.Rider()
		riderID = &rider
	}
	return order.RestoreOrder(
		o.ID(), o.Customer(), o.Vendor(), o.Lines(), o.DeliveryAddress(),
		o.TotalAmount(), r.store.statuses[o.ID().String()], riderID, o.Code(), o.CreatedAt(),
	)
}

func (r *memOrderRepo) UpdateInStatus(
	_ context.Context, o *order.Order, expected order.Status,
) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.statuses[o.ID().String()] != expected {
		return errs.NewConflictError(fmt.Sprintf("update order in status %s", expected))
	}
	r.store.orders[o.ID().String()] = o
	r.store.statuses[o.ID().String()] = o.Status()
	return nil
}

type memProductRepo struct{ store *memStore }

func (r *memProductRepo) Add(_ context.Context, p *product.Product) error {
	r.store.addProduct(p)
	return nil
}

func (r *memProductRepo) Get(_ context.Context, id kernel.UUID) (*product.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	p, ok := r.store.products[id.String()]
	if !ok {
		return nil, errs.NewObjectNotFoundError("product", id)
	}
	return product.RestoreProduct(p.ID(), p.Vendor(), p.Name(), p.UnitPrice(), r.store.stock[id.String()])
}

func (r *memProductRepo) Reserve(_ context.Context, id kernel.UUID, quantity int) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.stock[id.String()] < quantity {
		return fmt.Errorf("%w: product %s", product.ErrInsufficientStock, id)
	}
	r.store.stock[id.String()] -= quantity
	return nil
}

func (r *memProductRepo) Release(_ context.Context, id kernel.UUID, quantity int) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.stock[id.String()] += quantity
	return nil
}

type memUoW struct{ store *memStore }

func (u *memUoW) Begin(_ context.Context) error              { return nil }
func (u *memUoW) Commit(_ context.Context) error             { return nil }
func (u *memUoW) Rollback(_ context.Context) error           { return nil }
func (u *memUoW) OrderRepository() ports.OrderRepository     { return &memOrderRepo{store: u.store} }
func (u *memUoW) ProductRepository() ports.ProductRepository { return &memProductRepo{store: u.store} }

type memUoWFactory struct{ store *memStore }

func (f *memUoWFactory) Create() commands.UoW { return &memUoW{store: f.store} }

type memOrderUoWFactory struct{ store *memStore }

func (f *memOrderUoWFactory) Create() commands.OrderUoW { return &memUoW{store: f.store} }

type noopPublisher struct{}

func (noopPublisher) PublishOrderStatusChanged(_ context.Context, _ *order.Order) error {
	return nil
}

func TestCheckoutCommandHandler_ConcurrentCheckoutsNeverOversell(t *testing.T) {
	ctx := t.Context()
	store := newMemStore()
	vendorID := kernel.NewUUID()
	p, err := product.NewProduct(kernel.NewUUID(), vendorID, "Aura Headphones", 29900, 10)
	require.NoError(t, err)
	store.addProduct(p)

	h := commands.NewCheckoutCommandHandler(&memUoWFactory{store: store}, noopPublisher{})

	const riders = 25
	var wg sync.WaitGroup
	results := make(chan error, riders)
	for range riders {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cmd, cmdErr := commands.NewCheckoutCommand(
				kernel.NewUUID(),
				[]commands.CheckoutItem{{ProductID: p.ID(), Quantity: 1}},
				"12 Harbor Lane",
			)
			if cmdErr != nil {
				results <- cmdErr
				return
			}
			_, handleErr := h.Handle(ctx, cmd)
			results <- handleErr
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
			continue
		}
		require.ErrorIs(t, err, product.ErrInsufficientStock)
	}

	assert.Equal(t, 10, succeeded)
	assert.Equal(t, 0, store.stockOf(p.ID()))
}

func TestClaimOrderCommandHandler_ConcurrentClaimsHaveOneWinner(t *testing.T) {
	ctx := t.Context()
	store := newMemStore()
	existing := makePaidOrder(t)
	require.NoError(t, (&memOrderRepo{store: store}).Add(ctx, existing))

	h := commands.NewClaimOrderCommandHandler(&memOrderUoWFactory{store: store}, noopPublisher{})

	const riders = 20
	var wg sync.WaitGroup
	winners := make(chan kernel.UUID, riders)
	losses := make(chan error, riders)
	for range riders {
		wg.Add(1)
		go func() {
			defer wg.Done()
			riderID := kernel.NewUUID()
			cmd, cmdErr := commands.NewClaimOrderCommand(existing.ID(), riderID)
			if cmdErr != nil {
				losses <- cmdErr
				return
			}
			if _, handleErr := h.Handle(ctx, cmd); handleErr != nil {
				losses <- handleErr
				return
			}
			winners <- riderID
		}()
	}
	wg.Wait()
	close(winners)
	close(losses)

	require.Len(t, winners, 1)
	winner := <-winners
	for err := range losses {
		require.True(t, errors.Is(err, order.ErrAlreadyClaimed))
	}

	stored, err := (&memOrderRepo{store: store}).Get(ctx, existing.ID())
	require.NoError(t, err)
	assert.Equal(t, order.Assigned, stored.Status())
	require.NotNil(t, stored.Rider())
	assert.True(t, stored.Rider().IsEqual(winner))

	// The losing riders cannot move the order forward either.
	loserPickup, err := commands.NewMarkPickedUpCommand(existing.ID(), kernel.NewUUID())
	require.NoError(t, err)
	pickupHandler := commands.NewMarkPickedUpCommandHandler(&memOrderUoWFactory{store: store}, noopPublisher{})
	_, err = pickupHandler.Handle(ctx, loserPickup)
	require.ErrorIs(t, err, order.ErrUnauthorizedRider)
}
