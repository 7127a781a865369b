package commands

import (
	"context"
	"sort"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/product"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
)

// CheckoutCommandHandler turns a paid cart into an order with reserved stock.
//
// The whole operation runs in one transaction: stock reservations and order
// creation commit together or not at all. Stock is reserved per line with a
// guarded decrement, so concurrent checkouts for the same product can never
// oversell it.
//
// Example:
//
//	handler := NewCheckoutCommandHandler(uowFactory, publisher)
//	cmd, _ := NewCheckoutCommand(customerID, items, "12 Harbor Lane")
//
//	created, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("checkout failed: %w", err)
//	}
//	// Order is created in "paid" status with a delivery code for handover
type CheckoutCommandHandler struct {
	uowFactory UoWFactory
	publisher  OrderEventPublisher
}

// NewCheckoutCommandHandler creates a handler for checkout operations.
// Requires a UoWFactory for transactional persistence and a publisher for
// post-commit status change events.
func NewCheckoutCommandHandler(
	uowFactory UoWFactory, publisher OrderEventPublisher,
) CheckoutCommandHandler {
	return CheckoutCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes the checkout command and returns the created order.
//
// Returns services.ErrMultiVendorCart when the cart spans vendors, an error
// wrapping product.ErrInsufficientStock when any line cannot be covered by
// stock, or an error wrapping errs.ErrObjectNotFound for unknown products.
func (h *CheckoutCommandHandler) Handle(
	ctx context.Context, cmd CheckoutCommand,
) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	items := cmd.Items()
	productRepo := uow.ProductRepository()
	products := make([]*product.Product, 0, len(items))
	quantities := make([]int, 0, len(items))
	for _, item := range items {
		p, err := productRepo.Get(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
		quantities = append(quantities, item.Quantity)
	}

	// Vendor and quantity checks go first: a cart that can never become an
	// order must not touch stock.
	vendorID, lines, err := services.NewCartAssembler().Assemble(products, quantities)
	if err != nil {
		return nil, err
	}

	if err = reserveStock(ctx, productRepo, items); err != nil {
		return nil, err
	}

	code, err := kernel.NewDeliveryCode()
	if err != nil {
		return nil, err
	}

	aggregate, err := order.NewOrder(
		kernel.NewUUID(),
		cmd.CustomerID(),
		vendorID,
		lines,
		cmd.DeliveryAddress(),
		code,
		time.Now().UTC(),
	)
	if err != nil {
		return nil, err
	}

	if err = uow.OrderRepository().Add(ctx, aggregate); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	_ = h.publisher.PublishOrderStatusChanged(ctx, aggregate)

	return aggregate, nil
}

// reserveStock decrements stock for every cart line. Lines are processed in
// product ID order so concurrent checkouts touch rows in the same sequence.
// On failure the already reserved lines are released in reverse before the
// transaction rolls back.
func reserveStock(
	ctx context.Context, productRepo ports.ProductRepository, items []CheckoutItem,
) error {
	sorted := make([]CheckoutItem, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ProductID.String() < sorted[j].ProductID.String()
	})

	for i, item := range sorted {
		if err := productRepo.Reserve(ctx, item.ProductID, item.Quantity); err != nil {
			for j := i - 1; j >= 0; j-- {
				_ = productRepo.Release(ctx, sorted[j].ProductID, sorted[j].Quantity)
			}
			return err
		}
	}

	return nil
}
