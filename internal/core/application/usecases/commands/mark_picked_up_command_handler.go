package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/order"
)

// MarkPickedUpCommandHandler moves an assigned order to "picked up" when the
// assigned rider reports collection from the vendor.
type MarkPickedUpCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  OrderEventPublisher
}

// NewMarkPickedUpCommandHandler creates a handler for pickup operations.
func NewMarkPickedUpCommandHandler(
	uowFactory OrderUoWFactory, publisher OrderEventPublisher,
) MarkPickedUpCommandHandler {
	return MarkPickedUpCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes the pickup command and returns the updated order.
//
// Returns order.ErrInvalidStatusTransition when the order is not assigned,
// order.ErrUnauthorizedRider when a different rider holds the order, or an
// error wrapping errs.ErrObjectNotFound for unknown orders.
func (h *MarkPickedUpCommandHandler) Handle(
	ctx context.Context, cmd MarkPickedUpCommand,
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

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	if err = aggregate.MarkPickedUp(cmd.RiderID()); err != nil {
		return nil, err
	}

	if err = orderRepo.UpdateInStatus(ctx, aggregate, order.Assigned); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	_ = h.publisher.PublishOrderStatusChanged(ctx, aggregate)

	return aggregate, nil
}
