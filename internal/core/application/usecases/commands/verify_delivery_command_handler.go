package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/order"
)

// VerifyDeliveryCommandHandler completes an order when the assigned rider
// presents the customer's delivery code.
type VerifyDeliveryCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  OrderEventPublisher
}

// NewVerifyDeliveryCommandHandler creates a handler for delivery verification.
func NewVerifyDeliveryCommandHandler(
	uowFactory OrderUoWFactory, publisher OrderEventPublisher,
) VerifyDeliveryCommandHandler {
	return VerifyDeliveryCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes the verification command and returns the delivered order.
//
// Returns order.ErrInvalidStatusTransition when the order is not picked up,
// order.ErrUnauthorizedRider when a different rider holds the order,
// order.ErrCodeMismatch when the presented code is wrong, or an error
// wrapping errs.ErrObjectNotFound for unknown orders.
func (h *VerifyDeliveryCommandHandler) Handle(
	ctx context.Context, cmd VerifyDeliveryCommand,
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

	if err = aggregate.VerifyDelivery(cmd.RiderID(), cmd.Code()); err != nil {
		return nil, err
	}

	if err = orderRepo.UpdateInStatus(ctx, aggregate, order.PickedUp); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	_ = h.publisher.PublishOrderStatusChanged(ctx, aggregate)

	return aggregate, nil
}
