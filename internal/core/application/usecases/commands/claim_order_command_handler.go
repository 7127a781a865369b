package commands

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

// ClaimOrderCommandHandler assigns a waiting order to exactly one rider.
//
// The winner is decided by a guarded status update: the row is only written
// while the order is still waiting for a rider. When two riders race for the
// same order the storage layer reports a conflict for the loser, which this
// handler surfaces as order.ErrAlreadyClaimed.
type ClaimOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  OrderEventPublisher
}

// NewClaimOrderCommandHandler creates a handler for claim operations.
func NewClaimOrderCommandHandler(
	uowFactory OrderUoWFactory, publisher OrderEventPublisher,
) ClaimOrderCommandHandler {
	return ClaimOrderCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes the claim command and returns the assigned order.
//
// Returns order.ErrAlreadyClaimed when another rider holds the order,
// order.ErrInvalidStatusTransition when the order has moved past assignment,
// or an error wrapping errs.ErrObjectNotFound for unknown orders.
func (h *ClaimOrderCommandHandler) Handle(
	ctx context.Context, cmd ClaimOrderCommand,
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

	if err = aggregate.Claim(cmd.RiderID()); err != nil {
		return nil, err
	}

	if err = orderRepo.UpdateInStatus(ctx, aggregate, order.Paid); err != nil {
		// A concurrent claim moved the order out of the waiting state first.
		if errors.Is(err, errs.ErrConflict) {
			return nil, order.ErrAlreadyClaimed
		}
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	_ = h.publisher.PublishOrderStatusChanged(ctx, aggregate)

	return aggregate, nil
}
