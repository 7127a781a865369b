package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrClaimOrderCommandIsNotConstructed = errors.New(
	"ClaimOrderCommand must be created via NewClaimOrderCommand constructor",
)

// ClaimOrderCommand represents a rider's request to take an order for
// delivery. Only one rider can win the claim for a given order.
type ClaimOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	riderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewClaimOrderCommand creates a command to claim an order for a rider.
func NewClaimOrderCommand(orderID, riderID kernel.UUID) (ClaimOrderCommand, error) {
	claimOrderCommand := ClaimOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		claimOrderCommand.setOrderID(orderID),
		claimOrderCommand.setRiderID(riderID),
	); err != nil {
		return ClaimOrderCommand{}, err
	}

	return claimOrderCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c ClaimOrderCommand) Validate() error {
	return c.guard.Validate(ErrClaimOrderCommandIsNotConstructed)
}

// OrderID returns the identifier of the order to claim.
func (c ClaimOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// RiderID returns the identifier of the claiming rider.
func (c ClaimOrderCommand) RiderID() kernel.UUID {
	return c.riderID
}

func (c *ClaimOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *ClaimOrderCommand) setRiderID(riderID kernel.UUID) error {
	if err := riderID.Validate(); err != nil {
		return err
	}

	c.riderID = riderID
	return nil
}
