package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrMarkPickedUpCommandIsNotConstructed = errors.New(
	"MarkPickedUpCommand must be created via NewMarkPickedUpCommand constructor",
)

// MarkPickedUpCommand represents the assigned rider reporting that they have
// collected the order from the vendor.
type MarkPickedUpCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	riderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewMarkPickedUpCommand creates a command to mark an order as picked up.
func NewMarkPickedUpCommand(orderID, riderID kernel.UUID) (MarkPickedUpCommand, error) {
	markPickedUpCommand := MarkPickedUpCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		markPickedUpCommand.setOrderID(orderID),
		markPickedUpCommand.setRiderID(riderID),
	); err != nil {
		return MarkPickedUpCommand{}, err
	}

	return markPickedUpCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c MarkPickedUpCommand) Validate() error {
	return c.guard.Validate(ErrMarkPickedUpCommandIsNotConstructed)
}

// OrderID returns the identifier of the order being picked up.
func (c MarkPickedUpCommand) OrderID() kernel.UUID {
	return c.orderID
}

// RiderID returns the identifier of the reporting rider.
func (c MarkPickedUpCommand) RiderID() kernel.UUID {
	return c.riderID
}

func (c *MarkPickedUpCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *MarkPickedUpCommand) setRiderID(riderID kernel.UUID) error {
	if err := riderID.Validate(); err != nil {
		return err
	}

	c.riderID = riderID
	return nil
}
