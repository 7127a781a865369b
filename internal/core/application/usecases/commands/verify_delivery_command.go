package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrVerifyDeliveryCommandIsNotConstructed = errors.New(
		"VerifyDeliveryCommand must be created via NewVerifyDeliveryCommand constructor",
	)
	ErrCodeIsRequired = errors.New("delivery code is required")
)

// VerifyDeliveryCommand represents the assigned rider presenting the
// customer's delivery code to complete the order.
type VerifyDeliveryCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	riderID kernel.UUID
	code    string

	guard guard.ConstructorGuard
}

// NewVerifyDeliveryCommand creates a command to confirm delivery with a code.
// The code is kept as the raw presented string: comparison against the stored
// code happens inside the order aggregate, not here.
func NewVerifyDeliveryCommand(
	orderID, riderID kernel.UUID, code string,
) (VerifyDeliveryCommand, error) {
	verifyDeliveryCommand := VerifyDeliveryCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		verifyDeliveryCommand.setOrderID(orderID),
		verifyDeliveryCommand.setRiderID(riderID),
		verifyDeliveryCommand.setCode(code),
	); err != nil {
		return VerifyDeliveryCommand{}, err
	}

	return verifyDeliveryCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c VerifyDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrVerifyDeliveryCommandIsNotConstructed)
}

// OrderID returns the identifier of the order being delivered.
func (c VerifyDeliveryCommand) OrderID() kernel.UUID {
	return c.orderID
}

// RiderID returns the identifier of the delivering rider.
func (c VerifyDeliveryCommand) RiderID() kernel.UUID {
	return c.riderID
}

// Code returns the delivery code as presented by the rider.
func (c VerifyDeliveryCommand) Code() string {
	return c.code
}

func (c *VerifyDeliveryCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *VerifyDeliveryCommand) setRiderID(riderID kernel.UUID) error {
	if err := riderID.Validate(); err != nil {
		return err
	}

	c.riderID = riderID
	return nil
}

func (c *VerifyDeliveryCommand) setCode(code string) error {
	if code == "" {
		return ErrCodeIsRequired
	}

	c.code = code
	return nil
}
