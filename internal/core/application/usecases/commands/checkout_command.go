package commands

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrCheckoutCommandIsNotConstructed = errors.New(
		"CheckoutCommand must be created via NewCheckoutCommand constructor",
	)
	ErrDeliveryAddressIsRequired = errors.New("delivery address is required")
	ErrCartIsEmpty               = errors.New("cart must contain at least one item")
	ErrQuantityIsInvalid         = errors.New("quantity must be greater than 0")
)

// CheckoutItem is one cart position: a product and the requested quantity.
// The slice order of items is the display order of the resulting order lines.
type CheckoutItem struct {
	ProductID kernel.UUID
	Quantity  int
}

// CheckoutCommand represents a customer's request to turn their cart into an
// order. Payment is already settled when this command is issued.
//
// Example:
//
//	cmd, err := NewCheckoutCommand(customerID, items, "12 Harbor Lane")
//	if err != nil {
//	    return fmt.Errorf("invalid checkout request: %w", err)
//	}
//
//	created, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("checkout failed: %w", err)
//	}
//	fmt.Printf("order %s created, delivery code %s", created.ID(), created.Code())
type CheckoutCommand struct { //nolint:recvcheck //using for validation
	customerID      kernel.UUID
	items           []CheckoutItem
	deliveryAddress string

	guard guard.ConstructorGuard
}

// NewCheckoutCommand creates a command to check out a cart.
// Validates that the customer ID is valid, the cart is non-empty with valid
// product IDs and positive quantities, and the delivery address is not empty.
func NewCheckoutCommand(
	customerID kernel.UUID,
	items []CheckoutItem,
	deliveryAddress string,
) (CheckoutCommand, error) {
	checkoutCommand := CheckoutCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		checkoutCommand.setCustomerID(customerID),
		checkoutCommand.setItems(items),
		checkoutCommand.setDeliveryAddress(deliveryAddress),
	); err != nil {
		return CheckoutCommand{}, err
	}

	return checkoutCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCheckoutCommandIsNotConstructed if validation fails.
func (c CheckoutCommand) Validate() error {
	return c.guard.Validate(ErrCheckoutCommandIsNotConstructed)
}

// CustomerID returns the identifier of the customer checking out.
func (c CheckoutCommand) CustomerID() kernel.UUID {
	return c.customerID
}

// Items returns the cart positions in display order.
func (c CheckoutCommand) Items() []CheckoutItem {
	items := make([]CheckoutItem, len(c.items))
	copy(items, c.items)
	return items
}

// DeliveryAddress returns the destination for the order.
func (c CheckoutCommand) DeliveryAddress() string {
	return c.deliveryAddress
}

func (c *CheckoutCommand) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return err
	}

	c.customerID = customerID
	return nil
}

func (c *CheckoutCommand) setItems(items []CheckoutItem) error {
	if len(items) == 0 {
		return ErrCartIsEmpty
	}

	for i, item := range items {
		if err := item.ProductID.Validate(); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
		if item.Quantity < 1 {
			return fmt.Errorf("item %d: %w", i, ErrQuantityIsInvalid)
		}
	}

	c.items = make([]CheckoutItem, len(items))
	copy(c.items, items)
	return nil
}

func (c *CheckoutCommand) setDeliveryAddress(deliveryAddress string) error {
	if deliveryAddress == "" {
		return ErrDeliveryAddressIsRequired
	}

	c.deliveryAddress = deliveryAddress
	return nil
}
