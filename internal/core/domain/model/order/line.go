package order

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// ErrLineIsNotConstructed is returned when attempting to use a Line that was
// not created via the NewLine constructor.
var ErrLineIsNotConstructed = errors.New("Line must be created via NewLine constructor")

// Line is a snapshot of a product at checkout time: identifier, name, unit
// price and quantity are copied from the product and never change afterwards,
// even if the source product's price or name later changes. An order is a
// historical record, not a live view of the catalog.
//
// Line is an immutable value object; the zero value is invalid.
type Line struct { //nolint:recvcheck //using for validation
	productID kernel.UUID
	name      string
	unitPrice int64
	quantity  int

	guard guard.ConstructorGuard
}

// NewLine creates a snapshot line for an order.
// Unit price is in minor currency units and must not be negative;
// quantity must be at least 1.
func NewLine(productID kernel.UUID, name string, unitPrice int64, quantity int) (Line, error) {
	line := Line{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		line.setProductID(productID),
		line.setName(name),
		line.setUnitPrice(unitPrice),
		line.setQuantity(quantity),
	); err != nil {
		return Line{}, err
	}

	return line, nil
}

// Validate ensures the Line was created through NewLine.
func (l Line) Validate() error {
	return l.guard.Validate(ErrLineIsNotConstructed)
}

// ProductID returns the identifier of the product this line snapshots.
func (l Line) ProductID() kernel.UUID {
	return l.productID
}

// Name returns the product name as it was at checkout time.
func (l Line) Name() string {
	return l.name
}

// UnitPrice returns the per-unit price, in minor currency units,
// as it was at checkout time.
func (l Line) UnitPrice() int64 {
	return l.unitPrice
}

// Quantity returns the number of units ordered.
func (l Line) Quantity() int {
	return l.quantity
}

// Subtotal returns unit price multiplied by quantity.
func (l Line) Subtotal() int64 {
	return l.unitPrice * int64(l.quantity)
}

func (l *Line) setProductID(productID kernel.UUID) error {
	if err := productID.Validate(); err != nil {
		return err
	}

	l.productID = productID
	return nil
}

func (l *Line) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("line name")
	}

	l.name = name
	return nil
}

func (l *Line) setUnitPrice(unitPrice int64) error {
	if unitPrice < 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			"unit price is invalid",
			fmt.Errorf("%d is negative", unitPrice),
		)
	}

	l.unitPrice = unitPrice
	return nil
}

func (l *Line) setQuantity(quantity int) error {
	if quantity < 1 {
		return errs.NewValueIsInvalidErrorWithCause(
			"quantity is invalid",
			fmt.Errorf("%d is not greater than 0", quantity),
		)
	}

	l.quantity = quantity
	return nil
}
