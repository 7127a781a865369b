package product

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

var (
	// ErrProductIsNotConstructed is returned when a Product instance was not
	// created through NewProduct or RestoreProduct.
	ErrProductIsNotConstructed = errors.New("Product must be created via NewProduct or RestoreProduct constructor")

	// ErrInsufficientStock is returned when a reservation asks for more units
	// than are available. Stock never goes negative: the check and the
	// decrement are a single operation.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Product is a sellable item owned by a vendor, and the unit of the inventory
// ledger: its stock count is decremented only by successful reservations at
// checkout and released back only by compensating rollbacks.
//
// Product maintains these invariants:
//   - stock is never negative
//   - unit price is never negative
//   - a reservation either decrements the full requested quantity or nothing
type Product struct {
	// id is the unique identifier for the product
	id kernel.UUID

	// vendorID identifies the vendor who owns the product
	vendorID kernel.UUID

	// name is the display name snapshotted onto order lines at checkout
	name string

	// unitPrice is the current per-unit price, in minor currency units
	unitPrice int64

	// stock is the number of units available for reservation
	stock int

	// isConstructed ensures the product was created via a constructor
	isConstructed bool
}

// NewProduct creates a new Product with validation.
func NewProduct(id kernel.UUID, vendorID kernel.UUID, name string, unitPrice int64, stock int) (*Product, error) {
	p := &Product{
		isConstructed: true,
	}

	if err := errors.Join(
		p.setID(id),
		p.setVendorID(vendorID),
		p.setName(name),
		p.setUnitPrice(unitPrice),
		p.setStock(stock),
	); err != nil {
		return nil, err
	}

	return p, nil
}

// RestoreProduct reconstructs a Product from persistence, re-checking all
// invariants.
func RestoreProduct(id kernel.UUID, vendorID kernel.UUID, name string, unitPrice int64, stock int) (*Product, error) {
	return NewProduct(id, vendorID, name, unitPrice, stock)
}

// Validate ensures the Product instance was properly constructed.
func (p *Product) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrProductIsNotConstructed
	}

	return nil
}

// ID returns the product's unique identifier.
func (p *Product) ID() kernel.UUID {
	return p.id
}

// Vendor returns the identifier of the owning vendor.
func (p *Product) Vendor() kernel.UUID {
	return p.vendorID
}

// Name returns the product display name.
func (p *Product) Name() string {
	return p.name
}

// UnitPrice returns the current per-unit price, in minor currency units.
func (p *Product) UnitPrice() int64 {
	return p.unitPrice
}

// Stock returns the number of units available for reservation.
func (p *Product) Stock() int {
	return p.stock
}

// Reserve atomically checks that the requested quantity is available and
// decrements the stock. Returns ErrInsufficientStock, leaving the stock
// unchanged, when fewer units are available than requested.
func (p *Product) Reserve(quantity int) error {
	if quantity < 1 {
		return errs.NewValueIsInvalidErrorWithCause(
			"quantity is invalid",
			fmt.Errorf("%d is not greater than 0", quantity),
		)
	}

	if p.stock < quantity {
		return fmt.Errorf("%w: product %s has %d of %d requested", ErrInsufficientStock, p.id, p.stock, quantity)
	}

	p.stock -= quantity
	return nil
}

// Release adds previously reserved units back to the stock. It is used only
// for compensating rollback of a failed multi-line reservation.
func (p *Product) Release(quantity int) error {
	if quantity < 1 {
		return errs.NewValueIsInvalidErrorWithCause(
			"quantity is invalid",
			fmt.Errorf("%d is not greater than 0", quantity),
		)
	}

	p.stock += quantity
	return nil
}

func (p *Product) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.id = id
	return nil
}

func (p *Product) setVendorID(vendorID kernel.UUID) error {
	if err := vendorID.Validate(); err != nil {
		return err
	}
	p.vendorID = vendorID
	return nil
}

func (p *Product) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("product name")
	}
	p.name = name
	return nil
}

func (p *Product) setUnitPrice(unitPrice int64) error {
	if unitPrice < 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			"unit price is invalid",
			fmt.Errorf("%d is negative", unitPrice),
		)
	}
	p.unitPrice = unitPrice
	return nil
}

func (p *Product) setStock(stock int) error {
	if stock < 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			"stock is invalid",
			fmt.Errorf("%d is negative", stock),
		)
	}
	p.stock = stock
	return nil
}
