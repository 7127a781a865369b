package services

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/product"

	"fulfillment/internal/pkg/errs"
)

var (
	// ErrEmptyCart is returned when a checkout is attempted with no lines.
	ErrEmptyCart = errors.New("cart must contain at least one line")

	// ErrMultiVendorCart is returned when the cart mixes products from more
	// than one vendor. An order always belongs to a single vendor, and the
	// rejection happens before any stock is touched.
	ErrMultiVendorCart = errors.New("cart contains products from multiple vendors")
)

// CartAssembler turns a customer's cart into order lines. It snapshots each
// product's name and current unit price onto a line, preserves the cart's
// insertion order, and enforces the single-vendor rule.
//
// Example:
//
//	assembler := services.NewCartAssembler()
//	vendorID, lines, err := assembler.Assemble(products, quantities)
//	if errors.Is(err, services.ErrMultiVendorCart) {
//	    // reject the checkout before reserving anything
//	}
type CartAssembler struct{}

// NewCartAssembler creates a CartAssembler domain service.
func NewCartAssembler() CartAssembler {
	return CartAssembler{}
}

// Assemble builds the snapshot lines for a checkout. The two slices are
// parallel: quantities[i] is the requested quantity of products[i].
//
// Returns the single vendor all products belong to and the lines in cart
// order. Fails with ErrEmptyCart for an empty cart, ErrMultiVendorCart when
// products span vendors, and a validation error for invalid products or
// quantities. No stock is inspected or modified here.
func (CartAssembler) Assemble(
	products []*product.Product,
	quantities []int,
) (kernel.UUID, []order.Line, error) {
	if len(products) == 0 {
		return kernel.UUID{}, nil, ErrEmptyCart
	}
	if len(products) != len(quantities) {
		return kernel.UUID{}, nil, errs.NewValueIsInvalidErrorWithCause(
			"cart is invalid",
			fmt.Errorf("%d products but %d quantities", len(products), len(quantities)),
		)
	}

	vendorID := kernel.UUID{}
	lines := make([]order.Line, 0, len(products))

	for i, p := range products {
		if err := p.Validate(); err != nil {
			return kernel.UUID{}, nil, err
		}

		if i == 0 {
			vendorID = p.Vendor()
		} else if !p.Vendor().IsEqual(vendorID) {
			return kernel.UUID{}, nil, ErrMultiVendorCart
		}

		line, err := order.NewLine(p.ID(), p.Name(), p.UnitPrice(), quantities[i])
		if err != nil {
			return kernel.UUID{}, nil, err
		}

		lines = append(lines, line)
	}

	return vendorID, lines, nil
}
