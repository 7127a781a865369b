package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/product"
)

// ProductRepository defines the persistence contract for the inventory ledger.
// Reads serve the checkout snapshot; Reserve and Release are the only writes
// to stock in the whole system.
type ProductRepository interface {
	// Add persists a new product to storage.
	Add(ctx context.Context, aggregate *product.Product) error

	// Get retrieves a product by its unique identifier.
	// Returns an error wrapping errs.ErrObjectNotFound for unknown identifiers.
	Get(ctx context.Context, id kernel.UUID) (*product.Product, error)

	// Reserve atomically checks that at least quantity units are in stock and
	// decrements them. The check and the decrement are indivisible with
	// respect to concurrent reservations on the same product: stock never
	// goes negative and two callers cannot both take the last unit.
	// Returns an error wrapping product.ErrInsufficientStock when fewer units
	// are available, or errs.ErrObjectNotFound for unknown products.
	Reserve(ctx context.Context, id kernel.UUID, quantity int) error

	// Release adds quantity units back to stock. Used only to compensate a
	// partially completed multi-line reservation.
	Release(ctx context.Context, id kernel.UUID, quantity int) error
}
