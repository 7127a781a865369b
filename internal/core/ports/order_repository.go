// Package ports defines repository interfaces for the fulfillment domain.
// These interfaces establish contracts between the domain layer and infrastructure,
// enabling dependency inversion and testability.
package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// Orders are a permanent ledger: they are added and transitioned, never deleted.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	// Returns an error wrapping errs.ErrObjectNotFound for unknown identifiers.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// UpdateInStatus persists a status transition as a compare-and-swap: the
	// stored row is updated only if its current status equals expected. When
	// the guard fails - another caller won the transition between the caller's
	// read and this write - an error wrapping errs.ErrConflict is returned and
	// nothing is modified.
	//
	// Only the mutable columns (status, rider) are written; lines, total,
	// delivery code and creation time are immutable after Add.
	UpdateInStatus(ctx context.Context, aggregate *order.Order, expected order.Status) error
}
