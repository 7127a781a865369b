// Package queries contains read-only operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries bypass the domain model and read projections straight from the database.
package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrGetAvailableOrdersQueryIsNotConstructed = errors.New(
	"GetAvailableOrdersQuery must be created via NewGetAvailableOrdersQuery constructor",
)

// GetAvailableOrdersQuery retrieves all orders waiting to be claimed.
// This is the rider-facing board: paid orders with no rider yet.
//
// Example:
//
//	query := NewGetAvailableOrdersQuery()
//	handler := NewGetAvailableOrdersQueryHandler(db)
//
//	available, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get available orders: %w", err)
//	}
//
//	fmt.Printf("%d orders waiting for a rider\n", len(available))
type GetAvailableOrdersQuery struct {
	guard guard.ConstructorGuard
}

// NewGetAvailableOrdersQuery creates a query to retrieve claimable orders.
// This is a parameterless query that fetches all orders in "paid" status.
func NewGetAvailableOrdersQuery() GetAvailableOrdersQuery {
	return GetAvailableOrdersQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetAvailableOrdersQueryIsNotConstructed if validation fails.
func (q GetAvailableOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetAvailableOrdersQueryIsNotConstructed)
}

// GetAvailableOrdersQueryResponse represents one claimable order.
// The delivery code is deliberately absent: this projection is shown to
// riders, and the code must only ever reach the customer.
type GetAvailableOrdersQueryResponse struct {
	ID              kernel.UUID
	VendorID        kernel.UUID
	DeliveryAddress string
	TotalAmount     int64
	CreatedAt       time.Time
}
