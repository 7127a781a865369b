package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrGetStaleOrdersQueryIsNotConstructed = errors.New(
		"GetStaleOrdersQuery must be created via NewGetStaleOrdersQuery constructor",
	)
	ErrCutoffIsRequired = errors.New("cutoff time is required")
)

// GetStaleOrdersQuery retrieves orders stuck before pickup for too long:
// paid orders nobody claimed and assigned orders nobody collected.
// Used by the background watchdog to surface them for operators.
type GetStaleOrdersQuery struct { //nolint:recvcheck //using for validation
	cutoff time.Time

	guard guard.ConstructorGuard
}

// NewGetStaleOrdersQuery creates a query for orders created before cutoff
// that are still waiting to be claimed or picked up.
func NewGetStaleOrdersQuery(cutoff time.Time) (GetStaleOrdersQuery, error) {
	if cutoff.IsZero() {
		return GetStaleOrdersQuery{}, ErrCutoffIsRequired
	}

	return GetStaleOrdersQuery{
		cutoff: cutoff,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetStaleOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetStaleOrdersQueryIsNotConstructed)
}

// Cutoff returns the creation time threshold.
func (q GetStaleOrdersQuery) Cutoff() time.Time {
	return q.cutoff
}

// GetStaleOrdersQueryResponse represents one order stuck before pickup.
type GetStaleOrdersQueryResponse struct {
	ID        kernel.UUID
	Status    string
	CreatedAt time.Time
}
