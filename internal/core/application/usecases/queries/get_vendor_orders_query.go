package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrGetVendorOrdersQueryIsNotConstructed = errors.New(
	"GetVendorOrdersQuery must be created via NewGetVendorOrdersQuery constructor",
)

// GetVendorOrdersQuery retrieves the orders placed against one vendor, so the
// vendor can see what to prepare. The delivery code stays with the customer
// and is not part of this projection.
type GetVendorOrdersQuery struct { //nolint:recvcheck //using for validation
	vendorID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetVendorOrdersQuery creates a query for one vendor's orders.
func NewGetVendorOrdersQuery(vendorID kernel.UUID) (GetVendorOrdersQuery, error) {
	if err := vendorID.Validate(); err != nil {
		return GetVendorOrdersQuery{}, err
	}

	return GetVendorOrdersQuery{
		vendorID: vendorID,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetVendorOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetVendorOrdersQueryIsNotConstructed)
}

// VendorID returns the identifier of the vendor whose orders are fetched.
func (q GetVendorOrdersQuery) VendorID() kernel.UUID {
	return q.vendorID
}

// GetVendorOrdersQueryLineResponse represents one snapshot line of an order.
type GetVendorOrdersQueryLineResponse struct {
	ProductID kernel.UUID
	Name      string
	UnitPrice int64
	Quantity  int
}

// GetVendorOrdersQueryResponse represents one order placed against a vendor.
type GetVendorOrdersQueryResponse struct {
	ID              kernel.UUID
	Status          string
	RiderID         *kernel.UUID
	DeliveryAddress string
	TotalAmount     int64
	CreatedAt       time.Time
	Lines           []GetVendorOrdersQueryLineResponse
}
