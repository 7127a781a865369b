package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrGetCustomerOrdersQueryIsNotConstructed = errors.New(
	"GetCustomerOrdersQuery must be created via NewGetCustomerOrdersQuery constructor",
)

// GetCustomerOrdersQuery retrieves a customer's order history.
// This is the only read surface that exposes the delivery code: the customer
// needs it to hand over to the rider at the door.
type GetCustomerOrdersQuery struct { //nolint:recvcheck //using for validation
	customerID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetCustomerOrdersQuery creates a query for one customer's orders.
func NewGetCustomerOrdersQuery(customerID kernel.UUID) (GetCustomerOrdersQuery, error) {
	if err := customerID.Validate(); err != nil {
		return GetCustomerOrdersQuery{}, err
	}

	return GetCustomerOrdersQuery{
		customerID: customerID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetCustomerOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetCustomerOrdersQueryIsNotConstructed)
}

// CustomerID returns the identifier of the customer whose orders are fetched.
func (q GetCustomerOrdersQuery) CustomerID() kernel.UUID {
	return q.customerID
}

// GetCustomerOrdersQueryLineResponse represents one snapshot line of an order.
type GetCustomerOrdersQueryLineResponse struct {
	ProductID kernel.UUID
	Name      string
	UnitPrice int64
	Quantity  int
}

// GetCustomerOrdersQueryResponse represents one order in a customer's history,
// including the delivery code and the full line snapshot.
type GetCustomerOrdersQueryResponse struct {
	ID              kernel.UUID
	Status          string
	RiderID         *kernel.UUID
	DeliveryAddress string
	DeliveryCode    string
	TotalAmount     int64
	CreatedAt       time.Time
	Lines           []GetCustomerOrdersQueryLineResponse
}
