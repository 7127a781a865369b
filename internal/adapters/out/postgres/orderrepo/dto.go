// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Maps order domain entities to relational tables with indexing for the two
// hot lookups: available orders by status and a customer's order history.
type OrderDTO struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CustomerID      uuid.UUID  `gorm:"type:uuid;index"`
	VendorID        uuid.UUID  `gorm:"type:uuid"`
	RiderID         *uuid.UUID `gorm:"type:uuid;index"`
	DeliveryAddress string
	DeliveryCode    string `gorm:"type:varchar(8)"`
	TotalAmount     int64
	Status          int `gorm:"index"`
	CreatedAt       time.Time
	Lines           []OrderLineDTO `gorm:"foreignKey:OrderID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for order entities.
// Overrides GORM's default naming convention to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// OrderLineDTO represents one snapshot line of an order.
// Position preserves the cart insertion order across round trips.
type OrderLineDTO struct {
	OrderID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Position  int       `gorm:"primaryKey"`
	ProductID uuid.UUID `gorm:"type:uuid"`
	Name      string
	UnitPrice int64
	Quantity  int
}

// TableName specifies the database table name for order line entities.
func (OrderLineDTO) TableName() string {
	return "order_lines"
}

// fromDomain converts an order domain aggregate to its database representation.
// Maps all order attributes including the optional rider assignment and the
// positioned line snapshot.
func fromDomain(aggregate *order.Order) OrderDTO {
	var riderID *uuid.UUID
	if id := aggregate.Rider(); id != nil {
		raw := id.Bytes()
		riderID = &raw
	}

	lines := aggregate.Lines()
	lineDTOs := make([]OrderLineDTO, 0, len(lines))
	for i, line := range lines {
		lineDTOs = append(lineDTOs, OrderLineDTO{
			OrderID:   aggregate.ID().Bytes(),
			Position:  i,
			ProductID: line.ProductID().Bytes(),
			Name:      line.Name(),
			UnitPrice: line.UnitPrice(),
			Quantity:  line.Quantity(),
		})
	}

	return OrderDTO{
		ID:              aggregate.ID().Bytes(),
		CustomerID:      aggregate.Customer().Bytes(),
		VendorID:        aggregate.Vendor().Bytes(),
		RiderID:         riderID,
		DeliveryAddress: aggregate.DeliveryAddress(),
		DeliveryCode:    aggregate.Code().String(),
		TotalAmount:     aggregate.TotalAmount(),
		Status:          int(aggregate.Status()),
		CreatedAt:       aggregate.CreatedAt(),
		Lines:           lineDTOs,
	}
}

// toDomain converts a database DTO to an order domain aggregate.
// Reconstructs the complete aggregate including status, rider assignment and
// the line snapshot using RestoreOrder, which re-checks every invariant.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}

	vendorID, err := kernel.UUIDFromBytes(dto.VendorID[:])
	if err != nil {
		return nil, err
	}

	var riderID *kernel.UUID
	if dto.RiderID != nil {
		rID, riderErr := kernel.UUIDFromBytes((*dto.RiderID)[:])
		if riderErr != nil {
			return nil, riderErr
		}

		riderID = &rID
	}

	lines := make([]order.Line, 0, len(dto.Lines))
	for _, lineDTO := range dto.Lines {
		productID, lineErr := kernel.UUIDFromBytes(lineDTO.ProductID[:])
		if lineErr != nil {
			return nil, lineErr
		}

		line, lineErr := order.NewLine(productID, lineDTO.Name, lineDTO.UnitPrice, lineDTO.Quantity)
		if lineErr != nil {
			return nil, lineErr
		}
		lines = append(lines, line)
	}

	code, err := kernel.DeliveryCodeFromString(dto.DeliveryCode)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(
		id,
		customerID,
		vendorID,
		lines,
		dto.DeliveryAddress,
		dto.TotalAmount,
		order.Status(dto.Status),
		riderID,
		code,
		dto.CreatedAt,
	)
}
