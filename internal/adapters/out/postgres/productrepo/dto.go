// Package productrepo provides data transfer objects and mapping functions for
// product persistence. Besides the usual aggregate round trip, this package
// owns the guarded stock decrement that keeps concurrent checkouts from
// overselling a product.
package productrepo

import (
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/product"

	"github.com/google/uuid"
)

// ProductDTO represents the database structure for persisting products.
// The check constraint backs up the guarded decrement: stock can never be
// driven negative even by a bug in the update path.
type ProductDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	VendorID  uuid.UUID `gorm:"type:uuid;index"`
	Name      string
	UnitPrice int64
	Stock     int `gorm:"check:stock >= 0"`
}

// TableName specifies the database table name for product entities.
func (ProductDTO) TableName() string {
	return "products"
}

// fromDomain converts a product domain aggregate to its database representation.
func fromDomain(aggregate *product.Product) ProductDTO {
	return ProductDTO{
		ID:        aggregate.ID().Bytes(),
		VendorID:  aggregate.Vendor().Bytes(),
		Name:      aggregate.Name(),
		UnitPrice: aggregate.UnitPrice(),
		Stock:     aggregate.Stock(),
	}
}

// toDomain converts a database DTO to a product domain aggregate.
func toDomain(dto ProductDTO) (*product.Product, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	vendorID, err := kernel.UUIDFromBytes(dto.VendorID[:])
	if err != nil {
		return nil, err
	}

	return product.RestoreProduct(id, vendorID, dto.Name, dto.UnitPrice, dto.Stock)
}
