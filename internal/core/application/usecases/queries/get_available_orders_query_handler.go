package queries

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetAvailableOrdersQueryHandler retrieves claimable orders from the database.
// Serves the rider-facing board of paid orders waiting to be claimed.
type GetAvailableOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetAvailableOrdersQueryHandler creates a handler for available order queries.
// Requires a GORM database connection for query execution.
func NewGetAvailableOrdersQueryHandler(db *gorm.DB) GetAvailableOrdersQueryHandler {
	return GetAvailableOrdersQueryHandler{db: db}
}

// Handle executes the query to retrieve all orders in "paid" status.
// Results are sorted oldest first so long-waiting orders surface on top.
func (h GetAvailableOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetAvailableOrdersQuery,
) ([]GetAvailableOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders := make([]GetAvailableOrdersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			vendor_id,
			delivery_address,
			total_amount,
			created_at
		FROM orders
		WHERE status = ?
		ORDER BY created_at, id
	`, order.Paid).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var orderResp GetAvailableOrdersQueryResponse
		var id, vendorID uuid.UUID
		var deliveryAddress string
		var totalAmount int64
		var createdAt time.Time

		err = rows.Scan(
			&id,
			&vendorID,
			&deliveryAddress,
			&totalAmount,
			&createdAt,
		)
		if err != nil {
			return nil, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		orderResp.ID = orderID

		vendor, vendorErr := kernel.UUIDFromBytes(vendorID[:])
		if vendorErr != nil {
			return nil, vendorErr
		}
		orderResp.VendorID = vendor

		orderResp.DeliveryAddress = deliveryAddress
		orderResp.TotalAmount = totalAmount
		orderResp.CreatedAt = createdAt
		orders = append(orders, orderResp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
