package queries

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetVendorOrdersQueryHandler retrieves the orders placed against a vendor
// with their line snapshots, newest order first.
type GetVendorOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetVendorOrdersQueryHandler creates a handler for vendor order queries.
// Requires a GORM database connection for query execution.
func NewGetVendorOrdersQueryHandler(db *gorm.DB) GetVendorOrdersQueryHandler {
	return GetVendorOrdersQueryHandler{db: db}
}

// Handle executes the query to retrieve the vendor's orders.
// Returns an empty slice when no orders were placed against the vendor.
func (h GetVendorOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetVendorOrdersQuery,
) ([]GetVendorOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders, index, err := h.fetchOrders(ctx, query.VendorID())
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}

	if err = h.fetchLines(ctx, query.VendorID(), orders, index); err != nil {
		return nil, err
	}

	return orders, nil
}

func (h GetVendorOrdersQueryHandler) fetchOrders(
	ctx context.Context, vendorID kernel.UUID,
) ([]GetVendorOrdersQueryResponse, map[uuid.UUID]int, error) {
	orders := make([]GetVendorOrdersQueryResponse, 0)
	index := make(map[uuid.UUID]int)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			status,
			rider_id,
			delivery_address,
			total_amount,
			created_at
		FROM orders
		WHERE vendor_id = ?
		ORDER BY created_at DESC, id
	`, vendorID.Bytes()).Rows()
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var orderResp GetVendorOrdersQueryResponse
		var id uuid.UUID
		var status int
		var riderID *uuid.UUID
		var deliveryAddress string
		var totalAmount int64
		var createdAt time.Time

		err = rows.Scan(
			&id,
			&status,
			&riderID,
			&deliveryAddress,
			&totalAmount,
			&createdAt,
		)
		if err != nil {
			return nil, nil, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, nil, idErr
		}
		orderResp.ID = orderID

		if riderID != nil {
			rider, riderErr := kernel.UUIDFromBytes((*riderID)[:])
			if riderErr != nil {
				return nil, nil, riderErr
			}
			orderResp.RiderID = &rider
		}

		orderResp.Status = order.Status(status).String()
		orderResp.DeliveryAddress = deliveryAddress
		orderResp.TotalAmount = totalAmount
		orderResp.CreatedAt = createdAt
		orderResp.Lines = make([]GetVendorOrdersQueryLineResponse, 0)

		index[id] = len(orders)
		orders = append(orders, orderResp)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	return orders, index, nil
}

func (h GetVendorOrdersQueryHandler) fetchLines(
	ctx context.Context,
	vendorID kernel.UUID,
	orders []GetVendorOrdersQueryResponse,
	index map[uuid.UUID]int,
) error {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			l.order_id,
			l.product_id,
			l.name,
			l.unit_price,
			l.quantity
		FROM order_lines l
		JOIN orders o ON o.id = l.order_id
		WHERE o.vendor_id = ?
		ORDER BY l.order_id, l.position
	`, vendorID.Bytes()).Rows()
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var orderID, productID uuid.UUID
		var name string
		var unitPrice int64
		var quantity int

		err = rows.Scan(
			&orderID,
			&productID,
			&name,
			&unitPrice,
			&quantity,
		)
		if err != nil {
			return err
		}

		i, ok := index[orderID]
		if !ok {
			continue
		}

		pID, idErr := kernel.UUIDFromBytes(productID[:])
		if idErr != nil {
			return idErr
		}

		orders[i].Lines = append(orders[i].Lines, GetVendorOrdersQueryLineResponse{
			ProductID: pID,
			Name:      name,
			UnitPrice: unitPrice,
			Quantity:  quantity,
		})
	}

	return rows.Err()
}
