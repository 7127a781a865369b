package queries

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetCustomerOrdersQueryHandler retrieves a customer's orders with their line
// snapshots. Orders and lines are fetched in two queries and stitched in
// memory, newest order first.
type GetCustomerOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetCustomerOrdersQueryHandler creates a handler for customer order queries.
// Requires a GORM database connection for query execution.
func NewGetCustomerOrdersQueryHandler(db *gorm.DB) GetCustomerOrdersQueryHandler {
	return GetCustomerOrdersQueryHandler{db: db}
}

// Handle executes the query to retrieve the customer's orders.
// Returns an empty slice when the customer has no orders.
func (h GetCustomerOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetCustomerOrdersQuery,
) ([]GetCustomerOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders, index, err := h.fetchOrders(ctx, query.CustomerID())
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}

	if err = h.fetchLines(ctx, query.CustomerID(), orders, index); err != nil {
		return nil, err
	}

	return orders, nil
}

func (h GetCustomerOrdersQueryHandler) fetchOrders(
	ctx context.Context, customerID kernel.UUID,
) ([]GetCustomerOrdersQueryResponse, map[uuid.UUID]int, error) {
	orders := make([]GetCustomerOrdersQueryResponse, 0)
	index := make(map[uuid.UUID]int)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			status,
			rider_id,
			delivery_address,
			delivery_code,
			total_amount,
			created_at
		FROM orders
		WHERE customer_id = ?
		ORDER BY created_at DESC, id
	`, customerID.Bytes()).Rows()
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var orderResp GetCustomerOrdersQueryResponse
		var id uuid.UUID
		var status int
		var riderID *uuid.UUID
		var deliveryAddress, deliveryCode string
		var totalAmount int64
		var createdAt time.Time

		err = rows.Scan(
			&id,
			&status,
			&riderID,
			&deliveryAddress,
			&deliveryCode,
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
		orderResp.DeliveryCode = deliveryCode
		orderResp.TotalAmount = totalAmount
		orderResp.CreatedAt = createdAt
		orderResp.Lines = make([]GetCustomerOrdersQueryLineResponse, 0)

		index[id] = len(orders)
		orders = append(orders, orderResp)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	return orders, index, nil
}

func (h GetCustomerOrdersQueryHandler) fetchLines(
	ctx context.Context,
	customerID kernel.UUID,
	orders []GetCustomerOrdersQueryResponse,
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
		WHERE o.customer_id = ?
		ORDER BY l.order_id, l.position
	`, customerID.Bytes()).Rows()
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

		orders[i].Lines = append(orders[i].Lines, GetCustomerOrdersQueryLineResponse{
			ProductID: pID,
			Name:      name,
			UnitPrice: unitPrice,
			Quantity:  quantity,
		})
	}

	return rows.Err()
}
