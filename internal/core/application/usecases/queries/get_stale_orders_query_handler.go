package queries

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetStaleOrdersQueryHandler retrieves orders stuck before pickup.
type GetStaleOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetStaleOrdersQueryHandler creates a handler for stale order queries.
// Requires a GORM database connection for query execution.
func NewGetStaleOrdersQueryHandler(db *gorm.DB) GetStaleOrdersQueryHandler {
	return GetStaleOrdersQueryHandler{db: db}
}

// Handle executes the query to retrieve paid and assigned orders created
// before the cutoff. Results are sorted oldest first.
func (h GetStaleOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetStaleOrdersQuery,
) ([]GetStaleOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders := make([]GetStaleOrdersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			status,
			created_at
		FROM orders
		WHERE status IN (?, ?)
		  AND created_at < ?
		ORDER BY created_at, id
	`, order.Paid, order.Assigned, query.Cutoff()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var orderResp GetStaleOrdersQueryResponse
		var id uuid.UUID
		var status int
		var createdAt time.Time

		err = rows.Scan(
			&id,
			&status,
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
		orderResp.Status = order.Status(status).String()
		orderResp.CreatedAt = createdAt
		orders = append(orders, orderResp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
