package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/order"
)

// OrderEventPublisher notifies external consumers that an order changed
// status. Publishing happens after the transaction commits and is
// best-effort: the order store is the system of record, the event stream is
// a projection feed, so handlers never fail a request over a publish error.
// Implementations are expected to log their own failures.
type OrderEventPublisher interface {
	PublishOrderStatusChanged(ctx context.Context, aggregate *order.Order) error
}
