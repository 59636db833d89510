package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/order"
)

// StatusNotifier publishes order lifecycle events to downstream consumers
// (customer notifications, vendor dashboards, analytics). Publication happens
// after the surrounding transaction commits, so implementations must tolerate
// being called with already-persisted state.
type StatusNotifier interface {
	// NotifyStatusChanged announces that the order has entered its current status.
	NotifyStatusChanged(ctx context.Context, aggregate *order.Order) error
}

// StockReleaser tells the inventory system to put reserved items back on the
// shelf. Called whenever an order reaches cancelled, whatever the path there.
type StockReleaser interface {
	// ReleaseStock releases the reservation held for the order's items.
	ReleaseStock(ctx context.Context, aggregate *order.Order) error
}
