// Package ports declares the driven-side contracts of the fulfillment core:
// repositories over the order and delivery partner aggregates and the unit of
// work that scopes their writes to one transaction. Adapters implement these
// interfaces; the application layer depends on nothing below them.
package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// OrderRepository is the persistence contract for order aggregates.
// Implementations store the full aggregate, line items included, and honor
// the aggregate version on every write.
type OrderRepository interface {
	// Add stores a freshly placed order. The aggregate must validate and its
	// ID must not already exist.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update writes a changed order back. The write is guarded by the version
	// the aggregate was loaded with: when the stored version has moved on, the
	// update is rejected and the caller must re-read.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get loads one order by ID, line items and lifecycle timestamps included.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetFirstInPackedStatus loads the packed order that has waited for a
	// delivery partner the longest. The dispatch workflow calls this to pick
	// the next order to hand out.
	GetFirstInPackedStatus(ctx context.Context) (*order.Order, error)
}
