// Package kafka publishes order lifecycle events to the downstream
// collaborators: the notification service consumes status changes, the
// inventory service consumes stock releases for cancelled orders. Events are
// published after the surrounding transaction commits; a failed publication
// is logged and never rolls the order back.
package kafka

import (
	"time"

	"fulfillment/internal/core/domain/model/order"
)

// StatusChangedEvent announces that an order entered its current status.
// One event is published per successful transition.
type StatusChangedEvent struct {
	OrderID     string    `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	Status      string    `json:"status"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// NewStatusChangedEvent builds the status event for the order's current
// state. OccurredAt is the moment the status was entered, taken from the
// order's own lifecycle timestamps.
func NewStatusChangedEvent(aggregate *order.Order) StatusChangedEvent {
	return StatusChangedEvent{
		OrderID:     aggregate.ID().String(),
		OrderNumber: aggregate.Number(),
		Status:      aggregate.Status().String(),
		OccurredAt:  statusReachedAt(aggregate),
	}
}

// StockReleaseItem identifies one reserved line to put back on the shelf.
type StockReleaseItem struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

// StockReleaseEvent tells the inventory service to release the reservation
// held for a cancelled order's items.
type StockReleaseEvent struct {
	OrderID     string             `json:"order_id"`
	OrderNumber string             `json:"order_number"`
	Items       []StockReleaseItem `json:"items"`
	OccurredAt  time.Time          `json:"occurred_at"`
}

// NewStockReleaseEvent builds the stock release event from the order's line
// items.
func NewStockReleaseEvent(aggregate *order.Order) StockReleaseEvent {
	items := make([]StockReleaseItem, 0, len(aggregate.Items()))
	for _, item := range aggregate.Items() {
		items = append(items, StockReleaseItem{
			ItemID:   item.ID().String(),
			Quantity: item.Quantity(),
		})
	}

	return StockReleaseEvent{
		OrderID:     aggregate.ID().String(),
		OrderNumber: aggregate.Number(),
		Items:       items,
		OccurredAt:  statusReachedAt(aggregate),
	}
}

// statusReachedAt returns the lifecycle timestamp matching the order's
// current status, falling back to the current time when the stamp is not
// set.
func statusReachedAt(aggregate *order.Order) time.Time {
	stamps := aggregate.Timestamps()

	var reachedAt *time.Time
	switch aggregate.Status() {
	case order.Placed:
		placedAt := stamps.PlacedAt
		reachedAt = &placedAt
	case order.Confirmed:
		reachedAt = stamps.ConfirmedAt
	case order.Picked:
		reachedAt = stamps.PickedAt
	case order.Packed:
		reachedAt = stamps.PackedAt
	case order.OutForDelivery:
		reachedAt = stamps.OutForDeliveryAt
	case order.Delivered:
		reachedAt = stamps.DeliveredAt
	case order.Cancelled:
		reachedAt = stamps.CancelledAt
	case order.Returned:
		reachedAt = stamps.ReturnedAt
	}

	if reachedAt == nil {
		return time.Now().UTC()
	}
	return *reachedAt
}
