package queries

import (
	"context"
	"database/sql"
	"errors"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// GetOrderTimelineQueryHandler projects an order's timeline from the status
// and timestamp columns alone, without rehydrating the full aggregate. The
// projection itself is the pure BuildTimeline function from the order
// package; this handler only feeds it persisted state.
//
// Example:
//
//	handler := NewGetOrderTimelineQueryHandler(db)
//	query, _ := NewGetOrderTimelineQuery(orderID)
//
//	timeline, err := handler.Handle(ctx, query)
//	if err != nil {
//	    log.Printf("timeline lookup: %v", err)
//	    return err
//	}
//
//	fmt.Printf("Order %s has %d timeline steps\n", timeline.Number, len(timeline.Steps))
type GetOrderTimelineQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderTimelineQueryHandler creates a handler for timeline queries
// over the given database handle.
func NewGetOrderTimelineQueryHandler(db *gorm.DB) GetOrderTimelineQueryHandler {
	return GetOrderTimelineQueryHandler{db: db}
}

// Handle executes the query and projects the timeline.
// Returns an ObjectNotFoundError when no order exists under the given
// identifier.
func (h GetOrderTimelineQueryHandler) Handle(
	ctx context.Context,
	query GetOrderTimelineQuery,
) (*GetOrderTimelineQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	var resp GetOrderTimelineQueryResponse
	var rawStatus string
	var cancellationReason string
	var stamps order.Timestamps

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			number,
			status,
			cancellation_reason,
			placed_at,
			confirmed_at,
			picked_at,
			packed_at,
			out_for_delivery_at,
			delivered_at,
			cancelled_at,
			returned_at
		FROM orders
		WHERE id = ?
	`, query.OrderID().Bytes()).Row()

	err := row.Scan(
		&resp.Number,
		&rawStatus,
		&cancellationReason,
		&stamps.PlacedAt,
		&stamps.ConfirmedAt,
		&stamps.PickedAt,
		&stamps.PackedAt,
		&stamps.OutForDeliveryAt,
		&stamps.DeliveredAt,
		&stamps.CancelledAt,
		&stamps.ReturnedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NewObjectNotFoundError("order", query.OrderID().String())
	}
	if err != nil {
		return nil, err
	}

	status, err := order.NormalizeStatus(rawStatus)
	if err != nil {
		return nil, err
	}

	resp.OrderID = query.OrderID()
	resp.Steps = order.BuildTimeline(status, stamps, cancellationReason)

	return &resp, nil
}
