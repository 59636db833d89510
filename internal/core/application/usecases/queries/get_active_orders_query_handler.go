package queries

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetActiveOrdersQueryHandler lists every order still in flight: anything
// not yet delivered, cancelled or returned. Ops dashboards poll this to
// watch the fulfillment pipeline, so the query touches only the columns the
// dashboard renders and never rehydrates an aggregate.
//
// Example:
//
//	handler := NewGetActiveOrdersQueryHandler(db)
//	inFlight, err := handler.Handle(ctx, NewGetActiveOrdersQuery())
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("%d orders in flight\n", len(inFlight))
type GetActiveOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetActiveOrdersQueryHandler creates a handler for in-flight order
// queries over the given database handle.
func NewGetActiveOrdersQueryHandler(db *gorm.DB) GetActiveOrdersQueryHandler {
	return GetActiveOrdersQueryHandler{db: db}
}

// Handle returns the non-terminal orders, oldest placement first, so the
// longest-waiting orders top the dashboard. The partner id is nil for orders
// not yet out for delivery.
func (h GetActiveOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetActiveOrdersQuery,
) ([]GetActiveOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	inFlight := make([]GetActiveOrdersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT id, number, status, partner_id, placed_at
		FROM orders
		WHERE status NOT IN (?, ?, ?)
		ORDER BY placed_at
	`, order.Delivered.String(), order.Cancelled.String(), order.Returned.String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var entry GetActiveOrdersQueryResponse
		var id uuid.UUID
		var partnerID *uuid.UUID

		if err = rows.Scan(&id, &entry.Number, &entry.Status, &partnerID, &entry.PlacedAt); err != nil {
			return nil, err
		}

		entry.ID, err = kernel.UUIDFromBytes(id[:])
		if err != nil {
			return nil, err
		}

		if partnerID != nil {
			carrierID, idErr := kernel.UUIDFromBytes(partnerID[:])
			if idErr != nil {
				return nil, idErr
			}
			entry.PartnerID = &carrierID
		}

		inFlight = append(inFlight, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return inFlight, nil
}
