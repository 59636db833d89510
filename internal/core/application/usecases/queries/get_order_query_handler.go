package queries

import (
	"context"
	"database/sql"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrderQueryHandler retrieves the full state of a single order from the
// database, reading the order row and its line items directly.
//
// Example:
//
//	handler := NewGetOrderQueryHandler(db)
//	query, _ := NewGetOrderQuery(orderID)
//
//	result, err := handler.Handle(ctx, query)
//	if err != nil {
//	    log.Printf("order lookup: %v", err)
//	    return err
//	}
//
//	fmt.Printf("Order %s holds %d items\n", result.Number, len(result.Items))
type GetOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderQueryHandler creates a handler for single-order queries over
// the given database handle.
func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle executes the query to retrieve one order with its line items.
// Returns an ObjectNotFoundError when no order exists under the given
// identifier.
func (h GetOrderQueryHandler) Handle(
	ctx context.Context,
	query GetOrderQuery,
) (*GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	var resp GetOrderQueryResponse
	var id uuid.UUID
	var partnerID *uuid.UUID

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			number,
			status,
			payment_mode,
			payment_status,
			partner_id,
			delivery_otp,
			cancellation_reason,
			failure_reason,
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
		&id,
		&resp.Number,
		&resp.Status,
		&resp.PaymentMode,
		&resp.PaymentStatus,
		&partnerID,
		&resp.DeliveryOTP,
		&resp.CancellationReason,
		&resp.FailureReason,
		&resp.PlacedAt,
		&resp.ConfirmedAt,
		&resp.PickedAt,
		&resp.PackedAt,
		&resp.OutForDeliveryAt,
		&resp.DeliveredAt,
		&resp.CancelledAt,
		&resp.ReturnedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NewObjectNotFoundError("order", query.OrderID().String())
	}
	if err != nil {
		return nil, err
	}

	orderID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return nil, err
	}
	resp.ID = orderID

	if partnerID != nil {
		carrierID, idErr := kernel.UUIDFromBytes(partnerID[:])
		if idErr != nil {
			return nil, idErr
		}
		resp.PartnerID = &carrierID
	}

	items, err := h.loadItems(ctx, query.OrderID())
	if err != nil {
		return nil, err
	}
	resp.Items = items

	return &resp, nil
}

// loadItems reads the order's line items, locked prices included.
func (h GetOrderQueryHandler) loadItems(
	ctx context.Context,
	orderID kernel.UUID,
) ([]GetOrderQueryItemResponse, error) {
	items := make([]GetOrderQueryItemResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			name,
			price_amount,
			price_currency,
			quantity,
			return_eligible
		FROM order_items
		WHERE order_id = ?
		ORDER BY name
	`, orderID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item GetOrderQueryItemResponse
		var id uuid.UUID
		var priceAmount int64
		var priceCurrency string

		err = rows.Scan(
			&id,
			&item.Name,
			&priceAmount,
			&priceCurrency,
			&item.Quantity,
			&item.ReturnEligible,
		)
		if err != nil {
			return nil, err
		}

		itemID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		item.ID = itemID

		price, priceErr := kernel.NewMoney(priceAmount, priceCurrency)
		if priceErr != nil {
			return nil, priceErr
		}
		item.Price = price

		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}
