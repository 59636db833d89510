package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrGetOrderQueryIsNotConstructed = errors.New(
		"GetOrderQuery must be created via NewGetOrderQuery constructor",
	)
)

// GetOrderQuery retrieves the full read model of a single order, line items
// included. The response carries the delivery code; callers serving delivery
// partners must withhold it, since the code is handed to the buyer only.
//
// Example:
//
//	query, err := NewGetOrderQuery(orderID)
//	if err != nil {
//	    return fmt.Errorf("bad order id: %w", err)
//	}
//
//	handler := NewGetOrderQueryHandler(db)
//	result, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return err
//	}
//
//	fmt.Printf("Order %s is %s\n", result.Number, result.Status)
type GetOrderQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderQuery creates a query to retrieve one order by its identifier.
func NewGetOrderQuery(orderID kernel.UUID) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}

	return GetOrderQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate returns ErrGetOrderQueryIsNotConstructed
// when the query bypassed its constructor.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// OrderID returns the identifier of the order to retrieve.
func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

// GetOrderQueryItemResponse represents one order line in the read model.
type GetOrderQueryItemResponse struct {
	ID             kernel.UUID
	Name           string
	Price          kernel.Money
	Quantity       int
	ReturnEligible bool
}

// GetOrderQueryResponse is the complete order read model: identity, payment,
// lifecycle state, line items and every lifecycle timestamp reached so far.
// Timestamps for steps the order has not reached are nil.
type GetOrderQueryResponse struct {
	ID                 kernel.UUID
	Number             string
	Status             string
	PaymentMode        string
	PaymentStatus      string
	PartnerID          *kernel.UUID
	DeliveryOTP        string
	CancellationReason string
	FailureReason      string
	Items              []GetOrderQueryItemResponse

	PlacedAt         time.Time
	ConfirmedAt      *time.Time
	PickedAt         *time.Time
	PackedAt         *time.Time
	OutForDeliveryAt *time.Time
	DeliveredAt      *time.Time
	CancelledAt      *time.Time
	ReturnedAt       *time.Time
}
