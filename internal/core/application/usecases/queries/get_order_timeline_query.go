package queries

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrGetOrderTimelineQueryIsNotConstructed = errors.New(
		"GetOrderTimelineQuery must be created via NewGetOrderTimelineQuery constructor",
	)
)

// GetOrderTimelineQuery retrieves the progress view of a single order: the
// ordered lifecycle steps with their completed/current/pending state and the
// timestamp of every step reached. Serves both the operational dashboard and
// the customer-facing tracking widget.
//
// Example:
//
//	query, err := NewGetOrderTimelineQuery(orderID)
//	if err != nil {
//	    return fmt.Errorf("bad order id: %w", err)
//	}
//
//	handler := NewGetOrderTimelineQueryHandler(db)
//	timeline, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return err
//	}
//
//	for _, step := range timeline.Steps {
//	    fmt.Printf("%s: %s\n", step.Label, step.State)
//	}
type GetOrderTimelineQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderTimelineQuery creates a query to retrieve one order's timeline.
func NewGetOrderTimelineQuery(orderID kernel.UUID) (GetOrderTimelineQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderTimelineQuery{}, err
	}

	return GetOrderTimelineQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate returns ErrGetOrderTimelineQueryIsNotConstructed
// when the query bypassed its constructor.
func (q GetOrderTimelineQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderTimelineQueryIsNotConstructed)
}

// OrderID returns the identifier of the order whose timeline to project.
func (q GetOrderTimelineQuery) OrderID() kernel.UUID {
	return q.orderID
}

// GetOrderTimelineQueryResponse carries the projected timeline together with
// the order identity needed to render the tracking view.
type GetOrderTimelineQueryResponse struct {
	OrderID kernel.UUID
	Number  string
	Steps   []order.TimelineStep
}
