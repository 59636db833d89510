// Package queries holds the read side of the fulfillment application layer.
// Each handler reads straight from the database into a response struct shaped
// for one caller, leaving the aggregates and their invariants to the write
// side.
package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrGetActiveOrdersQueryIsNotConstructed = errors.New(
		"GetActiveOrdersQuery must be created via NewGetActiveOrdersQuery constructor",
	)
)

// GetActiveOrdersQuery retrieves all orders still moving through fulfillment.
// Returns every order whose status is not terminal (delivered, cancelled or
// returned) for the operational dashboard.
//
// Example:
//
//	query := NewGetActiveOrdersQuery()
//	handler := NewGetActiveOrdersQueryHandler(db)
//
//	inFlight, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get active orders: %w", err)
//	}
//
//	for _, o := range inFlight {
//	    fmt.Printf("Order %s is %s\n", o.Number, o.Status)
//	}
type GetActiveOrdersQuery struct {
	guard guard.ConstructorGuard
}

// NewGetActiveOrdersQuery creates a query to retrieve in-flight orders.
// This is a parameterless query that fetches all non-terminal orders.
func NewGetActiveOrdersQuery() GetActiveOrdersQuery {
	return GetActiveOrdersQuery{guard: guard.NewConstructorGuard()}
}

// Validate returns ErrGetActiveOrdersQueryIsNotConstructed
// when the query bypassed its constructor.
func (q GetActiveOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetActiveOrdersQueryIsNotConstructed)
}

// GetActiveOrdersQueryResponse represents one in-flight order on the
// operational dashboard. PartnerID is nil until a delivery partner has been
// assigned.
//
// Example:
//
//	response := GetActiveOrdersQueryResponse{
//	    ID:       orderID,
//	    Number:   "QC-20250815-004211",
//	    Status:   "packed",
//	    PlacedAt: placedAt,
//	}
type GetActiveOrdersQueryResponse struct {
	ID        kernel.UUID
	Number    string
	Status    string
	PartnerID *kernel.UUID
	PlacedAt  time.Time
}
