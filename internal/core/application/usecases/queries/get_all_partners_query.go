package queries

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrGetAllPartnersQueryIsNotConstructed = errors.New(
		"GetAllPartnersQuery must be created via NewGetAllPartnersQuery constructor",
	)
)

// GetAllPartnersQuery retrieves information about all delivery partners in
// the system. Returns partner identities and their activation and
// availability flags for monitoring and dispatching.
//
// Example:
//
//	query := NewGetAllPartnersQuery()
//	handler := NewGetAllPartnersQueryHandler(db)
//
//	partners, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to retrieve partners: %w", err)
//	}
//
//	for _, partner := range partners {
//	    fmt.Printf("Partner %s available=%t\n", partner.Name, partner.Available)
//	}
type GetAllPartnersQuery struct {
	guard guard.ConstructorGuard
}

// NewGetAllPartnersQuery creates a query to retrieve all delivery partners.
// This is a parameterless query that fetches the complete partner list.
func NewGetAllPartnersQuery() GetAllPartnersQuery {
	return GetAllPartnersQuery{guard: guard.NewConstructorGuard()}
}

// Validate returns ErrGetAllPartnersQueryIsNotConstructed
// when the query bypassed its constructor.
func (q GetAllPartnersQuery) Validate() error {
	return q.guard.Validate(ErrGetAllPartnersQueryIsNotConstructed)
}

// GetAllPartnersQueryResponse represents delivery partner information in the
// read model. Contains essential partner data for display and dispatch
// decisions.
//
// Example:
//
//	response := GetAllPartnersQueryResponse{
//	    ID:        partnerID,
//	    Name:      "Ravi Kumar",
//	    Phone:     "+919876543210",
//	    Active:    true,
//	    Available: false,
//	}
type GetAllPartnersQueryResponse struct {
	ID        kernel.UUID
	Name      string
	Phone     string
	Active    bool
	Available bool
}
