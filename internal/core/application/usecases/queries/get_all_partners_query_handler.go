package queries

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetAllPartnersQueryHandler reads the delivery partner roster straight from
// the database. The read side skips the aggregate and its validation: ops
// screens list partners far more often than anyone mutates them, and the
// rows already carry everything those screens show.
//
// Example:
//
//	handler := NewGetAllPartnersQueryHandler(db)
//	partners, err := handler.Handle(ctx, NewGetAllPartnersQuery())
//	if err != nil {
//	    return err
//	}
//	for _, p := range partners {
//	    fmt.Printf("%s active=%t available=%t\n", p.Name, p.Active, p.Available)
//	}
type GetAllPartnersQueryHandler struct {
	db *gorm.DB
}

// NewGetAllPartnersQueryHandler creates a handler for roster queries over
// the given database handle.
func NewGetAllPartnersQueryHandler(db *gorm.DB) GetAllPartnersQueryHandler {
	return GetAllPartnersQueryHandler{db: db}
}

// Handle returns one row per partner, sorted by name, both status flags
// included. Identifiers come back as kernel UUIDs; every other field is the
// raw column value.
func (h GetAllPartnersQueryHandler) Handle(
	ctx context.Context,
	query GetAllPartnersQuery,
) ([]GetAllPartnersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	roster := make([]GetAllPartnersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT id, name, phone, active, available
		FROM partners
		ORDER BY name
	`).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var entry GetAllPartnersQueryResponse
		var id uuid.UUID

		if err = rows.Scan(&id, &entry.Name, &entry.Phone, &entry.Active, &entry.Available); err != nil {
			return nil, err
		}

		entry.ID, err = kernel.UUIDFromBytes(id[:])
		if err != nil {
			return nil, err
		}

		roster = append(roster, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return roster, nil
}
