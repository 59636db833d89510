package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/partner"
)

// PartnerRepository is the persistence contract for delivery partner
// aggregates, covering registration, flag changes, and the availability
// query the dispatcher selects candidates from.
type PartnerRepository interface {
	// Add stores a newly registered delivery partner. The aggregate must
	// validate and its ID must not already exist.
	Add(ctx context.Context, aggregate *partner.DeliveryPartner) error

	// Update writes a changed delivery partner back, flag values included.
	Update(ctx context.Context, aggregate *partner.DeliveryPartner) error

	// Get loads one delivery partner by ID.
	Get(ctx context.Context, id kernel.UUID) (*partner.DeliveryPartner, error)

	// GetAllAvailable loads every partner eligible to take a delivery right
	// now: active and not currently carrying an order.
	//
	// Business Rules:
	//   - Deactivated partners: never returned, even with availability still set
	//   - Active partners carrying an order: held back until the delivery settles
	//   - Active partners without an order: returned
	//
	// Example:
	//   candidates, err := repo.GetAllAvailable(ctx)
	//   if err != nil {
	//       return fmt.Errorf("failed to get available partners: %w", err)
	//   }
	//   for _, p := range candidates {
	//       fmt.Printf("Available: %s\n", p.Name())
	//   }
	GetAllAvailable(ctx context.Context) ([]*partner.DeliveryPartner, error)
}
