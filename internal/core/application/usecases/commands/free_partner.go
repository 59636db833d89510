package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
)

// freePartner marks a delivery partner available again once the delivery they
// were carrying settled, and persists the flip inside the surrounding
// transaction. Delivery, failed delivery and mid-flight cancellation all end
// here.
func freePartner(ctx context.Context, repo ports.PartnerRepository, id kernel.UUID) error {
	carrier, err := repo.Get(ctx, id)
	if err != nil {
		return err
	}

	carrier.MarkAvailable()
	return repo.Update(ctx, carrier)
}
