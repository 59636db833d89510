package commands

import (
	"context"
)

// SetPartnerStatusCommandHandler applies admin adjustments to a delivery
// partner's activation and availability flags. Deactivating a partner does
// not touch an order they are already carrying; it only keeps new deliveries
// away from them.
type SetPartnerStatusCommandHandler struct {
	uowFactory PartnerUoWFactory
}

// NewSetPartnerStatusCommandHandler creates a handler for partner flag
// adjustments.
func NewSetPartnerStatusCommandHandler(uowFactory PartnerUoWFactory) SetPartnerStatusCommandHandler {
	return SetPartnerStatusCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the flag adjustment command.
// Loads the partner, applies whichever flags the command carries and persists
// the result within a transaction.
func (h SetPartnerStatusCommandHandler) Handle(ctx context.Context, cmd SetPartnerStatusCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	partnerRepo := uow.PartnerRepository()

	carrier, err := partnerRepo.Get(ctx, cmd.PartnerID())
	if err != nil {
		return err
	}

	if cmd.Active() != nil {
		carrier.SetActive(*cmd.Active())
	}
	if cmd.Available() != nil {
		carrier.SetAvailability(*cmd.Available())
	}

	if err = partnerRepo.Update(ctx, carrier); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
