package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/partner"
)

// CreatePartnerCommandHandler onboards a new delivery partner. A freshly
// onboarded partner starts active and available, so the dispatcher can hand
// them a packed order as soon as the transaction commits.
type CreatePartnerCommandHandler struct {
	uowFactory PartnerUoWFactory
}

// NewCreatePartnerCommandHandler creates a handler for partner onboarding.
func NewCreatePartnerCommandHandler(uowFactory PartnerUoWFactory) CreatePartnerCommandHandler {
	return CreatePartnerCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the onboarding command.
// The aggregate is built before the transaction opens, so name and phone
// validation failures never cost a database round trip. Submitting an id
// that already exists fails on the insert and rolls back.
func (h CreatePartnerCommandHandler) Handle(ctx context.Context, cmd CreatePartnerCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	carrier, err := partner.NewDeliveryPartner(cmd.PartnerID(), cmd.Name(), cmd.Phone())
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.PartnerRepository().Add(ctx, carrier); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
