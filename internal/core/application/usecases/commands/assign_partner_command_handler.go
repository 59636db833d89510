package commands

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// AssignPartnerCommandHandler hands a packed order to a chosen delivery
// partner. The partner is marked busy and the order moves out for delivery
// inside one transaction; any failure rolls both back so neither a dangling
// assignment nor a phantom busy partner survives.
//
// Example:
//
//	h := NewAssignPartnerCommandHandler(uowFactory, notifier)
//	cmd, _ := NewAssignPartnerCommand(orderID, partnerID)
//	if err := h.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("assignment failed: %w", err)
//	}
type AssignPartnerCommandHandler struct {
	uowFactory UoWFactory
	notifier   ports.StatusNotifier
}

// NewAssignPartnerCommandHandler creates a handler for partner assignment.
// Requires a UoWFactory because assignment updates the order and the partner
// together.
func NewAssignPartnerCommandHandler(
	uowFactory UoWFactory,
	notifier ports.StatusNotifier,
) AssignPartnerCommandHandler {
	return AssignPartnerCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

// Handle processes the assignment command.
// Loads both aggregates, marks the partner busy (partner.ErrPartnerUnavailable
// when they cannot take the order) and runs the packed -> out_for_delivery
// step (order.ErrOrderNotPacked when the order is not ready). A version
// conflict on the order write means a concurrent dispatcher got there first;
// the conflict resolves to success when that dispatcher reached
// out_for_delivery, with this handler's own changes rolled back.
func (h AssignPartnerCommandHandler) Handle(ctx context.Context, cmd AssignPartnerCommand) error {
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

	orderRepo := uow.OrderRepository()
	partnerRepo := uow.PartnerRepository()

	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	carrier, err := partnerRepo.Get(ctx, cmd.PartnerID())
	if err != nil {
		return err
	}

	if err = carrier.MarkBusy(); err != nil {
		return err
	}

	if err = aggregate.AssignPartner(carrier.ID(), time.Now().UTC()); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		if errors.Is(err, errs.ErrVersionIsInvalid) {
			return resolveVersionConflict(ctx, orderRepo, cmd.OrderID(), order.OutForDelivery)
		}
		return err
	}

	if err = partnerRepo.Update(ctx, carrier); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	_ = h.notifier.NotifyStatusChanged(ctx, aggregate)

	return nil
}
