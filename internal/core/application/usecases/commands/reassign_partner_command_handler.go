package commands

import (
	"context"
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// ReassignPartnerCommandHandler swaps the delivery partner on an order that
// is already out for delivery. The previous partner is freed and the new one
// marked busy in the same transaction; the out_for_delivery transition is not
// re-fired and no timestamp changes.
//
// Reassignment is an admin-only correction; every other role gets
// order.ErrForbidden.
type ReassignPartnerCommandHandler struct {
	uowFactory UoWFactory
}

// NewReassignPartnerCommandHandler creates a handler for delivery
// reassignment operations.
func NewReassignPartnerCommandHandler(uowFactory UoWFactory) ReassignPartnerCommandHandler {
	return ReassignPartnerCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the reassignment command.
// Reassigning to the partner already carrying the order is an idempotent
// no-op. A version conflict on the order write resolves to success when the
// concurrent winner bound the same partner, and to order.ErrInvalidTransition
// otherwise.
func (h ReassignPartnerCommandHandler) Handle(ctx context.Context, cmd ReassignPartnerCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	if cmd.Role() != order.RoleAdmin {
		return fmt.Errorf("%w: only an admin may reassign a delivery, got %s",
			order.ErrForbidden, cmd.Role())
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

	previousID := aggregate.Partner()
	if previousID != nil && previousID.IsEqual(cmd.PartnerID()) {
		return nil
	}

	next, err := partnerRepo.Get(ctx, cmd.PartnerID())
	if err != nil {
		return err
	}

	if err = next.MarkBusy(); err != nil {
		return err
	}

	if err = aggregate.ReassignPartner(next.ID()); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		if errors.Is(err, errs.ErrVersionIsInvalid) {
			return h.resolveReassignConflict(ctx, orderRepo, cmd)
		}
		return err
	}

	if previousID != nil {
		if err = freePartner(ctx, partnerRepo, *previousID); err != nil {
			return err
		}
	}

	if err = partnerRepo.Update(ctx, next); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}

// resolveReassignConflict settles a rejected reassignment write: the call
// succeeded if the concurrent winner bound the same partner the admin asked
// for, and is a lost race otherwise.
func (h ReassignPartnerCommandHandler) resolveReassignConflict(
	ctx context.Context,
	repo ports.OrderRepository,
	cmd ReassignPartnerCommand,
) error {
	fresh, err := repo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if fresh.Partner() != nil && fresh.Partner().IsEqual(cmd.PartnerID()) {
		return nil
	}

	return fmt.Errorf("%w: a concurrent update changed the order", order.ErrInvalidTransition)
}
