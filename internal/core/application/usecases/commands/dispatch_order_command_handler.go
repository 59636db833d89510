package commands

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

var (
	ErrNoPackedOrderFound       = errors.New("no packed order found")
	ErrNoAvailablePartnersFound = errors.New("no available delivery partners found")
)

// DispatchOrderCommandHandler matches the packed order that has waited
// longest with a delivery partner chosen by the PartnerDispatcher domain
// service, then writes the order and the partner in one transaction so a
// crash can never leave a busy partner without an order.
//
// Example:
//
//	handler := NewDispatchOrderCommandHandler(uowFactory, notifier)
//	err := handler.Handle(ctx, NewDispatchOrderCommand())
//	switch {
//	case errors.Is(err, ErrNoPackedOrderFound):
//	    log.Println("packed queue is empty")
//	case errors.Is(err, ErrNoAvailablePartnersFound):
//	    log.Println("every partner is out on a delivery")
//	case err != nil:
//	    log.Printf("dispatch: %v", err)
//	}
type DispatchOrderCommandHandler struct {
	uowFactory UoWFactory
	notifier   ports.StatusNotifier
}

// NewDispatchOrderCommandHandler creates a handler for automatic dispatch.
// The unit of work it builds must span both the order and the partner
// repositories.
func NewDispatchOrderCommandHandler(
	uowFactory UoWFactory,
	notifier ports.StatusNotifier,
) DispatchOrderCommandHandler {
	return DispatchOrderCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

// Handle processes the dispatch command.
// An empty packed queue surfaces as ErrNoPackedOrderFound and an exhausted
// partner pool as ErrNoAvailablePartnersFound; both are routine outcomes
// for a periodic dispatcher, not faults. A version conflict on the order
// write means a concurrent dispatch won the same order, which resolves to
// success when that dispatch reached out_for_delivery too.
func (h DispatchOrderCommandHandler) Handle(ctx context.Context, command DispatchOrderCommand) error {
	if err := command.Validate(); err != nil {
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
	orderRepo := uow.OrderRepository()

	aggregate, err := orderRepo.GetFirstInPackedStatus(ctx)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return ErrNoPackedOrderFound
	}
	if err != nil {
		return err
	}

	candidates, err := partnerRepo.GetAllAvailable(ctx)
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		return ErrNoAvailablePartnersFound
	}

	assigned, err := services.NewPartnerDispatcher().Dispatch(aggregate, candidates, time.Now().UTC())
	if err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		if errors.Is(err, errs.ErrVersionIsInvalid) {
			return resolveVersionConflict(ctx, orderRepo, aggregate.ID(), order.OutForDelivery)
		}
		return err
	}

	if err = partnerRepo.Update(ctx, assigned); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	_ = h.notifier.NotifyStatusChanged(ctx, aggregate)

	return nil
}
