package commands

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// FailDeliveryCommandHandler records a failed delivery attempt. The order is
// cancelled with the failure reason and notes, the partner who carried it is
// freed, and the reserved stock goes back on the shelf. A failed delivery is
// terminal; getting the goods to the buyer again means a new order.
type FailDeliveryCommandHandler struct {
	uowFactory    UoWFactory
	notifier      ports.StatusNotifier
	stockReleaser ports.StockReleaser
}

// NewFailDeliveryCommandHandler creates a handler for failed-delivery reports.
func NewFailDeliveryCommandHandler(
	uowFactory UoWFactory,
	notifier ports.StatusNotifier,
	stockReleaser ports.StockReleaser,
) FailDeliveryCommandHandler {
	return FailDeliveryCommandHandler{
		uowFactory:    uowFactory,
		notifier:      notifier,
		stockReleaser: stockReleaser,
	}
}

// Handle processes the failed-delivery report.
// Reporting a failure on an order that is already cancelled is a success
// without a write, so the partner app can resubmit safely; the first recorded
// reason wins.
func (h FailDeliveryCommandHandler) Handle(ctx context.Context, cmd FailDeliveryCommand) error {
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

	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	carrierID := aggregate.Partner()

	changed, err := aggregate.FailDelivery(cmd.Reason(), cmd.Notes(), time.Now().UTC())
	if err != nil {
		return err
	}

	if !changed {
		return nil
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		if errors.Is(err, errs.ErrVersionIsInvalid) {
			return resolveVersionConflict(ctx, orderRepo, cmd.OrderID(), order.Cancelled)
		}
		return err
	}

	if carrierID != nil {
		if err = freePartner(ctx, uow.PartnerRepository(), *carrierID); err != nil {
			return err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	_ = h.notifier.NotifyStatusChanged(ctx, aggregate)
	_ = h.stockReleaser.ReleaseStock(ctx, aggregate)

	return nil
}
