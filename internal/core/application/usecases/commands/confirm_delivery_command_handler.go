package commands

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// ConfirmDeliveryCommandHandler runs the delivery confirmation protocol:
// cash-on-delivery reconciliation, confirmation code verification and the
// final move to delivered. Whatever way the confirmation settles the order
// (delivered, or cancelled because the cash was not collected), the partner
// who carried it is freed in the same transaction.
type ConfirmDeliveryCommandHandler struct {
	uowFactory    UoWFactory
	notifier      ports.StatusNotifier
	stockReleaser ports.StockReleaser
}

// NewConfirmDeliveryCommandHandler creates a handler for delivery
// confirmation operations.
func NewConfirmDeliveryCommandHandler(
	uowFactory UoWFactory,
	notifier ports.StatusNotifier,
	stockReleaser ports.StockReleaser,
) ConfirmDeliveryCommandHandler {
	return ConfirmDeliveryCommandHandler{
		uowFactory:    uowFactory,
		notifier:      notifier,
		stockReleaser: stockReleaser,
	}
}

// Handle processes the confirmation command.
// Confirming an order that is already delivered is a success without a
// write, so the partner app can resubmit after a timeout. A code mismatch
// surfaces order.ErrOTPMismatch with the order untouched; attempts are not
// limited here.
func (h ConfirmDeliveryCommandHandler) Handle(ctx context.Context, cmd ConfirmDeliveryCommand) error {
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

	changed, err := aggregate.ConfirmDelivery(cmd.OTP(), cmd.CODCollected(), time.Now().UTC())
	if err != nil {
		return err
	}

	if !changed {
		return nil
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		if errors.Is(err, errs.ErrVersionIsInvalid) {
			return resolveVersionConflict(ctx, orderRepo, cmd.OrderID(), aggregate.Status())
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
	if aggregate.Status() == order.Cancelled {
		_ = h.stockReleaser.ReleaseStock(ctx, aggregate)
	}

	return nil
}
