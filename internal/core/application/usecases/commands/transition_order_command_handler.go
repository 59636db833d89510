package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// TransitionOrderCommandHandler moves orders along the lifecycle on behalf of
// buyers, vendors and admins. The transition table in the order aggregate
// decides what is allowed; this handler adds the pieces that need
// infrastructure:
//
//   - the return window check on delivered -> returned, measured against the
//     delivery timestamp
//   - freeing the delivery partner when an in-flight order is cancelled
//   - resolving optimistic-concurrency conflicts via the idempotency rule
//   - post-commit publication of the status event (and the stock release on
//     cancellations)
type TransitionOrderCommandHandler struct {
	uowFactory    UoWFactory
	notifier      ports.StatusNotifier
	stockReleaser ports.StockReleaser
	returnWindow  time.Duration
}

// NewTransitionOrderCommandHandler creates a handler for order transitions.
// The return window bounds how long after delivery an admin may still move
// the order to returned.
func NewTransitionOrderCommandHandler(
	uowFactory UoWFactory,
	notifier ports.StatusNotifier,
	stockReleaser ports.StockReleaser,
	returnWindow time.Duration,
) TransitionOrderCommandHandler {
	return TransitionOrderCommandHandler{
		uowFactory:    uowFactory,
		notifier:      notifier,
		stockReleaser: stockReleaser,
		returnWindow:  returnWindow,
	}
}

// Handle processes the transition command.
//
// Re-applying the status the order already holds is a success without any
// write, so duplicate submissions from flaky clients stay harmless. A version
// conflict on the write resolves the same way: if the concurrent winner
// reached the same status the call succeeds, otherwise the caller gets
// order.ErrInvalidTransition.
func (h TransitionOrderCommandHandler) Handle(ctx context.Context, cmd TransitionOrderCommand) error {
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

	now := time.Now().UTC()

	if cmd.Target() == order.Returned {
		if err = h.checkReturnWindow(aggregate, now); err != nil {
			return err
		}
	}

	wasOutForDelivery := aggregate.Status() == order.OutForDelivery
	carrierID := aggregate.Partner()

	var changed bool
	if cmd.Target() == order.Cancelled {
		changed, err = aggregate.Cancel(cmd.Role(), cmd.Reason(), now)
	} else {
		changed, err = aggregate.TransitionTo(cmd.Target(), cmd.Role(), now)
	}
	if err != nil {
		return err
	}

	if !changed {
		return nil
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		if errors.Is(err, errs.ErrVersionIsInvalid) {
			return resolveVersionConflict(ctx, orderRepo, cmd.OrderID(), cmd.Target())
		}
		return err
	}

	// A cancellation mid-delivery releases the partner for the next order.
	if cmd.Target() == order.Cancelled && wasOutForDelivery && carrierID != nil {
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

// checkReturnWindow gates the delivered -> returned edge on the configured
// window. Orders that were never delivered pass through; the transition table
// rejects those edges itself.
func (h TransitionOrderCommandHandler) checkReturnWindow(aggregate *order.Order, now time.Time) error {
	deliveredAt := aggregate.Timestamps().DeliveredAt
	if deliveredAt == nil {
		return nil
	}

	if now.Sub(*deliveredAt) > h.returnWindow {
		return fmt.Errorf("%w: the %s return window has closed",
			order.ErrPreconditionFailed, h.returnWindow)
	}

	return nil
}
