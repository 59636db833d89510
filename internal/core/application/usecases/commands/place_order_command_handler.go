package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

// PlaceOrderCommandHandler accepts a new order into the pipeline. It assigns
// the human-readable order number, generates the delivery confirmation code,
// locks in the line item prices and persists the order in "placed" status,
// where the vendor picks it up.
//
// Example:
//
//	h := NewPlaceOrderCommandHandler(uowFactory, notifier)
//	cmd, _ := NewPlaceOrderCommand("online", lines)
//
//	if err := h.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("order placement failed: %w", err)
//	}
//	// Order is now placed and visible to the vendor
type PlaceOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	notifier   ports.StatusNotifier
}

// NewPlaceOrderCommandHandler creates a handler for order placement. The
// notifier carries the post-commit placement event.
func NewPlaceOrderCommandHandler(
	uowFactory OrderUoWFactory,
	notifier ports.StatusNotifier,
) PlaceOrderCommandHandler {
	return PlaceOrderCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

// Handle processes the order placement command.
// Creates the order aggregate with a fresh number and delivery code and
// persists it within a transaction. The placement event is published after
// the commit; publication failures are the notifier's to log and never fail
// the placement.
func (h PlaceOrderCommandHandler) Handle(ctx context.Context, cmd PlaceOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()

	number, err := order.NewOrderNumber(now)
	if err != nil {
		return err
	}

	otp, err := order.GenerateOTP()
	if err != nil {
		return err
	}

	items, err := buildItems(cmd.Lines())
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

	orderRepo := uow.OrderRepository()
	aggregate, err := order.NewOrder(cmd.OrderID(), number, cmd.PaymentMode(), otp, items, now)
	if err != nil {
		return err
	}

	if err = orderRepo.Add(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	_ = h.notifier.NotifyStatusChanged(ctx, aggregate)

	return nil
}

// buildItems turns request lines into validated order items with locked prices.
func buildItems(lines []OrderLine) ([]*order.Item, error) {
	items := make([]*order.Item, 0, len(lines))

	for _, line := range lines {
		price, err := kernel.NewMoney(line.UnitPriceMinor, line.Currency)
		if err != nil {
			return nil, err
		}

		item, err := order.NewItem(line.ItemID, line.Name, price, line.Quantity, line.ReturnEligible)
		if err != nil {
			return nil, err
		}

		items = append(items, item)
	}

	return items, nil
}
