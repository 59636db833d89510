package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrPlaceOrderCommandIsNotConstructed = errors.New(
		"PlaceOrderCommand must be created via NewPlaceOrderCommand constructor",
	)
	ErrOrderLinesAreRequired = errors.New("at least one order line is required")
)

// OrderLine is one line of a placement request: the catalog item, the unit
// price locked at checkout in minor currency units, and the quantity ordered.
type OrderLine struct {
	ItemID         kernel.UUID
	Name           string
	UnitPriceMinor int64
	Currency       string
	Quantity       int
	ReturnEligible bool
}

// PlaceOrderCommand represents a request to place a new order.
// Encapsulates the payment mode chosen at checkout and the priced line items.
// The order identifier is generated here so the caller can reference the
// order immediately after placement.
//
// Example:
//
//	cmd, err := NewPlaceOrderCommand("cash_on_delivery", lines)
//	if err != nil {
//	    return fmt.Errorf("invalid placement data: %w", err)
//	}
//
//	handler := NewPlaceOrderCommandHandler(uowFactory, notifier)
//	if err = handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to place order: %w", err)
//	}
//	fmt.Printf("Placed order %s", cmd.OrderID())
type PlaceOrderCommand struct { //nolint:recvcheck //using for validation
	orderID     kernel.UUID
	paymentMode order.PaymentMode
	lines       []OrderLine

	guard guard.ConstructorGuard
}

// NewPlaceOrderCommand creates a command to place a new order.
// Automatically generates a unique ID for the order.
// Validates that the payment mode is recognized and at least one line is given.
func NewPlaceOrderCommand(paymentMode string, lines []OrderLine) (PlaceOrderCommand, error) {
	command := PlaceOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setOrderID(kernel.NewUUID()),
		command.setPaymentMode(paymentMode),
		command.setLines(lines),
	); err != nil {
		return PlaceOrderCommand{}, err
	}

	return command, nil
}

// Validate returns ErrPlaceOrderCommandIsNotConstructed
// when the command bypassed its constructor.
func (c PlaceOrderCommand) Validate() error {
	return c.guard.Validate(ErrPlaceOrderCommandIsNotConstructed)
}

// OrderID returns the generated identifier of the order being placed.
func (c PlaceOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// PaymentMode returns the payment mode chosen at checkout.
func (c PlaceOrderCommand) PaymentMode() order.PaymentMode {
	return c.paymentMode
}

// Lines returns the priced line items of the placement request.
func (c PlaceOrderCommand) Lines() []OrderLine {
	return c.lines
}

func (c *PlaceOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *PlaceOrderCommand) setPaymentMode(raw string) error {
	mode, err := order.ParsePaymentMode(raw)
	if err != nil {
		return err
	}

	c.paymentMode = mode
	return nil
}

func (c *PlaceOrderCommand) setLines(lines []OrderLine) error {
	if len(lines) == 0 {
		return ErrOrderLinesAreRequired
	}

	c.lines = lines
	return nil
}
