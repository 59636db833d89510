package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrConfirmDeliveryCommandIsNotConstructed = errors.New(
	"ConfirmDeliveryCommand must be created via NewConfirmDeliveryCommand constructor",
)

// ConfirmDeliveryCommand represents the doorstep handover of an order. The
// delivery partner submits the confirmation code read out by the buyer and,
// for cash-on-delivery orders, whether the cash was actually collected.
//
// codCollected is a tri-state: nil means the partner app did not record the
// outcome (rejected for COD orders), true settles the payment before the code
// check, false routes the order into the failed-delivery path without
// touching the code at all.
//
// Example:
//
//	cmd, err := NewConfirmDeliveryCommand(orderID, "482913", nil)
//	if err != nil {
//	    return err
//	}
//
//	err = handler.Handle(ctx, cmd)
//	if errors.Is(err, order.ErrOTPMismatch) {
//	    // wrong code, the buyer should read it again; retry freely
//	}
type ConfirmDeliveryCommand struct { //nolint:recvcheck //using for validation
	orderID      kernel.UUID
	otp          string
	codCollected *bool

	guard guard.ConstructorGuard
}

// NewConfirmDeliveryCommand creates a command to confirm a delivery.
// The code is passed through untouched; comparing it against the order is
// the aggregate's job, and the COD non-collection path never looks at it.
func NewConfirmDeliveryCommand(
	orderID kernel.UUID,
	otp string,
	codCollected *bool,
) (ConfirmDeliveryCommand, error) {
	command := ConfirmDeliveryCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := command.setOrderID(orderID); err != nil {
		return ConfirmDeliveryCommand{}, err
	}

	command.otp = otp
	command.codCollected = codCollected
	return command, nil
}

// Validate returns ErrConfirmDeliveryCommandIsNotConstructed
// when the command bypassed its constructor.
func (c ConfirmDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrConfirmDeliveryCommandIsNotConstructed)
}

// OrderID returns the identifier of the order being confirmed.
func (c ConfirmDeliveryCommand) OrderID() kernel.UUID {
	return c.orderID
}

// OTP returns the confirmation code submitted at the door.
func (c ConfirmDeliveryCommand) OTP() string {
	return c.otp
}

// CODCollected returns the recorded cash collection outcome, nil when the
// partner app sent none.
func (c ConfirmDeliveryCommand) CODCollected() *bool {
	return c.codCollected
}

func (c *ConfirmDeliveryCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}
