package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var ErrFailDeliveryCommandIsNotConstructed = errors.New(
	"FailDeliveryCommand must be created via NewFailDeliveryCommand constructor",
)

// FailDeliveryCommand represents a doorstep failure reported by the delivery
// partner: nobody home, wrong address, the buyer refused the package, the
// package arrived damaged, or something else. The raw reason must name one of
// the enumerated failure codes; free-text context goes into notes.
type FailDeliveryCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	reason  order.FailureReason
	notes   string

	guard guard.ConstructorGuard
}

// NewFailDeliveryCommand creates a command to report a failed delivery.
// Rejects reasons outside the enumerated failure set.
func NewFailDeliveryCommand(
	orderID kernel.UUID,
	rawReason string,
	notes string,
) (FailDeliveryCommand, error) {
	command := FailDeliveryCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setOrderID(orderID),
		command.setReason(rawReason),
	); err != nil {
		return FailDeliveryCommand{}, err
	}

	command.notes = notes
	return command, nil
}

// Validate returns ErrFailDeliveryCommandIsNotConstructed
// when the command bypassed its constructor.
func (c FailDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrFailDeliveryCommandIsNotConstructed)
}

// OrderID returns the identifier of the order whose delivery failed.
func (c FailDeliveryCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Reason returns the enumerated failure reason.
func (c FailDeliveryCommand) Reason() order.FailureReason {
	return c.reason
}

// Notes returns the partner's free-text context, possibly empty.
func (c FailDeliveryCommand) Notes() string {
	return c.notes
}

func (c *FailDeliveryCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *FailDeliveryCommand) setReason(rawReason string) error {
	reason, err := order.ParseFailureReason(rawReason)
	if err != nil {
		return err
	}

	c.reason = reason
	return nil
}
