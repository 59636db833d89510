package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrAssignPartnerCommandIsNotConstructed = errors.New(
	"AssignPartnerCommand must be created via NewAssignPartnerCommand constructor",
)

// AssignPartnerCommand represents a request to hand a packed order to a
// specific delivery partner. Assignment binds the partner to the order and
// moves the order out for delivery in the same transaction, so a packed order
// never carries a dangling partner reference.
//
// Example:
//
//	cmd, err := NewAssignPartnerCommand(orderID, partnerID)
//	if err != nil {
//	    return fmt.Errorf("bad assignment request: %w", err)
//	}
//
//	handler := NewAssignPartnerCommandHandler(uowFactory, notifier)
//	err = handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, order.ErrOrderNotPacked):
//	    // order is not ready to leave the store
//	case errors.Is(err, partner.ErrPartnerUnavailable):
//	    // partner is deactivated or already carrying an order
//	}
type AssignPartnerCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	partnerID kernel.UUID

	guard guard.ConstructorGuard
}

// NewAssignPartnerCommand creates a command to assign a delivery partner to
// an order. Both identifiers must be valid UUIDs.
func NewAssignPartnerCommand(orderID kernel.UUID, partnerID kernel.UUID) (AssignPartnerCommand, error) {
	command := AssignPartnerCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setOrderID(orderID),
		command.setPartnerID(partnerID),
	); err != nil {
		return AssignPartnerCommand{}, err
	}

	return command, nil
}

// Validate returns ErrAssignPartnerCommandIsNotConstructed
// when the command bypassed its constructor.
func (c AssignPartnerCommand) Validate() error {
	return c.guard.Validate(ErrAssignPartnerCommandIsNotConstructed)
}

// OrderID returns the identifier of the order to hand out.
func (c AssignPartnerCommand) OrderID() kernel.UUID {
	return c.orderID
}

// PartnerID returns the identifier of the delivery partner taking the order.
func (c AssignPartnerCommand) PartnerID() kernel.UUID {
	return c.partnerID
}

func (c *AssignPartnerCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *AssignPartnerCommand) setPartnerID(partnerID kernel.UUID) error {
	if err := partnerID.Validate(); err != nil {
		return err
	}

	c.partnerID = partnerID
	return nil
}
