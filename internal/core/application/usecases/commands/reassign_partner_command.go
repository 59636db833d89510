package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var ErrReassignPartnerCommandIsNotConstructed = errors.New(
	"ReassignPartnerCommand must be created via NewReassignPartnerCommand constructor",
)

// ReassignPartnerCommand represents an admin request to move an in-flight
// delivery to a different partner, for example when the assigned partner's
// vehicle breaks down. The order stays out for delivery; only the partner
// reference changes.
type ReassignPartnerCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	partnerID kernel.UUID
	role      order.Role

	guard guard.ConstructorGuard
}

// NewReassignPartnerCommand creates a command to swap the delivery partner on
// an order that is out for delivery. The raw role identifies the requesting
// actor; the handler only accepts admins.
func NewReassignPartnerCommand(
	orderID kernel.UUID,
	partnerID kernel.UUID,
	rawRole string,
) (ReassignPartnerCommand, error) {
	command := ReassignPartnerCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setOrderID(orderID),
		command.setPartnerID(partnerID),
		command.setRole(rawRole),
	); err != nil {
		return ReassignPartnerCommand{}, err
	}

	return command, nil
}

// Validate returns ErrReassignPartnerCommandIsNotConstructed
// when the command bypassed its constructor.
func (c ReassignPartnerCommand) Validate() error {
	return c.guard.Validate(ErrReassignPartnerCommandIsNotConstructed)
}

// OrderID returns the identifier of the order being reassigned.
func (c ReassignPartnerCommand) OrderID() kernel.UUID {
	return c.orderID
}

// PartnerID returns the identifier of the partner taking over the delivery.
func (c ReassignPartnerCommand) PartnerID() kernel.UUID {
	return c.partnerID
}

// Role returns the role of the actor requesting the reassignment.
func (c ReassignPartnerCommand) Role() order.Role {
	return c.role
}

func (c *ReassignPartnerCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *ReassignPartnerCommand) setPartnerID(partnerID kernel.UUID) error {
	if err := partnerID.Validate(); err != nil {
		return err
	}

	c.partnerID = partnerID
	return nil
}

func (c *ReassignPartnerCommand) setRole(rawRole string) error {
	role, err := order.ParseRole(rawRole)
	if err != nil {
		return err
	}

	c.role = role
	return nil
}
