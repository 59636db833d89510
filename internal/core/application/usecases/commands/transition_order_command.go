package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var ErrTransitionOrderCommandIsNotConstructed = errors.New(
	"TransitionOrderCommand must be created via NewTransitionOrderCommand constructor",
)

// TransitionOrderCommand represents a request to move an order to another
// lifecycle status on behalf of an actor. The raw status accepts both
// canonical names and the legacy aliases still used by older clients
// (pending, processing, ready, shipped); normalization happens here, exactly
// once, so everything past the command works in canonical terms.
//
// The reason is recorded only when the target is cancelled; it is ignored for
// every other target.
//
// Example:
//
//	cmd, err := NewTransitionOrderCommand(orderID, "shipped", "vendor", "")
//	if err != nil {
//	    return fmt.Errorf("bad transition request: %w", err)
//	}
//
//	handler := NewTransitionOrderCommandHandler(uowFactory, notifier, releaser, returnWindow)
//	err = handler.Handle(ctx, cmd)
//	if errors.Is(err, order.ErrForbidden) {
//	    // actor may not perform this transition
//	}
type TransitionOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	target  order.Status
	role    order.Role
	reason  string

	guard guard.ConstructorGuard
}

// NewTransitionOrderCommand creates a command to transition an order.
// Normalizes the raw status (canonical or legacy alias) and parses the actor
// role; unknown values are rejected here so handlers only ever see canonical
// statuses and real roles.
func NewTransitionOrderCommand(
	orderID kernel.UUID,
	rawStatus string,
	rawRole string,
	reason string,
) (TransitionOrderCommand, error) {
	command := TransitionOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setOrderID(orderID),
		command.setTarget(rawStatus),
		command.setRole(rawRole),
	); err != nil {
		return TransitionOrderCommand{}, err
	}

	command.reason = reason
	return command, nil
}

// Validate returns ErrTransitionOrderCommandIsNotConstructed
// when the command bypassed its constructor.
func (c TransitionOrderCommand) Validate() error {
	return c.guard.Validate(ErrTransitionOrderCommandIsNotConstructed)
}

// OrderID returns the identifier of the order to transition.
func (c TransitionOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Target returns the canonical status the order should move to.
func (c TransitionOrderCommand) Target() order.Status {
	return c.target
}

// Role returns the role of the actor requesting the transition.
func (c TransitionOrderCommand) Role() order.Role {
	return c.role
}

// Reason returns the free-text cancellation reason, empty for other targets.
func (c TransitionOrderCommand) Reason() string {
	return c.reason
}

func (c *TransitionOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *TransitionOrderCommand) setTarget(rawStatus string) error {
	target, err := order.NormalizeStatus(rawStatus)
	if err != nil {
		return err
	}

	c.target = target
	return nil
}

func (c *TransitionOrderCommand) setRole(rawRole string) error {
	role, err := order.ParseRole(rawRole)
	if err != nil {
		return err
	}

	c.role = role
	return nil
}
