package commands

import (
	"errors"

	"fulfillment/internal/pkg/guard"
)

var ErrDispatchOrderCommandIsNotConstructed = errors.New(
	"DispatchOrderCommand must be created via NewDispatchOrderCommand constructor",
)

// DispatchOrderCommand asks the dispatcher to hand the oldest packed order
// to a free delivery partner. The command names neither side of the match:
// the order comes off the head of the packed queue and the partner out of
// the available pool. The cron-driven dispatch job issues one of these per
// tick, which is what keeps packed orders moving without an ops click.
type DispatchOrderCommand struct {
	guard guard.ConstructorGuard
}

// NewDispatchOrderCommand creates a dispatch trigger. It carries no
// parameters; the handler works out the match itself.
func NewDispatchOrderCommand() DispatchOrderCommand {
	return DispatchOrderCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate returns ErrDispatchOrderCommandIsNotConstructed
// when the command bypassed its constructor.
func (c DispatchOrderCommand) Validate() error {
	return c.guard.Validate(ErrDispatchOrderCommandIsNotConstructed)
}
