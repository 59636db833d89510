package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrSetPartnerStatusCommandIsNotConstructed = errors.New(
		"SetPartnerStatusCommand must be created via NewSetPartnerStatusCommand constructor",
	)
	ErrStatusFlagIsRequired = errors.New("at least one of active or available must be provided")
)

// SetPartnerStatusCommand represents an admin request to adjust a delivery
// partner's flags: activation (onboarded vs suspended) and availability
// (free vs carrying an order). Either flag may be set on its own; nil leaves
// it untouched.
//
// The availability flag exists for manual corrections; the assignment and
// confirmation flows manage it themselves.
type SetPartnerStatusCommand struct { //nolint:recvcheck //using for validation
	partnerID kernel.UUID
	active    *bool
	available *bool

	guard guard.ConstructorGuard
}

// NewSetPartnerStatusCommand creates a command to adjust a partner's flags.
// At least one of the two flags must be provided.
func NewSetPartnerStatusCommand(
	partnerID kernel.UUID,
	active *bool,
	available *bool,
) (SetPartnerStatusCommand, error) {
	command := SetPartnerStatusCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setPartnerID(partnerID),
		command.setFlags(active, available),
	); err != nil {
		return SetPartnerStatusCommand{}, err
	}

	return command, nil
}

// Validate returns ErrSetPartnerStatusCommandIsNotConstructed
// when the command bypassed its constructor.
func (c SetPartnerStatusCommand) Validate() error {
	return c.guard.Validate(ErrSetPartnerStatusCommandIsNotConstructed)
}

// PartnerID returns the identifier of the partner being adjusted.
func (c SetPartnerStatusCommand) PartnerID() kernel.UUID {
	return c.partnerID
}

// Active returns the requested activation flag, nil when unchanged.
func (c SetPartnerStatusCommand) Active() *bool {
	return c.active
}

// Available returns the requested availability flag, nil when unchanged.
func (c SetPartnerStatusCommand) Available() *bool {
	return c.available
}

func (c *SetPartnerStatusCommand) setPartnerID(partnerID kernel.UUID) error {
	if err := partnerID.Validate(); err != nil {
		return err
	}

	c.partnerID = partnerID
	return nil
}

func (c *SetPartnerStatusCommand) setFlags(active *bool, available *bool) error {
	if active == nil && available == nil {
		return ErrStatusFlagIsRequired
	}

	c.active = active
	c.available = available
	return nil
}
