package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrCreatePartnerCommandIsNotConstructed = errors.New(
		"CreatePartnerCommand must be created via NewCreatePartnerCommand constructor",
	)
	ErrNameIsRequired  = errors.New("name is required")
	ErrPhoneIsRequired = errors.New("phone is required")
)

// CreatePartnerCommand represents a request to onboard a new delivery
// partner under a display name and a contact number. The partner id is
// generated inside the command rather than accepted from the caller, so an
// onboarding request can never collide with an existing partner.
type CreatePartnerCommand struct { //nolint:recvcheck //using for validation
	partnerID kernel.UUID
	name      string
	phone     string

	guard guard.ConstructorGuard
}

// NewCreatePartnerCommand creates a command to onboard a delivery partner
// under a freshly generated id. Both the name and the phone number must be
// present; anything beyond presence is the aggregate's concern.
func NewCreatePartnerCommand(name string, phone string) (CreatePartnerCommand, error) {
	command := CreatePartnerCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setPartnerID(kernel.NewUUID()),
		command.setName(name),
		command.setPhone(phone),
	); err != nil {
		return CreatePartnerCommand{}, err
	}

	return command, nil
}

// Validate returns ErrCreatePartnerCommandIsNotConstructed
// when the command bypassed its constructor.
func (c CreatePartnerCommand) Validate() error {
	return c.guard.Validate(ErrCreatePartnerCommandIsNotConstructed)
}

// PartnerID returns the generated identifier of the partner being onboarded.
func (c CreatePartnerCommand) PartnerID() kernel.UUID {
	return c.partnerID
}

// Name returns the partner's display name.
func (c CreatePartnerCommand) Name() string {
	return c.name
}

// Phone returns the partner's contact number.
func (c CreatePartnerCommand) Phone() string {
	return c.phone
}

func (c *CreatePartnerCommand) setPartnerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.partnerID = id
	return nil
}

func (c *CreatePartnerCommand) setName(name string) error {
	if name == "" {
		return ErrNameIsRequired
	}

	c.name = name
	return nil
}

func (c *CreatePartnerCommand) setPhone(phone string) error {
	if phone == "" {
		return ErrPhoneIsRequired
	}

	c.phone = phone
	return nil
}
