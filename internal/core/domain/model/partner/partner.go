package partner

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// Domain errors for delivery partner operations.
var (
	// ErrNameIsRequired is returned when attempting to create a partner without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrPhoneIsRequired is returned when attempting to create a partner without a phone number.
	ErrPhoneIsRequired = errs.NewValueIsRequiredError("phone")
	// ErrPartnerIsNotConstructed is returned when using an improperly initialized DeliveryPartner.
	ErrPartnerIsNotConstructed = errors.New("DeliveryPartner must be created via NewDeliveryPartner constructor")
	// ErrPartnerUnavailable is returned when a delivery is offered to a partner
	// who is deactivated or already carrying an order.
	ErrPartnerUnavailable = errors.New("delivery partner is unavailable")
)

// DeliveryPartner represents a courier who carries orders from the store to
// the buyer. It is an aggregate root that manages partner identity and the
// availability state the assignment flow depends on.
//
// A partner has two independent flags:
//   - isActive: whether the partner works for the marketplace at all; toggled
//     by admins, e.g. when onboarding or suspending a partner
//   - isAvailable: whether the partner can take a delivery right now; cleared
//     when a delivery is accepted and restored when it ends
//
// Only a partner with both flags set can accept a delivery.
//
// Example usage:
//
//	p, err := NewDeliveryPartner(kernel.NewUUID(), "Ravi Kumar", "+919876543210")
//	if err != nil {
//	    return err
//	}
//	if p.CanAcceptDelivery() {
//	    err = p.MarkBusy()
//	}
type DeliveryPartner struct {
	// id uniquely identifies the partner
	id kernel.UUID
	// name is the partner's display name
	name string
	// phone is the partner's contact number
	phone string
	// isActive is whether the partner is onboarded and not suspended
	isActive bool
	// isAvailable is whether the partner can take a delivery right now
	isAvailable bool
	// guard ensures the partner was properly constructed
	guard guard.ConstructorGuard
}

// NewDeliveryPartner creates a new DeliveryPartner with the specified parameters.
// This is the only way to create a fresh partner instance.
//
// New partners start active and available, ready to accept deliveries.
//
// Parameters:
//   - id: Unique identifier for the partner (must be a valid UUID)
//   - name: Display name (must be non-empty)
//   - phone: Contact number (must be non-empty)
//
// Returns:
//   - *DeliveryPartner: A fully initialized partner
//   - error: Validation error if the name or phone is blank, or the id is malformed
func NewDeliveryPartner(id kernel.UUID, name string, phone string) (*DeliveryPartner, error) {
	partner := &DeliveryPartner{
		isActive:    true,
		isAvailable: true,
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		partner.setID(id),
		partner.setName(name),
		partner.setPhone(phone),
	); err != nil {
		return nil, err
	}

	return partner, nil
}

// RestoreDeliveryPartner reconstructs a DeliveryPartner from persistent
// storage, preserving its availability state at the time of persistence.
//
// Parameters:
//   - id: Unique identifier for the partner
//   - name: Display name
//   - phone: Contact number
//   - isActive: Persisted activation flag
//   - isAvailable: Persisted availability flag
//
// Returns:
//   - *DeliveryPartner: Restored partner aggregate
//   - error: Validation error if the persisted row lacks a name, phone, or valid id
func RestoreDeliveryPartner(
	id kernel.UUID,
	name string,
	phone string,
	isActive bool,
	isAvailable bool,
) (*DeliveryPartner, error) {
	partner := &DeliveryPartner{
		isActive:    isActive,
		isAvailable: isAvailable,
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		partner.setID(id),
		partner.setName(name),
		partner.setPhone(phone),
	); err != nil {
		return nil, err
	}

	return partner, nil
}

// Validate ensures the DeliveryPartner was properly constructed through a
// factory method.
func (p *DeliveryPartner) Validate() error {
	if p == nil {
		return ErrPartnerIsNotConstructed
	}
	return p.guard.Validate(ErrPartnerIsNotConstructed)
}

// IsEqual compares two partners by their unique identifiers.
func (p *DeliveryPartner) IsEqual(other *DeliveryPartner) bool {
	return other != nil && p.id.IsEqual(other.id)
}

// ID returns the partner's unique identifier.
func (p *DeliveryPartner) ID() kernel.UUID {
	return p.id
}

// Name returns the partner's display name.
func (p *DeliveryPartner) Name() string {
	return p.name
}

// Phone returns the partner's contact number.
func (p *DeliveryPartner) Phone() string {
	return p.phone
}

// IsActive reports whether the partner is onboarded and not suspended.
func (p *DeliveryPartner) IsActive() bool {
	return p.isActive
}

// IsAvailable reports whether the partner can take a delivery right now.
func (p *DeliveryPartner) IsAvailable() bool {
	return p.isAvailable
}

// CanAcceptDelivery reports whether a delivery may be assigned to the
// partner: the partner must be active and available at call time.
func (p *DeliveryPartner) CanAcceptDelivery() bool {
	return p.isActive && p.isAvailable
}

// MarkBusy records that the partner accepted a delivery and can take no
// other until it ends.
//
// Returns ErrPartnerUnavailable if the partner is deactivated or already
// busy; the partner is unchanged in that case.
func (p *DeliveryPartner) MarkBusy() error {
	if !p.CanAcceptDelivery() {
		return ErrPartnerUnavailable
	}

	p.isAvailable = false
	return nil
}

// MarkAvailable records that the partner's current delivery ended and the
// partner can take the next one. Marking an inactive partner available does
// not make the partner assignable; activation is a separate admin action.
func (p *DeliveryPartner) MarkAvailable() {
	p.isAvailable = true
}

// SetActive toggles whether the partner is onboarded. Deactivation does not
// touch availability; an order already out for delivery stays with the
// partner until it completes or fails.
func (p *DeliveryPartner) SetActive(active bool) {
	p.isActive = active
}

// SetAvailability sets the availability flag directly. This exists for admin
// corrections; the assignment and confirmation flows use MarkBusy and
// MarkAvailable.
func (p *DeliveryPartner) SetAvailability(available bool) {
	p.isAvailable = available
}

// setID validates and sets the partner's unique identifier.
func (p *DeliveryPartner) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.id = id
	return nil
}

// setName validates and sets the display name.
func (p *DeliveryPartner) setName(name string) error {
	if name == "" {
		return ErrNameIsRequired
	}
	p.name = name
	return nil
}

// setPhone validates and sets the contact number.
func (p *DeliveryPartner) setPhone(phone string) error {
	if phone == "" {
		return ErrPhoneIsRequired
	}
	p.phone = phone
	return nil
}
