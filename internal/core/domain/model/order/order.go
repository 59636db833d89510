package order

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed flags an Order that bypassed the NewOrder and
	// RestoreOrder factories, and with them the aggregate's validation.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrOrderNotPacked is returned when assignment is attempted on an order
	// that has not reached the packed status.
	ErrOrderNotPacked = errors.New("order is not packed")
)

// Timestamps groups the per-status timestamp fields of an order. PlacedAt is
// always set; every other field is nil until the order reaches the
// corresponding status and is set exactly once, never overwritten.
type Timestamps struct {
	PlacedAt         time.Time
	ConfirmedAt      *time.Time
	PickedAt         *time.Time
	PackedAt         *time.Time
	OutForDeliveryAt *time.Time
	DeliveredAt      *time.Time
	CancelledAt      *time.Time
	ReturnedAt       *time.Time
}

// Order represents a marketplace order in the system. It is the aggregate root
// that manages the fulfillment lifecycle from placement through delivery,
// cancellation or return.
//
// Invariants:
//   - Must have a valid unique identifier and a non-empty order number
//   - Status changes follow the role-gated transition table; there are no
//     ad hoc status writes
//   - A status timestamp is non-nil exactly when the order has reached that
//     status, and is never overwritten once set
//   - The delivery partner reference is nil until assignment and non-nil for
//     every status from out_for_delivery onward on the happy path
//   - The delivery confirmation code is immutable once generated
//   - Can only be created through NewOrder or RestoreOrder
//
// All fields are private; the aggregate's methods are the only way to change
// an order once it exists.
type Order struct {
	// id identifies the aggregate across its whole lifetime
	id kernel.UUID

	// number is the human-readable order number, immutable once assigned
	number string

	// status is the current lifecycle state, written only by transition
	status Status

	// paymentMode is how the buyer pays, fixed at placement
	paymentMode PaymentMode

	// paymentStatus tracks settlement independently of fulfillment
	paymentStatus PaymentStatus

	// partnerID is the assigned delivery partner's ID (nil if unassigned)
	partnerID *kernel.UUID

	// deliveryOTP is the numeric code the delivery partner must present
	// to confirm delivery; shown only to the buyer
	deliveryOTP string

	// items are the order lines with prices locked at placement
	items []*Item

	// placedAt is when the order was placed; the remaining status
	// timestamps live in the nullable fields below
	placedAt         time.Time
	confirmedAt      *time.Time
	pickedAt         *time.Time
	packedAt         *time.Time
	outForDeliveryAt *time.Time
	deliveredAt      *time.Time
	cancelledAt      *time.Time
	returnedAt       *time.Time

	// cancellationReason is free text set only when the order is cancelled
	cancellationReason string

	// failureReason is the enumerated doorstep failure, set only by the
	// failed-delivery flow
	failureReason FailureReason

	// version is the optimistic-concurrency version as loaded from
	// persistence; the repository increments it on every update
	version int

	// isConstructed ensures the order was created via a factory method
	isConstructed bool
}

// NewOrder creates a new Order at the moment of placement. This is the only
// way to create an order that has not been persisted before.
//
// The order starts in the Placed status with placedAt set to the given time.
// Online orders start with payment settled at checkout; cash-on-delivery
// orders start with payment pending until the doorstep collection.
//
// Parameters:
//   - id: Unique identifier for the order (must be a valid UUID)
//   - number: Human-readable order number (must not be empty)
//   - paymentMode: How the buyer pays (online or cash_on_delivery)
//   - deliveryOTP: The generated delivery confirmation code (OTPLength digits)
//   - items: The order lines (must contain at least one item)
//   - placedAt: The placement time (must not be the zero time)
//
// Returns:
//   - *Order: A fully initialized order in the placed status
//   - error: Validation error if the number, payment mode, confirmation
//     code, items or placement time fail their checks
//
// Example:
//
//	otp, _ := order.GenerateOTP()
//	number, _ := order.NewOrderNumber(now)
//	o, err := order.NewOrder(kernel.NewUUID(), number, order.PaymentModeOnline, otp, items, now)
//	if err != nil {
//	    return err
//	}
func NewOrder(
	id kernel.UUID,
	number string,
	paymentMode PaymentMode,
	deliveryOTP string,
	items []*Item,
	placedAt time.Time,
) (*Order, error) {
	order := &Order{
		status:        Placed,
		version:       1,
		isConstructed: true,
	}

	if err := errors.Join(
		order.setID(id),
		order.setNumber(number),
		order.setPaymentMode(paymentMode),
		order.setDeliveryOTP(deliveryOTP),
		order.setItems(items),
		order.setPlacedAt(placedAt),
	); err != nil {
		return nil, err
	}

	if paymentMode == PaymentModeOnline {
		order.paymentStatus = PaymentStatusPaid
	} else {
		order.paymentStatus = PaymentStatusPending
	}

	return order, nil
}

// RestoreOrderParams carries everything needed to rehydrate an Order from
// persistence. All fields are required except PartnerID, CancellationReason
// and FailureReason, which may be empty depending on the order's history.
type RestoreOrderParams struct {
	ID                 kernel.UUID
	Number             string
	Status             Status
	PaymentMode        PaymentMode
	PaymentStatus      PaymentStatus
	PartnerID          *kernel.UUID
	DeliveryOTP        string
	Items              []*Item
	Timestamps         Timestamps
	CancellationReason string
	FailureReason      FailureReason
	Version            int
}

// RestoreOrder reconstructs an Order from persisted state. It validates the
// identifying and structural fields the same way NewOrder does, then applies
// the persisted lifecycle state as is.
//
// This function is intended for repositories only; application code creates
// orders through NewOrder and mutates them through the lifecycle methods.
func RestoreOrder(params RestoreOrderParams) (*Order, error) {
	order := &Order{
		isConstructed: true,
	}

	if err := errors.Join(
		order.setID(params.ID),
		order.setNumber(params.Number),
		order.setPaymentMode(params.PaymentMode),
		order.setDeliveryOTP(params.DeliveryOTP),
		order.setItems(params.Items),
		order.setPlacedAt(params.Timestamps.PlacedAt),
		order.setVersion(params.Version),
		params.Status.Validate(),
		params.PaymentStatus.Validate(),
	); err != nil {
		return nil, err
	}

	order.status = params.Status
	order.paymentStatus = params.PaymentStatus
	order.partnerID = params.PartnerID
	order.confirmedAt = params.Timestamps.ConfirmedAt
	order.pickedAt = params.Timestamps.PickedAt
	order.packedAt = params.Timestamps.PackedAt
	order.outForDeliveryAt = params.Timestamps.OutForDeliveryAt
	order.deliveredAt = params.Timestamps.DeliveredAt
	order.cancelledAt = params.Timestamps.CancelledAt
	order.returnedAt = params.Timestamps.ReturnedAt
	order.cancellationReason = params.CancellationReason
	order.failureReason = params.FailureReason

	return order, nil
}

// Validate ensures the Order instance was properly constructed through a
// factory method. This prevents bypassing validation by directly
// instantiating the struct.
//
// Returns:
//   - nil for a properly constructed order
//   - ErrOrderIsNotConstructed for a zero value or a nil receiver
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}

	return nil
}

// IsEqual reports whether two orders carry the same identifier.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the identifier assigned at placement.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// Number returns the human-readable order number.
func (o *Order) Number() string {
	return o.number
}

// Status returns the order's current lifecycle status.
func (o *Order) Status() Status {
	return o.status
}

// PaymentMode returns how the buyer pays for the order.
func (o *Order) PaymentMode() PaymentMode {
	return o.paymentMode
}

// PaymentStatus returns the settlement state of the order's payment.
func (o *Order) PaymentStatus() PaymentStatus {
	return o.paymentStatus
}

// Partner returns the assigned delivery partner's ID.
// Returns nil if no partner is assigned.
func (o *Order) Partner() *kernel.UUID {
	return o.partnerID
}

// DeliveryOTP returns the delivery confirmation code. Callers are responsible
// for exposing it to the buyer only.
func (o *Order) DeliveryOTP() string {
	return o.deliveryOTP
}

// Items returns the order lines. The returned slice is a copy; the items
// themselves are shared.
func (o *Order) Items() []*Item {
	items := make([]*Item, len(o.items))
	copy(items, o.items)
	return items
}

// Timestamps returns the per-status timestamps of the order.
func (o *Order) Timestamps() Timestamps {
	return Timestamps{
		PlacedAt:         o.placedAt,
		ConfirmedAt:      o.confirmedAt,
		PickedAt:         o.pickedAt,
		PackedAt:         o.packedAt,
		OutForDeliveryAt: o.outForDeliveryAt,
		DeliveredAt:      o.deliveredAt,
		CancelledAt:      o.cancelledAt,
		ReturnedAt:       o.returnedAt,
	}
}

// CancellationReason returns the free-text reason recorded when the order was
// cancelled, or an empty string for non-cancelled orders.
func (o *Order) CancellationReason() string {
	return o.cancellationReason
}

// FailureReason returns the enumerated doorstep failure recorded by the
// failed-delivery flow, or an empty value if the order never failed.
func (o *Order) FailureReason() FailureReason {
	return o.failureReason
}

// Version returns the optimistic-concurrency version the order was loaded
// with. The repository uses it as the compare-and-swap precondition when
// persisting changes.
func (o *Order) Version() int {
	return o.version
}

// TransitionTo attempts to move the order to the target status on behalf of
// the given role.
//
// The attempt is checked in this sequence:
//  1. The target must be a canonical status.
//  2. If the order is already in the target status, the call is an
//     idempotent no-op: (false, nil). Duplicate submissions from flaky
//     clients are expected and must not fail.
//  3. Terminal statuses reject everything else with ErrAlreadyTerminal,
//     except the admin-only delivered -> returned edge.
//  4. The edge must exist in the transition table (ErrInvalidTransition),
//     the role must be permitted on it (ErrForbidden), and its
//     precondition, if any, must hold (ErrPreconditionFailed).
//
// On success the status changes and the target's timestamp is recorded if it
// has not been set before.
//
// Returns:
//   - (true, nil) if the order changed
//   - (false, nil) if the order was already in the target status
//   - (false, error) if the transition was rejected
func (o *Order) TransitionTo(target Status, role Role, now time.Time) (bool, error) {
	return o.transition(target, role, now)
}

// Cancel cancels the order on behalf of the given role, recording an optional
// free-text reason.
//
// Cancellation follows the same transition rules as TransitionTo with
// Cancelled as the target: buyers may cancel only while the order is placed
// or confirmed, vendors and admins may cancel any non-terminal order. The
// reason is recorded only when the order actually changes.
//
// Returns:
//   - (true, nil) if the order was cancelled
//   - (false, nil) if the order was already cancelled
//   - (false, error) if cancellation was rejected
func (o *Order) Cancel(role Role, reason string, now time.Time) (bool, error) {
	changed, err := o.transition(Cancelled, role, now)
	if err != nil {
		return false, err
	}

	if changed {
		o.cancellationReason = reason
	}
	return changed, nil
}

// AssignPartner binds the order to a delivery partner and moves it to
// out_for_delivery in one step. The transition runs as the system, not as
// any user role.
//
// The partner ID must be valid and the order must be in the Packed status
// (ErrOrderNotPacked otherwise). The partner reference and the transition
// succeed or fail together; the reference is never left dangling on a
// packed order.
func (o *Order) AssignPartner(partnerID kernel.UUID, now time.Time) error {
	if err := partnerID.Validate(); err != nil {
		return err
	}

	if o.status != Packed {
		return fmt.Errorf("%w: status is %s", ErrOrderNotPacked, o.status)
	}

	o.partnerID = &partnerID
	if _, err := o.transition(OutForDelivery, RoleSystem, now); err != nil {
		o.partnerID = nil
		return err
	}

	return nil
}

// ReassignPartner replaces the delivery partner reference on an order that is
// already out for delivery. It does not re-trigger the out_for_delivery
// transition and records no timestamp; the status is already past packed.
//
// Only admins may reassign; the caller enforces that gate.
func (o *Order) ReassignPartner(partnerID kernel.UUID) error {
	if err := partnerID.Validate(); err != nil {
		return err
	}

	if o.status != OutForDelivery {
		return fmt.Errorf("%w: reassignment requires an order out for delivery, status is %s",
			ErrPreconditionFailed, o.status)
	}

	o.partnerID = &partnerID
	return nil
}

// ConfirmDelivery runs the delivery confirmation protocol on an order that is
// out for delivery.
//
// For cash-on-delivery orders the collection outcome must be recorded first:
//   - codCollected == nil is rejected with ErrPreconditionFailed
//   - codCollected == false routes the order into the failed-delivery path
//     with the fixed reason "payment not collected", bypassing the code check
//   - codCollected == true marks the payment as paid and proceeds
//
// The submitted code must then exactly match the order's stored delivery
// confirmation code; on a mismatch the order is unchanged and ErrOTPMismatch
// is returned. There is no attempt limit here; rate limiting, if needed,
// belongs to an outer layer. On a match the order moves to Delivered.
//
// Confirming an already delivered order is an idempotent no-op: (false, nil),
// regardless of the submitted code.
//
// Returns:
//   - (true, nil) if the order changed; inspect Status() to distinguish a
//     successful delivery from a COD non-collection cancellation
//   - (false, nil) if the order was already delivered
//   - (false, error) if confirmation was rejected
func (o *Order) ConfirmDelivery(otp string, codCollected *bool, now time.Time) (bool, error) {
	if o.status == Delivered {
		return false, nil
	}
	if o.status == Cancelled || o.status == Returned {
		return false, fmt.Errorf("%w: %s", ErrAlreadyTerminal, o.status)
	}
	if o.status != OutForDelivery {
		return false, fmt.Errorf("%w: delivery confirmation requires %s, order is %s",
			ErrInvalidTransition, OutForDelivery, o.status)
	}

	if o.paymentMode == PaymentModeCashOnDelivery {
		if codCollected == nil {
			return false, fmt.Errorf("%w: cash collection must be recorded for a %s order",
				ErrPreconditionFailed, PaymentModeCashOnDelivery)
		}
		if !*codCollected {
			o.failInternal("payment not collected", now)
			return true, nil
		}
		o.paymentStatus = PaymentStatusPaid
	}

	if otp != o.deliveryOTP {
		return false, ErrOTPMismatch
	}

	if _, err := o.transition(Delivered, RoleSystem, now); err != nil {
		return false, err
	}
	return true, nil
}

// FailDelivery records a doorstep failure reported by the delivery partner
// and cancels the order. A failed delivery is terminal; retrying the delivery
// means placing a new order.
//
// The reason must come from the enumerated failure set; optional free-text
// notes are appended to the recorded cancellation reason. Reporting a failure
// on an order that is already cancelled is an idempotent no-op, which allows
// the partner app to resubmit safely.
//
// Returns:
//   - (true, nil) if the order was cancelled
//   - (false, nil) if the order was already cancelled
//   - (false, error) if the failure report was rejected
func (o *Order) FailDelivery(reason FailureReason, notes string, now time.Time) (bool, error) {
	if err := reason.Validate(); err != nil {
		return false, err
	}

	if o.status == Cancelled {
		return false, nil
	}
	if o.status == Delivered || o.status == Returned {
		return false, fmt.Errorf("%w: %s", ErrAlreadyTerminal, o.status)
	}
	if o.status != OutForDelivery {
		return false, fmt.Errorf("%w: failed delivery requires %s, order is %s",
			ErrInvalidTransition, OutForDelivery, o.status)
	}

	cancellationReason := reason.String()
	if notes != "" {
		cancellationReason = fmt.Sprintf("%s: %s", reason, notes)
	}

	o.failInternal(cancellationReason, now)
	o.failureReason = reason
	return true, nil
}

// transition is the single place the status field changes. Every public
// lifecycle method funnels through here so the checks in TransitionTo's
// documentation hold everywhere.
func (o *Order) transition(target Status, role Role, now time.Time) (bool, error) {
	if err := target.Validate(); err != nil {
		return false, err
	}

	if target == o.status {
		return false, nil
	}

	if o.status.IsTerminal() && !(o.status == Delivered && target == Returned) {
		return false, fmt.Errorf("%w: %s", ErrAlreadyTerminal, o.status)
	}

	rule, ok := getTransitionRules()[transitionEdge{from: o.status, to: target}]
	if !ok {
		return false, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.status, target)
	}

	if !rule.allows(role) {
		return false, fmt.Errorf("%w: %s may not move an order from %s to %s",
			ErrForbidden, role, o.status, target)
	}

	if rule.precondition != nil {
		if err := rule.precondition(o); err != nil {
			return false, err
		}
	}

	o.status = target
	o.stampStatus(target, now)
	return true, nil
}

// failInternal cancels the order outside the role-gated table. It backs the
// failed-delivery flow, which belongs to the delivery partner but must not
// give that role a general cancellation permission.
func (o *Order) failInternal(reason string, now time.Time) {
	o.status = Cancelled
	o.stampStatus(Cancelled, now)
	o.cancellationReason = reason
}

// stampStatus records the timestamp for a freshly reached status. A timestamp
// already set is never overwritten.
func (o *Order) stampStatus(status Status, now time.Time) {
	//nolint:exhaustive // Placed is stamped at construction and never again
	switch status {
	case Confirmed:
		if o.confirmedAt == nil {
			o.confirmedAt = &now
		}
	case Picked:
		if o.pickedAt == nil {
			o.pickedAt = &now
		}
	case Packed:
		if o.packedAt == nil {
			o.packedAt = &now
		}
	case OutForDelivery:
		if o.outForDeliveryAt == nil {
			o.outForDeliveryAt = &now
		}
	case Delivered:
		if o.deliveredAt == nil {
			o.deliveredAt = &now
		}
	case Cancelled:
		if o.cancelledAt == nil {
			o.cancelledAt = &now
		}
	case Returned:
		if o.returnedAt == nil {
			o.returnedAt = &now
		}
	}
}

// setID validates and sets the order's identifier.
func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

// setNumber validates and sets the human-readable order number.
func (o *Order) setNumber(number string) error {
	if number == "" {
		return errs.NewValueIsRequiredError("number")
	}
	o.number = number
	return nil
}

// setPaymentMode validates and sets the payment mode.
func (o *Order) setPaymentMode(paymentMode PaymentMode) error {
	if err := paymentMode.Validate(); err != nil {
		return err
	}
	o.paymentMode = paymentMode
	return nil
}

// setDeliveryOTP validates and sets the delivery confirmation code.
// The code must be exactly OTPLength decimal digits.
func (o *Order) setDeliveryOTP(deliveryOTP string) error {
	if len(deliveryOTP) != OTPLength {
		return errs.NewValueIsInvalidErrorWithCause(
			"delivery OTP is invalid",
			fmt.Errorf("code must be %d digits", OTPLength),
		)
	}
	for _, r := range deliveryOTP {
		if r < '0' || r > '9' {
			return errs.NewValueIsInvalidErrorWithCause(
				"delivery OTP is invalid",
				fmt.Errorf("code must contain only digits"),
			)
		}
	}
	o.deliveryOTP = deliveryOTP
	return nil
}

// setItems validates and sets the order lines.
// An order must contain at least one item.
func (o *Order) setItems(items []*Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	o.items = items
	return nil
}

// setPlacedAt validates and sets the placement time.
func (o *Order) setPlacedAt(placedAt time.Time) error {
	if placedAt.IsZero() {
		return errs.NewValueIsRequiredError("placedAt")
	}
	o.placedAt = placedAt
	return nil
}

// setVersion validates and sets the persisted optimistic-concurrency version.
// Only RestoreOrder calls this; NewOrder always starts at version 1.
func (o *Order) setVersion(version int) error {
	if version < 1 {
		return errs.NewVersionIsInvalidError("version")
	}
	o.version = version
	return nil
}
