package order

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTransition is returned when the target status is not
	// reachable from the order's current status, i.e. the edge is not
	// defined in the transition table.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrForbidden is returned when the transition edge exists but the
	// acting role is not permitted to trigger it.
	ErrForbidden = errors.New("actor role is not allowed to perform this transition")

	// ErrPreconditionFailed is returned when the transition edge exists and
	// the role is permitted, but a required precondition does not hold,
	// such as moving to out_for_delivery without an assigned partner.
	ErrPreconditionFailed = errors.New("transition precondition failed")

	// ErrAlreadyTerminal is returned when any transition is attempted on an
	// order in a terminal status (delivered, cancelled or returned), except
	// the admin-only delivered -> returned path.
	ErrAlreadyTerminal = errors.New("order is already in a terminal status")
)

// transitionEdge identifies a single directed edge of the order state machine.
type transitionEdge struct {
	from Status
	to   Status
}

// transitionRule describes who may traverse an edge and what must hold
// before the traversal is applied.
type transitionRule struct {
	// roles lists the actor roles permitted to trigger this edge.
	roles []Role

	// precondition, when non-nil, is checked after the role gate and must
	// return nil for the transition to proceed. Implementations wrap
	// ErrPreconditionFailed.
	precondition func(o *Order) error
}

// allows reports whether the given role may traverse the edge.
func (r transitionRule) allows(role Role) bool {
	for _, allowed := range r.roles {
		if allowed == role {
			return true
		}
	}
	return false
}

// getTransitionRules returns the complete role-gated transition table of the
// order lifecycle. Every status change in the system goes through this table;
// there are no ad hoc status writes elsewhere.
//
// Happy path:
//   - placed -> confirmed: vendor or admin
//   - confirmed -> picked: vendor or admin
//   - picked -> packed: vendor or admin
//   - packed -> out_for_delivery: system only, as the second half of a
//     successful assignment; requires an assigned delivery partner
//   - out_for_delivery -> delivered: system only, reached exclusively through
//     the delivery confirmation protocol
//
// Cancellation:
//   - placed/confirmed -> cancelled: buyer, vendor or admin
//   - picked/packed/out_for_delivery -> cancelled: vendor or admin; the
//     delivery partner's failed-delivery flow cancels through its own path,
//     never through this table
//
// Return:
//   - delivered -> returned: admin only (the return window is enforced by
//     the caller, which owns that configuration)
func getTransitionRules() map[transitionEdge]transitionRule {
	vendorOrAdmin := []Role{RoleVendor, RoleAdmin}
	buyerVendorOrAdmin := []Role{RoleBuyer, RoleVendor, RoleAdmin}
	systemOnly := []Role{RoleSystem}

	return map[transitionEdge]transitionRule{
		{from: Placed, to: Confirmed}:  {roles: vendorOrAdmin},
		{from: Confirmed, to: Picked}:  {roles: vendorOrAdmin},
		{from: Picked, to: Packed}:     {roles: vendorOrAdmin},
		{from: Packed, to: OutForDelivery}: {
			roles:        systemOnly,
			precondition: requireAssignedPartner,
		},
		{from: OutForDelivery, to: Delivered}: {roles: systemOnly},

		{from: Placed, to: Cancelled}:         {roles: buyerVendorOrAdmin},
		{from: Confirmed, to: Cancelled}:      {roles: buyerVendorOrAdmin},
		{from: Picked, to: Cancelled}:         {roles: vendorOrAdmin},
		{from: Packed, to: Cancelled}:         {roles: vendorOrAdmin},
		{from: OutForDelivery, to: Cancelled}: {roles: vendorOrAdmin},

		{from: Delivered, to: Returned}: {roles: []Role{RoleAdmin}},
	}
}

// requireAssignedPartner guards the packed -> out_for_delivery edge:
// an order may only leave the store with a delivery partner bound to it.
func requireAssignedPartner(o *Order) error {
	if o.partnerID == nil {
		return fmt.Errorf("%w: no delivery partner assigned", ErrPreconditionFailed)
	}
	return nil
}
