package order

import (
	"errors"
	"fmt"
)

// ErrUnknownRole is returned when a raw role string does not name one of the
// marketplace actor roles.
var ErrUnknownRole = errors.New("unknown actor role")

// Role identifies the kind of actor attempting an order transition.
// The transition table gates every edge of the lifecycle on the actor's role,
// so the permission matrix is defined once instead of being repeated at each
// call site.
type Role string

const (
	// RoleBuyer is the customer who placed the order.
	RoleBuyer Role = "buyer"

	// RoleVendor is the store fulfilling the order.
	RoleVendor Role = "vendor"

	// RoleDeliveryPartner is the courier carrying the order. Delivery
	// partners never transition orders directly; they act through the
	// delivery confirmation protocol.
	RoleDeliveryPartner Role = "delivery_partner"

	// RoleAdmin is a marketplace operator with elevated permissions.
	RoleAdmin Role = "admin"

	// RoleSystem marks transitions triggered by the application itself,
	// such as the automatic move to out_for_delivery after assignment.
	// It is never accepted from external input.
	RoleSystem Role = "system"
)

// getExternalRoles returns the set of roles accepted from external input.
// RoleSystem is intentionally excluded: it exists only for transitions the
// application triggers on its own behalf.
func getExternalRoles() map[Role]struct{} {
	return map[Role]struct{}{
		RoleBuyer:           {},
		RoleVendor:          {},
		RoleDeliveryPartner: {},
		RoleAdmin:           {},
	}
}

// ParseRole converts a raw role string from external input into a Role.
//
// Returns:
//   - (Role, nil) for "buyer", "vendor", "delivery_partner" or "admin"
//   - ("", error) wrapping ErrUnknownRole for anything else, including "system"
func ParseRole(raw string) (Role, error) {
	role := Role(raw)
	if _, ok := getExternalRoles()[role]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, raw)
	}
	return role, nil
}

// String returns the role's wire representation.
func (r Role) String() string {
	return string(r)
}
