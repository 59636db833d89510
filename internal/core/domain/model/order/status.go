package order

import (
	"errors"
	"fmt"
)

// ErrUnknownStatus is returned when a raw status string is neither a canonical
// status nor one of the recognized legacy aliases. Raw strings must be
// normalized at the system boundary; all other components consume only
// canonical values.
var ErrUnknownStatus = errors.New("unknown order status")

// Status is the lifecycle state of an order. The happy path runs
//
//	placed ──> confirmed ──> picked ──> packed ──> out_for_delivery ──> delivered ──> returned
//	   │           │            │          │               │
//	   └───────────┴────────────┴──────────┴───────────────┴──> cancelled
//
// Cancellation is reachable from every non-terminal status; returned is
// reachable only from delivered. Delivered, cancelled and returned are
// terminal. Which role may trigger which edge is defined by the transition
// table (see transitions.go); nothing else in the codebase writes a status.
type Status int

const (
	// Unknown is the zero value, deliberately outside the valid set so an
	// uninitialized Status never passes validation.
	Unknown Status = iota

	// Placed is the initial status when an order is first placed by a buyer.
	Placed

	// Confirmed indicates the vendor has accepted the order.
	Confirmed

	// Picked indicates the order's items have been picked from the shelf.
	Picked

	// Packed indicates the order is packed and ready for a delivery partner.
	Packed

	// OutForDelivery indicates a delivery partner has been assigned and is
	// carrying the order to the buyer.
	OutForDelivery

	// Delivered indicates the order has been handed over to the buyer and
	// confirmed via the delivery code. Terminal except for the return path.
	Delivered

	// Cancelled indicates the order was cancelled before delivery or failed
	// at the doorstep. This is a final state with no further transitions.
	Cancelled

	// Returned indicates a delivered order was taken back within the return
	// window. This is a final state with no further transitions.
	Returned
)

// getStatusStrings maps every Status, Unknown included, to its canonical
// name. Used by String, which must render any value it is handed.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:        "unknown",
		Placed:         "placed",
		Confirmed:      "confirmed",
		Picked:         "picked",
		Packed:         "packed",
		OutForDelivery: "out_for_delivery",
		Delivered:      "delivered",
		Cancelled:      "cancelled",
		Returned:       "returned",
	}
}

// getValidStatusStrings maps the eight real lifecycle states and nothing
// else. Validate checks membership here, which is what keeps Unknown out.
func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is deliberately not a member
	return map[Status]string{
		Placed:         "placed",
		Confirmed:      "confirmed",
		Picked:         "picked",
		Packed:         "packed",
		OutForDelivery: "out_for_delivery",
		Delivered:      "delivered",
		Cancelled:      "cancelled",
		Returned:       "returned",
	}
}

// getStatusesByName returns the reverse mapping from canonical status strings
// to Status values. Only canonical names are included; legacy aliases are
// handled separately by getLegacyStatusAliases.
func getStatusesByName() map[string]Status {
	return map[string]Status{
		"placed":           Placed,
		"confirmed":        Confirmed,
		"picked":           Picked,
		"packed":           Packed,
		"out_for_delivery": OutForDelivery,
		"delivered":        Delivered,
		"cancelled":        Cancelled,
		"returned":         Returned,
	}
}

// getLegacyStatusAliases returns the mapping from legacy status strings,
// still produced by older clients, to their canonical Status values.
// Aliases are accepted on input only; persistence and all internal logic
// use canonical values exclusively.
func getLegacyStatusAliases() map[string]Status {
	return map[string]Status{
		"pending":    Placed,
		"processing": Picked,
		"ready":      Packed,
		"shipped":    OutForDelivery,
	}
}

// NormalizeStatus converts a raw status string into its canonical Status value.
//
// It accepts both canonical names ("placed", "out_for_delivery", ...) and
// legacy aliases ("pending", "processing", "ready", "shipped"). Normalization
// is idempotent: normalizing the string form of a canonical status yields the
// same status.
//
// Returns:
//   - (Status, nil) for any canonical name or legacy alias
//   - (Unknown, error) wrapping ErrUnknownStatus for any other input
//
// Example:
//
//	status, err := order.NormalizeStatus("shipped")
//	// status == order.OutForDelivery, err == nil
func NormalizeStatus(raw string) (Status, error) {
	if status, ok := getStatusesByName()[raw]; ok {
		return status, nil
	}
	if status, ok := getLegacyStatusAliases()[raw]; ok {
		return status, nil
	}
	return Unknown, fmt.Errorf("%w: %q", ErrUnknownStatus, raw)
}

// Validate reports whether the value is one of the eight real lifecycle
// states. Unknown and out-of-range values fail with ErrUnknownStatus.
// Callers loading a Status from outside the domain (database rows, request
// payloads) run it through here before use.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return fmt.Errorf("%w: %d is not a valid status", ErrUnknownStatus, int(s))
	}
	return nil
}

// String renders the canonical name of the status, the exact form persisted
// and put on the wire ("placed", "out_for_delivery", ...). Invalid values
// render as "unknown", so it is safe on any Status.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether the status is a final lifecycle state.
//
// Delivered, Cancelled and Returned are terminal: no transition table edge
// leaves them except the admin-only delivered -> returned path, which the
// transition logic handles explicitly.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled || s == Returned
}
