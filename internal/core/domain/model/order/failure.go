package order

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// FailureReason is the fixed set of reasons a delivery partner may give when
// a delivery cannot be completed at the doorstep. Free-text detail goes into
// the accompanying notes, never into the reason itself.
type FailureReason string

const (
	// FailureCustomerNotAvailable means nobody answered at the address.
	FailureCustomerNotAvailable FailureReason = "customer_not_available"

	// FailureWrongAddress means the recorded address could not be found or
	// does not belong to the buyer.
	FailureWrongAddress FailureReason = "wrong_address"

	// FailureCustomerRefused means the buyer declined to accept the order.
	FailureCustomerRefused FailureReason = "customer_refused"

	// FailureDamagedPackage means the package was damaged in transit.
	FailureDamagedPackage FailureReason = "damaged_package"

	// FailureOther covers anything outside the specific reasons; the notes
	// should describe what happened.
	FailureOther FailureReason = "other"
)

// getFailureReasons returns the set of valid failure reasons.
func getFailureReasons() map[FailureReason]struct{} {
	return map[FailureReason]struct{}{
		FailureCustomerNotAvailable: {},
		FailureWrongAddress:         {},
		FailureCustomerRefused:      {},
		FailureDamagedPackage:       {},
		FailureOther:                {},
	}
}

// ParseFailureReason converts a raw reason string into a FailureReason.
func ParseFailureReason(raw string) (FailureReason, error) {
	reason := FailureReason(raw)
	if err := reason.Validate(); err != nil {
		return "", err
	}
	return reason, nil
}

// Validate checks if the FailureReason is one of the enumerated values.
func (r FailureReason) Validate() error {
	if _, ok := getFailureReasons()[r]; !ok {
		return errs.NewValueIsInvalidErrorWithCause(
			"failure reason",
			fmt.Errorf("%q is not a valid failure reason", string(r)),
		)
	}
	return nil
}

// String returns the failure reason's wire representation.
func (r FailureReason) String() string {
	return string(r)
}
