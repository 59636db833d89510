package order

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// PaymentMode describes how the buyer pays for an order. It is fixed at
// placement and never changes afterwards.
type PaymentMode int

const (
	// PaymentModeUnknown represents an invalid or undefined payment mode.
	PaymentModeUnknown PaymentMode = iota

	// PaymentModeOnline means the order was paid for at checkout.
	PaymentModeOnline

	// PaymentModeCashOnDelivery means payment is collected by the delivery
	// partner at the doorstep. Orders in this mode go through the COD
	// reconciliation step of the delivery confirmation protocol.
	PaymentModeCashOnDelivery
)

// getPaymentModeStrings returns a map of PaymentMode values to their string
// representations.
func getPaymentModeStrings() map[PaymentMode]string {
	return map[PaymentMode]string{
		PaymentModeUnknown:        "unknown",
		PaymentModeOnline:         "online",
		PaymentModeCashOnDelivery: "cash_on_delivery",
	}
}

// ParsePaymentMode converts a raw payment mode string into a PaymentMode.
// Accepted values are "online" and "cash_on_delivery".
func ParsePaymentMode(raw string) (PaymentMode, error) {
	switch raw {
	case "online":
		return PaymentModeOnline, nil
	case "cash_on_delivery":
		return PaymentModeCashOnDelivery, nil
	default:
		return PaymentModeUnknown, errs.NewValueIsInvalidErrorWithCause(
			"payment mode",
			fmt.Errorf("%q is not a valid payment mode", raw),
		)
	}
}

// Validate checks if the PaymentMode value is valid.
func (m PaymentMode) Validate() error {
	if m != PaymentModeOnline && m != PaymentModeCashOnDelivery {
		return errs.NewValueIsInvalidErrorWithCause(
			"payment mode",
			fmt.Errorf("%d is not a valid payment mode", int(m)),
		)
	}
	return nil
}

// String returns the payment mode's wire representation.
// Returns "unknown" for invalid values.
func (m PaymentMode) String() string {
	if str, ok := getPaymentModeStrings()[m]; ok {
		return str
	}
	return "unknown"
}

// PaymentStatus tracks settlement of the order's payment. It is deliberately
// independent of the fulfillment Status: an order can be delivered but
// unpaid, or paid but cancelled. The fulfillment core only ever moves it
// from pending to paid when a COD collection succeeds; online orders are
// settled at checkout and start out paid.
type PaymentStatus int

const (
	// PaymentStatusUnknown represents an invalid or undefined payment status.
	PaymentStatusUnknown PaymentStatus = iota

	// PaymentStatusPending means payment has not been collected yet.
	PaymentStatusPending

	// PaymentStatusPaid means payment has been settled.
	PaymentStatusPaid
)

// getPaymentStatusStrings returns a map of PaymentStatus values to their
// string representations.
func getPaymentStatusStrings() map[PaymentStatus]string {
	return map[PaymentStatus]string{
		PaymentStatusUnknown: "unknown",
		PaymentStatusPending: "pending",
		PaymentStatusPaid:    "paid",
	}
}

// ParsePaymentStatus converts a raw payment status string into a PaymentStatus.
// Accepted values are "pending" and "paid".
func ParsePaymentStatus(raw string) (PaymentStatus, error) {
	switch raw {
	case "pending":
		return PaymentStatusPending, nil
	case "paid":
		return PaymentStatusPaid, nil
	default:
		return PaymentStatusUnknown, errs.NewValueIsInvalidErrorWithCause(
			"payment status",
			fmt.Errorf("%q is not a valid payment status", raw),
		)
	}
}

// Validate checks if the PaymentStatus value is valid.
func (s PaymentStatus) Validate() error {
	if s != PaymentStatusPending && s != PaymentStatusPaid {
		return errs.NewValueIsInvalidErrorWithCause(
			"payment status",
			fmt.Errorf("%d is not a valid payment status", int(s)),
		)
	}
	return nil
}

// String returns the payment status's wire representation.
// Returns "unknown" for invalid values.
func (s PaymentStatus) String() string {
	if str, ok := getPaymentStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}
