package order

import (
	"fmt"
	"time"
)

// orderNumberSuffixLength is the number of random digits at the end of an
// order number.
const orderNumberSuffixLength = 6

// NewOrderNumber returns a human-readable order number of the form
// "QC-YYYYMMDD-NNNNNN": the marketplace prefix, the placement date and a
// random numeric suffix. The number is immutable once assigned to an order.
//
// Uniqueness is enforced by the persistence layer; the random suffix keeps
// same-day collisions negligible.
func NewOrderNumber(placedAt time.Time) (string, error) {
	suffix, err := randomNumericCode(orderNumberSuffixLength)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("QC-%s-%s", placedAt.Format("20060102"), suffix), nil
}
