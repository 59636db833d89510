package order

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
)

// OTPLength is the number of digits in a delivery confirmation code.
const OTPLength = 6

// ErrOTPMismatch is returned when the code submitted by the delivery partner
// does not exactly match the order's stored delivery confirmation code.
// The comparison is plain string equality; the code is numeric, so there is
// no normalization or case folding.
var ErrOTPMismatch = errors.New("delivery confirmation code mismatch")

// GenerateOTP returns a random delivery confirmation code of OTPLength
// decimal digits drawn from a cryptographically secure source. Leading zeros
// are kept, so the code is always exactly OTPLength characters long.
//
// The code is generated once at order placement, shown only to the buyer,
// and required from the delivery partner to confirm physical delivery.
func GenerateOTP() (string, error) {
	return randomNumericCode(OTPLength)
}

// randomNumericCode returns a zero-padded string of the given number of
// random decimal digits.
func randomNumericCode(length int) (string, error) {
	limit := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(length)), nil)
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", fmt.Errorf("generate numeric code: %w", err)
	}
	return fmt.Sprintf("%0*d", length, n), nil
}
