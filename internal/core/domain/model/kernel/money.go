package kernel

import (
	"errors"
	"fmt"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// CurrencyCodeLength is the required length of an ISO 4217 alphabetic currency code.
const CurrencyCodeLength = 3

// ErrMoneyIsNotConstructed is returned when attempting to use an improperly initialized Money.
// Money values must be created using the NewMoney constructor to ensure validity.
var ErrMoneyIsNotConstructed = errs.NewValueIsRequiredError(
	"money must be created via the NewMoney constructor")

// ErrCurrencyMismatch is returned when an arithmetic operation combines
// Money values denominated in different currencies.
var ErrCurrencyMismatch = errs.NewValueIsInvalidError("currency codes of both operands must match")

// Money represents a monetary amount in a specific currency.
// Amounts are stored in the currency's minor units (e.g. paise for INR, cents for USD)
// to avoid floating-point rounding issues. Money is an immutable value object;
// arithmetic operations return new instances.
//
// The zero value of Money is invalid and will fail validation - use NewMoney to create instances.
//
// Example:
//
//	price, err := kernel.NewMoney(12999, "INR")
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("Price: %s", price) // Output: Price: Money(12999 INR)
type Money struct { //nolint:recvcheck //using for validation
	amount   int64
	currency string
	guard    guard.ConstructorGuard
}

// NewMoney creates a new Money value with the specified amount and currency.
// The amount must be non-negative and the currency must be a three-letter
// uppercase ISO 4217 code such as "INR" or "USD".
//
// Parameters:
//   - amount: The monetary amount in minor units (must be >= 0)
//   - currency: The ISO 4217 alphabetic currency code (exactly 3 uppercase letters)
//
// Returns:
//   - Money: A valid money instance
//   - error: Validation error if the amount is negative or the currency code is malformed
//
// Example:
//
//	price, err := NewMoney(4550, "INR")
//	if err != nil {
//	    log.Fatal("Invalid price:", err)
//	}
//	// price is now ready to use
func NewMoney(amount int64, currency string) (Money, error) {
	m := Money{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(m.setAmount(amount), m.setCurrency(currency)); err != nil {
		return Money{}, err
	}

	return m, nil
}

// Validate checks if the Money was properly constructed using the constructor.
// The zero value of Money is invalid and will fail this validation.
//
// Returns:
//   - error: ErrMoneyIsNotConstructed if the money was not properly initialized, nil otherwise
func (m Money) Validate() error {
	return m.guard.Validate(ErrMoneyIsNotConstructed)
}

// Amount returns the monetary amount in the currency's minor units.
// The returned amount is guaranteed to be non-negative for properly
// constructed Money instances.
func (m Money) Amount() int64 {
	return m.amount
}

// Currency returns the three-letter ISO 4217 currency code.
func (m Money) Currency() string {
	return m.currency
}

// String formats the Money as "Money(amount currency)" for logs and debug output.
//
// Example:
//
//	price, _ := NewMoney(12999, "INR")
//	fmt.Println(price.String()) // Output: Money(12999 INR)
func (m Money) String() string {
	return fmt.Sprintf("Money(%d %s)", m.amount, m.currency)
}

// IsEqual compares two Money values for equality.
// Two Money values are considered equal if they have the same amount and currency.
// Both values must be properly constructed (pass validation) for the comparison to succeed.
//
// Parameters:
//   - other: The Money to compare with
//
// Returns:
//   - bool: true if the values are equal, false otherwise
//   - error: Validation error if either value is improperly constructed
//
// Example:
//
//	a, _ := NewMoney(100, "INR")
//	b, _ := NewMoney(100, "INR")
//
//	same, err := a.IsEqual(b)
//	// same = true, err = nil
func (m Money) IsEqual(other Money) (bool, error) {
	if err := errors.Join(m.Validate(), other.Validate()); err != nil {
		return false, err
	}

	return m == other, nil
}

// Add returns the sum of two Money values denominated in the same currency.
// Both values must be properly constructed (pass validation) and share the
// same currency code for the operation to succeed.
//
// Parameters:
//   - other: The Money to add
//
// Returns:
//   - Money: A new Money holding the sum
//   - error: Validation error, or ErrCurrencyMismatch if the currencies differ
//
// Example:
//
//	a, _ := NewMoney(100, "INR")
//	b, _ := NewMoney(250, "INR")
//
//	sum, err := a.Add(b)
//	// sum = Money(350 INR), err = nil
func (m Money) Add(other Money) (Money, error) {
	if err := errors.Join(m.Validate(), other.Validate()); err != nil {
		return Money{}, err
	}

	if m.currency != other.currency {
		return Money{}, ErrCurrencyMismatch
	}

	return NewMoney(m.amount+other.amount, m.currency)
}

// Multiply returns the Money scaled by a non-negative integer factor.
// This is typically used to compute the total price of an order line
// from its unit price and quantity.
//
// Parameters:
//   - factor: The multiplier (must be >= 0)
//
// Returns:
//   - Money: A new Money holding the scaled amount
//   - error: Validation error if the receiver is improperly constructed or the factor is negative
//
// Example:
//
//	unitPrice, _ := NewMoney(4550, "INR")
//
//	total, err := unitPrice.Multiply(3)
//	// total = Money(13650 INR), err = nil
func (m Money) Multiply(factor int64) (Money, error) {
	if err := m.Validate(); err != nil {
		return Money{}, err
	}

	if factor < 0 {
		return Money{}, errs.NewValueIsInvalidError("factor")
	}

	return NewMoney(m.amount*factor, m.currency)
}

// setAmount validates and stores the amount. The private setters take pointer
// receivers; NewMoney calls them on the value it is still building.
func (m *Money) setAmount(amount int64) error {
	if amount < 0 {
		return errs.NewValueIsInvalidError("amount")
	}

	m.amount = amount
	return nil
}

// setCurrency validates and stores the currency code.
func (m *Money) setCurrency(currency string) error {
	if len(currency) != CurrencyCodeLength {
		return errs.NewValueIsInvalidError("currency")
	}
	for _, r := range currency {
		if r < 'A' || r > 'Z' {
			return errs.NewValueIsInvalidError("currency")
		}
	}

	m.currency = currency
	return nil
}
