package order

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// ErrItemIsNotConstructed is returned when attempting to use an improperly
// initialized Item. Items must be created using the NewItem constructor.
var ErrItemIsNotConstructed = errs.NewValueIsRequiredError(
	"item must be created via the NewItem constructor")

// Item is a single line of an order: a product name with the unit price
// locked at placement, a quantity, and a return-eligibility flag.
//
// The locked price shields the buyer from catalog price changes between
// placement and delivery. Return eligibility does not participate in the
// transition logic; it exists for display and downstream return handling.
type Item struct {
	id             kernel.UUID
	name           string
	unitPrice      kernel.Money
	quantity       int
	returnEligible bool
	guard          guard.ConstructorGuard
}

// NewItem creates a new order line item with validation.
//
// Parameters:
//   - id: Unique identifier for the line item (must be a valid UUID)
//   - name: Product name as shown to the buyer (must not be empty)
//   - unitPrice: Price per unit locked at placement
//   - quantity: Number of units (must be positive)
//   - returnEligible: Whether the item may be returned after delivery
//
// Returns:
//   - *Item: The created item if all validations pass
//   - error: Validation error if the name is empty, the quantity is not
//     positive, or the id or unit price fails its own validation
func NewItem(
	id kernel.UUID,
	name string,
	unitPrice kernel.Money,
	quantity int,
	returnEligible bool,
) (*Item, error) {
	item := &Item{
		returnEligible: returnEligible,
		guard:          guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		item.setID(id),
		item.setName(name),
		item.setUnitPrice(unitPrice),
		item.setQuantity(quantity),
	); err != nil {
		return nil, err
	}

	return item, nil
}

// Validate ensures the Item was properly constructed through NewItem.
func (i *Item) Validate() error {
	if i == nil {
		return ErrItemIsNotConstructed
	}
	return i.guard.Validate(ErrItemIsNotConstructed)
}

// IsEqual compares two items by their unique identifiers.
func (i *Item) IsEqual(other *Item) bool {
	return other != nil && i.id.IsEqual(other.id)
}

// ID returns the line item's unique identifier.
func (i *Item) ID() kernel.UUID {
	return i.id
}

// Name returns the product name.
func (i *Item) Name() string {
	return i.name
}

// UnitPrice returns the per-unit price locked at placement.
func (i *Item) UnitPrice() kernel.Money {
	return i.unitPrice
}

// Quantity returns the number of units ordered.
func (i *Item) Quantity() int {
	return i.quantity
}

// ReturnEligible reports whether the item may be returned after delivery.
func (i *Item) ReturnEligible() bool {
	return i.returnEligible
}

// Total returns the line total: unit price multiplied by quantity.
func (i *Item) Total() (kernel.Money, error) {
	if err := i.Validate(); err != nil {
		return kernel.Money{}, err
	}
	return i.unitPrice.Multiply(int64(i.quantity))
}

// setID validates and sets the item's unique identifier.
func (i *Item) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	i.id = id
	return nil
}

// setName validates and sets the product name.
func (i *Item) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	i.name = name
	return nil
}

// setUnitPrice validates and sets the locked unit price.
func (i *Item) setUnitPrice(unitPrice kernel.Money) error {
	if err := unitPrice.Validate(); err != nil {
		return err
	}
	i.unitPrice = unitPrice
	return nil
}

// setQuantity validates and sets the quantity.
// Quantity must be positive (greater than 0).
func (i *Item) setQuantity(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			"quantity is invalid",
			fmt.Errorf("%d is not greater than 0", quantity),
		)
	}
	i.quantity = quantity
	return nil
}
