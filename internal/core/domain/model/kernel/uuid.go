package kernel

import (
	"fmt"

	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
)

// ErrUUIDIsNotConstructed is returned by Validate for a zero-value UUID,
// i.e. one that bypassed the constructors.
var ErrUUIDIsNotConstructed = errs.NewValueIsRequiredError(
	"UUID must be created via NewUUID, UUIDFromString, or UUIDFromBytes")

// UUID identifies aggregates and entities across the service: orders, line
// items and delivery partners all carry one. It wraps github.com/google/uuid
// behind a value object so that the zero value is detectably invalid and
// callers cannot forge identifiers without going through a constructor.
//
// UUID values are immutable and safe to copy and compare.
type UUID struct {
	value uuid.UUID
}

// NewUUID returns a fresh random (version 4) identifier. Placement and
// partner registration mint their aggregate IDs through this.
func NewUUID() UUID {
	return UUID{value: uuid.New()}
}

// UUIDFromString parses the canonical textual form, e.g.
// "1f0c5f82-33a0-4ec8-9c7d-5b2d9f6a1e44". Variants the underlying library
// accepts (braced, urn-prefixed) parse as well. Used at the API boundary to
// turn path parameters and request fields into identifiers.
func UUIDFromString(s string) (UUID, error) {
	parsed, err := uuid.Parse(s)
	if err != nil {
		return UUID{}, fmt.Errorf("malformed uuid: %w", err)
	}
	return UUID{value: parsed}, nil
}

// UUIDFromBytes rebuilds an identifier from its 16-byte binary form, the
// shape the postgres adapters store. A nil (all-zero) value is rejected so a
// row with a broken key cannot rehydrate into a passing aggregate.
func UUIDFromBytes(b []byte) (UUID, error) {
	parsed, err := uuid.FromBytes(b)
	if err != nil {
		return UUID{}, fmt.Errorf("malformed uuid: %w", err)
	}

	id := UUID{value: parsed}
	if err = id.Validate(); err != nil {
		return UUID{}, err
	}
	return id, nil
}

// String renders the canonical lower-case hex-and-dashes form. The zero
// value renders as the nil UUID "00000000-0000-0000-0000-000000000000".
func (u UUID) String() string {
	return u.value.String()
}

// Bytes exposes the underlying uuid.UUID for the persistence layer, which
// stores identifiers in binary and needs the raw array (slice it with [:]).
func (u UUID) Bytes() uuid.UUID {
	return u.value
}

// IsEqual reports whether two identifiers name the same aggregate.
func (u UUID) IsEqual(other UUID) bool {
	return u.value == other.value
}

// Validate rejects the zero value with ErrUUIDIsNotConstructed. Aggregate
// and command constructors call this on every identifier they receive.
func (u UUID) Validate() error {
	if u.value == uuid.Nil {
		return ErrUUIDIsNotConstructed
	}
	return nil
}
