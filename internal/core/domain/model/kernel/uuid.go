package kernel

import (
	"fmt"

	"refuel/internal/pkg/errs"

	"github.com/google/uuid"
)

// ErrUUIDIsNotConstructed is returned when validating a UUID that did not come
// out of one of the constructor functions. The zero value always fails validation.
var ErrUUIDIsNotConstructed = errs.NewValueIsRequiredError(
	"UUID must be created via NewUUID, UUIDFromString, or UUIDFromBytes")

// UUID identifies orders, couriers, and customers throughout the application.
// It wraps github.com/google/uuid behind a small immutable value object so that
// identifiers can only enter the domain through validated constructors.
// The zero value is invalid and fails Validate - always build instances with
// NewUUID, UUIDFromString, or UUIDFromBytes.
//
// UUID is safe to copy and to share between goroutines.
//
// Example:
//
//	orderID := kernel.NewUUID()
//
//	courierID, err := kernel.UUIDFromString("8a1d4f6e-9c2b-4e7a-b3d5-1f0e9c8b7a6d")
//	if err != nil {
//	    // reject the request
//	}
type UUID struct {
	id uuid.UUID
}

// NewUUID generates a random version 4 UUID.
// This is how every new order and courier gets its identity.
func NewUUID() UUID {
	return UUID{
		id: uuid.New(),
	}
}

// UUIDFromString parses the textual representation of a UUID, as found in API
// request paths and payloads. Besides the canonical hyphenated form it accepts
// the braced, urn-prefixed, and unhyphenated encodings.
//
// Parameters:
//   - s: Textual UUID in any accepted encoding
//
// Returns:
//   - UUID: The parsed identifier
//   - error: Wrapped parse error when s is not a UUID
func UUIDFromString(s string) (UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return UUID{}, fmt.Errorf("invalid UUID format: %w", err)
	}

	return UUID{id: id}, nil
}

// UUIDFromBytes builds a UUID from its 16-byte binary representation, for
// identifiers that arrive over binary transports or binary database columns.
// The all-zero (nil) UUID is rejected because it is indistinguishable from an
// unconstructed value.
//
// Parameters:
//   - b: Exactly 16 bytes of UUID data
//
// Returns:
//   - UUID: The reconstructed identifier
//   - error: Wrapped error for wrong lengths, ErrUUIDIsNotConstructed for the nil UUID
func UUIDFromBytes(b []byte) (UUID, error) {
	id, err := uuid.FromBytes(b)
	if err != nil {
		return UUID{}, fmt.Errorf("invalid UUID format: %w", err)
	}

	newID := UUID{id: id}
	if err = newID.Validate(); err != nil {
		return UUID{}, err
	}

	return newID, nil
}

// String renders the canonical "xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx" form.
// The zero value renders as the nil UUID of all zeros.
func (u UUID) String() string {
	return u.id.String()
}

// Bytes exposes the underlying uuid.UUID, which is a 16-byte array.
// Slice the result (id.Bytes()[:]) when a []byte is needed.
func (u UUID) Bytes() uuid.UUID {
	return u.id
}

// IsEqual reports whether two UUIDs carry the same value.
func (u UUID) IsEqual(other UUID) bool {
	return u.id == other.id
}

// Validate checks that the UUID came out of a constructor.
//
// Returns:
//   - error: ErrUUIDIsNotConstructed for the zero value, nil otherwise
func (u UUID) Validate() error {
	if u.id == uuid.Nil {
		return ErrUUIDIsNotConstructed
	}

	return nil
}
