package courier

import (
	"errors"
	"fmt"

	"refuel/internal/core/domain/model/kernel"
	"refuel/internal/core/domain/model/order"
	"refuel/internal/pkg/errs"
	"refuel/internal/pkg/guard"
)

// ErrTankIsNotConstructed indicates that the Tank was not properly
// initialized through the NewTank constructor function.
var ErrTankIsNotConstructed = errors.New("Tank must be created via NewTank constructor")

// Tank represents one fuel compartment mounted on a courier's truck.
// It is a domain entity that tracks how much of a single octane grade
// the courier is currently carrying.
//
// A Tank holds exactly one grade and has a fixed capacity. The remaining
// amount moves down as orders are dispensed and back up to capacity when
// the courier refills at a depot. Couriers self-report their levels, so
// the remaining amount is treated as an estimate: draining never goes
// below empty and reported levels are capped at capacity.
//
// Example usage:
//
//	tank, err := courier.NewTank(kernel.NewUUID(), 87, 100)
//	if err != nil {
//	    return err
//	}
//
//	dispensed := tank.Drain(12)
//	// dispensed == 12, tank.RemainingGallons() == 88
type Tank struct {
	// id uniquely identifies the tank
	id kernel.UUID

	// octane is the single fuel grade this tank carries
	octane int

	// capacityGallons is the maximum amount the tank holds
	capacityGallons int

	// remainingGallons is the best-known current level
	remainingGallons int

	// guard ensures the entity was properly initialized
	guard guard.ConstructorGuard
}

// NewTank creates a new Tank entity filled to capacity.
// This is the only way to create a properly initialized Tank instance.
//
// Parameters:
//   - id: Unique identifier for the tank (must be valid UUID)
//   - octane: Fuel grade the tank carries (must be a dispensed grade)
//   - capacityGallons: Maximum capacity (must be greater than 0)
//
// Returns:
//   - *Tank: Properly initialized tank, full
//   - error: Aggregated validation errors, if any
func NewTank(id kernel.UUID, octane int, capacityGallons int) (*Tank, error) {
	tank := &Tank{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(tank.setID(id), tank.setOctane(octane), tank.setCapacity(capacityGallons)); err != nil {
		return nil, err
	}

	tank.remainingGallons = tank.capacityGallons
	return tank, nil
}

// RestoreTank reconstructs a Tank entity from persistent storage.
// Unlike NewTank which creates full tanks, this constructor restores a tank
// to its previously persisted level.
//
// Parameters:
//   - id: Unique identifier for the tank
//   - octane: Fuel grade the tank carries
//   - capacityGallons: Maximum capacity
//   - remainingGallons: Persisted level (must be within [0..capacity])
//
// Returns:
//   - *Tank: Restored tank entity
//   - error: Validation error if any parameter is invalid
func RestoreTank(id kernel.UUID, octane int, capacityGallons int, remainingGallons int) (*Tank, error) {
	tank, err := NewTank(id, octane, capacityGallons)
	if err != nil {
		return nil, err
	}

	if err := tank.setRemaining(remainingGallons); err != nil {
		return nil, err
	}

	return tank, nil
}

// IsEqual compares two Tank entities for equality based on their unique
// identifiers, following DDD principles where entity equality is determined
// by identity, not by attribute values.
func (t *Tank) IsEqual(other *Tank) bool {
	return other != nil && t.id.IsEqual(other.id)
}

// ID returns the unique identifier of the tank.
func (t *Tank) ID() kernel.UUID {
	return t.id
}

// Octane returns the fuel grade this tank carries.
func (t *Tank) Octane() int {
	return t.octane
}

// CapacityGallons returns the maximum amount the tank holds.
func (t *Tank) CapacityGallons() int {
	return t.capacityGallons
}

// RemainingGallons returns the best-known current level.
func (t *Tank) RemainingGallons() int {
	return t.remainingGallons
}

// IsEmpty reports whether the tank has run dry.
func (t *Tank) IsEmpty() bool {
	return t.remainingGallons == 0
}

// Drain removes up to the requested amount from the tank and returns how
// much actually came out. Levels are courier-reported estimates, so a
// request past the known level empties the tank instead of failing.
//
// Parameters:
//   - gallons: The requested amount (negative requests drain nothing)
//
// Returns:
//   - int: The amount actually removed, never below 0
func (t *Tank) Drain(gallons int) int {
	if gallons <= 0 {
		return 0
	}

	if gallons > t.remainingGallons {
		gallons = t.remainingGallons
	}

	t.remainingGallons -= gallons
	return gallons
}

// Refill restores the tank to its full capacity.
// Called when the courier tops up at a depot.
func (t *Tank) Refill() {
	t.remainingGallons = t.capacityGallons
}

// SetLevel records a courier-reported level, capped at capacity.
// Negative reports are rejected rather than clamped since they indicate
// a malformed heartbeat payload, not measurement drift.
func (t *Tank) SetLevel(gallons int) error {
	if gallons < 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			"gallons is invalid",
			fmt.Errorf("%d is below 0", gallons),
		)
	}

	if gallons > t.capacityGallons {
		gallons = t.capacityGallons
	}

	t.remainingGallons = gallons
	return nil
}

func (t *Tank) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	t.id = id
	return nil
}

func (t *Tank) setOctane(octane int) error {
	if err := order.ValidateOctane(octane); err != nil {
		return err
	}

	t.octane = octane
	return nil
}

func (t *Tank) setCapacity(capacityGallons int) error {
	if capacityGallons <= 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			"capacityGallons is invalid",
			fmt.Errorf("%d is not greater than 0", capacityGallons),
		)
	}

	t.capacityGallons = capacityGallons
	return nil
}

func (t *Tank) setRemaining(remainingGallons int) error {
	if remainingGallons < 0 || remainingGallons > t.capacityGallons {
		return errs.NewValueIsOutOfRangeError("remainingGallons", remainingGallons, 0, t.capacityGallons)
	}

	t.remainingGallons = remainingGallons
	return nil
}

// Validate checks if the Tank entity is in a valid state.
// This method ensures the entity was properly constructed through the
// NewTank constructor function.
func (t *Tank) Validate() error {
	if t == nil {
		return ErrTankIsNotConstructed
	}
	return t.guard.Validate(ErrTankIsNotConstructed)
}
