package order

import (
	"errors"
	"fmt"

	"refuel/internal/pkg/errs"
	"refuel/internal/pkg/guard"
)

const (
	// FuelMinGallons is the smallest amount of fuel an order may request.
	FuelMinGallons = 1
	// FuelMaxGallons is the largest amount of fuel an order may request.
	FuelMaxGallons = 100
)

// ErrFuelIsNotConstructed is returned when using an improperly initialized Fuel.
var ErrFuelIsNotConstructed = errors.New("Fuel must be created via NewFuel constructor")

// getValidOctanes returns the set of octane grades the service dispenses.
func getValidOctanes() map[int]bool {
	return map[int]bool{
		87: true,
		89: true,
		91: true,
		93: true,
	}
}

// Fuel is a value object describing what an order asks to have dispensed:
// an octane grade and a gallon amount. Fuel is immutable and validated at
// construction.
//
// Example:
//
//	fuel, err := order.NewFuel(87, 12)
//	if err != nil {
//	    // Handle validation error
//	}
type Fuel struct {
	octane  int
	gallons int
	guard   guard.ConstructorGuard
}

// NewFuel creates a Fuel value with the specified grade and amount.
//
// Parameters:
//   - octane: The octane grade (must be one of 87, 89, 91, 93)
//   - gallons: The requested amount (must be within [FuelMinGallons..FuelMaxGallons])
//
// Returns:
//   - Fuel: A valid fuel value
//   - error: Validation error if the grade is unknown or the amount is out of range
func NewFuel(octane int, gallons int) (Fuel, error) {
	fuel := Fuel{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(fuel.setOctane(octane), fuel.setGallons(gallons)); err != nil {
		return Fuel{}, err
	}

	return fuel, nil
}

// Validate checks if the Fuel was properly constructed via NewFuel.
func (f Fuel) Validate() error {
	return f.guard.Validate(ErrFuelIsNotConstructed)
}

// Octane returns the octane grade.
func (f Fuel) Octane() int {
	return f.octane
}

// Gallons returns the requested amount in gallons.
func (f Fuel) Gallons() int {
	return f.gallons
}

// IsEqual compares two fuel values by grade and amount.
func (f Fuel) IsEqual(other Fuel) bool {
	return f.octane == other.octane && f.gallons == other.gallons
}

// String returns a human-readable representation such as "12 gal of 87".
func (f Fuel) String() string {
	return fmt.Sprintf("%d gal of %d", f.gallons, f.octane)
}

// ValidateOctane checks that the grade is one the service dispenses.
func ValidateOctane(octane int) error {
	if !getValidOctanes()[octane] {
		return errs.NewValueIsInvalidErrorWithCause("octane",
			fmt.Errorf("%d is not a dispensed octane grade", octane))
	}
	return nil
}

func (f *Fuel) setOctane(octane int) error {
	if err := ValidateOctane(octane); err != nil {
		return err
	}
	f.octane = octane
	return nil
}

func (f *Fuel) setGallons(gallons int) error {
	if gallons < FuelMinGallons || gallons > FuelMaxGallons {
		return errs.NewValueIsOutOfRangeError("gallons", gallons, FuelMinGallons, FuelMaxGallons)
	}
	f.gallons = gallons
	return nil
}
