package order

import (
	"errors"
	"fmt"
	"time"

	"refuel/internal/pkg/errs"
	"refuel/internal/pkg/guard"
)

// DurationClass is the service-speed tier of an order's target window.
// The class drives the delivery fee and, for one-hour windows, the
// slot-capacity admission check.
type DurationClass int

const (
	// DurationUnknown represents an invalid or undefined duration class.
	DurationUnknown DurationClass = iota

	// DurationOneHour is the premium tier: fuel within sixty minutes.
	// One-hour orders are subject to zone slot-capacity limits.
	DurationOneHour

	// DurationThreeHour is the standard tier: fuel within three hours.
	DurationThreeHour

	// DurationSameDay is the economy tier: fuel any time within the
	// twenty-four hours after the window opens.
	DurationSameDay
)

// getDurationClassStrings returns a map of DurationClass values to their
// wire representations.
func getDurationClassStrings() map[DurationClass]string {
	return map[DurationClass]string{
		DurationOneHour:   "one_hour",
		DurationThreeHour: "three_hour",
		DurationSameDay:   "same_day",
	}
}

// DurationClassFromString parses a duration class from its wire representation.
func DurationClassFromString(s string) (DurationClass, error) {
	for class, str := range getDurationClassStrings() {
		if str == s {
			return class, nil
		}
	}
	return DurationUnknown, errs.NewValueIsInvalidErrorWithCause(
		"duration class is invalid",
		fmt.Errorf("%q is not a valid duration class", s),
	)
}

// Validate checks if the DurationClass value is valid.
func (c DurationClass) Validate() error {
	if _, ok := getDurationClassStrings()[c]; !ok {
		return errs.NewValueIsInvalidErrorWithCause(
			"duration class is invalid",
			fmt.Errorf("%d is not a valid duration class", c),
		)
	}
	return nil
}

// String returns the wire name of the duration class.
func (c DurationClass) String() string {
	if str, ok := getDurationClassStrings()[c]; ok {
		return str
	}
	return "unknown"
}

// Duration returns the length of the target window for the class.
func (c DurationClass) Duration() time.Duration {
	switch c {
	case DurationOneHour:
		return time.Hour
	case DurationThreeHour:
		return 3 * time.Hour
	case DurationSameDay:
		return 24 * time.Hour
	default:
		return 0
	}
}

// ErrServiceWindowIsNotConstructed is returned when using an improperly initialized ServiceWindow.
var ErrServiceWindowIsNotConstructed = errors.New(
	"ServiceWindow must be created via NewServiceWindow constructor")

// ServiceWindow is the target interval during which an order should be
// fulfilled. The window starts at the requested time and its length is
// fixed by the duration class, so the end is always derived, never stored
// independently.
type ServiceWindow struct {
	class DurationClass
	start time.Time
	guard guard.ConstructorGuard
}

// NewServiceWindow creates a window of the given class starting at the given time.
//
// Parameters:
//   - class: The duration class (must be valid)
//   - start: The requested window start (must be non-zero)
//
// Returns:
//   - ServiceWindow: A valid window
//   - error: Validation error if the class is invalid or the start is zero
func NewServiceWindow(class DurationClass, start time.Time) (ServiceWindow, error) {
	window := ServiceWindow{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(window.setClass(class), window.setStart(start)); err != nil {
		return ServiceWindow{}, err
	}

	return window, nil
}

// Validate checks if the ServiceWindow was properly constructed.
func (w ServiceWindow) Validate() error {
	return w.guard.Validate(ErrServiceWindowIsNotConstructed)
}

// Class returns the duration class of the window.
func (w ServiceWindow) Class() DurationClass {
	return w.class
}

// Start returns the window start time.
func (w ServiceWindow) Start() time.Time {
	return w.start
}

// End returns the window end time, derived from the start and the class length.
func (w ServiceWindow) End() time.Time {
	return w.start.Add(w.class.Duration())
}

// IsOneHour reports whether this is a one-hour window, which subjects the
// order to zone slot-capacity limits.
func (w ServiceWindow) IsOneHour() bool {
	return w.class == DurationOneHour
}

// IsEqual compares two windows by class and start time.
func (w ServiceWindow) IsEqual(other ServiceWindow) bool {
	return w.class == other.class && w.start.Equal(other.start)
}

func (w *ServiceWindow) setClass(class DurationClass) error {
	if err := class.Validate(); err != nil {
		return err
	}
	w.class = class
	return nil
}

func (w *ServiceWindow) setStart(start time.Time) error {
	if start.IsZero() {
		return errs.NewValueIsRequiredError("window start")
	}
	w.start = start
	return nil
}
