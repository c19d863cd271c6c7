package zone

import (
	"errors"
	"fmt"
	"time"

	"refuel/internal/pkg/errs"
	"refuel/internal/pkg/guard"
)

// ErrHolidayIsNotConstructed is returned when using an improperly initialized Holiday.
var ErrHolidayIsNotConstructed = errors.New("Holiday must be created via NewHoliday constructor")

// Holiday is a blackout interval during which a zone takes no orders
// regardless of its daily operating hours.
type Holiday struct {
	start time.Time
	end   time.Time
	guard guard.ConstructorGuard
}

// NewHoliday creates a blackout interval.
//
// Parameters:
//   - start: When the blackout begins, inclusive (must be non-zero)
//   - end: When the blackout ends, exclusive (must be after start)
//
// Returns:
//   - Holiday: A valid blackout interval
//   - error: Validation error if the bounds are missing or inverted
func NewHoliday(start, end time.Time) (Holiday, error) {
	if start.IsZero() {
		return Holiday{}, errs.NewValueIsRequiredError("start")
	}
	if end.IsZero() {
		return Holiday{}, errs.NewValueIsRequiredError("end")
	}
	if !end.After(start) {
		return Holiday{}, errs.NewValueIsInvalidErrorWithCause("end",
			fmt.Errorf("%s is not after start %s", end, start))
	}

	return Holiday{
		start: start,
		end:   end,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// Validate checks if the Holiday was properly constructed.
func (h Holiday) Validate() error {
	return h.guard.Validate(ErrHolidayIsNotConstructed)
}

// Start returns when the blackout begins, inclusive.
func (h Holiday) Start() time.Time {
	return h.start
}

// End returns when the blackout ends, exclusive.
func (h Holiday) End() time.Time {
	return h.end
}

// Contains reports whether the given moment falls inside the blackout.
func (h Holiday) Contains(t time.Time) bool {
	return !t.Before(h.start) && t.Before(h.end)
}
