package zone

import (
	"errors"
	"fmt"
	"time"

	"refuel/internal/core/domain/model/account"
	"refuel/internal/core/domain/model/order"
	"refuel/internal/pkg/errs"
	"refuel/internal/pkg/guard"
)

// minutesPerDay bounds the open/close minute-of-day bracket.
const minutesPerDay = 24 * 60

// ErrZoneIsNotConstructed is returned when using an improperly initialized Zone.
var ErrZoneIsNotConstructed = errors.New("Zone must be created via NewZone constructor")

// Zone is the configuration of one service area: where the service operates,
// when it is open, what fuel costs there, and whether one-hour windows are
// offered and capacity-limited.
//
// Admission control reads zones to price incoming orders and to decide
// whether the service is open; the dispatch core never mutates them.
//
// Key configuration:
//   - Daily operating bracket as minutes from midnight, evaluated against
//     the wall-clock time of the supplied instant
//   - Holiday blackout intervals that override the daily bracket
//   - Fuel price table in cents per gallon by octane grade
//   - Delivery fee in cents by duration class, plus the tire-service add-on
//   - Optional one-hour service with a designated constraining zone whose
//     courier pool caps simultaneous one-hour orders
type Zone struct {
	// code is the zip-style identifier of the zone
	code string

	// name is the human-readable area name
	name string

	// active gates the whole zone; inactive zones admit nothing
	active bool

	// openMinute is the minute of day the zone opens, inclusive
	openMinute int

	// closeMinute is the minute of day the zone closes, exclusive
	closeMinute int

	// holidays are blackout intervals overriding the daily bracket
	holidays []Holiday

	// priceCentsPerGallon is the fuel price table by octane grade
	priceCentsPerGallon map[int]int

	// feeCentsByClass is the delivery fee table by duration class
	feeCentsByClass map[order.DurationClass]int

	// tireFeeCents is the air-and-tire add-on price
	tireFeeCents int

	// oneHourService reports whether one-hour windows are offered at all
	oneHourService bool

	// oneHourConstrainedBy is the code of the zone whose courier pool caps
	// one-hour orders, empty when uncapped
	oneHourConstrainedBy string

	// guard ensures the zone was properly constructed
	guard guard.ConstructorGuard
}

// NewZone creates a Zone from its full configuration.
//
// Parameters:
//   - code: Zip-style zone identifier (must be non-empty)
//   - name: Human-readable area name (must be non-empty)
//   - active: Whether the zone admits orders at all
//   - openMinute: Opening minute of day, inclusive (within [0..1439])
//   - closeMinute: Closing minute of day, exclusive (within [1..1440], after openMinute)
//   - holidays: Blackout intervals (each must be valid)
//   - priceCentsPerGallon: Fuel price table (must price at least one valid grade, all prices positive)
//   - feeCentsByClass: Delivery fee table (must cover at least one valid class, fees not negative)
//   - tireFeeCents: Tire-service add-on price (must not be negative)
//   - oneHourService: Whether one-hour windows are offered
//   - oneHourConstrainedBy: Code of the capacity-constraining zone, empty when uncapped
//
// Returns:
//   - *Zone: A valid zone configuration
//   - error: Aggregated validation errors, if any
func NewZone(
	code string,
	name string,
	active bool,
	openMinute int,
	closeMinute int,
	holidays []Holiday,
	priceCentsPerGallon map[int]int,
	feeCentsByClass map[order.DurationClass]int,
	tireFeeCents int,
	oneHourService bool,
	oneHourConstrainedBy string,
) (*Zone, error) {
	zone := &Zone{
		active:               active,
		oneHourService:       oneHourService,
		oneHourConstrainedBy: oneHourConstrainedBy,
		guard:                guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		zone.setCode(code),
		zone.setName(name),
		zone.setHours(openMinute, closeMinute),
		zone.setHolidays(holidays),
		zone.setPrices(priceCentsPerGallon),
		zone.setFees(feeCentsByClass),
		zone.setTireFee(tireFeeCents),
	); err != nil {
		return nil, err
	}

	return zone, nil
}

// Validate checks if the Zone was properly constructed via NewZone.
func (z *Zone) Validate() error {
	if z == nil {
		return ErrZoneIsNotConstructed
	}
	return z.guard.Validate(ErrZoneIsNotConstructed)
}

// IsEqual compares two zones by their codes.
func (z *Zone) IsEqual(other *Zone) bool {
	return other != nil && z.code == other.code
}

// Code returns the zip-style identifier of the zone.
func (z *Zone) Code() string {
	return z.code
}

// Name returns the human-readable area name.
func (z *Zone) Name() string {
	return z.name
}

// Active reports whether the zone admits orders at all.
func (z *Zone) Active() bool {
	return z.active
}

// OpenMinute returns the opening minute of day, inclusive.
func (z *Zone) OpenMinute() int {
	return z.openMinute
}

// CloseMinute returns the closing minute of day, exclusive.
func (z *Zone) CloseMinute() int {
	return z.closeMinute
}

// Holidays returns a copy of the blackout intervals.
func (z *Zone) Holidays() []Holiday {
	out := make([]Holiday, len(z.holidays))
	copy(out, z.holidays)
	return out
}

// TireFeeCents returns the air-and-tire add-on price.
func (z *Zone) TireFeeCents() int {
	return z.tireFeeCents
}

// OneHourService reports whether one-hour windows are offered in this zone.
func (z *Zone) OneHourService() bool {
	return z.oneHourService
}

// OneHourConstrainedBy returns the code of the zone whose courier pool caps
// one-hour orders here, or empty when one-hour orders are uncapped.
func (z *Zone) OneHourConstrainedBy() string {
	return z.oneHourConstrainedBy
}

// Prices returns a copy of the fuel price table in cents per gallon by grade.
func (z *Zone) Prices() map[int]int {
	out := make(map[int]int, len(z.priceCentsPerGallon))
	for octane, cents := range z.priceCentsPerGallon {
		out[octane] = cents
	}
	return out
}

// Fees returns a copy of the delivery fee table in cents by duration class.
func (z *Zone) Fees() map[order.DurationClass]int {
	out := make(map[order.DurationClass]int, len(z.feeCentsByClass))
	for class, cents := range z.feeCentsByClass {
		out[class] = cents
	}
	return out
}

// IsOpenAt reports whether the zone takes orders at the given moment: the
// zone is active, no holiday blackout covers the moment, and the moment's
// minute of day falls inside the operating bracket. The instant is read as
// wall-clock time, so callers supply it in the zone's local frame.
func (z *Zone) IsOpenAt(t time.Time) bool {
	if !z.active {
		return false
	}

	for _, holiday := range z.holidays {
		if holiday.Contains(t) {
			return false
		}
	}

	minute := t.Hour()*60 + t.Minute()
	return minute >= z.openMinute && minute < z.closeMinute
}

// PriceFor returns the price in cents per gallon for the given grade.
//
// Returns:
//   - int: The price in cents per gallon
//   - error: Validation error if the zone does not price the grade
func (z *Zone) PriceFor(octane int) (int, error) {
	cents, ok := z.priceCentsPerGallon[octane]
	if !ok {
		return 0, errs.NewValueIsInvalidErrorWithCause("octane",
			fmt.Errorf("grade %d is not priced in zone %s", octane, z.code))
	}
	return cents, nil
}

// FeeFor returns the delivery fee in cents for the given duration class.
//
// Returns:
//   - int: The fee in cents
//   - error: Validation error if the zone does not serve the class
func (z *Zone) FeeFor(class order.DurationClass) (int, error) {
	cents, ok := z.feeCentsByClass[class]
	if !ok {
		return 0, errs.NewValueIsInvalidErrorWithCause("duration class",
			fmt.Errorf("class %s is not served in zone %s", class, z.code))
	}
	return cents, nil
}

// Quote prices an order request against this zone's tables.
//
// The breakdown is: fuel at the zone's per-gallon price for the requested
// grade, the duration-class delivery fee (zeroed when the subscription
// waives it), the tire-service add-on when requested, minus the customer's
// promotional credit capped at the sum of the charges.
//
// Parameters:
//   - fuel: The fuel request (must be valid)
//   - class: The duration class (must be served in this zone)
//   - tireService: Whether the air-and-tire add-on was requested
//   - subscription: The customer's tier (must be valid)
//   - couponCents: The customer's available promotional credit (must not be negative)
//
// Returns:
//   - order.Quote: The priced breakdown with applied credit
//   - error: Validation error if any input is invalid or unpriced
func (z *Zone) Quote(
	fuel order.Fuel,
	class order.DurationClass,
	tireService bool,
	subscription account.Subscription,
	couponCents int,
) (order.Quote, error) {
	if err := fuel.Validate(); err != nil {
		return order.Quote{}, err
	}
	if err := subscription.Validate(); err != nil {
		return order.Quote{}, err
	}
	if couponCents < 0 {
		return order.Quote{}, errs.NewValueIsInvalidErrorWithCause("couponCents",
			fmt.Errorf("%d is below 0", couponCents))
	}

	perGallon, err := z.PriceFor(fuel.Octane())
	if err != nil {
		return order.Quote{}, err
	}
	fuelCents := perGallon * fuel.Gallons()

	feeCents, err := z.FeeFor(class)
	if err != nil {
		return order.Quote{}, err
	}
	if subscription.WaivesDeliveryFee() {
		feeCents = 0
	}

	tireCents := 0
	if tireService {
		tireCents = z.tireFeeCents
	}

	appliedCredit := couponCents
	if charges := fuelCents + feeCents + tireCents; appliedCredit > charges {
		appliedCredit = charges
	}

	return order.NewQuote(fuelCents, feeCents, tireCents, appliedCredit)
}

func (z *Zone) setCode(code string) error {
	if code == "" {
		return errs.NewValueIsRequiredError("code")
	}
	z.code = code
	return nil
}

func (z *Zone) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	z.name = name
	return nil
}

func (z *Zone) setHours(openMinute, closeMinute int) error {
	if openMinute < 0 || openMinute >= minutesPerDay {
		return errs.NewValueIsOutOfRangeError("openMinute", openMinute, 0, minutesPerDay-1)
	}
	if closeMinute <= 0 || closeMinute > minutesPerDay {
		return errs.NewValueIsOutOfRangeError("closeMinute", closeMinute, 1, minutesPerDay)
	}
	if openMinute >= closeMinute {
		return errs.NewValueIsInvalidErrorWithCause("closeMinute",
			fmt.Errorf("%d is not after openMinute %d", closeMinute, openMinute))
	}

	z.openMinute = openMinute
	z.closeMinute = closeMinute
	return nil
}

func (z *Zone) setHolidays(holidays []Holiday) error {
	for _, holiday := range holidays {
		if err := holiday.Validate(); err != nil {
			return err
		}
	}

	z.holidays = make([]Holiday, len(holidays))
	copy(z.holidays, holidays)
	return nil
}

func (z *Zone) setPrices(priceCentsPerGallon map[int]int) error {
	if len(priceCentsPerGallon) == 0 {
		return errs.NewValueIsRequiredError("priceCentsPerGallon")
	}

	prices := make(map[int]int, len(priceCentsPerGallon))
	for octane, cents := range priceCentsPerGallon {
		if err := order.ValidateOctane(octane); err != nil {
			return err
		}
		if cents <= 0 {
			return errs.NewValueIsInvalidErrorWithCause("priceCentsPerGallon",
				fmt.Errorf("price %d for grade %d is not greater than 0", cents, octane))
		}
		prices[octane] = cents
	}

	z.priceCentsPerGallon = prices
	return nil
}

func (z *Zone) setFees(feeCentsByClass map[order.DurationClass]int) error {
	if len(feeCentsByClass) == 0 {
		return errs.NewValueIsRequiredError("feeCentsByClass")
	}

	fees := make(map[order.DurationClass]int, len(feeCentsByClass))
	for class, cents := range feeCentsByClass {
		if err := class.Validate(); err != nil {
			return err
		}
		if cents < 0 {
			return errs.NewValueIsInvalidErrorWithCause("feeCentsByClass",
				fmt.Errorf("fee %d for class %s is below 0", cents, class))
		}
		fees[class] = cents
	}

	z.feeCentsByClass = fees
	return nil
}

func (z *Zone) setTireFee(tireFeeCents int) error {
	if tireFeeCents < 0 {
		return errs.NewValueIsInvalidErrorWithCause("tireFeeCents",
			fmt.Errorf("%d is below 0", tireFeeCents))
	}
	z.tireFeeCents = tireFeeCents
	return nil
}
