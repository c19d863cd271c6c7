package order

import (
	"errors"
	"fmt"

	"refuel/internal/pkg/errs"
	"refuel/internal/pkg/guard"
)

// ErrQuoteIsNotConstructed is returned when using an improperly initialized Quote.
var ErrQuoteIsNotConstructed = errors.New("Quote must be created via NewQuote constructor")

// Quote is the priced outcome of admission control for an order: the full
// charge breakdown the customer agreed to pay. All amounts are integer cents.
//
// The breakdown captures the zone fuel price, the duration-class delivery
// fee (zero when a subscription waives it), the tire-service add-on, and
// the promotional credit applied against the sum. The credit is reserved
// for the lifetime of the order and released when the order reaches a
// terminal status.
type Quote struct {
	fuelCents        int
	deliveryFeeCents int
	tireFeeCents     int
	creditCents      int
	guard            guard.ConstructorGuard
}

// NewQuote creates a Quote from its charge components.
//
// Parameters:
//   - fuelCents: Fuel charge (must be greater than 0, every order dispenses fuel)
//   - deliveryFeeCents: Duration-class delivery fee (must not be negative)
//   - tireFeeCents: Tire-service add-on (must not be negative)
//   - creditCents: Promotional credit applied (must be within [0..sum of charges])
//
// Returns:
//   - Quote: A valid quote
//   - error: Validation error if any component is out of range
func NewQuote(fuelCents, deliveryFeeCents, tireFeeCents, creditCents int) (Quote, error) {
	quote := Quote{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		quote.setFuelCents(fuelCents),
		quote.setDeliveryFeeCents(deliveryFeeCents),
		quote.setTireFeeCents(tireFeeCents),
		quote.setCreditCents(creditCents),
	); err != nil {
		return Quote{}, err
	}

	return quote, nil
}

// Validate checks if the Quote was properly constructed via NewQuote.
func (q Quote) Validate() error {
	return q.guard.Validate(ErrQuoteIsNotConstructed)
}

// FuelCents returns the fuel charge in cents.
func (q Quote) FuelCents() int {
	return q.fuelCents
}

// DeliveryFeeCents returns the duration-class delivery fee in cents.
// Zero when a subscription waived the fee.
func (q Quote) DeliveryFeeCents() int {
	return q.deliveryFeeCents
}

// TireFeeCents returns the tire-service add-on in cents.
// Zero when the order does not include tire service.
func (q Quote) TireFeeCents() int {
	return q.tireFeeCents
}

// CreditCents returns the promotional credit applied, in cents.
func (q Quote) CreditCents() int {
	return q.creditCents
}

// TotalCents returns what the customer pays: charges minus applied credit.
func (q Quote) TotalCents() int {
	return q.fuelCents + q.deliveryFeeCents + q.tireFeeCents - q.creditCents
}

// IsEqual compares two quotes component by component.
func (q Quote) IsEqual(other Quote) bool {
	return q.fuelCents == other.fuelCents &&
		q.deliveryFeeCents == other.deliveryFeeCents &&
		q.tireFeeCents == other.tireFeeCents &&
		q.creditCents == other.creditCents
}

func (q *Quote) setFuelCents(fuelCents int) error {
	if fuelCents <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("fuelCents",
			fmt.Errorf("%d is not greater than 0", fuelCents))
	}
	q.fuelCents = fuelCents
	return nil
}

func (q *Quote) setDeliveryFeeCents(deliveryFeeCents int) error {
	if deliveryFeeCents < 0 {
		return errs.NewValueIsInvalidErrorWithCause("deliveryFeeCents",
			fmt.Errorf("%d is below 0", deliveryFeeCents))
	}
	q.deliveryFeeCents = deliveryFeeCents
	return nil
}

func (q *Quote) setTireFeeCents(tireFeeCents int) error {
	if tireFeeCents < 0 {
		return errs.NewValueIsInvalidErrorWithCause("tireFeeCents",
			fmt.Errorf("%d is below 0", tireFeeCents))
	}
	q.tireFeeCents = tireFeeCents
	return nil
}

// setCreditCents runs after the charge setters so the range check sees the
// already validated charge components.
func (q *Quote) setCreditCents(creditCents int) error {
	charges := q.fuelCents + q.deliveryFeeCents + q.tireFeeCents
	if creditCents < 0 || creditCents > charges {
		return errs.NewValueIsOutOfRangeError("creditCents", creditCents, 0, charges)
	}
	q.creditCents = creditCents
	return nil
}
