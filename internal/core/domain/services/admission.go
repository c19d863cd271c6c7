package services

import (
	"fmt"

	"refuel/internal/core/domain/model/account"
	"refuel/internal/core/domain/model/order"
	"refuel/internal/core/domain/model/zone"
	"refuel/internal/pkg/errs"
)

// ZoneCapacity is the pre-gathered one-hour capacity picture of a
// constraining zone: how many one-hour orders are still working their way
// to servicing, and how many on-duty connected couriers the zone has.
type ZoneCapacity struct {
	ActiveOneHourOrders int
	AvailableCouriers   int
}

// AdmissionControl is a domain service that decides whether an incoming
// order request may enter the system. It runs once at order creation,
// before anything is persisted.
//
// The gates run in a fixed order:
//  1. Price: the client-submitted total must match the freshly computed
//     quote, which protects against stale client-side price caching.
//  2. Operating hours: the requested window must start while the zone is
//     open and outside holiday blackouts, and one-hour windows require the
//     zone to offer one-hour service at all.
//  3. Slot capacity: a one-hour request in a capacity-constrained zone is
//     admitted only while the constraining zone has more available couriers
//     than active one-hour orders, so the system never promises a one-hour
//     slot it has no free courier to honor.
//
// The unlimited subscription tier bypasses the hours and capacity gates
// entirely; the price gate applies to every tier. An inactive zone admits
// nothing regardless of tier.
//
// Example usage:
//
//	admission := NewAdmissionControl()
//	err := admission.Check(zone, quote, req.TotalCents, window, subscription, capacity)
//	if rejection, ok := errs.RejectionFrom(err); ok {
//	    // Refuse the request with rejection.Reason; nothing was persisted
//	}
type AdmissionControl struct{}

// NewAdmissionControl creates a new AdmissionControl instance.
//
// Returns:
//   - AdmissionControl: A new instance ready for admission checks
func NewAdmissionControl() AdmissionControl {
	return AdmissionControl{}
}

// Check runs the admission gates against one order request.
//
// Parameters:
//   - z: The zone the order targets (must be valid)
//   - quote: The freshly computed price breakdown (must be valid)
//   - submittedTotalCents: The total price the client echoed back
//   - window: The requested service window (must be valid)
//   - subscription: The ordering customer's tier (must be valid)
//   - capacity: The capacity picture of the constraining zone; only read
//     for one-hour requests in zones that designate a constraining zone
//
// Returns:
//   - error: nil when the request is admitted; a RejectionError carrying
//     price_mismatch, service_closed, or capacity_exceeded when refused;
//     a validation error when an input value is malformed
func (a AdmissionControl) Check(
	z *zone.Zone,
	quote order.Quote,
	submittedTotalCents int,
	window order.ServiceWindow,
	subscription account.Subscription,
	capacity ZoneCapacity,
) error {
	if err := z.Validate(); err != nil {
		return err
	}
	if err := quote.Validate(); err != nil {
		return err
	}
	if err := window.Validate(); err != nil {
		return err
	}
	if err := subscription.Validate(); err != nil {
		return err
	}

	if quote.TotalCents() != submittedTotalCents {
		return errs.NewRejectionError(errs.ReasonPriceMismatch, fmt.Sprintf(
			"submitted total %d cents does not match the current price of %d cents",
			submittedTotalCents, quote.TotalCents()))
	}

	if !z.Active() {
		return errs.NewRejectionError(errs.ReasonServiceClosed, fmt.Sprintf(
			"zone %s is not taking orders", z.Code()))
	}

	if subscription.BypassesRestrictions() {
		return nil
	}

	if !z.IsOpenAt(window.Start()) {
		return errs.NewRejectionError(errs.ReasonServiceClosed, fmt.Sprintf(
			"zone %s is closed at %s", z.Code(), window.Start().Format("15:04")))
	}

	if window.IsOneHour() {
		if !z.OneHourService() {
			return errs.NewRejectionError(errs.ReasonServiceClosed, fmt.Sprintf(
				"zone %s does not offer one-hour windows", z.Code()))
		}

		if z.OneHourConstrainedBy() != "" &&
			capacity.ActiveOneHourOrders >= capacity.AvailableCouriers {
			return errs.NewRejectionError(errs.ReasonCapacityExceeded, fmt.Sprintf(
				"all %d one-hour slots in zone %s are promised",
				capacity.AvailableCouriers, z.OneHourConstrainedBy()))
		}
	}

	return nil
}
