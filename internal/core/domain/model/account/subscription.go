// Package account provides the subscription tiers customers hold and the
// privileges each tier carries during order admission.
package account

import (
	"fmt"

	"refuel/internal/pkg/errs"
)

// Subscription is a customer's paid service tier. Tiers change how an order
// is priced and which admission checks apply to it.
type Subscription int

const (
	// SubscriptionUnknown represents an invalid or undefined subscription.
	SubscriptionUnknown Subscription = iota

	// SubscriptionNone is the pay-as-you-go default: full delivery fees and
	// every admission check applies.
	SubscriptionNone

	// SubscriptionPlus waives the delivery fee but keeps the operating-hours
	// and slot-capacity checks.
	SubscriptionPlus

	// SubscriptionUnlimited waives the delivery fee and bypasses the
	// operating-hours, duration, and slot-capacity checks entirely.
	SubscriptionUnlimited
)

// getSubscriptionStrings returns a map of Subscription values to their wire
// representations.
func getSubscriptionStrings() map[Subscription]string {
	return map[Subscription]string{
		SubscriptionNone:      "none",
		SubscriptionPlus:      "plus",
		SubscriptionUnlimited: "unlimited",
	}
}

// SubscriptionFromString parses a subscription tier from its wire representation.
func SubscriptionFromString(s string) (Subscription, error) {
	for subscription, str := range getSubscriptionStrings() {
		if str == s {
			return subscription, nil
		}
	}
	return SubscriptionUnknown, errs.NewValueIsInvalidErrorWithCause(
		"subscription is invalid",
		fmt.Errorf("%q is not a valid subscription tier", s),
	)
}

// Validate checks if the Subscription value is valid.
func (s Subscription) Validate() error {
	if _, ok := getSubscriptionStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause(
			"subscription is invalid",
			fmt.Errorf("%d is not a valid subscription tier", s),
		)
	}
	return nil
}

// String returns the wire name of the subscription tier.
func (s Subscription) String() string {
	if str, ok := getSubscriptionStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// WaivesDeliveryFee reports whether the tier zeroes the duration-class
// delivery fee during pricing.
func (s Subscription) WaivesDeliveryFee() bool {
	return s == SubscriptionPlus || s == SubscriptionUnlimited
}

// BypassesRestrictions reports whether the tier skips the operating-hours,
// duration, and slot-capacity admission checks.
func (s Subscription) BypassesRestrictions() bool {
	return s == SubscriptionUnlimited
}
