// Package clock abstracts wall time so that time-dependent logic
// (dispatch ticks, staleness cutoffs, operating-hours checks) can be
// driven by a fixed clock in tests.
package clock

import "time"

// Clock provides current time.
type Clock interface {
	Now() time.Time
}

// SystemClock is the default clock backed by the OS.
type SystemClock struct{}

// Now returns current time.
func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant. Test helper.
type FixedClock struct {
	Instant time.Time
}

// Now returns the fixed instant.
func (c FixedClock) Now() time.Time { return c.Instant }
