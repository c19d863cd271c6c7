package order

import (
	"errors"
	"time"

	"refuel/internal/pkg/errs"
	"refuel/internal/pkg/guard"
)

// ErrStatusEventIsNotConstructed is returned when using an improperly initialized StatusEvent.
var ErrStatusEventIsNotConstructed = errors.New("StatusEvent must be created via NewStatusEvent constructor")

// StatusEvent is one entry of an order's append-only event log: the status the
// order entered and the moment it entered it. The log records every transition
// the order ever made, in order, and its last entry always matches the order's
// current status.
//
// Serialization of the log is a persistence concern; the domain only ever sees
// the typed records.
type StatusEvent struct {
	status Status
	at     time.Time
	guard  guard.ConstructorGuard
}

// NewStatusEvent creates a log entry for entering the given status at the given time.
//
// Parameters:
//   - status: The status entered (must be a valid status)
//   - at: The transition time (must be non-zero)
//
// Returns:
//   - StatusEvent: A valid event
//   - error: Validation error if the status is invalid or the time is zero
func NewStatusEvent(status Status, at time.Time) (StatusEvent, error) {
	if err := status.Validate(); err != nil {
		return StatusEvent{}, err
	}
	if at.IsZero() {
		return StatusEvent{}, errs.NewValueIsRequiredError("at")
	}

	return StatusEvent{
		status: status,
		at:     at,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// Validate checks if the StatusEvent was properly constructed.
func (e StatusEvent) Validate() error {
	return e.guard.Validate(ErrStatusEventIsNotConstructed)
}

// Status returns the status the order entered.
func (e StatusEvent) Status() Status {
	return e.status
}

// At returns the moment the order entered the status.
func (e StatusEvent) At() time.Time {
	return e.at
}
