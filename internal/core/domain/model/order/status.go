package order

import (
	"fmt"

	"refuel/internal/pkg/errs"
)

// Status represents the lifecycle state of a fuel order.
// It implements a state machine with defined transitions to ensure
// orders follow the correct fulfillment workflow.
//
// State transitions:
//
//	unassigned ──> assigned ──> accepted ──> enroute ──> servicing ──> complete
//	     │             │            │            │            │
//	     └─────────────┴────────────┴────────────┴────────────┴──> cancelled
//
// Every forward transition advances exactly one step along the chain.
// Cancellation is reachable from any state that precedes complete.
// Complete and cancelled are terminal: no further transitions are allowed.
//
// Status is a value object that validates state transitions
// and provides string representations for persistence and display.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Unassigned is the initial status when an order passes admission.
	// Orders in this status are waiting for the dispatch loop to pair
	// them with a courier.
	Unassigned

	// Assigned indicates a courier has been attached to the order but has
	// not yet confirmed it. Orders normally skip through this state: the
	// dispatch loop attaches and confirms in one step, while administrative
	// assignment parks the order here until the courier accepts.
	Assigned

	// Accepted indicates the assigned courier confirmed the order.
	Accepted

	// Enroute indicates the courier is driving to the customer vehicle.
	Enroute

	// Servicing indicates the courier is at the vehicle dispensing fuel.
	Servicing

	// Complete indicates the order has been fulfilled.
	// This is a terminal state with no further transitions allowed.
	Complete

	// Cancelled indicates the order was withdrawn before completion.
	// This is a terminal state with no further transitions allowed.
	Cancelled
)

// getStatusStrings returns a map of Status values to their string representations.
// All statuses are included for string conversion. The strings are the wire and
// storage format for statuses, so they must stay stable.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "unknown",
		Unassigned: "unassigned",
		Assigned:   "assigned",
		Accepted:   "accepted",
		Enroute:    "enroute",
		Servicing:  "servicing",
		Complete:   "complete",
		Cancelled:  "cancelled",
	}
}

// getValidStatusStrings returns a map of only valid Status values.
// Only valid statuses are included to support validation.
func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Unassigned: "unassigned",
		Assigned:   "assigned",
		Accepted:   "accepted",
		Enroute:    "enroute",
		Servicing:  "servicing",
		Complete:   "complete",
		Cancelled:  "cancelled",
	}
}

// getSuccessors returns the forward transition table of the state machine.
// Each non-terminal status maps to the single status that may follow it.
// Terminal statuses have no entry.
func getSuccessors() map[Status]Status {
	return map[Status]Status{
		Unassigned: Assigned,
		Assigned:   Accepted,
		Accepted:   Enroute,
		Enroute:    Servicing,
		Servicing:  Complete,
	}
}

// StatusFromString parses a status from its string representation.
// This is used when restoring orders from persistence and when parsing
// transition requests from the API.
//
// Returns:
//   - The matching Status for a known string
//   - An error for unknown strings (Unknown is not accepted)
func StatusFromString(s string) (Status, error) {
	for status, str := range getValidStatusStrings() {
		if str == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause(
		"status is invalid",
		fmt.Errorf("%q is not a valid status", s),
	)
}

// Validate checks if the Status value is valid.
//
// Valid statuses are: unassigned, assigned, accepted, enroute, servicing,
// complete, cancelled. Unknown (0) and any other values are invalid.
//
// Returns:
//   - nil if the status is valid
//   - error with details if the status is invalid
//
// This method is used to ensure Status values from external sources
// (e.g., database, API) are valid before use.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire name of the status.
//
// Returns:
//   - the lowercase status name for valid statuses
//   - "unknown" for invalid status values
//
// This method implements the fmt.Stringer interface and is safe
// to call on any Status value, including invalid ones.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether the status accepts no further transitions.
// Complete and cancelled orders are closed for good.
func (s Status) IsTerminal() bool {
	return s == Complete || s == Cancelled
}

// Next returns the single legal forward successor of the status.
//
// The transition chain is strict: every order walks
// unassigned -> assigned -> accepted -> enroute -> servicing -> complete
// one step at a time. There is no skipping and no re-entry.
//
// Returns:
//   - (successor, nil) for a non-terminal valid status
//   - (0, error) if the status is terminal or invalid
func (s Status) Next() (Status, error) {
	if err := s.Validate(); err != nil {
		return 0, err
	}

	next, ok := getSuccessors()[s]
	if !ok {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is terminal and has no next status", s.String()),
		)
	}

	return next, nil
}

// Cancel transitions the status to Cancelled.
//
// Valid transitions:
//   - any non-terminal status -> Cancelled
//
// Invalid transitions:
//   - Complete -> Cancelled (fulfilled orders cannot be withdrawn)
//   - Cancelled -> Cancelled (already cancelled)
//
// Returns:
//   - (Cancelled, nil) on valid transition
//   - (0, error) if the status is terminal or invalid
func (s Status) Cancel() (Status, error) {
	if err := s.Validate(); err != nil {
		return 0, err
	}

	if s.IsTerminal() {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is terminal and cannot be cancelled", s.String()),
		)
	}

	return Cancelled, nil
}

// ValidateCanHaveCourier validates the consistency between order status and courier assignment.
// Enforces business rules about which statuses require courier assignment.
//
// Business Rules:
//   - Unassigned orders must not have a courier attached
//   - Assigned, accepted, enroute, servicing, and complete orders must have one
//   - Cancelled orders may or may not have one, depending on when they were cancelled
//
// Parameters:
//   - courier: whether the order has a courier assigned
//
// Returns:
//   - error: validation error if status and courier assignment are inconsistent
func (s Status) ValidateCanHaveCourier(courier bool) error {
	if s == Cancelled {
		return nil
	}

	if courier && s == Unassigned {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to have a courier", s.String()),
		)
	}

	if !courier && s != Unassigned {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to have no courier", s.String()),
		)
	}

	return nil
}
