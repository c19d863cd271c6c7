package errs

import (
	"errors"
	"fmt"
)

// ErrRejected is the sentinel all RejectionError values unwrap to.
// Use errors.Is(err, ErrRejected) to distinguish an expected business
// refusal from an infrastructure failure.
var ErrRejected = errors.New("request rejected")

// RejectionReason is a stable machine-readable code describing why a request
// was refused. The codes are part of the API contract: transports serialize
// them verbatim and clients branch on them.
type RejectionReason string

const (
	// ReasonNotFound: the referenced object does not exist.
	ReasonNotFound RejectionReason = "not_found"
	// ReasonAlreadyTerminal: the order is complete or cancelled and accepts
	// no further transitions.
	ReasonAlreadyTerminal RejectionReason = "already_terminal"
	// ReasonOutOfSync: the caller acted on a stale view of the order and the
	// conditional update matched nothing. Safe to re-read and retry.
	ReasonOutOfSync RejectionReason = "out_of_sync"
	// ReasonPermissionDenied: the acting party may not perform this transition.
	ReasonPermissionDenied RejectionReason = "permission_denied"
	// ReasonPriceMismatch: the quoted price the client echoed back no longer
	// matches the current price table.
	ReasonPriceMismatch RejectionReason = "price_mismatch"
	// ReasonServiceClosed: the requested window falls outside the zone's
	// operating hours.
	ReasonServiceClosed RejectionReason = "service_closed"
	// ReasonCapacityExceeded: no courier capacity remains for the requested
	// one-hour window.
	ReasonCapacityExceeded RejectionReason = "capacity_exceeded"
	// ReasonOptimizerUnavailable: the assignment optimizer could not be
	// reached or returned an unusable plan.
	ReasonOptimizerUnavailable RejectionReason = "optimizer_unavailable"
)

// RejectionError is an expected business refusal: the request was understood
// and well-formed, but a domain rule forbids it. Handlers translate it into a
// structured failure response instead of a transport-level error.
type RejectionError struct {
	Reason  RejectionReason
	Message string
	Cause   error
}

// NewRejectionError creates a RejectionError with a reason code and a
// human-readable message.
func NewRejectionError(reason RejectionReason, message string) *RejectionError {
	return &RejectionError{Reason: reason, Message: message}
}

// NewRejectionErrorWithCause creates a RejectionError wrapping the underlying
// failure, typically used for optimizer_unavailable where the transport error
// matters for diagnostics.
func NewRejectionErrorWithCause(reason RejectionReason, message string, cause error) *RejectionError {
	return &RejectionError{Reason: reason, Message: message, Cause: cause}
}

func (e *RejectionError) Error() string {
	return withCause(fmt.Sprintf("request rejected: %s: %s", e.Reason, sanitize(e.Message)), e.Cause)
}

func (e *RejectionError) Unwrap() error {
	return ErrRejected
}

// RejectionFrom extracts a RejectionError from an error chain.
// Returns nil and false when err is not a business rejection.
func RejectionFrom(err error) (*RejectionError, bool) {
	var rejection *RejectionError
	if errors.As(err, &rejection) {
		return rejection, true
	}
	return nil, false
}
