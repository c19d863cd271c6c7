package order

import (
	"errors"
	"fmt"
	"time"

	"refuel/internal/core/domain/model/kernel"
	"refuel/internal/pkg/errs"
	"refuel/internal/pkg/guard"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// the NewOrder or RestoreOrder factory methods. This ensures all orders are properly validated.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")
)

// Order represents a fuel delivery order. It is the aggregate root that manages
// the order lifecycle from admission through assignment to completion, and it owns
// the append-only event log recording every status the order ever entered.
//
// Order follows these invariants:
//   - Must have valid order and customer identifiers
//   - Must have a valid delivery position and a non-empty zone code
//   - Fuel, window, and quote values are validated at construction
//   - The event log is append-only and its last entry always equals the current status
//   - Status only advances forward along the transition chain, or jumps to
//     cancelled from a state that precedes complete
//   - A courier is attached exactly when the status requires one
//   - Can only be created through NewOrder or RestoreOrder
//
// Expected business refusals (acting on a terminal order, requesting a status
// that is not the single legal next one) are reported as rejection errors with
// stable reason codes; malformed input is reported as validation errors.
type Order struct {
	// id is the unique identifier for the order
	id kernel.UUID

	// customerID identifies the customer whose vehicle gets refueled
	customerID kernel.UUID

	// courierID is the assigned courier's ID (nil while unassigned)
	courierID *kernel.UUID

	// position is the parked vehicle's location
	position kernel.GeoPoint

	// zoneCode is the service zone the order was admitted into
	zoneCode string

	// fuel is the requested octane grade and gallon amount
	fuel Fuel

	// window is the target service window
	window ServiceWindow

	// tireService marks an air-and-tire add-on purchased with the order
	tireService bool

	// quote is the admitted price breakdown and the credit applied against it
	quote Quote

	// creditReserved reports whether the quote's promotional credit is still
	// held; cleared exactly once when the order reaches a terminal status
	creditReserved bool

	// status is the current state in the order lifecycle
	status Status

	// restoredStatus is the status the aggregate carried when loaded from
	// storage (Unknown for fresh orders). Conditional updates compare the
	// stored row against it so that two racing writers resolve as one
	// success and one out-of-sync failure.
	restoredStatus Status

	// events is the append-only log of (status, time) transitions
	events []StatusEvent

	// guard ensures the order was created via a constructor
	guard guard.ConstructorGuard
}

// NewOrder creates a new Order that has just passed admission control.
// The order starts unassigned with a single event-log entry recording admission time.
//
// Parameters:
//   - id: Unique identifier for the order (must be a valid UUID)
//   - customerID: The ordering customer (must be a valid UUID)
//   - position: The vehicle position (must be a constructed GeoPoint)
//   - zoneCode: The admitting service zone (must be non-empty)
//   - fuel: Validated fuel request
//   - window: Validated target window
//   - quote: Validated price and reserved credit
//   - tireService: Whether the air-and-tire add-on was purchased
//   - orderedAt: Admission time, recorded as the first event-log entry
//
// Returns:
//   - *Order: The created order if all validations pass
//   - error: Validation error if any parameter is invalid
func NewOrder(
	id kernel.UUID,
	customerID kernel.UUID,
	position kernel.GeoPoint,
	zoneCode string,
	fuel Fuel,
	window ServiceWindow,
	quote Quote,
	tireService bool,
	orderedAt time.Time,
) (*Order, error) {
	order := &Order{
		status:      Unassigned,
		tireService: tireService,
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		order.setID(id),
		order.setCustomerID(customerID),
		order.setPosition(position),
		order.setZoneCode(zoneCode),
		order.setFuel(fuel),
		order.setWindow(window),
		order.setQuote(quote),
	); err != nil {
		return nil, err
	}

	if err := order.recordStatus(Unassigned, orderedAt); err != nil {
		return nil, err
	}

	order.creditReserved = order.quote.CreditCents() > 0
	return order, nil
}

// RestoreOrder reconstructs an Order aggregate from persistent storage.
// Unlike NewOrder, which admits fresh orders, this constructor restores an order
// to its previously persisted state including courier assignment and event log.
//
// The restored order remembers the status it was loaded with; repositories use
// that memory to build conditional updates, so concurrent transition attempts
// on the same order resolve as exactly one success.
//
// Parameters:
//   - id: Unique identifier for the order
//   - customerID: The ordering customer
//   - courierID: The assigned courier (nil if unassigned)
//   - position: The vehicle position
//   - zoneCode: The admitting service zone
//   - fuel: The fuel request
//   - window: The target window
//   - quote: The price breakdown and applied credit
//   - tireService: Whether the air-and-tire add-on was purchased
//   - creditReserved: Whether the applied credit is still held
//   - status: The persisted status
//   - events: The persisted event log, oldest first
//
// Returns:
//   - *Order: Restored order aggregate
//   - error: Validation error if any parameter is invalid or the log is inconsistent
func RestoreOrder(
	id kernel.UUID,
	customerID kernel.UUID,
	courierID *kernel.UUID,
	position kernel.GeoPoint,
	zoneCode string,
	fuel Fuel,
	window ServiceWindow,
	quote Quote,
	tireService bool,
	creditReserved bool,
	status Status,
	events []StatusEvent,
) (*Order, error) {
	order := &Order{
		tireService:    tireService,
		creditReserved: creditReserved,
		guard:          guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		order.setID(id),
		order.setCustomerID(customerID),
		order.setPosition(position),
		order.setZoneCode(zoneCode),
		order.setFuel(fuel),
		order.setWindow(window),
		order.setQuote(quote),
		order.setCourierID(courierID),
		order.setStatusWithEvents(status, events),
	); err != nil {
		return nil, err
	}

	if err := status.ValidateCanHaveCourier(courierID != nil); err != nil {
		return nil, err
	}

	order.restoredStatus = status
	return order, nil
}

// Validate ensures the Order instance was properly constructed through a constructor.
// This prevents bypassing validation by directly instantiating the struct.
//
// Returns:
//   - nil if the order is valid
//   - ErrOrderIsNotConstructed if the order was not created via a constructor
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}

	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// IsEqual compares two orders by their unique identifiers.
// Orders are considered equal if they have the same ID.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// CustomerID returns the ordering customer's identifier.
func (o *Order) CustomerID() kernel.UUID {
	return o.customerID
}

// Courier returns the assigned courier's ID.
// Returns nil if no courier is assigned.
func (o *Order) Courier() *kernel.UUID {
	return o.courierID
}

// Position returns the vehicle position for the order.
func (o *Order) Position() kernel.GeoPoint {
	return o.position
}

// ZoneCode returns the code of the service zone the order was admitted into.
func (o *Order) ZoneCode() string {
	return o.zoneCode
}

// Fuel returns the requested octane grade and gallon amount.
func (o *Order) Fuel() Fuel {
	return o.fuel
}

// Window returns the target service window.
func (o *Order) Window() ServiceWindow {
	return o.window
}

// TireService reports whether the air-and-tire add-on was purchased.
func (o *Order) TireService() bool {
	return o.tireService
}

// Quote returns the admitted price breakdown and applied promotional credit.
func (o *Order) Quote() Quote {
	return o.quote
}

// CreditReserved reports whether the quote's promotional credit is still held
// against this order.
func (o *Order) CreditReserved() bool {
	return o.creditReserved
}

// ReleaseCredit clears the credit reservation and returns the amount to hand
// back to the customer's balance. Returns 0 when nothing is outstanding, so
// repeated calls release at most once.
//
// Transition handlers call this when the order reaches a terminal status and
// persist the ledger refund in the same transaction as the status change.
func (o *Order) ReleaseCredit() int {
	if !o.creditReserved {
		return 0
	}

	o.creditReserved = false
	return o.quote.CreditCents()
}

// Status returns the current status of the order.
func (o *Order) Status() Status {
	return o.status
}

// RestoredStatus returns the status the aggregate carried when it was loaded
// from storage, or Unknown for orders created in this process. Repositories
// key conditional updates on it.
func (o *Order) RestoredStatus() Status {
	return o.restoredStatus
}

// History returns a copy of the append-only event log, oldest entry first.
// The last entry always equals the current status.
func (o *Order) History() []StatusEvent {
	out := make([]StatusEvent, len(o.events))
	copy(out, o.events)
	return out
}

// OrderedAt returns the admission time of the order, which is the time of the
// first event-log entry.
func (o *Order) OrderedAt() time.Time {
	if len(o.events) == 0 {
		return time.Time{}
	}
	return o.events[0].At()
}

// StatusTime returns the time the order most recently entered the given status.
// The second return value reports whether the order ever entered it.
//
// The dispatch loop uses this to measure how long an order has been sitting in
// assigned without the courier confirming it.
func (o *Order) StatusTime(status Status) (time.Time, bool) {
	for i := len(o.events) - 1; i >= 0; i-- {
		if o.events[i].Status() == status {
			return o.events[i].At(), true
		}
	}
	return time.Time{}, false
}

// IsOpen reports whether the order still participates in dispatch,
// meaning its status is not terminal.
func (o *Order) IsOpen() bool {
	return !o.status.IsTerminal()
}

// RequestTransition moves the order to the requested status on behalf of an actor.
//
// The transition chain is strict: the requested status must be exactly the
// single legal next status for the current one, except that cancelled may be
// requested from any state that precedes complete. There is no skipping, no
// re-entry, and no movement out of a terminal status.
//
// Business refusals, checked in order:
//   - already_terminal if the current status is complete or cancelled
//   - out_of_sync if the requested status is not the legal next one, which is
//     how a stale client racing another writer loses
//   - permission_denied if the actor is not the assigned courier for a
//     courier-driven step, or not the owning customer or staff for cancellation
//
// Parameters:
//   - target: The requested status (must be a valid status)
//   - actor: The principal requesting the transition
//   - at: The transition time appended to the event log
//
// Returns:
//   - nil on success, with the status updated and the event log extended
//   - rejection or validation error otherwise
func (o *Order) RequestTransition(target Status, actor Actor, at time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := actor.Validate(); err != nil {
		return err
	}
	if err := target.Validate(); err != nil {
		return err
	}

	if o.status.IsTerminal() {
		return errs.NewRejectionError(errs.ReasonAlreadyTerminal,
			fmt.Sprintf("order %s is %s and accepts no further transitions", o.id, o.status))
	}

	if target == Cancelled {
		if err := o.authorizeCancel(actor); err != nil {
			return err
		}
		return o.cancel(at)
	}

	next, err := o.status.Next()
	if err != nil {
		return err
	}

	if target != next {
		return errs.NewRejectionError(errs.ReasonOutOfSync,
			fmt.Sprintf("order %s is %s; the only allowed next status is %s, not %s",
				o.id, o.status, next, target))
	}

	if err := o.authorizeStep(target, actor); err != nil {
		return err
	}

	return o.recordStatus(target, at)
}

// Cancel withdraws the order on behalf of the owning customer or staff.
//
// Cancellation is allowed from any state that precedes complete. Cancelling a
// terminal order is refused with already_terminal.
//
// Parameters:
//   - actor: The principal requesting the cancellation
//   - at: The cancellation time appended to the event log
func (o *Order) Cancel(actor Actor, at time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := actor.Validate(); err != nil {
		return err
	}

	if o.status.IsTerminal() {
		return errs.NewRejectionError(errs.ReasonAlreadyTerminal,
			fmt.Sprintf("order %s is %s and accepts no further transitions", o.id, o.status))
	}

	if err := o.authorizeCancel(actor); err != nil {
		return err
	}

	return o.cancel(at)
}

// AssignCourier attaches a courier chosen by the dispatch loop and confirms
// the assignment in one step. The order walks through assigned into accepted,
// and both steps are recorded in the event log with the same timestamp.
//
// The order must still be unassigned: if another writer claimed it between
// the dispatch snapshot and this call, the refusal is out_of_sync and the
// stale assignment is dropped rather than overwriting the winner.
//
// Parameters:
//   - courierID: The courier to attach (must be a valid UUID)
//   - at: The assignment time
//
// Returns:
//   - nil on success, with the order in accepted status
//   - rejection or validation error otherwise
func (o *Order) AssignCourier(courierID kernel.UUID, at time.Time) error {
	if err := o.prepareAssign(courierID); err != nil {
		return err
	}

	o.courierID = &courierID
	if err := o.recordStatus(Assigned, at); err != nil {
		return err
	}
	return o.recordStatus(Accepted, at)
}

// ForceAssign attaches a courier by administrative action without confirming
// on their behalf. The order lands in assigned and stays there until the
// courier accepts; the dispatch loop reminds couriers who sit on a forced
// assignment too long.
//
// Parameters:
//   - courierID: The courier to attach (must be a valid UUID)
//   - actor: The principal forcing the assignment (must be staff)
//   - at: The assignment time
func (o *Order) ForceAssign(courierID kernel.UUID, actor Actor, at time.Time) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	if !actor.IsStaff() {
		return errs.NewRejectionError(errs.ReasonPermissionDenied,
			fmt.Sprintf("actor %s is not staff and cannot force assignments", actor.ID()))
	}

	if err := o.prepareAssign(courierID); err != nil {
		return err
	}

	o.courierID = &courierID
	return o.recordStatus(Assigned, at)
}

// authorizeStep checks the actor against a forward (non-cancel) transition.
// Transitions into assigned belong to dispatch and force assignment; every
// later step is courier-driven and restricted to the assigned courier.
func (o *Order) authorizeStep(target Status, actor Actor) error {
	if target == Assigned {
		return errs.NewRejectionError(errs.ReasonPermissionDenied,
			fmt.Sprintf("order %s is assigned by dispatch or force assignment, not by transition request", o.id))
	}

	if actor.Role() != RoleCourier || o.courierID == nil || !actor.ID().IsEqual(*o.courierID) {
		return errs.NewRejectionError(errs.ReasonPermissionDenied,
			fmt.Sprintf("only the assigned courier may mark order %s %s", o.id, target))
	}

	return nil
}

// authorizeCancel checks the actor against a cancellation: the owning
// customer or staff.
func (o *Order) authorizeCancel(actor Actor) error {
	if actor.IsStaff() {
		return nil
	}
	if actor.Role() == RoleCustomer && actor.ID().IsEqual(o.customerID) {
		return nil
	}

	return errs.NewRejectionError(errs.ReasonPermissionDenied,
		fmt.Sprintf("only the ordering customer or staff may cancel order %s", o.id))
}

// prepareAssign validates that a courier can be attached right now.
func (o *Order) prepareAssign(courierID kernel.UUID) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := courierID.Validate(); err != nil {
		return err
	}

	if o.status.IsTerminal() {
		return errs.NewRejectionError(errs.ReasonAlreadyTerminal,
			fmt.Sprintf("order %s is %s and accepts no further transitions", o.id, o.status))
	}

	if o.status != Unassigned {
		return errs.NewRejectionError(errs.ReasonOutOfSync,
			fmt.Sprintf("order %s is already %s", o.id, o.status))
	}

	return nil
}

// cancel performs the terminal jump shared by RequestTransition and Cancel.
func (o *Order) cancel(at time.Time) error {
	target, err := o.status.Cancel()
	if err != nil {
		return err
	}

	return o.recordStatus(target, at)
}

// recordStatus applies a status and appends the matching event-log entry.
// Status and log always move together so the log's last entry stays equal
// to the current status.
func (o *Order) recordStatus(status Status, at time.Time) error {
	event, err := NewStatusEvent(status, at)
	if err != nil {
		return err
	}

	o.status = status
	o.events = append(o.events, event)
	return nil
}

// setID validates and sets the order's unique identifier.
// This is a private method used only during construction.
func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

// setCustomerID validates and sets the ordering customer.
// This is a private method used only during construction.
func (o *Order) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("customerId", err)
	}
	o.customerID = customerID
	return nil
}

// setCourierID validates and sets the assigned courier, if any.
// This is a private method used only during restoration.
func (o *Order) setCourierID(courierID *kernel.UUID) error {
	if courierID == nil {
		return nil
	}
	if err := courierID.Validate(); err != nil {
		return err
	}
	o.courierID = courierID
	return nil
}

// setPosition validates and sets the vehicle position.
// This is a private method used only during construction.
func (o *Order) setPosition(position kernel.GeoPoint) error {
	if err := position.Validate(); err != nil {
		return err
	}
	o.position = position
	return nil
}

// setZoneCode validates and sets the service zone code.
// This is a private method used only during construction.
func (o *Order) setZoneCode(zoneCode string) error {
	if zoneCode == "" {
		return errs.NewValueIsRequiredError("zoneCode")
	}
	o.zoneCode = zoneCode
	return nil
}

// setFuel validates and sets the fuel request.
// This is a private method used only during construction.
func (o *Order) setFuel(fuel Fuel) error {
	if err := fuel.Validate(); err != nil {
		return err
	}
	o.fuel = fuel
	return nil
}

// setWindow validates and sets the target window.
// This is a private method used only during construction.
func (o *Order) setWindow(window ServiceWindow) error {
	if err := window.Validate(); err != nil {
		return err
	}
	o.window = window
	return nil
}

// setQuote validates and sets the admitted quote.
// This is a private method used only during construction.
func (o *Order) setQuote(quote Quote) error {
	if err := quote.Validate(); err != nil {
		return err
	}
	o.quote = quote
	return nil
}

// setStatusWithEvents validates and sets the persisted status together with
// the persisted event log. The log must be non-empty, every entry valid, and
// the last entry must equal the status.
// This is a private method used only during restoration.
func (o *Order) setStatusWithEvents(status Status, events []StatusEvent) error {
	if err := status.Validate(); err != nil {
		return err
	}
	if len(events) == 0 {
		return errs.NewValueIsRequiredError("events")
	}

	for _, event := range events {
		if err := event.Validate(); err != nil {
			return err
		}
	}

	if last := events[len(events)-1].Status(); last != status {
		return errs.NewValueIsInvalidErrorWithCause("events",
			fmt.Errorf("last event status %s does not match order status %s", last, status))
	}

	o.status = status
	o.events = make([]StatusEvent, len(events))
	copy(o.events, events)
	return nil
}
