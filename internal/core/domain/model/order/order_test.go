package order_test

import (
	"testing"
	"time"

	"refuel/internal/core/domain/model/kernel"
	"refuel/internal/core/domain/model/order"
	"refuel/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testOrderedAt = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

func newTestPosition(t *testing.T) kernel.GeoPoint {
	t.Helper()
	position, err := kernel.NewGeoPoint(37.7739, -122.4312)
	require.NoError(t, err)
	return position
}

func newTestFuel(t *testing.T) order.Fuel {
	t.Helper()
	fuel, err := order.NewFuel(87, 12)
	require.NoError(t, err)
	return fuel
}

func newTestWindow(t *testing.T) order.ServiceWindow {
	t.Helper()
	window, err := order.NewServiceWindow(order.DurationThreeHour, testOrderedAt.Add(30*time.Minute))
	require.NoError(t, err)
	return window
}

func newTestQuote(t *testing.T, creditCents int) order.Quote {
	t.Helper()
	quote, err := order.NewQuote(4200, 499, 0, creditCents)
	require.NoError(t, err)
	return quote
}

func newTestOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(
		kernel.NewUUID(),
		kernel.NewUUID(),
		newTestPosition(t),
		"94103",
		newTestFuel(t),
		newTestWindow(t),
		newTestQuote(t, 500),
		false,
		testOrderedAt,
	)
	require.NoError(t, err)
	return o
}

func newActor(t *testing.T, id kernel.UUID, role order.Role) order.Actor {
	t.Helper()
	actor, err := order.NewActor(id, role)
	require.NoError(t, err)
	return actor
}

func newStaffActor(t *testing.T) order.Actor {
	t.Helper()
	return newActor(t, kernel.NewUUID(), order.RoleStaff)
}

func ownerOf(t *testing.T, o *order.Order) order.Actor {
	t.Helper()
	return newActor(t, o.CustomerID(), order.RoleCustomer)
}

// claimedTestOrder returns an order in accepted status together with the
// assigned courier's actor.
func claimedTestOrder(t *testing.T) (*order.Order, order.Actor) {
	t.Helper()
	o := newTestOrder(t)
	courierID := kernel.NewUUID()
	require.NoError(t, o.AssignCourier(courierID, testOrderedAt.Add(time.Minute)))
	return o, newActor(t, courierID, order.RoleCourier)
}

func TestNewOrder(t *testing.T) {
	t.Run("should create unassigned order with opening log entry", func(t *testing.T) {
		o := newTestOrder(t)

		assert.Equal(t, order.Unassigned, o.Status())
		assert.Nil(t, o.Courier())
		assert.Equal(t, "94103", o.ZoneCode())
		assert.Equal(t, order.Unknown, o.RestoredStatus())
		assert.True(t, o.IsOpen())
		assert.True(t, o.CreditReserved())

		history := o.History()
		require.Len(t, history, 1)
		assert.Equal(t, order.Unassigned, history[0].Status())
		assert.Equal(t, testOrderedAt, history[0].At())
		assert.Equal(t, testOrderedAt, o.OrderedAt())
	})

	t.Run("should not reserve credit when none was applied", func(t *testing.T) {
		o, err := order.NewOrder(
			kernel.NewUUID(),
			kernel.NewUUID(),
			newTestPosition(t),
			"94103",
			newTestFuel(t),
			newTestWindow(t),
			newTestQuote(t, 0),
			false,
			testOrderedAt,
		)

		require.NoError(t, err)
		assert.False(t, o.CreditReserved())
	})

	t.Run("should reject invalid identifiers", func(t *testing.T) {
		var zeroID kernel.UUID

		_, err := order.NewOrder(
			zeroID,
			kernel.NewUUID(),
			newTestPosition(t),
			"94103",
			newTestFuel(t),
			newTestWindow(t),
			newTestQuote(t, 0),
			false,
			testOrderedAt,
		)

		require.Error(t, err)
	})

	t.Run("should reject empty zone code", func(t *testing.T) {
		_, err := order.NewOrder(
			kernel.NewUUID(),
			kernel.NewUUID(),
			newTestPosition(t),
			"",
			newTestFuel(t),
			newTestWindow(t),
			newTestQuote(t, 0),
			false,
			testOrderedAt,
		)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "zoneCode")
	})

	t.Run("should reject unconstructed value objects", func(t *testing.T) {
		_, err := order.NewOrder(
			kernel.NewUUID(),
			kernel.NewUUID(),
			newTestPosition(t),
			"94103",
			order.Fuel{},
			newTestWindow(t),
			newTestQuote(t, 0),
			false,
			testOrderedAt,
		)

		require.Error(t, err)
		assert.Equal(t, order.ErrFuelIsNotConstructed, err)
	})

	t.Run("should reject zero ordered at time", func(t *testing.T) {
		_, err := order.NewOrder(
			kernel.NewUUID(),
			kernel.NewUUID(),
			newTestPosition(t),
			"94103",
			newTestFuel(t),
			newTestWindow(t),
			newTestQuote(t, 0),
			false,
			time.Time{},
		)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestOrder_Validate(t *testing.T) {
	t.Run("should pass for constructed order", func(t *testing.T) {
		assert.NoError(t, newTestOrder(t).Validate())
	})

	t.Run("should fail for zero value order", func(t *testing.T) {
		var o order.Order

		err := o.Validate()

		require.Error(t, err)
		assert.Equal(t, order.ErrOrderIsNotConstructed, err)
	})

	t.Run("should fail for nil order", func(t *testing.T) {
		var o *order.Order

		err := o.Validate()

		require.Error(t, err)
		assert.Equal(t, order.ErrOrderIsNotConstructed, err)
	})
}

func TestOrder_RequestTransition(t *testing.T) {
	t.Run("should walk the courier chain appending log entries", func(t *testing.T) {
		o := newTestOrder(t)
		courierID := kernel.NewUUID()
		courierActor := newActor(t, courierID, order.RoleCourier)
		require.NoError(t, o.ForceAssign(courierID, newStaffActor(t), testOrderedAt.Add(time.Minute)))

		steps := []order.Status{order.Accepted, order.Enroute, order.Servicing, order.Complete}
		at := testOrderedAt.Add(2 * time.Minute)
		for _, target := range steps {
			require.NoError(t, o.RequestTransition(target, courierActor, at))
			assert.Equal(t, target, o.Status())
			at = at.Add(time.Minute)
		}

		history := o.History()
		require.Len(t, history, 6)
		assert.Equal(t, order.Complete, history[len(history)-1].Status())
		assert.False(t, o.IsOpen())
	})

	t.Run("should reject skipping a step as out of sync", func(t *testing.T) {
		o := newTestOrder(t)

		err := o.RequestTransition(order.Accepted, newStaffActor(t), testOrderedAt.Add(time.Minute))

		require.Error(t, err)
		rejection, ok := errs.RejectionFrom(err)
		require.True(t, ok)
		assert.Equal(t, errs.ReasonOutOfSync, rejection.Reason)
		assert.Equal(t, order.Unassigned, o.Status())
	})

	t.Run("should resolve duplicate requests as one success and one out of sync", func(t *testing.T) {
		o, courierActor := claimedTestOrder(t)

		first := o.RequestTransition(order.Enroute, courierActor, testOrderedAt.Add(2*time.Minute))
		second := o.RequestTransition(order.Enroute, courierActor, testOrderedAt.Add(2*time.Minute))

		require.NoError(t, first)
		require.Error(t, second)
		rejection, ok := errs.RejectionFrom(second)
		require.True(t, ok)
		assert.Equal(t, errs.ReasonOutOfSync, rejection.Reason)
		assert.Len(t, o.History(), 4)
	})

	t.Run("should reject transitions on terminal orders", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.Cancel(ownerOf(t, o), testOrderedAt.Add(time.Minute)))

		err := o.RequestTransition(order.Assigned, newStaffActor(t), testOrderedAt.Add(2*time.Minute))

		require.Error(t, err)
		rejection, ok := errs.RejectionFrom(err)
		require.True(t, ok)
		assert.Equal(t, errs.ReasonAlreadyTerminal, rejection.Reason)
	})

	t.Run("should reserve the assigned step for dispatch", func(t *testing.T) {
		o := newTestOrder(t)

		err := o.RequestTransition(order.Assigned, newStaffActor(t), testOrderedAt.Add(time.Minute))

		require.Error(t, err)
		rejection, ok := errs.RejectionFrom(err)
		require.True(t, ok)
		assert.Equal(t, errs.ReasonPermissionDenied, rejection.Reason)
		assert.Equal(t, order.Unassigned, o.Status())
	})

	t.Run("should deny courier steps from anyone but the assigned courier", func(t *testing.T) {
		o, _ := claimedTestOrder(t)
		stranger := newActor(t, kernel.NewUUID(), order.RoleCourier)

		err := o.RequestTransition(order.Enroute, stranger, testOrderedAt.Add(2*time.Minute))

		require.Error(t, err)
		rejection, ok := errs.RejectionFrom(err)
		require.True(t, ok)
		assert.Equal(t, errs.ReasonPermissionDenied, rejection.Reason)
		assert.Equal(t, order.Accepted, o.Status())
	})

	t.Run("should deny courier steps to customers and staff", func(t *testing.T) {
		o, _ := claimedTestOrder(t)

		for _, actor := range []order.Actor{ownerOf(t, o), newStaffActor(t)} {
			err := o.RequestTransition(order.Enroute, actor, testOrderedAt.Add(2*time.Minute))

			require.Error(t, err)
			rejection, ok := errs.RejectionFrom(err)
			require.True(t, ok)
			assert.Equal(t, errs.ReasonPermissionDenied, rejection.Reason)
		}
	})

	t.Run("should allow the owner to request cancelled from any pre complete status", func(t *testing.T) {
		o, courierActor := claimedTestOrder(t)
		require.NoError(t, o.RequestTransition(order.Enroute, courierActor, testOrderedAt.Add(2*time.Minute)))

		err := o.RequestTransition(order.Cancelled, ownerOf(t, o), testOrderedAt.Add(3*time.Minute))

		require.NoError(t, err)
		assert.Equal(t, order.Cancelled, o.Status())
	})

	t.Run("should deny cancellation requested by another customer", func(t *testing.T) {
		o := newTestOrder(t)
		stranger := newActor(t, kernel.NewUUID(), order.RoleCustomer)

		err := o.RequestTransition(order.Cancelled, stranger, testOrderedAt.Add(time.Minute))

		require.Error(t, err)
		rejection, ok := errs.RejectionFrom(err)
		require.True(t, ok)
		assert.Equal(t, errs.ReasonPermissionDenied, rejection.Reason)
		assert.True(t, o.IsOpen())
	})

	t.Run("should reject invalid target status", func(t *testing.T) {
		o := newTestOrder(t)

		err := o.RequestTransition(order.Unknown, newStaffActor(t), testOrderedAt.Add(time.Minute))

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should reject unconstructed actor", func(t *testing.T) {
		o := newTestOrder(t)

		err := o.RequestTransition(order.Cancelled, order.Actor{}, testOrderedAt.Add(time.Minute))

		require.Error(t, err)
		assert.Equal(t, order.ErrActorIsNotConstructed, err)
	})
}

func TestOrder_Cancel(t *testing.T) {
	t.Run("should cancel unassigned order for its owner", func(t *testing.T) {
		o := newTestOrder(t)

		require.NoError(t, o.Cancel(ownerOf(t, o), testOrderedAt.Add(time.Minute)))

		assert.Equal(t, order.Cancelled, o.Status())
		assert.False(t, o.IsOpen())

		history := o.History()
		require.Len(t, history, 2)
		assert.Equal(t, order.Cancelled, history[1].Status())
	})

	t.Run("should cancel accepted order for staff keeping the courier attached", func(t *testing.T) {
		o := newTestOrder(t)
		courierID := kernel.NewUUID()
		require.NoError(t, o.AssignCourier(courierID, testOrderedAt.Add(time.Minute)))

		require.NoError(t, o.Cancel(newStaffActor(t), testOrderedAt.Add(2*time.Minute)))

		assert.Equal(t, order.Cancelled, o.Status())
		require.NotNil(t, o.Courier())
		assert.True(t, courierID.IsEqual(*o.Courier()))
	})

	t.Run("should deny cancellation by the assigned courier", func(t *testing.T) {
		o, courierActor := claimedTestOrder(t)

		err := o.Cancel(courierActor, testOrderedAt.Add(2*time.Minute))

		require.Error(t, err)
		rejection, ok := errs.RejectionFrom(err)
		require.True(t, ok)
		assert.Equal(t, errs.ReasonPermissionDenied, rejection.Reason)
	})

	t.Run("should refuse cancelling completed order", func(t *testing.T) {
		o, courierActor := claimedTestOrder(t)
		require.NoError(t, o.RequestTransition(order.Enroute, courierActor, testOrderedAt.Add(2*time.Minute)))
		require.NoError(t, o.RequestTransition(order.Servicing, courierActor, testOrderedAt.Add(3*time.Minute)))
		require.NoError(t, o.RequestTransition(order.Complete, courierActor, testOrderedAt.Add(4*time.Minute)))

		err := o.Cancel(newStaffActor(t), testOrderedAt.Add(5*time.Minute))

		require.Error(t, err)
		rejection, ok := errs.RejectionFrom(err)
		require.True(t, ok)
		assert.Equal(t, errs.ReasonAlreadyTerminal, rejection.Reason)
	})

	t.Run("should refuse cancelling twice", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.Cancel(ownerOf(t, o), testOrderedAt.Add(time.Minute)))

		err := o.Cancel(ownerOf(t, o), testOrderedAt.Add(2*time.Minute))

		require.Error(t, err)
		rejection, ok := errs.RejectionFrom(err)
		require.True(t, ok)
		assert.Equal(t, errs.ReasonAlreadyTerminal, rejection.Reason)
	})
}

func TestOrder_AssignCourier(t *testing.T) {
	t.Run("should attach courier and confirm in one step", func(t *testing.T) {
		o := newTestOrder(t)
		courierID := kernel.NewUUID()
		at := testOrderedAt.Add(time.Minute)

		require.NoError(t, o.AssignCourier(courierID, at))

		assert.Equal(t, order.Accepted, o.Status())
		require.NotNil(t, o.Courier())
		assert.True(t, courierID.IsEqual(*o.Courier()))

		history := o.History()
		require.Len(t, history, 3)
		assert.Equal(t, order.Assigned, history[1].Status())
		assert.Equal(t, order.Accepted, history[2].Status())
		assert.Equal(t, at, history[1].At())
		assert.Equal(t, at, history[2].At())
	})

	t.Run("should refuse assigning an already claimed order as out of sync", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.AssignCourier(kernel.NewUUID(), testOrderedAt.Add(time.Minute)))

		err := o.AssignCourier(kernel.NewUUID(), testOrderedAt.Add(2*time.Minute))

		require.Error(t, err)
		rejection, ok := errs.RejectionFrom(err)
		require.True(t, ok)
		assert.Equal(t, errs.ReasonOutOfSync, rejection.Reason)
	})

	t.Run("should refuse assigning a cancelled order as already terminal", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.Cancel(ownerOf(t, o), testOrderedAt.Add(time.Minute)))

		err := o.AssignCourier(kernel.NewUUID(), testOrderedAt.Add(2*time.Minute))

		require.Error(t, err)
		rejection, ok := errs.RejectionFrom(err)
		require.True(t, ok)
		assert.Equal(t, errs.ReasonAlreadyTerminal, rejection.Reason)
	})

	t.Run("should reject invalid courier id", func(t *testing.T) {
		o := newTestOrder(t)
		var zeroID kernel.UUID

		err := o.AssignCourier(zeroID, testOrderedAt.Add(time.Minute))

		require.Error(t, err)
	})
}

func TestOrder_ForceAssign(t *testing.T) {
	t.Run("should park the order in assigned until the courier accepts", func(t *testing.T) {
		o := newTestOrder(t)
		courierID := kernel.NewUUID()
		at := testOrderedAt.Add(time.Minute)

		require.NoError(t, o.ForceAssign(courierID, newStaffActor(t), at))

		assert.Equal(t, order.Assigned, o.Status())
		require.NotNil(t, o.Courier())
		assert.True(t, courierID.IsEqual(*o.Courier()))

		history := o.History()
		require.Len(t, history, 2)
		assert.Equal(t, order.Assigned, history[1].Status())

		assignedAt, ok := o.StatusTime(order.Assigned)
		require.True(t, ok)
		assert.Equal(t, at, assignedAt)
	})

	t.Run("should deny non staff actors", func(t *testing.T) {
		o := newTestOrder(t)

		err := o.ForceAssign(kernel.NewUUID(), ownerOf(t, o), testOrderedAt.Add(time.Minute))

		require.Error(t, err)
		rejection, ok := errs.RejectionFrom(err)
		require.True(t, ok)
		assert.Equal(t, errs.ReasonPermissionDenied, rejection.Reason)
		assert.Equal(t, order.Unassigned, o.Status())
	})

	t.Run("should refuse forcing onto a claimed order", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.ForceAssign(kernel.NewUUID(), newStaffActor(t), testOrderedAt.Add(time.Minute)))

		err := o.ForceAssign(kernel.NewUUID(), newStaffActor(t), testOrderedAt.Add(2*time.Minute))

		require.Error(t, err)
		rejection, ok := errs.RejectionFrom(err)
		require.True(t, ok)
		assert.Equal(t, errs.ReasonOutOfSync, rejection.Reason)
	})
}

func TestOrder_ReleaseCredit(t *testing.T) {
	t.Run("should release the reserved amount exactly once", func(t *testing.T) {
		o := newTestOrder(t)
		require.True(t, o.CreditReserved())

		released := o.ReleaseCredit()

		assert.Equal(t, 500, released)
		assert.False(t, o.CreditReserved())
		assert.Equal(t, 0, o.ReleaseCredit())
	})

	t.Run("should release nothing when no credit was applied", func(t *testing.T) {
		o, err := order.NewOrder(
			kernel.NewUUID(),
			kernel.NewUUID(),
			newTestPosition(t),
			"94103",
			newTestFuel(t),
			newTestWindow(t),
			newTestQuote(t, 0),
			false,
			testOrderedAt,
		)
		require.NoError(t, err)

		assert.Equal(t, 0, o.ReleaseCredit())
	})
}

func TestOrder_StatusTime(t *testing.T) {
	t.Run("should report the latest entry for a status", func(t *testing.T) {
		o := newTestOrder(t)
		at := testOrderedAt.Add(time.Minute)
		require.NoError(t, o.AssignCourier(kernel.NewUUID(), at))

		acceptedAt, ok := o.StatusTime(order.Accepted)

		require.True(t, ok)
		assert.Equal(t, at, acceptedAt)
	})

	t.Run("should report false for a status never entered", func(t *testing.T) {
		o := newTestOrder(t)

		_, ok := o.StatusTime(order.Servicing)

		assert.False(t, ok)
	})
}

func TestOrder_History(t *testing.T) {
	t.Run("should return a copy that does not alias internal state", func(t *testing.T) {
		o := newTestOrder(t)

		history := o.History()
		history[0] = order.StatusEvent{}

		fresh := o.History()
		assert.Equal(t, order.Unassigned, fresh[0].Status())
	})
}

func TestRestoreOrder(t *testing.T) {
	makeEvents := func(t *testing.T, statuses ...order.Status) []order.StatusEvent {
		t.Helper()
		events := make([]order.StatusEvent, 0, len(statuses))
		at := testOrderedAt
		for _, s := range statuses {
			event, err := order.NewStatusEvent(s, at)
			require.NoError(t, err)
			events = append(events, event)
			at = at.Add(time.Minute)
		}
		return events
	}

	t.Run("should restore order with courier and remember loaded status", func(t *testing.T) {
		id := kernel.NewUUID()
		courierID := kernel.NewUUID()
		events := makeEvents(t, order.Unassigned, order.Assigned, order.Accepted)

		restored, err := order.RestoreOrder(
			id,
			kernel.NewUUID(),
			&courierID,
			newTestPosition(t),
			"94103",
			newTestFuel(t),
			newTestWindow(t),
			newTestQuote(t, 500),
			true,
			true,
			order.Accepted,
			events,
		)

		require.NoError(t, err)
		assert.Equal(t, order.Accepted, restored.Status())
		assert.Equal(t, order.Accepted, restored.RestoredStatus())
		assert.True(t, restored.TireService())
		assert.True(t, restored.CreditReserved())
		require.NotNil(t, restored.Courier())
		assert.True(t, courierID.IsEqual(*restored.Courier()))
		assert.Len(t, restored.History(), 3)
	})

	t.Run("should restore order whose credit was already released", func(t *testing.T) {
		events := makeEvents(t, order.Unassigned, order.Cancelled)

		restored, err := order.RestoreOrder(
			kernel.NewUUID(),
			kernel.NewUUID(),
			nil,
			newTestPosition(t),
			"94103",
			newTestFuel(t),
			newTestWindow(t),
			newTestQuote(t, 500),
			false,
			false,
			order.Cancelled,
			events,
		)

		require.NoError(t, err)
		assert.False(t, restored.CreditReserved())
		assert.Equal(t, 0, restored.ReleaseCredit())
	})

	t.Run("should reject log whose last entry differs from status", func(t *testing.T) {
		events := makeEvents(t, order.Unassigned, order.Assigned)

		_, err := order.RestoreOrder(
			kernel.NewUUID(),
			kernel.NewUUID(),
			nil,
			newTestPosition(t),
			"94103",
			newTestFuel(t),
			newTestWindow(t),
			newTestQuote(t, 0),
			false,
			false,
			order.Accepted,
			events,
		)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not match order status")
	})

	t.Run("should reject empty event log", func(t *testing.T) {
		_, err := order.RestoreOrder(
			kernel.NewUUID(),
			kernel.NewUUID(),
			nil,
			newTestPosition(t),
			"94103",
			newTestFuel(t),
			newTestWindow(t),
			newTestQuote(t, 0),
			false,
			false,
			order.Unassigned,
			nil,
		)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should reject courier on unassigned order", func(t *testing.T) {
		courierID := kernel.NewUUID()
		events := makeEvents(t, order.Unassigned)

		_, err := order.RestoreOrder(
			kernel.NewUUID(),
			kernel.NewUUID(),
			&courierID,
			newTestPosition(t),
			"94103",
			newTestFuel(t),
			newTestWindow(t),
			newTestQuote(t, 0),
			false,
			false,
			order.Unassigned,
			events,
		)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "not a valid status to have a courier")
	})

	t.Run("should reject accepted order without courier", func(t *testing.T) {
		events := makeEvents(t, order.Unassigned, order.Assigned, order.Accepted)

		_, err := order.RestoreOrder(
			kernel.NewUUID(),
			kernel.NewUUID(),
			nil,
			newTestPosition(t),
			"94103",
			newTestFuel(t),
			newTestWindow(t),
			newTestQuote(t, 0),
			false,
			false,
			order.Accepted,
			events,
		)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "not a valid status to have no courier")
	})
}
