package commands

import (
	"context"

	"refuel/internal/core/domain/model/order"
	"refuel/internal/core/domain/services"
	"refuel/internal/pkg/clock"
)

// CreateOrderCommandHandler handles the business logic for order admission.
// It prices the request against the zone's current tables, runs the
// admission gates (price, operating hours, one-hour slot capacity), and
// persists the new order together with its credit reservation. A rejected
// request persists nothing.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory, clock.SystemClock{})
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    if rejection, ok := errs.RejectionFrom(err); ok {
//	        // expected business refusal: rejection.Reason names why
//	    }
//	    return err
//	}
//	// Order is now unassigned and visible to the dispatch loop
type CreateOrderCommandHandler struct {
	uowFactory UoWFactory
	clock      clock.Clock
}

// NewCreateOrderCommandHandler creates a handler for order admission.
// Requires a UoWFactory for transactional persistence and a clock for
// the ordered-at timestamp.
func NewCreateOrderCommandHandler(uowFactory UoWFactory, clk clock.Clock) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		clock:      clk,
	}
}

// Handle processes the order admission command.
//
// The requested zone is loaded, the price is recomputed from its current
// tables with the customer's available credit applied, and the admission
// gates run in order. On admission the order is created in unassigned
// status and the applied credit is reserved out of the customer's ledger
// balance in the same transaction; on rejection everything rolls back and
// the rejection propagates to the caller.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	zone, err := uow.ZoneRepository().Get(ctx, cmd.ZoneCode())
	if err != nil {
		return err
	}

	availableCredit, err := uow.CreditLedger().Available(ctx, cmd.CustomerID())
	if err != nil {
		return err
	}

	quote, err := zone.Quote(
		cmd.Fuel(), cmd.Window().Class(), cmd.TireService(), cmd.Subscription(), availableCredit)
	if err != nil {
		return err
	}

	capacity, err := h.gatherCapacity(ctx, uow, cmd, zone.OneHourConstrainedBy())
	if err != nil {
		return err
	}

	if err = services.NewAdmissionControl().Check(
		zone, quote, cmd.SubmittedTotalCents(), cmd.Window(), cmd.Subscription(), capacity,
	); err != nil {
		return err
	}

	admitted, err := order.NewOrder(
		cmd.OrderID(), cmd.CustomerID(), cmd.Position(), cmd.ZoneCode(),
		cmd.Fuel(), cmd.Window(), quote, cmd.TireService(), h.clock.Now())
	if err != nil {
		return err
	}

	if quote.CreditCents() > 0 {
		if err = uow.CreditLedger().Reserve(ctx, cmd.CustomerID(), quote.CreditCents()); err != nil {
			return err
		}
	}

	if err = uow.OrderRepository().Add(ctx, admitted); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// gatherCapacity loads the constraining zone's capacity picture when the
// capacity gate will actually read it: a one-hour request, a designated
// constraining zone, and a tier that does not bypass the gate.
func (h CreateOrderCommandHandler) gatherCapacity(
	ctx context.Context,
	uow UoW,
	cmd CreateOrderCommand,
	constrainingZone string,
) (services.ZoneCapacity, error) {
	capacity := services.ZoneCapacity{}

	if !cmd.Window().IsOneHour() || constrainingZone == "" || cmd.Subscription().BypassesRestrictions() {
		return capacity, nil
	}

	activeOneHour, err := uow.OrderRepository().CountActiveOneHourInZone(ctx, constrainingZone)
	if err != nil {
		return capacity, err
	}

	availableCouriers, err := uow.CourierRepository().CountAvailableInZone(ctx, constrainingZone)
	if err != nil {
		return capacity, err
	}

	capacity.ActiveOneHourOrders = activeOneHour
	capacity.AvailableCouriers = availableCouriers
	return capacity, nil
}
