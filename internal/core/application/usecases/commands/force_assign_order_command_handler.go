package commands

import (
	"context"

	"refuel/internal/core/domain/model/order"
	"refuel/internal/pkg/clock"
)

// ForceAssignOrderCommandHandler handles administrative courier assignment.
// Staff can pin an unassigned order to a chosen courier regardless of what
// the optimizer would suggest; the courier still has to accept before the
// order moves forward.
//
// Example:
//
//	handler := NewForceAssignOrderCommandHandler(uowFactory, clock.SystemClock{})
//	err := handler.Handle(ctx, cmd)
//	if rejection, ok := errs.RejectionFrom(err); ok {
//	    // permission_denied, already_terminal, or out_of_sync
//	    log.Printf("assignment refused: %s", rejection.Reason)
//	}
type ForceAssignOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	clock      clock.Clock
}

// NewForceAssignOrderCommandHandler creates a handler for forced assignment.
func NewForceAssignOrderCommandHandler(uowFactory OrderUoWFactory, clk clock.Clock) ForceAssignOrderCommandHandler {
	return ForceAssignOrderCommandHandler{
		uowFactory: uowFactory,
		clock:      clk,
	}
}

// Handle processes the forced assignment.
//
// Both the order and the courier must exist; the order must still be
// unassigned. On success the order parks in assigned with the courier
// attached, and the courier is marked busy in the same transaction.
func (h ForceAssignOrderCommandHandler) Handle(ctx context.Context, cmd ForceAssignOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	actor, err := order.NewActor(cmd.ActorID(), cmd.ActorRole())
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	ordersRepo := uow.OrderRepository()
	couriersRepo := uow.CourierRepository()

	aggregate, err := ordersRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	assignee, err := couriersRepo.Get(ctx, cmd.CourierID())
	if err != nil {
		return err
	}

	if err = aggregate.ForceAssign(cmd.CourierID(), actor, h.clock.Now()); err != nil {
		return err
	}

	if err = ordersRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	if !assignee.Busy() {
		assignee.MarkBusy()
		if err = couriersRepo.Update(ctx, assignee); err != nil {
			return err
		}
	}

	return uow.Commit(ctx)
}
