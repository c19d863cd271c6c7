package commands

import (
	"context"

	"refuel/internal/core/domain/model/order"
	"refuel/internal/pkg/clock"
)

// TransitionOrderCommandHandler handles order lifecycle transitions
// requested over the API: the assigned courier walking an order forward,
// or the owning customer or staff cancelling it.
//
// The status write is conditional on the status the order was loaded
// with, so two racing writers resolve as one success and one out_of_sync
// rejection. Side effects of the new status (the courier busy flip, the
// tank drain on completion, the credit refund on cancellation) commit in
// the same transaction.
type TransitionOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	clock      clock.Clock
}

// NewTransitionOrderCommandHandler creates a handler for order transitions.
func NewTransitionOrderCommandHandler(uowFactory OrderUoWFactory, clk clock.Clock) TransitionOrderCommandHandler {
	return TransitionOrderCommandHandler{
		uowFactory: uowFactory,
		clock:      clk,
	}
}

// Handle processes the transition command.
//
// The order is loaded, the domain checks the transition chain and the
// actor's permission, and the new status is persisted together with its
// side effects. Expected business refusals (already_terminal, out_of_sync,
// permission_denied) propagate as rejection errors with nothing persisted.
func (h TransitionOrderCommandHandler) Handle(ctx context.Context, cmd TransitionOrderCommand) error {
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
	aggregate, err := ordersRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if err = aggregate.RequestTransition(cmd.Target(), actor, h.clock.Now()); err != nil {
		return err
	}

	// Settle the credit reservation before the write so the cleared flag
	// persists. Cancellation refunds the held amount; completion consumes it.
	refundCents := 0
	if aggregate.Status().IsTerminal() {
		released := aggregate.ReleaseCredit()
		if aggregate.Status() == order.Cancelled {
			refundCents = released
		}
	}

	if err = ordersRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	if refundCents > 0 {
		if err = uow.CreditLedger().Refund(ctx, aggregate.CustomerID(), refundCents); err != nil {
			return err
		}
	}

	if err = applyCourierSideEffects(ctx, uow, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
