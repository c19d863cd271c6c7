package commands

import (
	"context"

	"refuel/internal/core/domain/model/order"
	"refuel/internal/pkg/clock"
)

// CancelOrderCommandHandler handles order cancellation by the owning
// customer or staff. Cancellation is the only transition that jumps the
// chain: it is legal from any state before complete.
//
// On success the reserved promotional credit, if any, is refunded to the
// customer's ledger balance, and a courier left without open orders is
// marked idle. Everything commits in one transaction.
type CancelOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	clock      clock.Clock
}

// NewCancelOrderCommandHandler creates a handler for order cancellation.
func NewCancelOrderCommandHandler(uowFactory OrderUoWFactory, clk clock.Clock) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
		clock:      clk,
	}
}

// Handle processes the cancellation command.
//
// Expected business refusals (already_terminal for fulfilled or already
// cancelled orders, permission_denied for anyone who is neither the owning
// customer nor staff) propagate as rejection errors with nothing persisted.
func (h CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) error {
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

	if err = aggregate.Cancel(actor, h.clock.Now()); err != nil {
		return err
	}

	refundCents := aggregate.ReleaseCredit()

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
