package commands

import (
	"context"

	"refuel/internal/core/domain/model/order"
)

// applyCourierSideEffects reconciles the assigned courier after an order
// status change, inside the same transaction as the status write. The
// order must already be persisted so that open-order counts include it.
//
// A terminal order settles the courier: completion drains the dispensed
// fuel from the matching tank, and the busy flag clears once the courier
// holds no other open order. A non-terminal step re-asserts the busy flag,
// which covers couriers confirming a forced assignment.
func applyCourierSideEffects(ctx context.Context, uow OrderUoW, o *order.Order) error {
	courierID := o.Courier()
	if courierID == nil {
		return nil
	}

	couriersRepo := uow.CourierRepository()
	assignee, err := couriersRepo.Get(ctx, *courierID)
	if err != nil {
		return err
	}

	if !o.Status().IsTerminal() {
		if assignee.Busy() {
			return nil
		}
		assignee.MarkBusy()
		return couriersRepo.Update(ctx, assignee)
	}

	if o.Status() == order.Complete {
		canDispense, err := assignee.CanDispense(o.Fuel())
		if err != nil {
			return err
		}
		if canDispense {
			if err = assignee.Dispense(o.Fuel()); err != nil {
				return err
			}
		}
	}

	stillOpen, err := uow.OrderRepository().CountOpenByCourier(ctx, *courierID)
	if err != nil {
		return err
	}
	if stillOpen == 0 {
		assignee.MarkIdle()
	}

	return couriersRepo.Update(ctx, assignee)
}
