package commands

import (
	"context"
)

// RefillTankCommandHandler handles depot top-ups of courier tanks.
// Levels are courier-reported estimates; a refill resets the estimate to
// the tank's full capacity.
type RefillTankCommandHandler struct {
	uowFactory CourierUoWFactory
}

// NewRefillTankCommandHandler creates a handler for tank refills.
func NewRefillTankCommandHandler(uowFactory CourierUoWFactory) RefillTankCommandHandler {
	return RefillTankCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the refill command.
// Refilling a grade the courier does not carry fails with ErrTankNotFound.
func (h RefillTankCommandHandler) Handle(ctx context.Context, cmd RefillTankCommand) error {
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

	couriersRepo := uow.CourierRepository()
	aggregate, err := couriersRepo.Get(ctx, cmd.CourierID())
	if err != nil {
		return err
	}

	if err = aggregate.RefillTank(cmd.Octane()); err != nil {
		return err
	}

	if err = couriersRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
