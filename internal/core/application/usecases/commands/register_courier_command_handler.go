package commands

import (
	"context"

	"refuel/internal/core/domain/model/courier"
)

// RegisterCourierCommandHandler handles the registration of new couriers.
// A fresh courier joins with a full default tank per standard grade, an
// enabled account, and off-duty disconnected state; it becomes visible to
// dispatch once it heartbeats on duty.
type RegisterCourierCommandHandler struct {
	uowFactory CourierUoWFactory
}

// NewRegisterCourierCommandHandler creates a handler for courier registration.
// Requires a CourierUoWFactory for transactional persistence.
func NewRegisterCourierCommandHandler(uowFactory CourierUoWFactory) RegisterCourierCommandHandler {
	return RegisterCourierCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the courier registration command.
// Creates the courier aggregate and persists it within a transaction.
func (h RegisterCourierCommandHandler) Handle(ctx context.Context, cmd RegisterCourierCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	aggregate, err := courier.NewCourier(cmd.CourierID(), cmd.Name(), cmd.Zones())
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

	if err = uow.CourierRepository().Add(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
