package commands

import (
	"context"

	"refuel/internal/pkg/clock"
)

// CourierHeartbeatCommandHandler handles courier device check-ins.
// A heartbeat marks the courier connected, stamps the check-in time used
// by the stale-heartbeat sweep, updates the position, records reported
// tank levels, and applies any declared duty-state change.
//
// Example:
//
//	handler := NewCourierHeartbeatCommandHandler(uowFactory, clock.SystemClock{})
//	onDuty, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("heartbeat failed: %w", err)
//	}
//	fmt.Printf("courier is now on duty: %v\n", onDuty)
type CourierHeartbeatCommandHandler struct {
	uowFactory CourierUoWFactory
	clock      clock.Clock
}

// NewCourierHeartbeatCommandHandler creates a handler for courier heartbeats.
func NewCourierHeartbeatCommandHandler(uowFactory CourierUoWFactory, clk clock.Clock) CourierHeartbeatCommandHandler {
	return CourierHeartbeatCommandHandler{
		uowFactory: uowFactory,
		clock:      clk,
	}
}

// Handle processes the heartbeat command and reports the courier's
// resulting duty state, which the caller echoes back to the device.
//
// A tank report for a grade the courier does not carry fails the whole
// heartbeat: that mismatch means the device and the fleet registry
// disagree, which is worth surfacing instead of silently dropping.
func (h CourierHeartbeatCommandHandler) Handle(ctx context.Context, cmd CourierHeartbeatCommand) (bool, error) {
	if err := cmd.Validate(); err != nil {
		return false, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	couriersRepo := uow.CourierRepository()
	aggregate, err := couriersRepo.Get(ctx, cmd.CourierID())
	if err != nil {
		return false, err
	}

	if err = aggregate.Heartbeat(cmd.Position(), h.clock.Now()); err != nil {
		return false, err
	}

	for octane, gallons := range cmd.TankLevels() {
		if err = aggregate.ReportTankLevel(octane, gallons); err != nil {
			return false, err
		}
	}

	if onDuty := cmd.OnDuty(); onDuty != nil {
		aggregate.SetOnDuty(*onDuty)
	}

	if err = couriersRepo.Update(ctx, aggregate); err != nil {
		return false, err
	}

	if err = uow.Commit(ctx); err != nil {
		return false, err
	}

	return aggregate.OnDuty(), nil
}
