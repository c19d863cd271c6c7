package commands

import (
	"errors"

	"refuel/internal/core/domain/model/kernel"
	"refuel/internal/core/domain/model/order"
	"refuel/internal/pkg/guard"
)

var (
	// ErrCourierHeartbeatCommandIsNotConstructed is returned when using an
	// improperly initialized CourierHeartbeatCommand.
	ErrCourierHeartbeatCommandIsNotConstructed = errors.New(
		"CourierHeartbeatCommand must be created via NewCourierHeartbeatCommand constructor",
	)

	// ErrTankLevelIsInvalid is returned for a negative reported tank level.
	ErrTankLevelIsInvalid = errors.New("reported tank level must not be negative")
)

// CourierHeartbeatCommand represents a periodic check-in from a courier's
// device. Every heartbeat refreshes the courier's position and liveness;
// it may also carry estimated tank levels and a duty-state change.
//
// Example:
//
//	onDuty := true
//	cmd, err := commands.NewCourierHeartbeatCommand(
//	    courierID, position, map[int]int{87: 120, 91: 80}, &onDuty)
//	if err != nil {
//	    return fmt.Errorf("invalid heartbeat: %w", err)
//	}
type CourierHeartbeatCommand struct { //nolint:recvcheck //using for validation
	courierID  kernel.UUID
	position   kernel.GeoPoint
	tankLevels map[int]int
	onDuty     *bool

	guard guard.ConstructorGuard
}

// NewCourierHeartbeatCommand creates a command to record a courier check-in.
//
// Parameters:
//   - courierID: The reporting courier (must be a valid UUID)
//   - position: The courier's current location (must be a constructed GeoPoint)
//   - tankLevels: Estimated gallons remaining keyed by octane grade; may be
//     empty, every grade must be a dispensed one and every level non-negative
//   - onDuty: Declared duty state, nil to leave the current state untouched
func NewCourierHeartbeatCommand(
	courierID kernel.UUID,
	position kernel.GeoPoint,
	tankLevels map[int]int,
	onDuty *bool,
) (CourierHeartbeatCommand, error) {
	heartbeatCommand := CourierHeartbeatCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		heartbeatCommand.setCourierID(courierID),
		heartbeatCommand.setPosition(position),
		heartbeatCommand.setTankLevels(tankLevels),
		heartbeatCommand.setOnDuty(onDuty),
	); err != nil {
		return CourierHeartbeatCommand{}, err
	}

	return heartbeatCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c CourierHeartbeatCommand) Validate() error {
	return c.guard.Validate(ErrCourierHeartbeatCommandIsNotConstructed)
}

// CourierID returns the identifier of the reporting courier.
func (c CourierHeartbeatCommand) CourierID() kernel.UUID {
	return c.courierID
}

// Position returns the courier's reported location.
func (c CourierHeartbeatCommand) Position() kernel.GeoPoint {
	return c.position
}

// TankLevels returns a copy of the reported tank levels keyed by octane.
func (c CourierHeartbeatCommand) TankLevels() map[int]int {
	out := make(map[int]int, len(c.tankLevels))
	for octane, gallons := range c.tankLevels {
		out[octane] = gallons
	}
	return out
}

// OnDuty returns the declared duty state, or nil when the heartbeat does
// not change it.
func (c CourierHeartbeatCommand) OnDuty() *bool {
	if c.onDuty == nil {
		return nil
	}

	onDuty := *c.onDuty
	return &onDuty
}

func (c *CourierHeartbeatCommand) setCourierID(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	c.courierID = courierID
	return nil
}

func (c *CourierHeartbeatCommand) setPosition(position kernel.GeoPoint) error {
	if err := position.Validate(); err != nil {
		return err
	}

	c.position = position
	return nil
}

func (c *CourierHeartbeatCommand) setTankLevels(tankLevels map[int]int) error {
	levels := make(map[int]int, len(tankLevels))
	for octane, gallons := range tankLevels {
		if err := order.ValidateOctane(octane); err != nil {
			return err
		}
		if gallons < 0 {
			return ErrTankLevelIsInvalid
		}
		levels[octane] = gallons
	}

	c.tankLevels = levels
	return nil
}

func (c *CourierHeartbeatCommand) setOnDuty(onDuty *bool) error {
	if onDuty == nil {
		return nil
	}

	declared := *onDuty
	c.onDuty = &declared
	return nil
}
