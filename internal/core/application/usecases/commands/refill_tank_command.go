package commands

import (
	"errors"

	"refuel/internal/core/domain/model/kernel"
	"refuel/internal/core/domain/model/order"
	"refuel/internal/pkg/guard"
)

// ErrRefillTankCommandIsNotConstructed is returned when using an
// improperly initialized RefillTankCommand.
var ErrRefillTankCommandIsNotConstructed = errors.New(
	"RefillTankCommand must be created via NewRefillTankCommand constructor",
)

// RefillTankCommand represents a depot top-up: the tank carrying the given
// grade on the given courier's truck is restored to full capacity.
//
// Example:
//
//	cmd, err := commands.NewRefillTankCommand(courierID, 87)
//	if err != nil {
//	    return fmt.Errorf("invalid refill request: %w", err)
//	}
type RefillTankCommand struct { //nolint:recvcheck //using for validation
	courierID kernel.UUID
	octane    int

	guard guard.ConstructorGuard
}

// NewRefillTankCommand creates a command to refill a courier's tank.
// Validates the courier identifier and the octane grade.
func NewRefillTankCommand(courierID kernel.UUID, octane int) (RefillTankCommand, error) {
	refillCommand := RefillTankCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		refillCommand.setCourierID(courierID),
		refillCommand.setOctane(octane),
	); err != nil {
		return RefillTankCommand{}, err
	}

	return refillCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c RefillTankCommand) Validate() error {
	return c.guard.Validate(ErrRefillTankCommandIsNotConstructed)
}

// CourierID returns the identifier of the courier whose tank is refilled.
func (c RefillTankCommand) CourierID() kernel.UUID {
	return c.courierID
}

// Octane returns the grade of the tank to refill.
func (c RefillTankCommand) Octane() int {
	return c.octane
}

func (c *RefillTankCommand) setCourierID(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	c.courierID = courierID
	return nil
}

func (c *RefillTankCommand) setOctane(octane int) error {
	if err := order.ValidateOctane(octane); err != nil {
		return err
	}

	c.octane = octane
	return nil
}
