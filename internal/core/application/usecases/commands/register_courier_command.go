package commands

import (
	"errors"

	"refuel/internal/core/domain/model/kernel"
	"refuel/internal/pkg/guard"
)

var (
	// ErrRegisterCourierCommandIsNotConstructed is returned when using an
	// improperly initialized RegisterCourierCommand.
	ErrRegisterCourierCommandIsNotConstructed = errors.New(
		"RegisterCourierCommand must be created via NewRegisterCourierCommand constructor",
	)

	// ErrNameIsRequired is returned when a courier name is empty.
	ErrNameIsRequired = errors.New("name is required")

	// ErrZonesAreRequired is returned when no service zone is given.
	ErrZonesAreRequired = errors.New("at least one zone code is required")

	// ErrZoneCodeIsEmpty is returned when a zone code in the list is blank.
	ErrZoneCodeIsEmpty = errors.New("zone codes must not be empty")
)

// RegisterCourierCommand represents a request to register a new courier
// in the fleet. The courier identifier is generated here so callers can
// correlate the registration with later lookups.
//
// Example:
//
//	cmd, err := commands.NewRegisterCourierCommand("Ray Kim", []string{"94103", "94110"})
//	if err != nil {
//	    return fmt.Errorf("invalid courier data: %w", err)
//	}
//
//	handler := NewRegisterCourierCommandHandler(uowFactory)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to register courier: %w", err)
//	}
//	courierID := cmd.CourierID()
type RegisterCourierCommand struct { //nolint:recvcheck //using for validation
	courierID kernel.UUID
	name      string
	zones     []string

	guard guard.ConstructorGuard
}

// NewRegisterCourierCommand creates a command to register a courier.
// Requires a non-empty name and at least one non-empty zone code.
func NewRegisterCourierCommand(name string, zones []string) (RegisterCourierCommand, error) {
	registerCommand := RegisterCourierCommand{
		courierID: kernel.NewUUID(),
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		registerCommand.setName(name),
		registerCommand.setZones(zones),
	); err != nil {
		return RegisterCourierCommand{}, err
	}

	return registerCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c RegisterCourierCommand) Validate() error {
	return c.guard.Validate(ErrRegisterCourierCommandIsNotConstructed)
}

// CourierID returns the generated identifier for the new courier.
func (c RegisterCourierCommand) CourierID() kernel.UUID {
	return c.courierID
}

// Name returns the courier's human-readable name.
func (c RegisterCourierCommand) Name() string {
	return c.name
}

// Zones returns a copy of the service zone codes the courier covers.
func (c RegisterCourierCommand) Zones() []string {
	out := make([]string, len(c.zones))
	copy(out, c.zones)
	return out
}

func (c *RegisterCourierCommand) setName(name string) error {
	if name == "" {
		return ErrNameIsRequired
	}

	c.name = name
	return nil
}

func (c *RegisterCourierCommand) setZones(zones []string) error {
	if len(zones) == 0 {
		return ErrZonesAreRequired
	}

	for _, code := range zones {
		if code == "" {
			return ErrZoneCodeIsEmpty
		}
	}

	c.zones = make([]string, len(zones))
	copy(c.zones, zones)
	return nil
}
