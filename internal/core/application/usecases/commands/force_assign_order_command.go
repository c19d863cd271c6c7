package commands

import (
	"errors"

	"refuel/internal/core/domain/model/kernel"
	"refuel/internal/core/domain/model/order"
	"refuel/internal/pkg/guard"
)

// ErrForceAssignOrderCommandIsNotConstructed is returned when using an
// improperly initialized ForceAssignOrderCommand.
var ErrForceAssignOrderCommandIsNotConstructed = errors.New(
	"ForceAssignOrderCommand must be created via NewForceAssignOrderCommand constructor",
)

// ForceAssignOrderCommand represents an administrative override that
// attaches a specific courier to an unassigned order, bypassing the
// optimizer. The order parks in assigned until the courier accepts;
// the dispatch loop reminds couriers sitting on a forced assignment.
//
// Example:
//
//	cmd, err := commands.NewForceAssignOrderCommand(orderID, courierID, staffID, order.RoleStaff)
//	if err != nil {
//	    return fmt.Errorf("invalid assignment request: %w", err)
//	}
type ForceAssignOrderCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	courierID kernel.UUID
	actorID   kernel.UUID
	actorRole order.Role

	guard guard.ConstructorGuard
}

// NewForceAssignOrderCommand creates a command to force-assign a courier.
// Validates the order and courier identifiers and the acting principal;
// the staff requirement itself is enforced by the domain.
func NewForceAssignOrderCommand(
	orderID kernel.UUID,
	courierID kernel.UUID,
	actorID kernel.UUID,
	actorRole order.Role,
) (ForceAssignOrderCommand, error) {
	assignCommand := ForceAssignOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		assignCommand.setOrderID(orderID),
		assignCommand.setCourierID(courierID),
		assignCommand.setActorID(actorID),
		assignCommand.setActorRole(actorRole),
	); err != nil {
		return ForceAssignOrderCommand{}, err
	}

	return assignCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c ForceAssignOrderCommand) Validate() error {
	return c.guard.Validate(ErrForceAssignOrderCommandIsNotConstructed)
}

// OrderID returns the identifier of the order to assign.
func (c ForceAssignOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// CourierID returns the identifier of the courier to attach.
func (c ForceAssignOrderCommand) CourierID() kernel.UUID {
	return c.courierID
}

// ActorID returns the identifier of the acting principal.
func (c ForceAssignOrderCommand) ActorID() kernel.UUID {
	return c.actorID
}

// ActorRole returns the kind of the acting principal.
func (c ForceAssignOrderCommand) ActorRole() order.Role {
	return c.actorRole
}

func (c *ForceAssignOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *ForceAssignOrderCommand) setCourierID(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	c.courierID = courierID
	return nil
}

func (c *ForceAssignOrderCommand) setActorID(actorID kernel.UUID) error {
	if err := actorID.Validate(); err != nil {
		return err
	}

	c.actorID = actorID
	return nil
}

func (c *ForceAssignOrderCommand) setActorRole(actorRole order.Role) error {
	if err := actorRole.Validate(); err != nil {
		return err
	}

	c.actorRole = actorRole
	return nil
}
