package commands

import (
	"errors"

	"refuel/internal/core/domain/model/kernel"
	"refuel/internal/core/domain/model/order"
	"refuel/internal/pkg/guard"
)

// ErrTransitionOrderCommandIsNotConstructed is returned when using an
// improperly initialized TransitionOrderCommand.
var ErrTransitionOrderCommandIsNotConstructed = errors.New(
	"TransitionOrderCommand must be created via NewTransitionOrderCommand constructor",
)

// TransitionOrderCommand represents a request to move an order to a new
// lifecycle status on behalf of an authenticated principal. The domain
// enforces the strict transition chain and checks the actor against the
// assigned courier or owning customer; the command only carries who asks
// for what.
//
// Example:
//
//	target, _ := order.StatusFromString("enroute")
//	cmd, err := commands.NewTransitionOrderCommand(orderID, courierID, order.RoleCourier, target)
//	if err != nil {
//	    return fmt.Errorf("invalid transition request: %w", err)
//	}
type TransitionOrderCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	actorID   kernel.UUID
	actorRole order.Role
	target    order.Status

	guard guard.ConstructorGuard
}

// NewTransitionOrderCommand creates a command to transition an order.
// Validates the order identifier, the acting principal, and the target
// status.
func NewTransitionOrderCommand(
	orderID kernel.UUID,
	actorID kernel.UUID,
	actorRole order.Role,
	target order.Status,
) (TransitionOrderCommand, error) {
	transitionCommand := TransitionOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		transitionCommand.setOrderID(orderID),
		transitionCommand.setActorID(actorID),
		transitionCommand.setActorRole(actorRole),
		transitionCommand.setTarget(target),
	); err != nil {
		return TransitionOrderCommand{}, err
	}

	return transitionCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c TransitionOrderCommand) Validate() error {
	return c.guard.Validate(ErrTransitionOrderCommandIsNotConstructed)
}

// OrderID returns the identifier of the order to transition.
func (c TransitionOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// ActorID returns the identifier of the acting principal.
func (c TransitionOrderCommand) ActorID() kernel.UUID {
	return c.actorID
}

// ActorRole returns the kind of the acting principal.
func (c TransitionOrderCommand) ActorRole() order.Role {
	return c.actorRole
}

// Target returns the requested status.
func (c TransitionOrderCommand) Target() order.Status {
	return c.target
}

func (c *TransitionOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *TransitionOrderCommand) setActorID(actorID kernel.UUID) error {
	if err := actorID.Validate(); err != nil {
		return err
	}

	c.actorID = actorID
	return nil
}

func (c *TransitionOrderCommand) setActorRole(actorRole order.Role) error {
	if err := actorRole.Validate(); err != nil {
		return err
	}

	c.actorRole = actorRole
	return nil
}

func (c *TransitionOrderCommand) setTarget(target order.Status) error {
	if err := target.Validate(); err != nil {
		return err
	}

	c.target = target
	return nil
}
