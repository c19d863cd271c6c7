package commands

import (
	"errors"

	"refuel/internal/core/domain/model/kernel"
	"refuel/internal/core/domain/model/order"
	"refuel/internal/pkg/guard"
)

// ErrCancelOrderCommandIsNotConstructed is returned when using an
// improperly initialized CancelOrderCommand.
var ErrCancelOrderCommandIsNotConstructed = errors.New(
	"CancelOrderCommand must be created via NewCancelOrderCommand constructor",
)

// CancelOrderCommand represents a request to withdraw an order before it
// completes. Cancellation is reserved for the owning customer and staff;
// the domain refuses it once the order is terminal.
type CancelOrderCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	actorID   kernel.UUID
	actorRole order.Role

	guard guard.ConstructorGuard
}

// NewCancelOrderCommand creates a command to cancel an order.
// Validates the order identifier and the acting principal.
func NewCancelOrderCommand(
	orderID kernel.UUID,
	actorID kernel.UUID,
	actorRole order.Role,
) (CancelOrderCommand, error) {
	cancelCommand := CancelOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cancelCommand.setOrderID(orderID),
		cancelCommand.setActorID(actorID),
		cancelCommand.setActorRole(actorRole),
	); err != nil {
		return CancelOrderCommand{}, err
	}

	return cancelCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c CancelOrderCommand) Validate() error {
	return c.guard.Validate(ErrCancelOrderCommandIsNotConstructed)
}

// OrderID returns the identifier of the order to cancel.
func (c CancelOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// ActorID returns the identifier of the acting principal.
func (c CancelOrderCommand) ActorID() kernel.UUID {
	return c.actorID
}

// ActorRole returns the kind of the acting principal.
func (c CancelOrderCommand) ActorRole() order.Role {
	return c.actorRole
}

func (c *CancelOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CancelOrderCommand) setActorID(actorID kernel.UUID) error {
	if err := actorID.Validate(); err != nil {
		return err
	}

	c.actorID = actorID
	return nil
}

func (c *CancelOrderCommand) setActorRole(actorRole order.Role) error {
	if err := actorRole.Validate(); err != nil {
		return err
	}

	c.actorRole = actorRole
	return nil
}
