package commands

import (
	"errors"

	"refuel/internal/core/domain/model/account"
	"refuel/internal/core/domain/model/kernel"
	"refuel/internal/core/domain/model/order"
	"refuel/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrZoneCodeIsRequired      = errors.New("zone code is required")
	ErrSubmittedTotalIsInvalid = errors.New("submitted total must not be negative")
)

// CreateOrderCommand represents a request to create a new fuel delivery
// order. It carries the delivery location, the fuel request, the target
// window, the customer's subscription tier, and the total price the client
// saw, which admission control verifies against the current price tables.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(
//	    kernel.NewUUID(), customerID, position, "94103",
//	    fuel, window, false, account.SubscriptionNone, 3999)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	handler := NewCreateOrderCommandHandler(uowFactory, clock.SystemClock{})
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to create order: %w", err)
//	}
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID             kernel.UUID
	customerID          kernel.UUID
	position            kernel.GeoPoint
	zoneCode            string
	fuel                order.Fuel
	window              order.ServiceWindow
	tireService         bool
	subscription        account.Subscription
	submittedTotalCents int

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to admit a new fuel order.
// Validates identifiers, the delivery position, the fuel request, the
// service window, and the subscription tier; the submitted total may be
// zero (fully covered by credit) but never negative.
func NewCreateOrderCommand(
	orderID kernel.UUID,
	customerID kernel.UUID,
	position kernel.GeoPoint,
	zoneCode string,
	fuel order.Fuel,
	window order.ServiceWindow,
	tireService bool,
	subscription account.Subscription,
	submittedTotalCents int,
) (CreateOrderCommand, error) {
	orderCommand := CreateOrderCommand{
		tireService: tireService,
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		orderCommand.setOrderID(orderID),
		orderCommand.setCustomerID(customerID),
		orderCommand.setPosition(position),
		orderCommand.setZoneCode(zoneCode),
		orderCommand.setFuel(fuel),
		orderCommand.setWindow(window),
		orderCommand.setSubscription(subscription),
		orderCommand.setSubmittedTotalCents(submittedTotalCents),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return orderCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateOrderCommandIsNotConstructed if validation fails.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the unique identifier for the order.
func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// CustomerID returns the identifier of the ordering customer.
func (c CreateOrderCommand) CustomerID() kernel.UUID {
	return c.customerID
}

// Position returns the delivery location.
func (c CreateOrderCommand) Position() kernel.GeoPoint {
	return c.position
}

// ZoneCode returns the zip-style code of the target service zone.
func (c CreateOrderCommand) ZoneCode() string {
	return c.zoneCode
}

// Fuel returns the requested fuel grade and amount.
func (c CreateOrderCommand) Fuel() order.Fuel {
	return c.fuel
}

// Window returns the requested service window.
func (c CreateOrderCommand) Window() order.ServiceWindow {
	return c.window
}

// TireService reports whether the air-and-tire add-on was requested.
func (c CreateOrderCommand) TireService() bool {
	return c.tireService
}

// Subscription returns the ordering customer's tier.
func (c CreateOrderCommand) Subscription() account.Subscription {
	return c.subscription
}

// SubmittedTotalCents returns the total price the client echoed back.
func (c CreateOrderCommand) SubmittedTotalCents() int {
	return c.submittedTotalCents
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return err
	}

	c.customerID = customerID
	return nil
}

func (c *CreateOrderCommand) setPosition(position kernel.GeoPoint) error {
	if err := position.Validate(); err != nil {
		return err
	}

	c.position = position
	return nil
}

func (c *CreateOrderCommand) setZoneCode(zoneCode string) error {
	if zoneCode == "" {
		return ErrZoneCodeIsRequired
	}

	c.zoneCode = zoneCode
	return nil
}

func (c *CreateOrderCommand) setFuel(fuel order.Fuel) error {
	if err := fuel.Validate(); err != nil {
		return err
	}

	c.fuel = fuel
	return nil
}

func (c *CreateOrderCommand) setWindow(window order.ServiceWindow) error {
	if err := window.Validate(); err != nil {
		return err
	}

	c.window = window
	return nil
}

func (c *CreateOrderCommand) setSubscription(subscription account.Subscription) error {
	if err := subscription.Validate(); err != nil {
		return err
	}

	c.subscription = subscription
	return nil
}

func (c *CreateOrderCommand) setSubmittedTotalCents(submittedTotalCents int) error {
	if submittedTotalCents < 0 {
		return ErrSubmittedTotalIsInvalid
	}

	c.submittedTotalCents = submittedTotalCents
	return nil
}
