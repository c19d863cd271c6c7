package http

import (
	"refuel/internal/core/application/usecases/commands"
	"refuel/internal/core/application/usecases/queries"
	"refuel/internal/core/domain/model/account"
	"refuel/internal/core/domain/model/kernel"
	"refuel/internal/core/domain/model/order"
)

// toCommand validates the create-order request and builds the admission
// command. The order id is minted here so the caller can echo it back in
// the response.
func (r createOrderRequest) toCommand() (commands.CreateOrderCommand, kernel.UUID, error) {
	var zero commands.CreateOrderCommand

	customerID, err := kernel.UUIDFromString(r.CustomerID)
	if err != nil {
		return zero, kernel.UUID{}, err
	}

	position, err := kernel.NewGeoPoint(r.Lat, r.Lng)
	if err != nil {
		return zero, kernel.UUID{}, err
	}

	fuel, err := order.NewFuel(r.Octane, r.Gallons)
	if err != nil {
		return zero, kernel.UUID{}, err
	}

	class, err := order.DurationClassFromString(r.DurationClass)
	if err != nil {
		return zero, kernel.UUID{}, err
	}

	window, err := order.NewServiceWindow(class, r.WindowStart)
	if err != nil {
		return zero, kernel.UUID{}, err
	}

	subscription := account.SubscriptionNone
	if r.Subscription != "" {
		subscription, err = account.SubscriptionFromString(r.Subscription)
		if err != nil {
			return zero, kernel.UUID{}, err
		}
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(
		orderID, customerID, position, r.ZoneCode, fuel, window,
		r.TireService, subscription, r.SubmittedTotalCents)
	if err != nil {
		return zero, kernel.UUID{}, err
	}

	return cmd, orderID, nil
}

func (r transitionOrderRequest) toCommand(orderID kernel.UUID) (commands.TransitionOrderCommand, order.Status, error) {
	var zero commands.TransitionOrderCommand

	actorID, err := kernel.UUIDFromString(r.ActorID)
	if err != nil {
		return zero, order.Unknown, err
	}

	role, err := order.RoleFromString(r.ActorRole)
	if err != nil {
		return zero, order.Unknown, err
	}

	target, err := order.StatusFromString(r.Target)
	if err != nil {
		return zero, order.Unknown, err
	}

	cmd, err := commands.NewTransitionOrderCommand(orderID, actorID, role, target)
	if err != nil {
		return zero, order.Unknown, err
	}

	return cmd, target, nil
}

func (r cancelOrderRequest) toCommand(orderID kernel.UUID) (commands.CancelOrderCommand, error) {
	var zero commands.CancelOrderCommand

	actorID, err := kernel.UUIDFromString(r.ActorID)
	if err != nil {
		return zero, err
	}

	role, err := order.RoleFromString(r.ActorRole)
	if err != nil {
		return zero, err
	}

	return commands.NewCancelOrderCommand(orderID, actorID, role)
}

func (r forceAssignOrderRequest) toCommand(orderID kernel.UUID) (commands.ForceAssignOrderCommand, error) {
	var zero commands.ForceAssignOrderCommand

	courierID, err := kernel.UUIDFromString(r.CourierID)
	if err != nil {
		return zero, err
	}

	actorID, err := kernel.UUIDFromString(r.ActorID)
	if err != nil {
		return zero, err
	}

	role, err := order.RoleFromString(r.ActorRole)
	if err != nil {
		return zero, err
	}

	return commands.NewForceAssignOrderCommand(orderID, courierID, actorID, role)
}

func (r courierHeartbeatRequest) toCommand(courierID kernel.UUID) (commands.CourierHeartbeatCommand, error) {
	var zero commands.CourierHeartbeatCommand

	position, err := kernel.NewGeoPoint(r.Lat, r.Lng)
	if err != nil {
		return zero, err
	}

	return commands.NewCourierHeartbeatCommand(courierID, position, r.TankLevels, r.OnDuty)
}

func toActiveOrderViews(orders []queries.GetActiveOrdersQueryResponse) []activeOrderView {
	views := make([]activeOrderView, 0, len(orders))
	for _, o := range orders {
		var courierID *string
		if o.CourierID != nil {
			id := o.CourierID.String()
			courierID = &id
		}

		history := make([]statusEventView, 0, len(o.History))
		for _, event := range o.History {
			history = append(history, statusEventView{
				Status: event.Status().String(),
				At:     event.At(),
			})
		}

		views = append(views, activeOrderView{
			ID:         o.ID.String(),
			Status:     o.Status.String(),
			ZoneCode:   o.ZoneCode,
			CourierID:  courierID,
			Lat:        o.Position.Lat(),
			Lng:        o.Position.Lng(),
			TotalCents: o.TotalCents,
			OrderedAt:  o.OrderedAt,
			History:    history,
		})
	}
	return views
}

func toCourierViews(couriers []queries.GetAllCouriersQueryResponse) []courierView {
	views := make([]courierView, 0, len(couriers))
	for _, c := range couriers {
		view := courierView{
			ID:        c.ID.String(),
			Name:      c.Name,
			Active:    c.Active,
			OnDuty:    c.OnDuty,
			Connected: c.Connected,
			Busy:      c.Busy,
			Zones:     c.Zones,
			Tanks:     make([]courierTankView, 0, len(c.Tanks)),
		}

		if !c.LastHeartbeat.IsZero() {
			at := c.LastHeartbeat
			view.LastHeartbeat = &at
		}

		if c.Position != nil {
			lat, lng := c.Position.Lat(), c.Position.Lng()
			view.Lat, view.Lng = &lat, &lng
		}

		for _, tank := range c.Tanks {
			view.Tanks = append(view.Tanks, courierTankView{
				Octane:           tank.Octane,
				CapacityGallons:  tank.CapacityGallons,
				RemainingGallons: tank.RemainingGallons,
			})
		}

		views = append(views, view)
	}
	return views
}
