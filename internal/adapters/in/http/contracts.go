package http

import (
	"context"

	"refuel/internal/core/application/usecases/commands"
	"refuel/internal/core/application/usecases/queries"
)

// The server depends on the use-case surface it actually calls, so tests
// can stand in lightweight fakes for the transactional handlers.

type createOrderHandler interface {
	Handle(ctx context.Context, cmd commands.CreateOrderCommand) error
}

type transitionOrderHandler interface {
	Handle(ctx context.Context, cmd commands.TransitionOrderCommand) error
}

type cancelOrderHandler interface {
	Handle(ctx context.Context, cmd commands.CancelOrderCommand) error
}

type forceAssignOrderHandler interface {
	Handle(ctx context.Context, cmd commands.ForceAssignOrderCommand) error
}

type registerCourierHandler interface {
	Handle(ctx context.Context, cmd commands.RegisterCourierCommand) error
}

type courierHeartbeatHandler interface {
	Handle(ctx context.Context, cmd commands.CourierHeartbeatCommand) (bool, error)
}

type refillTankHandler interface {
	Handle(ctx context.Context, cmd commands.RefillTankCommand) error
}

type activeOrdersQueryHandler interface {
	Handle(ctx context.Context, query queries.GetActiveOrdersQuery) ([]queries.GetActiveOrdersQueryResponse, error)
}

type allCouriersQueryHandler interface {
	Handle(ctx context.Context, query queries.GetAllCouriersQuery) ([]queries.GetAllCouriersQueryResponse, error)
}

// Handlers bundles the use-case handlers the API exposes. The composition
// root fills it with the concrete command and query handlers.
type Handlers struct {
	CreateOrder      createOrderHandler
	TransitionOrder  transitionOrderHandler
	CancelOrder      cancelOrderHandler
	ForceAssignOrder forceAssignOrderHandler
	RegisterCourier  registerCourierHandler
	CourierHeartbeat courierHeartbeatHandler
	RefillTank       refillTankHandler
	GetActiveOrders  activeOrdersQueryHandler
	GetAllCouriers   allCouriersQueryHandler
}
