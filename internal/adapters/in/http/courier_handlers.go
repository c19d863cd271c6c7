package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"refuel/internal/core/application/usecases/commands"
	"refuel/internal/core/application/usecases/queries"
)

// RegisterCourier handles POST /api/v1/couriers - enrolls a new courier with
// default tanks, initially off duty.
func (s *Server) RegisterCourier(ctx echo.Context) error {
	var req registerCourierRequest
	if err := ctx.Bind(&req); err != nil {
		return s.respondInvalid(ctx, err)
	}

	cmd, err := commands.NewRegisterCourierCommand(req.Name, req.Zones)
	if err != nil {
		return s.respondInvalid(ctx, err)
	}

	if err := s.handlers.RegisterCourier.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.respondError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, courierRegisteredResponse{
		Success: true,
		Courier: courierRegisteredView{ID: cmd.CourierID().String()},
	})
}

// CourierHeartbeat handles POST /api/v1/couriers/:id/heartbeat - ingests a
// telemetry report and echoes the courier's resulting duty state back to the
// device.
func (s *Server) CourierHeartbeat(ctx echo.Context) error {
	courierID, err := pathUUID(ctx)
	if err != nil {
		return s.respondInvalid(ctx, err)
	}

	var req courierHeartbeatRequest
	if err := ctx.Bind(&req); err != nil {
		return s.respondInvalid(ctx, err)
	}

	cmd, err := req.toCommand(courierID)
	if err != nil {
		return s.respondInvalid(ctx, err)
	}

	onDuty, err := s.handlers.CourierHeartbeat.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, heartbeatResponse{Success: true, OnDuty: onDuty})
}

// RefillTank handles POST /api/v1/couriers/:id/tanks/refill - tops one of
// the courier's tanks back up to capacity at the depot.
func (s *Server) RefillTank(ctx echo.Context) error {
	courierID, err := pathUUID(ctx)
	if err != nil {
		return s.respondInvalid(ctx, err)
	}

	var req refillTankRequest
	if err := ctx.Bind(&req); err != nil {
		return s.respondInvalid(ctx, err)
	}

	cmd, err := commands.NewRefillTankCommand(courierID, req.Octane)
	if err != nil {
		return s.respondInvalid(ctx, err)
	}

	if err := s.handlers.RefillTank.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, refillResponse{Success: true})
}

// GetCouriers handles GET /api/v1/couriers - retrieves the fleet roster with
// liveness, duty state, and tank inventory.
func (s *Server) GetCouriers(ctx echo.Context) error {
	query := queries.NewGetAllCouriersQuery()

	couriers, err := s.handlers.GetAllCouriers.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toCourierViews(couriers))
}
