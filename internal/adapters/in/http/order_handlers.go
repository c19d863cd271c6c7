package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"refuel/internal/core/application/usecases/queries"
	"refuel/internal/core/domain/model/order"
)

// CreateOrder handles POST /api/v1/orders - admits a new order.
//
// Transitions are strictly single-step, so a successfully admitted order is
// always unassigned; the response is built from that guarantee rather than a
// re-read.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var req createOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return s.respondInvalid(ctx, err)
	}

	cmd, orderID, err := req.toCommand()
	if err != nil {
		return s.respondInvalid(ctx, err)
	}

	if err := s.handlers.CreateOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.respondError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, orderResultResponse{
		Success: true,
		Order:   orderStatusView{ID: orderID.String(), Status: order.Unassigned.String()},
	})
}

// TransitionOrder handles POST /api/v1/orders/:id/transition - advances an
// order one lifecycle step on behalf of the acting party.
func (s *Server) TransitionOrder(ctx echo.Context) error {
	orderID, err := pathUUID(ctx)
	if err != nil {
		return s.respondInvalid(ctx, err)
	}

	var req transitionOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return s.respondInvalid(ctx, err)
	}

	cmd, target, err := req.toCommand(orderID)
	if err != nil {
		return s.respondInvalid(ctx, err)
	}

	if err := s.handlers.TransitionOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, orderResultResponse{
		Success: true,
		Order:   orderStatusView{ID: orderID.String(), Status: target.String()},
	})
}

// CancelOrder handles POST /api/v1/orders/:id/cancel - cancels an order from
// any non-terminal status.
func (s *Server) CancelOrder(ctx echo.Context) error {
	orderID, err := pathUUID(ctx)
	if err != nil {
		return s.respondInvalid(ctx, err)
	}

	var req cancelOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return s.respondInvalid(ctx, err)
	}

	cmd, err := req.toCommand(orderID)
	if err != nil {
		return s.respondInvalid(ctx, err)
	}

	if err := s.handlers.CancelOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, orderResultResponse{
		Success: true,
		Order:   orderStatusView{ID: orderID.String(), Status: order.Cancelled.String()},
	})
}

// ForceAssignOrder handles POST /api/v1/orders/:id/assign - pins an order to
// a chosen courier, bypassing the dispatch loop. Staff only.
func (s *Server) ForceAssignOrder(ctx echo.Context) error {
	orderID, err := pathUUID(ctx)
	if err != nil {
		return s.respondInvalid(ctx, err)
	}

	var req forceAssignOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return s.respondInvalid(ctx, err)
	}

	cmd, err := req.toCommand(orderID)
	if err != nil {
		return s.respondInvalid(ctx, err)
	}

	if err := s.handlers.ForceAssignOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, orderResultResponse{
		Success: true,
		Order:   orderStatusView{ID: orderID.String(), Status: order.Assigned.String()},
	})
}

// GetActiveOrders handles GET /api/v1/orders/active - lists every order that
// has not yet reached a terminal status.
func (s *Server) GetActiveOrders(ctx echo.Context) error {
	query := queries.NewGetActiveOrdersQuery()

	orders, err := s.handlers.GetActiveOrders.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toActiveOrderViews(orders))
}
