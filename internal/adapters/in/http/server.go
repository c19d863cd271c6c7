package http

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"refuel/internal/core/domain/model/kernel"
)

// Server exposes the dispatch API over HTTP. It coordinates between the
// echo routing layer and the application use cases behind Handlers.
type Server struct {
	handlers Handlers
	gatherer prometheus.Gatherer
	logger   *slog.Logger
}

// NewServer creates the HTTP facade over the given use-case handlers.
// The gatherer backs the /metrics endpoint.
func NewServer(handlers Handlers, gatherer prometheus.Gatherer, logger *slog.Logger) *Server {
	return &Server{
		handlers: handlers,
		gatherer: gatherer,
		logger:   logger.With("component", "http_server"),
	}
}

// RegisterRoutes mounts the API on the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/orders", s.CreateOrder)
	api.GET("/orders/active", s.GetActiveOrders)
	api.POST("/orders/:id/transition", s.TransitionOrder)
	api.POST("/orders/:id/cancel", s.CancelOrder)
	api.POST("/orders/:id/assign", s.ForceAssignOrder)

	api.POST("/couriers", s.RegisterCourier)
	api.GET("/couriers", s.GetCouriers)
	api.POST("/couriers/:id/heartbeat", s.CourierHeartbeat)
	api.POST("/couriers/:id/tanks/refill", s.RefillTank)

	e.GET("/health", s.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
}

// Health handles GET /health - reports process liveness.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// pathUUID parses the :id path segment of the current route.
func pathUUID(ctx echo.Context) (kernel.UUID, error) {
	return kernel.UUIDFromString(ctx.Param("id"))
}
