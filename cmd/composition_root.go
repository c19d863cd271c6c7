package cmd

import (
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	httpapi "refuel/internal/adapters/in/http"
	"refuel/internal/adapters/out/kafka"
	"refuel/internal/adapters/out/mqtt"
	"refuel/internal/adapters/out/postgres"
	"refuel/internal/core/application/usecases/commands"
	"refuel/internal/core/application/usecases/queries"
	"refuel/internal/core/dispatch"
	"refuel/internal/core/domain/services"
	"refuel/internal/jobs"
	"refuel/internal/pkg/clock"
)

// CompositionRoot wires the process: one gorm connection, one unit of work
// factory, the dispatch engine with its broker adapters, and factories for
// the use-case handlers the HTTP server exposes.
type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	registry   *prometheus.Registry
	notifier   *mqtt.CourierNotifier
	auditLog   *kafka.TickAuditLog
	engine     *dispatch.Engine
	clock      clock.Clock
	logger     *slog.Logger
}

// NewCompositionRoot builds the object graph. The MQTT and kafka adapters
// connect eagerly so a dead broker fails startup instead of the first tick.
func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	notifier, err := mqtt.NewCourierNotifier(mqtt.Config{
		Broker:   config.MqttBroker,
		ClientID: config.MqttClientID,
		Username: config.MqttUsername,
		Password: config.MqttPassword,
		QoS:      config.MqttQoS,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build mqtt notifier: %w", err)
	}

	auditLog, err := kafka.NewTickAuditLog(kafka.Config{
		Brokers:  config.KafkaBrokers,
		Topic:    config.KafkaTickAuditTopic,
		ClientID: config.KafkaClientID,
	}, logger)
	if err != nil {
		notifier.Close()
		return nil, fmt.Errorf("failed to build kafka audit log: %w", err)
	}

	registry := prometheus.NewRegistry()
	metrics, err := dispatch.NewMetrics(registry)
	if err != nil {
		notifier.Close()
		auditLog.Close()
		return nil, fmt.Errorf("failed to register dispatch metrics: %w", err)
	}

	uowFactory := postgres.NewGormUnitOfWorkFactory(gormDB)
	systemClock := clock.SystemClock{}

	engine := dispatch.NewEngine(
		uowFactory,
		services.NewGreedySuggester(),
		notifier,
		auditLog,
		metrics,
		systemClock,
		logger,
		dispatch.Config{
			StaleAfter:     config.StaleAfter,
			ReminderAfter:  config.ReminderAfter,
			ReminderBefore: config.ReminderBefore,
		},
	)

	return &CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: uowFactory,
		registry:   registry,
		notifier:   notifier,
		auditLog:   auditLog,
		engine:     engine,
		clock:      systemClock,
		logger:     logger,
	}, nil
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateOrderCommandHandler(f, c.clock)
}

func (c *CompositionRoot) CreateTransitionOrderCommandHandler() commands.TransitionOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewTransitionOrderCommandHandler(f, c.clock)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCancelOrderCommandHandler(f, c.clock)
}

func (c *CompositionRoot) CreateForceAssignOrderCommandHandler() commands.ForceAssignOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewForceAssignOrderCommandHandler(f, c.clock)
}

func (c *CompositionRoot) CreateRegisterCourierCommandHandler() commands.RegisterCourierCommandHandler {
	var f commands.CourierUoWFactory = FuncCourierUoWFactory(func() commands.CourierUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRegisterCourierCommandHandler(f)
}

func (c *CompositionRoot) CreateCourierHeartbeatCommandHandler() commands.CourierHeartbeatCommandHandler {
	var f commands.CourierUoWFactory = FuncCourierUoWFactory(func() commands.CourierUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCourierHeartbeatCommandHandler(f, c.clock)
}

func (c *CompositionRoot) CreateRefillTankCommandHandler() commands.RefillTankCommandHandler {
	var f commands.CourierUoWFactory = FuncCourierUoWFactory(func() commands.CourierUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRefillTankCommandHandler(f)
}

func (c *CompositionRoot) CreateGetActiveOrdersQueryHandler() queries.GetActiveOrdersQueryHandler {
	return queries.NewGetActiveOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetAllCouriersQueryHandler() queries.GetAllCouriersQueryHandler {
	return queries.NewGetAllCouriersQueryHandler(c.gormDB)
}

// CreateJobManager wires the dispatch engine into the scheduled job set.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(c.engine, c.config.TickInterval, c.logger)
}

// HTTPHandlers bundles the use-case handlers for the HTTP server.
func (c *CompositionRoot) HTTPHandlers() httpapi.Handlers {
	return httpapi.Handlers{
		CreateOrder:      c.CreateCreateOrderCommandHandler(),
		TransitionOrder:  c.CreateTransitionOrderCommandHandler(),
		CancelOrder:      c.CreateCancelOrderCommandHandler(),
		ForceAssignOrder: c.CreateForceAssignOrderCommandHandler(),
		RegisterCourier:  c.CreateRegisterCourierCommandHandler(),
		CourierHeartbeat: c.CreateCourierHeartbeatCommandHandler(),
		RefillTank:       c.CreateRefillTankCommandHandler(),
		GetActiveOrders:  c.CreateGetActiveOrdersQueryHandler(),
		GetAllCouriers:   c.CreateGetAllCouriersQueryHandler(),
	}
}

// Gatherer exposes the metrics registry backing the /metrics endpoint.
func (c *CompositionRoot) Gatherer() prometheus.Gatherer {
	return c.registry
}

// Close releases the broker connections. Call it after the jobs have
// stopped so no tick is left mid-publish.
func (c *CompositionRoot) Close() {
	c.auditLog.Close()
	c.notifier.Close()
}

type FuncCourierUoWFactory func() commands.CourierUoW

func (f FuncCourierUoWFactory) Create() commands.CourierUoW {
	return f()
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
