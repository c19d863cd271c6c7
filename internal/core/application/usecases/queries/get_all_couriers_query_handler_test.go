package queries_test

import (
	"context"
	"testing"
	"time"

	"refuel/internal/adapters/out/postgres/courierrepo"
	"refuel/internal/core/application/usecases/queries"
	"refuel/internal/core/domain/model/courier"
	"refuel/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type GetAllCouriersQueryHandlerTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	handler   queries.GetAllCouriersQueryHandler
}

func (suite *GetAllCouriersQueryHandlerTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	err = db.AutoMigrate(&courierrepo.CourierDTO{}, &courierrepo.TankDTO{})
	suite.Require().NoError(err)

	suite.handler = queries.NewGetAllCouriersQueryHandler(db)
}

func (suite *GetAllCouriersQueryHandlerTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *GetAllCouriersQueryHandlerTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE couriers CASCADE").Error
	suite.Require().NoError(err)
}

func (suite *GetAllCouriersQueryHandlerTestSuite) TestHandle_EmptyDatabase_ReturnsEmptySlice() {
	query := queries.NewGetAllCouriersQuery()

	result, err := suite.handler.Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.NotNil(result)
	suite.Empty(result)
}

func (suite *GetAllCouriersQueryHandlerTestSuite) TestHandle_WithCouriers_ReturnsFleetOrderedByName() {
	heartbeatAt := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	connected := suite.seedConnectedCourier("Ava Li", []string{"94103", "94110"}, heartbeatAt)
	fresh := suite.seedFreshCourier("Ben Ode", []string{"94110"})

	query := queries.NewGetAllCouriersQuery()

	result, err := suite.handler.Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.Require().Len(result, 2)

	suite.Equal(connected.ID(), result[0].ID)
	suite.Equal("Ava Li", result[0].Name)
	suite.True(result[0].Active)
	suite.True(result[0].OnDuty)
	suite.True(result[0].Connected)
	suite.False(result[0].Busy)
	suite.True(heartbeatAt.Equal(result[0].LastHeartbeat))
	suite.Equal([]string{"94103", "94110"}, result[0].Zones)

	suite.Require().NotNil(result[0].Position)
	isEqual, err := connected.Position().IsEqual(*result[0].Position)
	suite.Require().NoError(err)
	suite.True(isEqual)

	// Registration stocks the default grades full; nothing dispensed yet.
	suite.Require().Len(result[0].Tanks, 2)
	suite.Equal(queries.CourierTankResponse{Octane: 87, CapacityGallons: 100, RemainingGallons: 100}, result[0].Tanks[0])
	suite.Equal(queries.CourierTankResponse{Octane: 91, CapacityGallons: 100, RemainingGallons: 100}, result[0].Tanks[1])

	// A courier that never sent a heartbeat has no position to show.
	suite.Equal(fresh.ID(), result[1].ID)
	suite.Equal("Ben Ode", result[1].Name)
	suite.True(result[1].Active)
	suite.False(result[1].OnDuty)
	suite.False(result[1].Connected)
	suite.Nil(result[1].Position)
	suite.True(result[1].LastHeartbeat.IsZero())
	suite.Len(result[1].Tanks, 2)
}

func (suite *GetAllCouriersQueryHandlerTestSuite) TestHandle_InvalidQuery_ReturnsError() {
	invalidQuery := queries.GetAllCouriersQuery{}

	result, err := suite.handler.Handle(context.Background(), invalidQuery)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.Contains(err.Error(), "must be created via NewGetAllCouriersQuery constructor")
}

func (suite *GetAllCouriersQueryHandlerTestSuite) TestHandle_ContextCancellation_ReturnsError() {
	suite.seedFreshCourier("Ray Kim", []string{"94103"})

	query := queries.NewGetAllCouriersQuery()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := suite.handler.Handle(ctx, query)

	suite.Require().Error(err)
	suite.Nil(result)
}

func (suite *GetAllCouriersQueryHandlerTestSuite) seedFreshCourier(name string, zones []string) *courier.Courier {
	registered, err := courier.NewCourier(kernel.NewUUID(), name, zones)
	suite.Require().NoError(err)

	repo := courierrepo.NewGormCourierRepository(suite.db)
	suite.Require().NoError(repo.Add(context.Background(), registered))
	return registered
}

func (suite *GetAllCouriersQueryHandlerTestSuite) seedConnectedCourier(
	name string, zones []string, heartbeatAt time.Time,
) *courier.Courier {
	registered, err := courier.NewCourier(kernel.NewUUID(), name, zones)
	suite.Require().NoError(err)

	position, err := kernel.NewGeoPoint(37.7749, -122.4194)
	suite.Require().NoError(err)
	suite.Require().NoError(registered.Heartbeat(position, heartbeatAt))
	registered.SetOnDuty(true)

	repo := courierrepo.NewGormCourierRepository(suite.db)
	suite.Require().NoError(repo.Add(context.Background(), registered))
	return registered
}

func TestGetAllCouriersQueryHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(GetAllCouriersQueryHandlerTestSuite))
}
