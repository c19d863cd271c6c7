package courierrepo_test

import (
	"context"
	"testing"
	"time"

	"refuel/internal/adapters/out/postgres/courierrepo"
	"refuel/internal/core/domain/model/courier"
	"refuel/internal/core/domain/model/kernel"
	"refuel/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// CourierRepositoryIntegrationTestSuite provides integration tests for CourierRepository
// using PostgreSQL containers to verify database persistence behavior.
type CourierRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *courierrepo.GormCourierRepository
}

func (suite *CourierRepositoryIntegrationTestSuite) SetupSuite() {
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

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&courierrepo.CourierDTO{}, &courierrepo.TankDTO{}))
}

func (suite *CourierRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE couriers CASCADE").Error)
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE tanks").Error)
	suite.repository = courierrepo.NewGormCourierRepository(suite.db)
}

func (suite *CourierRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *CourierRepositoryIntegrationTestSuite) TestAdd_NewCourier_PersistsDefaultTanks() {
	ctx := context.Background()

	registered, err := courier.NewCourier(kernel.NewUUID(), "Ray Kim", []string{"94103"})
	suite.Require().NoError(err)

	suite.Require().NoError(suite.repository.Add(ctx, registered))

	suite.assertRowCount(&courierrepo.CourierDTO{}, 1)
	suite.assertRowCount(&courierrepo.TankDTO{}, 2)
}

func (suite *CourierRepositoryIntegrationTestSuite) TestGet_ExistingCourier_RoundTripsAllFields() {
	ctx := context.Background()

	heartbeatAt := suite.baseTime()
	position, err := kernel.NewGeoPoint(37.7749, -122.4194)
	suite.Require().NoError(err)

	original := suite.restoreCourier(restoredCourierParams{
		name:          "Dana Cole",
		active:        true,
		onDuty:        true,
		connected:     true,
		busy:          true,
		lastHeartbeat: heartbeatAt,
		position:      &position,
		zones:         []string{"94103", "94110"},
		tankLevels:    map[int]int{87: 150, 91: 60},
	})
	suite.Require().NoError(suite.repository.Add(ctx, original))

	retrieved, err := suite.repository.Get(ctx, original.ID())
	suite.Require().NoError(err)

	suite.Equal(original.ID(), retrieved.ID())
	suite.Equal("Dana Cole", retrieved.Name())
	suite.True(retrieved.Active())
	suite.True(retrieved.OnDuty())
	suite.True(retrieved.Connected())
	suite.True(retrieved.Busy())
	suite.True(heartbeatAt.Equal(retrieved.LastHeartbeat()))
	suite.Equal([]string{"94103", "94110"}, retrieved.Zones())

	suite.Require().NotNil(retrieved.Position())
	samePlace, err := position.IsEqual(*retrieved.Position())
	suite.Require().NoError(err)
	suite.True(samePlace)

	suite.Require().Len(retrieved.Tanks(), 2)
	suite.Equal(150, suite.tankByOctane(retrieved, 87).RemainingGallons())
	suite.Equal(60, suite.tankByOctane(retrieved, 91).RemainingGallons())
}

func (suite *CourierRepositoryIntegrationTestSuite) TestGet_NeverHeartbeated_HasNoPosition() {
	ctx := context.Background()

	registered, err := courier.NewCourier(kernel.NewUUID(), "Lee Moran", []string{"94103"})
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Add(ctx, registered))

	retrieved, err := suite.repository.Get(ctx, registered.ID())
	suite.Require().NoError(err)

	suite.Nil(retrieved.Position())
	suite.False(retrieved.Connected())
}

func (suite *CourierRepositoryIntegrationTestSuite) TestGet_NonExistentCourier_ReturnsNotFoundError() {
	ctx := context.Background()

	retrieved, err := suite.repository.Get(ctx, kernel.NewUUID())

	suite.Nil(retrieved)
	suite.Require().Error(err)

	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)
}

func (suite *CourierRepositoryIntegrationTestSuite) TestUpdate_PersistsFlagsAndTankLevels() {
	ctx := context.Background()

	registered, err := courier.NewCourier(kernel.NewUUID(), "Ray Kim", []string{"94103"})
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Add(ctx, registered))

	loaded, err := suite.repository.Get(ctx, registered.ID())
	suite.Require().NoError(err)

	position, err := kernel.NewGeoPoint(37.7858, -122.4065)
	suite.Require().NoError(err)
	heartbeatAt := suite.baseTime()
	suite.Require().NoError(loaded.Heartbeat(position, heartbeatAt))
	loaded.SetOnDuty(true)
	suite.Require().NoError(loaded.ReportTankLevel(87, 42))

	suite.Require().NoError(suite.repository.Update(ctx, loaded))

	retrieved, err := suite.repository.Get(ctx, registered.ID())
	suite.Require().NoError(err)
	suite.True(retrieved.Connected())
	suite.True(retrieved.OnDuty())
	suite.True(heartbeatAt.Equal(retrieved.LastHeartbeat()))
	suite.Equal(42, suite.tankByOctane(retrieved, 87).RemainingGallons())
	suite.Equal(100, suite.tankByOctane(retrieved, 91).RemainingGallons())
}

func (suite *CourierRepositoryIntegrationTestSuite) TestGetAll_OrdersByName() {
	ctx := context.Background()

	first, err := courier.NewCourier(kernel.NewUUID(), "Ava Li", []string{"94103"})
	suite.Require().NoError(err)
	second, err := courier.NewCourier(kernel.NewUUID(), "Ben Ode", []string{"94110"})
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Add(ctx, second))
	suite.Require().NoError(suite.repository.Add(ctx, first))

	all, err := suite.repository.GetAll(ctx)
	suite.Require().NoError(err)

	suite.Require().Len(all, 2)
	suite.Equal("Ava Li", all[0].Name())
	suite.Equal("Ben Ode", all[1].Name())
	suite.Len(all[0].Tanks(), 2)
}

func (suite *CourierRepositoryIntegrationTestSuite) TestCountAvailableInZone_FiltersFlags() {
	ctx := context.Background()

	// Counted: active, on duty, connected, serving the zone.
	suite.addRestoredCourier("In Pool", true, true, true, false, []string{"94103"})
	// Counted: busy couriers stay in the pool so held orders offset them.
	suite.addRestoredCourier("Busy Still Counts", true, true, true, true, []string{"94103"})
	// Not counted: off duty.
	suite.addRestoredCourier("Off Duty", true, false, true, false, []string{"94103"})
	// Not counted: stale heartbeat marked it disconnected.
	suite.addRestoredCourier("Disconnected", true, true, false, false, []string{"94103"})
	// Not counted: account disabled.
	suite.addRestoredCourier("Disabled", false, true, true, false, []string{"94103"})
	// Not counted: serves another zone.
	suite.addRestoredCourier("Elsewhere", true, true, true, false, []string{"94110"})

	count, err := suite.repository.CountAvailableInZone(ctx, "94103")
	suite.Require().NoError(err)
	suite.Equal(2, count)
}

func (suite *CourierRepositoryIntegrationTestSuite) baseTime() time.Time {
	return time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
}

type restoredCourierParams struct {
	name          string
	active        bool
	onDuty        bool
	connected     bool
	busy          bool
	lastHeartbeat time.Time
	position      *kernel.GeoPoint
	zones         []string
	tankLevels    map[int]int
}

func (suite *CourierRepositoryIntegrationTestSuite) restoreCourier(params restoredCourierParams) *courier.Courier {
	tanks := make([]*courier.Tank, 0, len(params.tankLevels))
	for octane, level := range params.tankLevels {
		tank, err := courier.RestoreTank(kernel.NewUUID(), octane, 400, level)
		suite.Require().NoError(err)
		tanks = append(tanks, tank)
	}

	restored, err := courier.RestoreCourier(
		kernel.NewUUID(),
		params.name,
		params.active,
		params.onDuty,
		params.connected,
		params.busy,
		params.lastHeartbeat,
		params.position,
		params.zones,
		tanks,
	)
	suite.Require().NoError(err)
	return restored
}

func (suite *CourierRepositoryIntegrationTestSuite) addRestoredCourier(
	name string, active, onDuty, connected, busy bool, zones []string,
) {
	restored := suite.restoreCourier(restoredCourierParams{
		name:          name,
		active:        active,
		onDuty:        onDuty,
		connected:     connected,
		busy:          busy,
		lastHeartbeat: suite.baseTime(),
		zones:         zones,
		tankLevels:    map[int]int{87: 200},
	})
	suite.Require().NoError(suite.repository.Add(context.Background(), restored))
}

func (suite *CourierRepositoryIntegrationTestSuite) tankByOctane(aggregate *courier.Courier, octane int) *courier.Tank {
	for _, tank := range aggregate.Tanks() {
		if tank.Octane() == octane {
			return tank
		}
	}
	suite.Require().Failf("tank not found", "courier %s carries no %d-octane tank", aggregate.ID(), octane)
	return nil
}

func (suite *CourierRepositoryIntegrationTestSuite) assertRowCount(model any, expected int) {
	var count int64
	err := suite.db.Model(model).Count(&count).Error
	suite.Require().NoError(err)
	suite.Equal(int64(expected), count)
}

func TestCourierRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(CourierRepositoryIntegrationTestSuite))
}
