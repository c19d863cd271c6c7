package postgres_test

import (
	"context"
	"testing"
	"time"

	postgres_adapter "refuel/internal/adapters/out/postgres"
	"refuel/internal/adapters/out/postgres/courierrepo"
	"refuel/internal/adapters/out/postgres/creditrepo"
	"refuel/internal/adapters/out/postgres/orderrepo"
	"refuel/internal/adapters/out/postgres/zonerepo"
	"refuel/internal/core/domain/model/courier"
	"refuel/internal/core/domain/model/kernel"
	"refuel/internal/core/domain/model/order"
	"refuel/internal/core/domain/model/zone"
	"refuel/internal/core/ports"
	"refuel/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite verifies that the GORM unit of work scopes
// all repository writes to one transaction: everything lands on commit,
// nothing lands on rollback.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   ports.UnitOfWorkFactory
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
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

	db, err := gorm.Open(gorm_postgres.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&courierrepo.CourierDTO{},
		&courierrepo.TankDTO{},
		&zonerepo.ZoneDTO{},
		&creditrepo.CreditDTO{},
	))
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE orders, couriers, tanks, zones, credits").Error)
	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(suite.db)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommit_PersistsWritesAcrossRepositories() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, suite.newOrder()))
	suite.Require().NoError(uow.CourierRepository().Add(ctx, suite.newCourier("Ray Kim")))
	suite.Require().NoError(uow.ZoneRepository().Add(ctx, suite.newZone("94103")))
	suite.Require().NoError(uow.Commit(ctx))

	suite.Equal(int64(1), suite.countRows(&orderrepo.OrderDTO{}))
	suite.Equal(int64(1), suite.countRows(&courierrepo.CourierDTO{}))
	suite.Equal(int64(1), suite.countRows(&zonerepo.ZoneDTO{}))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollback_DiscardsWritesAcrossRepositories() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, suite.newOrder()))
	suite.Require().NoError(uow.CourierRepository().Add(ctx, suite.newCourier("Dana Cole")))
	suite.Require().NoError(uow.Rollback(ctx))

	suite.Equal(int64(0), suite.countRows(&orderrepo.OrderDTO{}))
	suite.Equal(int64(0), suite.countRows(&courierrepo.CourierDTO{}))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollback_ReleasesReservedCredit() {
	ctx := context.Background()
	customerID := kernel.NewUUID()
	suite.seedCredit(customerID, 500)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.CreditLedger().Reserve(ctx, customerID, 300))
	suite.Require().NoError(uow.Rollback(ctx))

	balance, err := creditrepo.NewGormCreditLedger(suite.db).Available(ctx, customerID)
	suite.Require().NoError(err)
	suite.Equal(500, balance)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestReserve_CommittedDeductionSticks() {
	ctx := context.Background()
	customerID := kernel.NewUUID()
	suite.seedCredit(customerID, 500)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.CreditLedger().Reserve(ctx, customerID, 300))
	suite.Require().NoError(uow.Commit(ctx))

	balance, err := creditrepo.NewGormCreditLedger(suite.db).Available(ctx, customerID)
	suite.Require().NoError(err)
	suite.Equal(200, balance)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestReserve_InsufficientBalance_Rejected() {
	ctx := context.Background()
	customerID := kernel.NewUUID()
	suite.seedCredit(customerID, 100)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	err := uow.CreditLedger().Reserve(ctx, customerID, 300)
	suite.Require().NoError(uow.Rollback(ctx))

	suite.Require().Error(err)
	rejection, ok := errs.RejectionFrom(err)
	suite.Require().True(ok)
	suite.Equal(errs.ReasonOutOfSync, rejection.Reason)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommit_WithoutBegin_Fails() {
	uow := suite.factory.Create()

	err := uow.Commit(context.Background())

	suite.Require().ErrorIs(err, gorm.ErrInvalidTransaction)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestBegin_Twice_IsIdempotent() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, suite.newOrder()))
	suite.Require().NoError(uow.Commit(ctx))

	suite.Equal(int64(1), suite.countRows(&orderrepo.OrderDTO{}))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestZoneRepository_RoundTripsThroughTransaction() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.ZoneRepository().Add(ctx, suite.newZone("94110")))

	// Reads inside the transaction see the uncommitted row.
	loaded, err := uow.ZoneRepository().Get(ctx, "94110")
	suite.Require().NoError(err)
	suite.Equal("94110", loaded.Code())
	suite.Require().NoError(uow.Commit(ctx))

	committed, err := zonerepo.NewGormZoneRepository(suite.db).Get(ctx, "94110")
	suite.Require().NoError(err)
	suite.Equal("Mission District", committed.Name())
	suite.True(committed.OneHourService())
}

func (suite *UnitOfWorkIntegrationTestSuite) baseTime() time.Time {
	return time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
}

func (suite *UnitOfWorkIntegrationTestSuite) newOrder() *order.Order {
	position, err := kernel.NewGeoPoint(37.7749, -122.4194)
	suite.Require().NoError(err)
	fuel, err := order.NewFuel(87, 10)
	suite.Require().NoError(err)
	window, err := order.NewServiceWindow(order.DurationThreeHour, suite.baseTime())
	suite.Require().NoError(err)
	quote, err := order.NewQuote(3500, 499, 0, 0)
	suite.Require().NoError(err)

	created, err := order.NewOrder(
		kernel.NewUUID(), kernel.NewUUID(), position, "94103", fuel, window, quote, false, suite.baseTime())
	suite.Require().NoError(err)
	return created
}

func (suite *UnitOfWorkIntegrationTestSuite) newCourier(name string) *courier.Courier {
	registered, err := courier.NewCourier(kernel.NewUUID(), name, []string{"94103"})
	suite.Require().NoError(err)
	return registered
}

func (suite *UnitOfWorkIntegrationTestSuite) newZone(code string) *zone.Zone {
	created, err := zone.NewZone(
		code,
		"Mission District",
		true,
		8*60,
		20*60,
		nil,
		map[int]int{87: 350, 91: 420},
		map[order.DurationClass]int{order.DurationOneHour: 999, order.DurationThreeHour: 499},
		1500,
		true,
		"",
	)
	suite.Require().NoError(err)
	return created
}

func (suite *UnitOfWorkIntegrationTestSuite) seedCredit(customerID kernel.UUID, cents int) {
	ledger := creditrepo.NewGormCreditLedger(suite.db)
	suite.Require().NoError(ledger.Refund(context.Background(), customerID, cents))
}

func (suite *UnitOfWorkIntegrationTestSuite) countRows(model any) int64 {
	var count int64
	suite.Require().NoError(suite.db.Model(model).Count(&count).Error)
	return count
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
