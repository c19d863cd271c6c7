package creditrepo_test

import (
	"context"
	"testing"
	"time"

	"refuel/internal/adapters/out/postgres/creditrepo"
	"refuel/internal/core/domain/model/kernel"
	"refuel/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// CreditLedgerIntegrationTestSuite provides integration tests for the credit
// ledger using PostgreSQL containers to verify balance arithmetic stays
// atomic under the conditional update.
type CreditLedgerIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	ledger    *creditrepo.GormCreditLedger
}

func (suite *CreditLedgerIntegrationTestSuite) SetupSuite() {
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

	suite.Require().NoError(db.AutoMigrate(&creditrepo.CreditDTO{}))
}

func (suite *CreditLedgerIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE credits").Error)
	suite.ledger = creditrepo.NewGormCreditLedger(suite.db)
}

func (suite *CreditLedgerIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *CreditLedgerIntegrationTestSuite) TestAvailable_NoLedgerRow_ReturnsZero() {
	balance, err := suite.ledger.Available(context.Background(), kernel.NewUUID())

	suite.Require().NoError(err)
	suite.Equal(0, balance)
}

func (suite *CreditLedgerIntegrationTestSuite) TestRefund_CreatesRowForNewCustomer() {
	ctx := context.Background()
	customerID := kernel.NewUUID()

	suite.Require().NoError(suite.ledger.Refund(ctx, customerID, 500))

	balance, err := suite.ledger.Available(ctx, customerID)
	suite.Require().NoError(err)
	suite.Equal(500, balance)
}

func (suite *CreditLedgerIntegrationTestSuite) TestRefund_AddsToExistingBalance() {
	ctx := context.Background()
	customerID := kernel.NewUUID()

	suite.Require().NoError(suite.ledger.Refund(ctx, customerID, 500))
	suite.Require().NoError(suite.ledger.Refund(ctx, customerID, 250))

	balance, err := suite.ledger.Available(ctx, customerID)
	suite.Require().NoError(err)
	suite.Equal(750, balance)
}

func (suite *CreditLedgerIntegrationTestSuite) TestReserve_DeductsFromBalance() {
	ctx := context.Background()
	customerID := kernel.NewUUID()
	suite.Require().NoError(suite.ledger.Refund(ctx, customerID, 500))

	suite.Require().NoError(suite.ledger.Reserve(ctx, customerID, 300))

	balance, err := suite.ledger.Available(ctx, customerID)
	suite.Require().NoError(err)
	suite.Equal(200, balance)
}

func (suite *CreditLedgerIntegrationTestSuite) TestReserve_InsufficientBalance_Rejected() {
	ctx := context.Background()
	customerID := kernel.NewUUID()
	suite.Require().NoError(suite.ledger.Refund(ctx, customerID, 100))

	err := suite.ledger.Reserve(ctx, customerID, 300)

	suite.Require().Error(err)
	rejection, ok := errs.RejectionFrom(err)
	suite.Require().True(ok)
	suite.Equal(errs.ReasonOutOfSync, rejection.Reason)

	// The failed reservation must not touch the balance.
	balance, availErr := suite.ledger.Available(ctx, customerID)
	suite.Require().NoError(availErr)
	suite.Equal(100, balance)
}

func (suite *CreditLedgerIntegrationTestSuite) TestReserve_NoLedgerRow_Rejected() {
	err := suite.ledger.Reserve(context.Background(), kernel.NewUUID(), 300)

	suite.Require().Error(err)
	rejection, ok := errs.RejectionFrom(err)
	suite.Require().True(ok)
	suite.Equal(errs.ReasonOutOfSync, rejection.Reason)
}

func (suite *CreditLedgerIntegrationTestSuite) TestReserve_NonPositiveCents_Invalid() {
	err := suite.ledger.Reserve(context.Background(), kernel.NewUUID(), 0)

	suite.Require().ErrorIs(err, errs.ErrValueIsOutOfRange)
}

func TestCreditLedgerIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(CreditLedgerIntegrationTestSuite))
}
