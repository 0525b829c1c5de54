package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	postgres_adapter "repairshop/internal/adapters/out/postgres"
	"repairshop/internal/core/domain/model/kernel"
	"repairshop/internal/core/domain/model/workorder"
	"repairshop/internal/core/ports"
	"repairshop/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite runs the Unit of Work against a real PostgreSQL
// schema created by the embedded migrations.
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
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(30*time.Second)),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	sqlDB, err := db.DB()
	suite.Require().NoError(err)
	suite.Require().NoError(postgres_adapter.Migrate(sqlDB))
	// A second run finds nothing to do.
	suite.Require().NoError(postgres_adapter.Migrate(sqlDB))

	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(db)
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE work_order_events, work_orders").Error)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) newOrder(number string) *workorder.WorkOrder {
	order, err := workorder.NewWorkOrder(kernel.NewUUID(), number,
		workorder.CustomerRef{ID: "c-1", Name: "Marta Gil", Phone: "555-0101"},
		workorder.PriorityHigh, "tech-7", time.Now().UTC().Truncate(time.Microsecond))
	suite.Require().NoError(err)
	return order
}

func (suite *UnitOfWorkIntegrationTestSuite) intakeEvent(order *workorder.WorkOrder) *workorder.WorkOrderEvent {
	actor, err := kernel.NewActor("u-1", "Recepción", "")
	suite.Require().NoError(err)
	event, err := workorder.NewWorkOrderEvent(order, workorder.EventOrderCreated, "Orden recibida.", actor, nil)
	suite.Require().NoError(err)
	return event
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommit_PersistsOrderAndEvent() {
	ctx := context.Background()
	order := suite.newOrder("WO-100")

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.WorkOrderRepository().Add(ctx, order))
	stored, err := uow.EventRepository().Create(ctx, suite.intakeEvent(order))
	suite.Require().NoError(err)
	suite.False(stored.CreatedDate().IsZero(), "creation date is assigned by the database")
	suite.Require().NoError(uow.Commit(ctx))

	fresh := suite.factory.Create()
	got, err := fresh.WorkOrderRepository().Get(ctx, order.ID())
	suite.Require().NoError(err)
	suite.Equal("WO-100", got.OrderNumber())
	suite.Equal(workorder.Pending, got.Status())
	suite.Equal("Marta Gil", got.Customer().Name)

	history, err := fresh.EventRepository().FilterByOrder(ctx, order.ID())
	suite.Require().NoError(err)
	suite.Len(history, 1)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollback_DiscardsWrites() {
	ctx := context.Background()
	order := suite.newOrder("WO-101")

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.WorkOrderRepository().Add(ctx, order))
	suite.Require().NoError(uow.Rollback(ctx))

	_, err := suite.factory.Create().WorkOrderRepository().Get(ctx, order.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollback_WithoutTransactionIsNoop() {
	suite.NoError(suite.factory.Create().Rollback(context.Background()))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommit_WithoutTransactionFails() {
	err := suite.factory.Create().Commit(context.Background())
	suite.True(errors.Is(err, gorm.ErrInvalidTransaction))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestEventForUnknownOrder_IsRejected() {
	ctx := context.Background()
	orphan := suite.newOrder("WO-102")

	_, err := suite.factory.Create().EventRepository().Create(ctx, suite.intakeEvent(orphan))

	suite.Error(err, "events reference an existing order")
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollback_AllowsNextTransaction() {
	ctx := context.Background()
	discarded := suite.newOrder("WO-103")
	kept := suite.newOrder("WO-104")

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.WorkOrderRepository().Add(ctx, discarded))
	suite.Require().NoError(uow.Rollback(ctx))

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.WorkOrderRepository().Add(ctx, kept))
	suite.Require().NoError(uow.Commit(ctx))

	repo := suite.factory.Create().WorkOrderRepository()
	_, err := repo.Get(ctx, discarded.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
	_, err = repo.Get(ctx, kept.ID())
	suite.Require().NoError(err)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestMigrateDown_RejectsNonPositiveSteps() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	suite.Error(postgres_adapter.MigrateDown(sqlDB, 0))
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test requires docker")
	}
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
