package eventrepo_test

import (
	"context"
	"testing"
	"time"

	"repairshop/internal/adapters/out/postgres/eventrepo"
	"repairshop/internal/core/domain/model/kernel"
	"repairshop/internal/core/domain/model/workorder"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type EventRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *eventrepo.GormEventRepository
	order      *workorder.WorkOrder
	actor      kernel.Actor
}

func (suite *EventRepositoryIntegrationTestSuite) SetupSuite() {
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

	suite.Require().NoError(db.AutoMigrate(&eventrepo.WorkOrderEventDTO{}))
}

func (suite *EventRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE work_order_events").Error)
	suite.repository = eventrepo.NewGormEventRepository(suite.db)

	order, err := workorder.NewWorkOrder(kernel.NewUUID(), "WO-77", workorder.CustomerRef{},
		workorder.PriorityNormal, "", time.Now())
	suite.Require().NoError(err)
	suite.order = order

	actor, err := kernel.NewActor("u-9", "Pedro Lima", "technician")
	suite.Require().NoError(err)
	suite.actor = actor
}

func (suite *EventRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *EventRepositoryIntegrationTestSuite) newEvent(description string, md workorder.Metadata) *workorder.WorkOrderEvent {
	event, err := workorder.NewWorkOrderEvent(suite.order, workorder.EventStatusChange, description, suite.actor, md)
	suite.Require().NoError(err)
	return event
}

func (suite *EventRepositoryIntegrationTestSuite) TestCreate_AssignsCreationDate() {
	stored, err := suite.repository.Create(context.Background(),
		suite.newEvent("Estado cambiado a En Reparación.", workorder.Metadata{"note": "cliente avisado"}))

	suite.Require().NoError(err)
	suite.False(stored.CreatedDate().IsZero())
	suite.Equal("Pedro Lima", stored.UserName())
	suite.Equal("cliente avisado", stored.Metadata().Value("note"))
}

func (suite *EventRepositoryIntegrationTestSuite) TestCreate_DuplicatesAreKept() {
	ctx := context.Background()
	description := "Estado cambiado a Listo para Recoger."

	_, err := suite.repository.Create(ctx, suite.newEvent(description, nil))
	suite.Require().NoError(err)
	_, err = suite.repository.Create(ctx, suite.newEvent(description, nil))
	suite.Require().NoError(err)

	history, err := suite.repository.FilterByOrder(ctx, suite.order.ID())
	suite.Require().NoError(err)
	suite.Len(history, 2)
}

func (suite *EventRepositoryIntegrationTestSuite) TestFilterByOrder_OldestFirst() {
	ctx := context.Background()
	for _, d := range []string{"uno", "dos", "tres"} {
		_, err := suite.repository.Create(ctx, suite.newEvent(d, nil))
		suite.Require().NoError(err)
	}

	history, err := suite.repository.FilterByOrder(ctx, suite.order.ID())

	suite.Require().NoError(err)
	suite.Require().Len(history, 3)
	for i := 1; i < len(history); i++ {
		suite.False(history[i].CreatedDate().Before(history[i-1].CreatedDate()))
	}
}

func (suite *EventRepositoryIntegrationTestSuite) TestFilterByOrder_UnknownOrderIsEmpty() {
	history, err := suite.repository.FilterByOrder(context.Background(), kernel.NewUUID())

	suite.Require().NoError(err)
	suite.Empty(history)
}

func TestEventRepositoryIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test requires docker")
	}
	suite.Run(t, new(EventRepositoryIntegrationTestSuite))
}
