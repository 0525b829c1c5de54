package cmd

import (
	"log/slog"
	"time"

	httpin "repairshop/internal/adapters/in/http"
	"repairshop/internal/adapters/out/postgres"
	"repairshop/internal/adapters/out/postgres/eventrepo"
	"repairshop/internal/adapters/out/postgres/orderrepo"
	"repairshop/internal/adapters/out/postgres/permissionrepo"
	"repairshop/internal/adapters/out/rabbitmq"
	"repairshop/internal/core/application/permissions"
	"repairshop/internal/core/application/usecases/commands"
	"repairshop/internal/core/application/usecases/queries"
	"repairshop/internal/core/domain/services"
	"repairshop/internal/core/ports"
	"repairshop/internal/jobs"
	"repairshop/internal/pkg/metrics"
	"repairshop/internal/pkg/retry"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	rules      *services.RuleTable
	metrics    *metrics.Metrics
	publisher  *rabbitmq.Publisher
	retrier    *retry.Retrier
	logger     *slog.Logger
	now        func() time.Time
}

// NewCompositionRoot wires the application. publisher may be nil when RabbitMQ
// is not configured.
func NewCompositionRoot(
	config Config,
	gormDB *gorm.DB,
	rules *services.RuleTable,
	m *metrics.Metrics,
	publisher *rabbitmq.Publisher,
	logger *slog.Logger,
) (*CompositionRoot, error) {
	policy := config.RetryPolicy()
	if err := policy.Validate(); err != nil {
		return nil, err
	}

	notifiers := retry.Notifiers{retry.LogNotifier(logger), m}
	if publisher != nil {
		notifiers = append(notifiers, publisher)
	}

	return &CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		rules:      rules,
		metrics:    m,
		publisher:  publisher,
		retrier: retry.New(policy,
			retry.WithNotifier(notifiers),
			retry.WithClassifier(retry.AnyOf(retry.IsRateLimit, postgres.IsThrottled)),
		),
		logger: logger,
		now:    time.Now,
	}, nil
}

// Order and event stores outside of a transaction; every call commits on its own.
func (c *CompositionRoot) orders() ports.WorkOrderRepository {
	return orderrepo.NewGormWorkOrderRepository(c.gormDB)
}

func (c *CompositionRoot) events() ports.EventRepository {
	return eventrepo.NewGormEventRepository(c.gormDB)
}

func (c *CompositionRoot) CreateTransitionStatusCommandHandler() *commands.TransitionStatusCommandHandler {
	opts := []commands.TransitionOption{
		commands.WithTransitionRecorder(c.metrics),
		commands.WithTransitionLogger(c.logger),
	}
	if c.publisher != nil {
		opts = append(opts, commands.WithStatusChangePublisher(c.publisher))
	}
	return commands.NewTransitionStatusCommandHandler(c.orders(), c.events(), c.rules, c.retrier, opts...)
}

func (c *CompositionRoot) CreateCreateWorkOrderCommandHandler() commands.CreateWorkOrderCommandHandler {
	var f commands.WorkOrderUoWFactory = FuncWorkOrderUoWFactory(func() commands.WorkOrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateWorkOrderCommandHandler(f, c.now)
}

func (c *CompositionRoot) CreateAddOrderNoteCommandHandler() commands.AddOrderNoteCommandHandler {
	return commands.NewAddOrderNoteCommandHandler(c.orders(), c.events(), c.retrier)
}

func (c *CompositionRoot) CreateGetWorkOrderQueryHandler() queries.GetWorkOrderQueryHandler {
	return queries.NewGetWorkOrderQueryHandler(c.orders(), c.rules, c.retrier, c.now)
}

func (c *CompositionRoot) CreateGetOrderHistoryQueryHandler() queries.GetOrderHistoryQueryHandler {
	return queries.NewGetOrderHistoryQueryHandler(c.events(), c.retrier)
}

func (c *CompositionRoot) CreateGetOverdueOrdersQueryHandler() queries.GetOverdueOrdersQueryHandler {
	return queries.NewGetOverdueOrdersQueryHandler(c.orders(), c.rules, c.retrier)
}

func (c *CompositionRoot) CreatePermissionChecker() *permissions.Checker {
	return permissions.NewChecker(
		permissionrepo.NewGormPermissionSource(c.gormDB),
		permissions.WithLogger(c.logger),
		permissions.WithRecorder(c.metrics),
	)
}

func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	return httpin.NewServer(httpin.Handlers{
		CreateOrder:   c.CreateCreateWorkOrderCommandHandler(),
		Transition:    c.CreateTransitionStatusCommandHandler(),
		AddNote:       c.CreateAddOrderNoteCommandHandler(),
		GetOrder:      c.CreateGetWorkOrderQueryHandler(),
		OrderHistory:  c.CreateGetOrderHistoryQueryHandler(),
		OverdueOrders: c.CreateGetOverdueOrdersQueryHandler(),
	}, c.rules, c.CreatePermissionChecker(), c.logger, c.now)
}

// CreateJobManager schedules the overdue scan and the eviction of the server's
// permission caches.
func (c *CompositionRoot) CreateJobManager(server *httpin.Server) *jobs.JobManager {
	var alerts ports.OverdueAlertPublisher
	if c.publisher != nil {
		alerts = c.publisher
	}

	return jobs.NewJobManager(
		jobs.NewOverdueScanJob(c.CreateGetOverdueOrdersQueryHandler(), alerts, c.metrics, c.config.OverdueScanCron, c.logger),
		jobs.NewPermissionCacheJob(server.PermissionCache(), permissions.CacheTTL, c.logger),
	)
}

type FuncWorkOrderUoWFactory func() commands.WorkOrderUoW

func (f FuncWorkOrderUoWFactory) Create() commands.WorkOrderUoW {
	return f()
}
