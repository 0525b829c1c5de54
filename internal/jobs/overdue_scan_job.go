package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"repairshop/internal/core/application/usecases/queries"
	"repairshop/internal/core/domain/model/workorder"
	"repairshop/internal/core/ports"

	"github.com/robfig/cron/v3"
)

// DefaultOverdueScanSchedule runs the scan at the top of every hour.
const DefaultOverdueScanSchedule = "0 0 * * * *"

// OverdueOrdersQueryHandler is the read side the scan runs on.
type OverdueOrdersQueryHandler interface {
	Handle(ctx context.Context, query queries.GetOverdueOrdersQuery) ([]workorder.ClassifiedOrder, error)
}

// OverdueGauge receives the size of the latest scan.
type OverdueGauge interface {
	SetOverdueOrders(count int)
}

// OverdueScanJob periodically looks for orders that have been open too long and
// raises alerts for them.
type OverdueScanJob struct {
	handler   OverdueOrdersQueryHandler
	publisher ports.OverdueAlertPublisher
	gauge     OverdueGauge
	schedule  string
	now       func() time.Time
	cron      *cron.Cron
	logger    *slog.Logger
}

// NewOverdueScanJob creates the job. publisher and gauge may be nil; an empty
// schedule means DefaultOverdueScanSchedule.
func NewOverdueScanJob(
	handler OverdueOrdersQueryHandler,
	publisher ports.OverdueAlertPublisher,
	gauge OverdueGauge,
	schedule string,
	logger *slog.Logger,
) *OverdueScanJob {
	if schedule == "" {
		schedule = DefaultOverdueScanSchedule
	}
	return &OverdueScanJob{
		handler:   handler,
		publisher: publisher,
		gauge:     gauge,
		schedule:  schedule,
		now:       time.Now,
		cron:      cron.New(cron.WithSeconds()),
		logger:    logger.With("component", "overdue_scan_job"),
	}
}

// Start schedules the scan.
func (j *OverdueScanJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()
		if _, err := j.RunOnce(ctx); err != nil {
			j.logger.ErrorContext(ctx, "Overdue scan failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid overdue scan schedule %q: %w", j.schedule, err)
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Overdue scan job started", "schedule", j.schedule)
	return nil
}

// Stop stops the overdue scan job.
func (j *OverdueScanJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Overdue scan job stopped")
}

// RunOnce performs a single scan and returns the alerts it raised.
func (j *OverdueScanJob) RunOnce(ctx context.Context) ([]ports.OverdueAlert, error) {
	scannedAt := j.now()

	query, err := queries.NewGetOverdueOrdersQuery(scannedAt, 0)
	if err != nil {
		return nil, err
	}

	overdue, err := j.handler.Handle(ctx, query)
	if err != nil {
		return nil, err
	}

	if j.gauge != nil {
		j.gauge.SetOverdueOrders(len(overdue))
	}

	alerts := make([]ports.OverdueAlert, 0, len(overdue))
	for _, item := range overdue {
		alerts = append(alerts, toAlert(item))
	}

	if len(alerts) == 0 {
		j.logger.DebugContext(ctx, "No overdue orders")
		return alerts, nil
	}

	j.logger.WarnContext(ctx, "Overdue orders found",
		"count", len(alerts),
		"oldest_days_open", oldestDaysOpen(alerts),
		"first", alerts[0].OrderNumber,
	)

	if j.publisher != nil {
		if err := j.publisher.PublishOverdueAlerts(ctx, alerts, scannedAt); err != nil {
			return alerts, fmt.Errorf("failed to publish overdue alerts: %w", err)
		}
	}

	return alerts, nil
}

func toAlert(item workorder.ClassifiedOrder) ports.OverdueAlert {
	return ports.OverdueAlert{
		OrderID:      item.Order.ID().String(),
		OrderNumber:  item.Order.OrderNumber(),
		Status:       item.Order.Status(),
		Priority:     item.Order.Priority(),
		DaysOpen:     item.Classification.DaysOpen,
		PriorityRank: item.Classification.PriorityRank,
		AssignedTo:   item.Order.AssignedTo(),
	}
}

func oldestDaysOpen(alerts []ports.OverdueAlert) int {
	oldest := 0
	for _, a := range alerts {
		oldest = max(oldest, a.DaysOpen)
	}
	return oldest
}
