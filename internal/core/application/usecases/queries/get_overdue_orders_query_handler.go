package queries

import (
	"context"
	"time"

	"repairshop/internal/core/domain/model/workorder"
	"repairshop/internal/core/domain/services"
	"repairshop/internal/core/ports"
	"repairshop/internal/pkg/retry"
)

// GetOverdueOrdersQueryHandler builds the overdue report: every order open for
// OverdueAfterDays or more whose status is not terminal in the rule table,
// urgent first, then oldest first.
//
// Example:
//
//	handler := NewGetOverdueOrdersQueryHandler(orders, rules, retrier)
//	query, _ := NewGetOverdueOrdersQuery(time.Now(), 50)
//
//	overdue, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return err
//	}
//	for _, item := range overdue {
//	    fmt.Printf("%s: %d days\n", item.Order.OrderNumber(), item.DaysOpen)
//	}
type GetOverdueOrdersQueryHandler struct {
	orders  ports.WorkOrderRepository
	rules   *services.RuleTable
	retrier *retry.Retrier
}

// NewGetOverdueOrdersQueryHandler creates the handler. Terminal statuses are read
// from rules on every call, so configured terminal statuses are honoured.
func NewGetOverdueOrdersQueryHandler(
	orders ports.WorkOrderRepository,
	rules *services.RuleTable,
	retrier *retry.Retrier,
) GetOverdueOrdersQueryHandler {
	return GetOverdueOrdersQueryHandler{orders: orders, rules: rules, retrier: retrier}
}

// Handle pre-filters in the store on age and terminal statuses, then classifies
// each candidate so the result matches workorder.Classify exactly.
func (h GetOverdueOrdersQueryHandler) Handle(ctx context.Context, query GetOverdueOrdersQuery) ([]workorder.ClassifiedOrder, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	var terminal []workorder.Status
	for _, status := range h.rules.Statuses() {
		if h.rules.IsTerminal(status) {
			terminal = append(terminal, status)
		}
	}

	filter := ports.WorkOrderFilter{
		ExcludeStatuses: terminal,
		CreatedBefore:   query.Now().Add(-workorder.OverdueAfterDays * 24 * time.Hour).Add(time.Nanosecond),
	}

	candidates, err := retry.Run(ctx, h.retrier, "filterWorkOrders", func(ctx context.Context) ([]*workorder.WorkOrder, error) {
		return h.orders.Filter(ctx, filter)
	})
	if err != nil {
		return nil, err
	}

	overdue := make([]workorder.ClassifiedOrder, 0, len(candidates))
	for _, order := range candidates {
		c := workorder.ClassifyWithTerminal(order, query.Now(), h.rules.IsTerminal)
		if c.Overdue {
			overdue = append(overdue, workorder.ClassifiedOrder{Order: order, Classification: c})
		}
	}

	workorder.SortForAlerts(overdue)
	if len(overdue) > query.Limit() {
		overdue = overdue[:query.Limit()]
	}

	return overdue, nil
}
