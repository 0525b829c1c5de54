package queries

import (
	"context"
	"time"

	"repairshop/internal/core/domain/model/workorder"
	"repairshop/internal/core/domain/services"
	"repairshop/internal/core/ports"
	"repairshop/internal/pkg/retry"
)

// GetWorkOrderQueryHandler loads one order and decorates it with its status
// label, terminal flag and overdue classification.
type GetWorkOrderQueryHandler struct {
	orders  ports.WorkOrderRepository
	rules   *services.RuleTable
	retrier *retry.Retrier
	now     func() time.Time
}

// NewGetWorkOrderQueryHandler creates the handler. A nil now defaults to time.Now.
func NewGetWorkOrderQueryHandler(
	orders ports.WorkOrderRepository,
	rules *services.RuleTable,
	retrier *retry.Retrier,
	now func() time.Time,
) GetWorkOrderQueryHandler {
	if now == nil {
		now = time.Now
	}
	return GetWorkOrderQueryHandler{orders: orders, rules: rules, retrier: retrier, now: now}
}

// Handle returns ErrObjectNotFound for an unknown id. A stored status missing
// from the rule table is reported with its raw id as the label.
func (h GetWorkOrderQueryHandler) Handle(ctx context.Context, query GetWorkOrderQuery) (GetWorkOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetWorkOrderQueryResponse{}, err
	}

	order, err := retry.Run(ctx, h.retrier, "getWorkOrder", func(ctx context.Context) (*workorder.WorkOrder, error) {
		return h.orders.Get(ctx, query.OrderID())
	})
	if err != nil {
		return GetWorkOrderQueryResponse{}, err
	}

	response := GetWorkOrderQueryResponse{
		Order:          order,
		Label:          order.Status().String(),
		Terminal:       h.rules.IsTerminal(order.Status()),
		Classification: workorder.ClassifyWithTerminal(order, h.now(), h.rules.IsTerminal),
	}
	if rule, ok := h.rules.Rule(order.Status()); ok {
		response.Label = rule.Label
	}

	return response, nil
}
