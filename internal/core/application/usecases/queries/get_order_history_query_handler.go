package queries

import (
	"cmp"
	"context"
	"slices"

	"repairshop/internal/core/domain/model/workorder"
	"repairshop/internal/core/ports"
	"repairshop/internal/pkg/retry"
)

// GetOrderHistoryQueryHandler reconstructs an order's history from the event store.
type GetOrderHistoryQueryHandler struct {
	events  ports.EventRepository
	retrier *retry.Retrier
}

// NewGetOrderHistoryQueryHandler creates a handler reading from events.
func NewGetOrderHistoryQueryHandler(events ports.EventRepository, retrier *retry.Retrier) GetOrderHistoryQueryHandler {
	return GetOrderHistoryQueryHandler{events: events, retrier: retrier}
}

// Handle returns the events oldest first. Entries sharing a creation date are
// ordered by id so repeated reads agree.
func (h GetOrderHistoryQueryHandler) Handle(ctx context.Context, query GetOrderHistoryQuery) ([]*workorder.WorkOrderEvent, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	events, err := retry.Run(ctx, h.retrier, "filterWorkOrderEvents", func(ctx context.Context) ([]*workorder.WorkOrderEvent, error) {
		return h.events.FilterByOrder(ctx, query.OrderID())
	})
	if err != nil {
		return nil, err
	}

	history := slices.Clone(events)
	slices.SortStableFunc(history, func(a, b *workorder.WorkOrderEvent) int {
		return cmp.Or(
			a.CreatedDate().Compare(b.CreatedDate()),
			cmp.Compare(a.ID().String(), b.ID().String()),
		)
	})
	if history == nil {
		history = []*workorder.WorkOrderEvent{}
	}

	return history, nil
}
