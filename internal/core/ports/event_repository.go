package ports

import (
	"context"

	"repairshop/internal/core/domain/model/kernel"
	"repairshop/internal/core/domain/model/workorder"
)

// EventRepository is the append-only audit store.
type EventRepository interface {
	// Create appends event and returns it with its server-assigned creation date.
	// There is no upsert: identical events are stored twice.
	Create(ctx context.Context, event *workorder.WorkOrderEvent) (*workorder.WorkOrderEvent, error)

	// FilterByOrder returns every event of an order, oldest first.
	FilterByOrder(ctx context.Context, orderID kernel.UUID) ([]*workorder.WorkOrderEvent, error)
}
