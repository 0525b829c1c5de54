package ports

import (
	"context"
	"time"

	"repairshop/internal/core/domain/model/kernel"
	"repairshop/internal/core/domain/model/workorder"
)

// WorkOrderFilter narrows Filter results. Zero fields do not filter.
type WorkOrderFilter struct {
	Statuses        []workorder.Status
	ExcludeStatuses []workorder.Status
	CreatedBefore   time.Time
	AssignedTo      string
	OrderNumber     string
}

// SortKey selects the ordering of List.
type SortKey string

const (
	SortByCreatedDateDesc SortKey = "-created_date"
	SortByCreatedDateAsc  SortKey = "created_date"
	SortByUpdatedDateDesc SortKey = "-updated_date"
)

// WorkOrderRepository is the order store. Writes are last-write-wins: no version
// is checked on Update.
type WorkOrderRepository interface {
	// Add persists a new order.
	Add(ctx context.Context, order *workorder.WorkOrder) error

	// Update persists the mutable state of an existing order (status, status
	// metadata, note, priority, assignee). Returns *errs.ObjectNotFoundError if
	// the order does not exist.
	Update(ctx context.Context, order *workorder.WorkOrder) error

	// Get returns the order or *errs.ObjectNotFoundError.
	Get(ctx context.Context, id kernel.UUID) (*workorder.WorkOrder, error)

	Filter(ctx context.Context, filter WorkOrderFilter) ([]*workorder.WorkOrder, error)

	// List returns at most limit orders; limit <= 0 means no limit.
	List(ctx context.Context, sort SortKey, limit int) ([]*workorder.WorkOrder, error)
}
