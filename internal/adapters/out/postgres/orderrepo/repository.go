package orderrepo

import (
	"context"
	"errors"

	"repairshop/internal/core/domain/model/kernel"
	"repairshop/internal/core/domain/model/workorder"
	"repairshop/internal/core/ports"
	"repairshop/internal/pkg/errs"

	"gorm.io/gorm"
)

// mutableColumns are the columns Update writes. Identity, order number and
// creation date never change after intake.
var mutableColumns = []string{
	"status",
	"status_metadata",
	"status_note",
	"priority",
	"customer_id",
	"customer_name",
	"customer_phone",
	"assigned_to",
	"updated_date",
}

var sortClauses = map[ports.SortKey]string{
	ports.SortByCreatedDateDesc: "created_date DESC, id",
	ports.SortByCreatedDateAsc:  "created_date ASC, id",
	ports.SortByUpdatedDateDesc: "updated_date DESC, id",
}

// GormWorkOrderRepository implements ports.WorkOrderRepository using gorm.
type GormWorkOrderRepository struct {
	db *gorm.DB
}

// NewGormWorkOrderRepository binds the repository to db, which may be a
// transaction handle.
func NewGormWorkOrderRepository(db *gorm.DB) *GormWorkOrderRepository {
	return &GormWorkOrderRepository{db: db}
}

func (r *GormWorkOrderRepository) Add(ctx context.Context, aggregate *workorder.WorkOrder) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	return nil
}

// Update overwrites the mutable state of the order. The last writer wins.
func (r *GormWorkOrderRepository) Update(ctx context.Context, aggregate *workorder.WorkOrder) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&WorkOrderDTO{}).
		Where("id = ?", dto.ID).
		Select(mutableColumns).
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundErrorWithCause("orderId", aggregate.ID().String(), gorm.ErrRecordNotFound)
	}

	return nil
}

func (r *GormWorkOrderRepository) Get(ctx context.Context, id kernel.UUID) (*workorder.WorkOrder, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto WorkOrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("orderId", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// Filter returns matching orders oldest first.
func (r *GormWorkOrderRepository) Filter(ctx context.Context, filter ports.WorkOrderFilter) ([]*workorder.WorkOrder, error) {
	query := r.db.WithContext(ctx).Model(&WorkOrderDTO{})

	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", statusStrings(filter.Statuses))
	}
	if len(filter.ExcludeStatuses) > 0 {
		query = query.Where("status NOT IN ?", statusStrings(filter.ExcludeStatuses))
	}
	if !filter.CreatedBefore.IsZero() {
		query = query.Where("created_date < ?", filter.CreatedBefore.UTC())
	}
	if filter.AssignedTo != "" {
		query = query.Where("assigned_to = ?", filter.AssignedTo)
	}
	if filter.OrderNumber != "" {
		query = query.Where("order_number = ?", filter.OrderNumber)
	}

	var dtos []WorkOrderDTO
	if err := query.Order("created_date ASC, id").Find(&dtos).Error; err != nil {
		return nil, err
	}

	return toDomainList(dtos)
}

func (r *GormWorkOrderRepository) List(ctx context.Context, sort ports.SortKey, limit int) ([]*workorder.WorkOrder, error) {
	order, ok := sortClauses[sort]
	if !ok {
		return nil, errs.NewValueIsInvalidError("sort")
	}

	query := r.db.WithContext(ctx).Order(order)
	if limit > 0 {
		query = query.Limit(limit)
	}

	var dtos []WorkOrderDTO
	if err := query.Find(&dtos).Error; err != nil {
		return nil, err
	}

	return toDomainList(dtos)
}

func statusStrings(statuses []workorder.Status) []string {
	out := make([]string, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, s.String())
	}
	return out
}
