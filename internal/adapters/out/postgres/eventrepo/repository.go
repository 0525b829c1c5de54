package eventrepo

import (
	"context"

	"repairshop/internal/core/domain/model/kernel"
	"repairshop/internal/core/domain/model/workorder"

	"gorm.io/gorm"
)

// GormEventRepository is the append-only audit store. It never updates or
// deletes rows.
type GormEventRepository struct {
	db *gorm.DB
}

func NewGormEventRepository(db *gorm.DB) *GormEventRepository {
	return &GormEventRepository{db: db}
}

// Create inserts event and returns it as stored, with the database-assigned
// creation date.
func (r *GormEventRepository) Create(ctx context.Context, event *workorder.WorkOrderEvent) (*workorder.WorkOrderEvent, error) {
	if err := event.Validate(); err != nil {
		return nil, err
	}

	dto := fromDomain(event)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return nil, err
	}

	return toDomain(dto)
}

// FilterByOrder returns the order's events by creation date, then id. An order
// without events yields an empty slice.
func (r *GormEventRepository) FilterByOrder(ctx context.Context, orderID kernel.UUID) ([]*workorder.WorkOrderEvent, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []WorkOrderEventDTO
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID.Bytes()).
		Order("created_date ASC, id ASC").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	events := make([]*workorder.WorkOrderEvent, 0, len(dtos))
	for _, dto := range dtos {
		e, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	return events, nil
}
