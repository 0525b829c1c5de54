// Package eventrepo stores the work order audit trail.
package eventrepo

import (
	"time"

	"repairshop/internal/core/domain/model/kernel"
	"repairshop/internal/core/domain/model/workorder"

	"github.com/google/uuid"
)

type WorkOrderEventDTO struct {
	ID          uuid.UUID         `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID         `gorm:"type:uuid;index:idx_work_order_events_order,priority:1;not null"`
	OrderNumber string            `gorm:"size:64;not null"`
	EventType   string            `gorm:"size:32;not null"`
	Description string            `gorm:"not null"`
	UserID      string            `gorm:"size:128;not null"`
	UserName    string            `gorm:"size:255;not null"`
	Metadata    map[string]string `gorm:"type:jsonb;serializer:json;not null"`
	CreatedDate time.Time         `gorm:"index:idx_work_order_events_order,priority:2;not null;default:now()"`
}

func (WorkOrderEventDTO) TableName() string {
	return "work_order_events"
}

// fromDomain leaves CreatedDate zero for new events so the database assigns it.
func fromDomain(event *workorder.WorkOrderEvent) WorkOrderEventDTO {
	dto := WorkOrderEventDTO{
		ID:          event.ID().Bytes(),
		OrderID:     event.OrderID().Bytes(),
		OrderNumber: event.OrderNumber(),
		EventType:   event.EventType().String(),
		Description: event.Description(),
		UserID:      event.UserID(),
		UserName:    event.UserName(),
		Metadata:    event.Metadata().Clone(),
	}
	if !event.CreatedDate().IsZero() {
		dto.CreatedDate = event.CreatedDate().UTC()
	}
	return dto
}

func toDomain(dto WorkOrderEventDTO) (*workorder.WorkOrderEvent, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	return workorder.RestoreWorkOrderEvent(
		id,
		orderID,
		dto.OrderNumber,
		workorder.EventType(dto.EventType),
		dto.Description,
		dto.UserID,
		dto.UserName,
		workorder.Metadata(dto.Metadata),
		dto.CreatedDate,
	)
}
