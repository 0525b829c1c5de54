// Package orderrepo persists the WorkOrder aggregate with gorm.
package orderrepo

import (
	"time"

	"repairshop/internal/core/domain/model/kernel"
	"repairshop/internal/core/domain/model/workorder"

	"github.com/google/uuid"
)

// WorkOrderDTO is the row shape of the work_orders table.
type WorkOrderDTO struct {
	ID             uuid.UUID         `gorm:"type:uuid;primaryKey"`
	OrderNumber    string            `gorm:"size:64;uniqueIndex;not null"`
	Status         string            `gorm:"size:64;index;not null"`
	StatusMetadata map[string]string `gorm:"type:jsonb;serializer:json;not null"`
	StatusNote     string            `gorm:"not null;default:''"`
	Priority       string            `gorm:"size:16;not null"`
	Customer       CustomerDTO       `gorm:"embedded;embeddedPrefix:customer_"`
	AssignedTo     string            `gorm:"size:128;index;not null;default:''"`
	CreatedDate    time.Time         `gorm:"index;not null"`
	UpdatedDate    time.Time         `gorm:"not null"`
}

func (WorkOrderDTO) TableName() string {
	return "work_orders"
}

type CustomerDTO struct {
	ID    string `gorm:"size:128;not null;default:''"`
	Name  string `gorm:"size:255;not null;default:''"`
	Phone string `gorm:"size:64;not null;default:''"`
}

func fromDomain(order *workorder.WorkOrder) WorkOrderDTO {
	customer := order.Customer()
	return WorkOrderDTO{
		ID:             order.ID().Bytes(),
		OrderNumber:    order.OrderNumber(),
		Status:         order.Status().String(),
		StatusMetadata: order.StatusMetadata().Clone(),
		StatusNote:     order.StatusNote(),
		Priority:       order.Priority().String(),
		Customer: CustomerDTO{
			ID:    customer.ID,
			Name:  customer.Name,
			Phone: customer.Phone,
		},
		AssignedTo:  order.AssignedTo(),
		CreatedDate: order.CreatedDate().UTC(),
		UpdatedDate: order.UpdatedDate().UTC(),
	}
}

func toDomain(dto WorkOrderDTO) (*workorder.WorkOrder, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	return workorder.RestoreWorkOrder(
		id,
		dto.OrderNumber,
		dto.Status,
		workorder.Metadata(dto.StatusMetadata),
		dto.StatusNote,
		workorder.Priority(dto.Priority),
		workorder.CustomerRef{
			ID:    dto.Customer.ID,
			Name:  dto.Customer.Name,
			Phone: dto.Customer.Phone,
		},
		dto.AssignedTo,
		dto.CreatedDate,
		dto.UpdatedDate,
	)
}

func toDomainList(dtos []WorkOrderDTO) ([]*workorder.WorkOrder, error) {
	orders := make([]*workorder.WorkOrder, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}
