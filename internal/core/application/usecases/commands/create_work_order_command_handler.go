package commands

import (
	"context"
	"fmt"
	"time"

	"repairshop/internal/core/domain/model/kernel"
	"repairshop/internal/core/domain/model/workorder"
)

// CreateWorkOrderCommandHandler stores a new pending order together with its
// order_created audit entry in a single transaction.
type CreateWorkOrderCommandHandler struct {
	uowFactory WorkOrderUoWFactory
	now        func() time.Time
}

// NewCreateWorkOrderCommandHandler creates the handler. A nil now defaults to time.Now.
func NewCreateWorkOrderCommandHandler(uowFactory WorkOrderUoWFactory, now func() time.Time) CreateWorkOrderCommandHandler {
	if now == nil {
		now = time.Now
	}
	return CreateWorkOrderCommandHandler{
		uowFactory: uowFactory,
		now:        now,
	}
}

// Handle stores the order and its order_created entry, or neither. The unit of
// work is rolled back on any error.
func (h CreateWorkOrderCommandHandler) Handle(ctx context.Context, cmd CreateWorkOrderCommand) (*workorder.WorkOrder, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	order, err := workorder.NewWorkOrder(
		kernel.NewUUID(),
		cmd.OrderNumber(),
		cmd.Customer(),
		cmd.Priority(),
		cmd.AssignedTo(),
		h.now(),
	)
	if err != nil {
		return nil, err
	}

	event, err := workorder.NewWorkOrderEvent(
		order,
		workorder.EventOrderCreated,
		fmt.Sprintf("Orden %s recibida. Estado: Pendiente. Prioridad: %s.", order.OrderNumber(), order.Priority()),
		cmd.Actor(),
		nil,
	)
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.WorkOrderRepository().Add(ctx, order); err != nil {
		return nil, err
	}

	if _, err = uow.EventRepository().Create(ctx, event); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return order, nil
}
