package commands

import (
	"context"
	"fmt"
	"strings"

	"repairshop/internal/core/domain/model/workorder"
	"repairshop/internal/core/ports"
	"repairshop/internal/pkg/retry"
)

// AddOrderNoteCommandHandler appends a note_added entry to an order's history.
type AddOrderNoteCommandHandler struct {
	orders  ports.WorkOrderRepository
	events  ports.EventRepository
	retrier *retry.Retrier
}

// NewAddOrderNoteCommandHandler creates the handler; both store calls go through retrier.
func NewAddOrderNoteCommandHandler(
	orders ports.WorkOrderRepository,
	events ports.EventRepository,
	retrier *retry.Retrier,
) AddOrderNoteCommandHandler {
	return AddOrderNoteCommandHandler{orders: orders, events: events, retrier: retrier}
}

// Handle loads the order to confirm it exists, then stores the note with the
// order's current status in the entry metadata. The order itself is not changed.
//
// Example:
//
//	cmd, _ := NewAddOrderNoteCommand(orderID, "Cliente avisado por teléfono", actor)
//	event, err := handler.Handle(ctx, cmd)
//	// event.Description() == "Nota agregada: Cliente avisado por teléfono."
func (h AddOrderNoteCommandHandler) Handle(ctx context.Context, cmd AddOrderNoteCommand) (*workorder.WorkOrderEvent, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	order, err := retry.Run(ctx, h.retrier, "getWorkOrder", func(ctx context.Context) (*workorder.WorkOrder, error) {
		return h.orders.Get(ctx, cmd.OrderID())
	})
	if err != nil {
		return nil, err
	}

	event, err := workorder.NewWorkOrderEvent(
		order,
		workorder.EventNoteAdded,
		fmt.Sprintf("Nota agregada: %s.", strings.TrimRight(cmd.Note(), ".")),
		cmd.Actor(),
		workorder.Metadata{"note": cmd.Note(), "status": order.Status().String()},
	)
	if err != nil {
		return nil, err
	}

	return retry.Run(ctx, h.retrier, "createWorkOrderEvent", func(ctx context.Context) (*workorder.WorkOrderEvent, error) {
		return h.events.Create(ctx, event)
	})
}
