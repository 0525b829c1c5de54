package http

import (
	"time"

	"repairshop/internal/core/application/usecases/queries"
	"repairshop/internal/core/domain/model/workorder"
	"repairshop/internal/core/domain/services"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Request and response bodies of the API document in api/openapi.yaml.

type Customer struct {
	ID    string `json:"id,omitempty" validate:"max=128"`
	Name  string `json:"name,omitempty" validate:"max=255"`
	Phone string `json:"phone,omitempty" validate:"max=64"`
}

type NewOrder struct {
	OrderNumber string   `json:"order_number" validate:"required,max=64"`
	Customer    Customer `json:"customer"`
	Priority    string   `json:"priority,omitempty" validate:"omitempty,oneof=urgent high normal"`
	AssignedTo  string   `json:"assigned_to,omitempty" validate:"max=128"`
}

type Transition struct {
	Status   string            `json:"status" validate:"required,max=64"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type NewNote struct {
	Note string `json:"note" validate:"required,max=2000"`
}

type Order struct {
	ID             openapi_types.UUID `json:"id"`
	OrderNumber    string             `json:"order_number"`
	Status         string             `json:"status"`
	StatusLabel    string             `json:"status_label"`
	StatusMetadata map[string]string  `json:"status_metadata,omitempty"`
	StatusNote     string             `json:"status_note,omitempty"`
	Priority       string             `json:"priority"`
	PriorityRank   int                `json:"priority_rank"`
	Customer       Customer           `json:"customer"`
	AssignedTo     string             `json:"assigned_to,omitempty"`
	CreatedDate    time.Time          `json:"created_date"`
	UpdatedDate    time.Time          `json:"updated_date"`
	DaysOpen       int                `json:"days_open"`
	Overdue        bool               `json:"overdue"`
	Terminal       bool               `json:"terminal"`
}

type Event struct {
	ID          openapi_types.UUID `json:"id"`
	OrderID     openapi_types.UUID `json:"order_id"`
	OrderNumber string             `json:"order_number"`
	EventType   string             `json:"event_type"`
	Description string             `json:"description"`
	UserID      string             `json:"user_id"`
	UserName    string             `json:"user_name"`
	Metadata    map[string]string  `json:"metadata,omitempty"`
	CreatedDate time.Time          `json:"created_date"`
}

type TransitionResult struct {
	Order   Order   `json:"order"`
	Event   *Event  `json:"event,omitempty"`
	Warning *string `json:"warning,omitempty"`
}

type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func toOrder(order *workorder.WorkOrder, rules *services.RuleTable, c workorder.Classification) Order {
	customer := order.Customer()
	label := order.Status().String()
	if rule, ok := rules.Rule(order.Status()); ok {
		label = rule.Label
	}

	return Order{
		ID:             order.ID().Bytes(),
		OrderNumber:    order.OrderNumber(),
		Status:         order.Status().String(),
		StatusLabel:    label,
		StatusMetadata: order.StatusMetadata().Clone(),
		StatusNote:     order.StatusNote(),
		Priority:       order.Priority().String(),
		PriorityRank:   c.PriorityRank,
		Customer:       Customer{ID: customer.ID, Name: customer.Name, Phone: customer.Phone},
		AssignedTo:     order.AssignedTo(),
		CreatedDate:    order.CreatedDate(),
		UpdatedDate:    order.UpdatedDate(),
		DaysOpen:       c.DaysOpen,
		Overdue:        c.Overdue,
		Terminal:       rules.IsTerminal(order.Status()),
	}
}

func fromQueryResponse(resp queries.GetWorkOrderQueryResponse, rules *services.RuleTable) Order {
	o := toOrder(resp.Order, rules, resp.Classification)
	o.StatusLabel = resp.Label
	o.Terminal = resp.Terminal
	return o
}

func toEvent(event *workorder.WorkOrderEvent) Event {
	return Event{
		ID:          event.ID().Bytes(),
		OrderID:     event.OrderID().Bytes(),
		OrderNumber: event.OrderNumber(),
		EventType:   event.EventType().String(),
		Description: event.Description(),
		UserID:      event.UserID(),
		UserName:    event.UserName(),
		Metadata:    event.Metadata().Clone(),
		CreatedDate: event.CreatedDate(),
	}
}

func toEvents(events []*workorder.WorkOrderEvent) []Event {
	out := make([]Event, 0, len(events))
	for _, e := range events {
		out = append(out, toEvent(e))
	}
	return out
}
