package workorder

import (
	"errors"
	"strings"
	"time"

	"repairshop/internal/core/domain/model/kernel"
	"repairshop/internal/pkg/errs"
)

var (
	// ErrWorkOrderEventIsNotConstructed is returned when an event was built as a
	// struct literal instead of through a constructor.
	ErrWorkOrderEventIsNotConstructed = errors.New("WorkOrderEvent must be created via NewWorkOrderEvent or RestoreWorkOrderEvent constructor")
)

// EventType classifies an audit trail entry. The values are stored verbatim in
// the event store and shown by the history screen.
type EventType string

const (
	EventStatusChange      EventType = "status_change"
	EventNoteAdded         EventType = "note_added"
	EventPriorityChanged   EventType = "priority_changed"
	EventAssignmentChanged EventType = "assignment_changed"
	EventOverdueAlert      EventType = "overdue_alert"
	EventOrderCreated      EventType = "order_created"
)

// Validate rejects event types outside the known set.
func (t EventType) Validate() error {
	switch t {
	case EventStatusChange, EventNoteAdded, EventPriorityChanged,
		EventAssignmentChanged, EventOverdueAlert, EventOrderCreated:
		return nil
	default:
		return errs.NewValueIsInvalidError("eventType")
	}
}

// String returns the stored form of the event type.
func (t EventType) String() string {
	return string(t)
}

// WorkOrderEvent is one entry of an order's audit trail. The creation date is
// assigned by the event store, so new events carry a zero CreatedDate until saved.
type WorkOrderEvent struct {
	id          kernel.UUID
	orderID     kernel.UUID
	orderNumber string
	eventType   EventType
	description string
	userID      string
	userName    string
	metadata    Metadata
	createdDate time.Time

	isConstructed bool
}

// NewWorkOrderEvent records something that happened to order. The event copies
// the order's id and number so the history can be read without the order, and
// stamps the acting user from actor. Blank metadata values are dropped.
//
// Parameters:
//   - order: the order the event belongs to (must be constructed)
//   - eventType: one of the Event* constants
//   - description: human readable text, required
//   - actor: the user performing the action, required
//   - metadata: extra values to keep with the entry, may be nil
//
// Example:
//
//	event, err := NewWorkOrderEvent(order, EventNoteAdded,
//	    "Cliente avisado por teléfono.", actor, nil)
//	if err != nil {
//	    return err
//	}
//	stored, err := events.Create(ctx, event)
//
// CreatedDate stays zero until the event store assigns it.
func NewWorkOrderEvent(
	order *WorkOrder,
	eventType EventType,
	description string,
	actor kernel.Actor,
	metadata Metadata,
) (*WorkOrderEvent, error) {
	if err := order.Validate(); err != nil {
		return nil, err
	}

	event := &WorkOrderEvent{
		id:            kernel.NewUUID(),
		orderID:       order.ID(),
		orderNumber:   order.OrderNumber(),
		metadata:      metadata.Compact(),
		isConstructed: true,
	}

	if err := errors.Join(
		event.setEventType(eventType),
		event.setDescription(description),
		event.setUser(actor),
	); err != nil {
		return nil, err
	}

	return event, nil
}

// RestoreWorkOrderEvent rebuilds an event read from the event store. Only the
// identifiers are checked; stored rows are trusted as written.
func RestoreWorkOrderEvent(
	id kernel.UUID,
	orderID kernel.UUID,
	orderNumber string,
	eventType EventType,
	description string,
	userID string,
	userName string,
	metadata Metadata,
	createdDate time.Time,
) (*WorkOrderEvent, error) {
	if err := errors.Join(id.Validate(), orderID.Validate()); err != nil {
		return nil, err
	}

	return &WorkOrderEvent{
		id:            id,
		orderID:       orderID,
		orderNumber:   orderNumber,
		eventType:     eventType,
		description:   description,
		userID:        userID,
		userName:      userName,
		metadata:      metadata.Clone(),
		createdDate:   createdDate,
		isConstructed: true,
	}, nil
}

// Validate ensures the event came from NewWorkOrderEvent or RestoreWorkOrderEvent.
// Repositories call it before writing.
func (e *WorkOrderEvent) Validate() error {
	if e == nil || !e.isConstructed {
		return ErrWorkOrderEventIsNotConstructed
	}
	return nil
}

// ID returns the event identifier.
func (e *WorkOrderEvent) ID() kernel.UUID {
	return e.id
}

// OrderID returns the id of the order the event belongs to.
func (e *WorkOrderEvent) OrderID() kernel.UUID {
	return e.orderID
}

// OrderNumber returns the shop-facing order number captured when the event was made.
func (e *WorkOrderEvent) OrderNumber() string {
	return e.orderNumber
}

// EventType returns what kind of entry this is.
func (e *WorkOrderEvent) EventType() EventType {
	return e.eventType
}

// Description returns the audit text, e.g.
// "Estado cambiado a Esperando Piezas. Pieza: Screen, Suplidor: Acme, Tracking: N/A."
func (e *WorkOrderEvent) Description() string {
	return e.description
}

// UserID returns the id of the user who caused the event.
func (e *WorkOrderEvent) UserID() string {
	return e.userID
}

// UserName returns the display name of the acting user. It falls back to the
// user id when no name was supplied.
func (e *WorkOrderEvent) UserName() string {
	return e.userName
}

// Metadata returns a copy of the values stored with the entry.
func (e *WorkOrderEvent) Metadata() Metadata {
	return e.metadata.Clone()
}

// CreatedDate returns when the event store accepted the entry, or the zero time
// for an event that has not been saved.
func (e *WorkOrderEvent) CreatedDate() time.Time {
	return e.createdDate
}

func (e *WorkOrderEvent) setEventType(eventType EventType) error {
	if err := eventType.Validate(); err != nil {
		return err
	}
	e.eventType = eventType
	return nil
}

func (e *WorkOrderEvent) setDescription(description string) error {
	description = strings.TrimSpace(description)
	if description == "" {
		return errs.NewValueIsRequiredError("description")
	}
	e.description = description
	return nil
}

func (e *WorkOrderEvent) setUser(actor kernel.Actor) error {
	if actor.IsZero() {
		return errs.NewValueIsRequiredError("userId")
	}
	e.userID = actor.ID()
	e.userName = actor.FullName()
	return nil
}
