package workorder

import (
	"errors"
	"strings"
	"time"

	"repairshop/internal/core/domain/model/kernel"
	"repairshop/internal/pkg/errs"
)

var (
	// ErrWorkOrderIsNotConstructed is returned when a WorkOrder was not created
	// through NewWorkOrder or RestoreWorkOrder.
	ErrWorkOrderIsNotConstructed = errors.New("WorkOrder must be created via NewWorkOrder or RestoreWorkOrder constructor")
)

// CustomerRef points at the customer record kept by the shop front end.
type CustomerRef struct {
	ID    string
	Name  string
	Phone string
}

// WorkOrder is the aggregate root of a repair job.
//
// Invariants:
//   - id and order number are always set
//   - status is a well-formed status identifier; membership in the configured
//     status table is checked by the transition engine before ChangeStatus
//   - status metadata never holds blank values
type WorkOrder struct {
	id             kernel.UUID
	orderNumber    string
	status         Status
	statusMetadata Metadata
	statusNote     string
	priority       Priority
	customer       CustomerRef
	assignedTo     string
	createdDate    time.Time
	updatedDate    time.Time

	isConstructed bool
}

// NewWorkOrder registers a repair job at intake. New orders start pending.
func NewWorkOrder(
	id kernel.UUID,
	orderNumber string,
	customer CustomerRef,
	priority Priority,
	assignedTo string,
	createdDate time.Time,
) (*WorkOrder, error) {
	order := &WorkOrder{
		status:         Pending,
		statusMetadata: Metadata{},
		customer:       customer,
		assignedTo:     strings.TrimSpace(assignedTo),
		isConstructed:  true,
	}

	if err := errors.Join(
		order.setID(id),
		order.setOrderNumber(orderNumber),
		order.setPriority(priority),
		order.setCreatedDate(createdDate),
	); err != nil {
		return nil, err
	}
	order.updatedDate = order.createdDate

	return order, nil
}

// RestoreWorkOrder rebuilds an order from persisted state. Stored statuses are
// normalized so legacy spellings resolve to their canonical ids.
func RestoreWorkOrder(
	id kernel.UUID,
	orderNumber string,
	status string,
	statusMetadata Metadata,
	statusNote string,
	priority Priority,
	customer CustomerRef,
	assignedTo string,
	createdDate time.Time,
	updatedDate time.Time,
) (*WorkOrder, error) {
	order := &WorkOrder{
		statusMetadata: statusMetadata.Compact(),
		statusNote:     strings.TrimSpace(statusNote),
		customer:       customer,
		assignedTo:     assignedTo,
		updatedDate:    updatedDate,
		isConstructed:  true,
	}

	if priority == "" {
		priority = PriorityNormal
	}

	if err := errors.Join(
		order.setID(id),
		order.setOrderNumber(orderNumber),
		order.setStatus(NormalizeStatus(status)),
		order.setPriority(priority),
		order.setCreatedDate(createdDate),
	); err != nil {
		return nil, err
	}

	return order, nil
}

// Validate ensures the order was built by a constructor. Repositories and
// handlers call it before trusting an order they were handed.
//
// Returns:
//   - nil if the order is valid
//   - ErrWorkOrderIsNotConstructed for nil or literal-built orders
func (o *WorkOrder) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrWorkOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares orders by id. A nil other is never equal.
func (o *WorkOrder) IsEqual(other *WorkOrder) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order identifier.
func (o *WorkOrder) ID() kernel.UUID {
	return o.id
}

// OrderNumber returns the number printed on the intake ticket, e.g. "WO-2025-0142".
func (o *WorkOrder) OrderNumber() string {
	return o.orderNumber
}

// Status returns the current status id.
func (o *WorkOrder) Status() Status {
	return o.status
}

// StatusMetadata returns a copy of the data captured by the last transition.
func (o *WorkOrder) StatusMetadata() Metadata {
	return o.statusMetadata.Clone()
}

// StatusNote returns the free text left with the last transition, if any.
func (o *WorkOrder) StatusNote() string {
	return o.statusNote
}

// Priority returns the order priority.
func (o *WorkOrder) Priority() Priority {
	return o.priority
}

// Customer returns the customer the device belongs to.
func (o *WorkOrder) Customer() CustomerRef {
	return o.customer
}

// AssignedTo returns the technician id, or "" while unassigned.
func (o *WorkOrder) AssignedTo() string {
	return o.assignedTo
}

// CreatedDate returns the intake time. Days open and overdue are measured from it.
func (o *WorkOrder) CreatedDate() time.Time {
	return o.createdDate
}

// UpdatedDate returns when the order last changed.
func (o *WorkOrder) UpdatedDate() time.Time {
	return o.updatedDate
}

// ChangeStatus moves the order to status and replaces the status metadata.
// The previous metadata is discarded: it describes the state being left.
func (o *WorkOrder) ChangeStatus(status Status, metadata Metadata, note string, at time.Time) error {
	if err := status.Validate(); err != nil {
		return err
	}

	o.status = status
	o.statusMetadata = metadata.Compact()
	o.statusNote = strings.TrimSpace(note)
	o.updatedDate = at
	return nil
}

func (o *WorkOrder) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *WorkOrder) setOrderNumber(orderNumber string) error {
	orderNumber = strings.TrimSpace(orderNumber)
	if orderNumber == "" {
		return errs.NewValueIsRequiredError("orderNumber")
	}
	o.orderNumber = orderNumber
	return nil
}

func (o *WorkOrder) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	o.status = status
	return nil
}

func (o *WorkOrder) setPriority(priority Priority) error {
	if err := priority.Validate(); err != nil {
		return err
	}
	o.priority = priority
	return nil
}

func (o *WorkOrder) setCreatedDate(createdDate time.Time) error {
	if createdDate.IsZero() {
		return errs.NewValueIsRequiredError("createdDate")
	}
	o.createdDate = createdDate
	return nil
}
