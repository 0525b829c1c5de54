package ports

import (
	"context"
	"time"

	"repairshop/internal/core/domain/model/workorder"
)

// StatusChanged is broadcast after a transition was persisted.
type StatusChanged struct {
	OrderID     string             `json:"order_id"`
	OrderNumber string             `json:"order_number"`
	From        workorder.Status   `json:"from"`
	To          workorder.Status   `json:"to"`
	Metadata    workorder.Metadata `json:"metadata,omitempty"`
	Description string             `json:"description"`
	UserID      string             `json:"user_id"`
	UserName    string             `json:"user_name"`
	AuditLogged bool               `json:"audit_logged"`
	OccurredAt  time.Time          `json:"occurred_at"`
}

// OverdueAlert describes one order found by the overdue scan.
type OverdueAlert struct {
	OrderID      string             `json:"order_id"`
	OrderNumber  string             `json:"order_number"`
	Status       workorder.Status   `json:"status"`
	Priority     workorder.Priority `json:"priority"`
	DaysOpen     int                `json:"days_open"`
	PriorityRank int                `json:"priority_rank"`
	AssignedTo   string             `json:"assigned_to,omitempty"`
}

// StatusChangePublisher announces persisted transitions to other systems.
// Publishing is best effort: a failure is logged by the caller and never
// undoes the transition.
type StatusChangePublisher interface {
	PublishStatusChanged(ctx context.Context, event StatusChanged) error
}

// OverdueAlertPublisher sends the result of one overdue scan as a single batch.
type OverdueAlertPublisher interface {
	PublishOverdueAlerts(ctx context.Context, alerts []OverdueAlert, scannedAt time.Time) error
}
