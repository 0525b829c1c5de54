package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"repairshop/internal/core/domain/model/workorder"
	"repairshop/internal/core/domain/services"
	"repairshop/internal/core/ports"
	"repairshop/internal/pkg/errs"
	"repairshop/internal/pkg/retry"
)

// Transition outcomes reported to the TransitionRecorder.
const (
	TransitionSucceeded    = "success"
	TransitionAuditWarning = "audit_warning"
	TransitionRejected     = "rejected"
	TransitionFailed       = "failed"
)

// UnknownStatusLabel is the status label recorded for a target the rule table
// does not know. Raw client input is never used as a label.
const UnknownStatusLabel = "unknown"

// TransitionResult is the outcome of a transition that reached the order store.
// Event is nil when Warning is set.
type TransitionResult struct {
	Order   *workorder.WorkOrder
	Event   *workorder.WorkOrderEvent
	Warning *AuditWriteFailedError
}

// TransitionOption configures optional collaborators of the handler.
type TransitionOption func(*TransitionStatusCommandHandler)

// WithStatusChangePublisher announces successful transitions through publisher.
func WithStatusChangePublisher(publisher ports.StatusChangePublisher) TransitionOption {
	return func(h *TransitionStatusCommandHandler) {
		h.publisher = publisher
	}
}

// WithTransitionRecorder counts every outcome, rejections included.
func WithTransitionRecorder(recorder TransitionRecorder) TransitionOption {
	return func(h *TransitionStatusCommandHandler) {
		h.recorder = recorder
	}
}

// WithTransitionLogger replaces slog.Default. A nil logger is ignored.
func WithTransitionLogger(logger *slog.Logger) TransitionOption {
	return func(h *TransitionStatusCommandHandler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithTransitionClock sets the clock used for the order's updated date and the
// overdue view in the result. Tests pin it; a nil func is ignored.
func WithTransitionClock(now func() time.Time) TransitionOption {
	return func(h *TransitionStatusCommandHandler) {
		if now != nil {
			h.now = now
		}
	}
}

// TransitionStatusCommandHandler is the status transition engine.
//
// A transition is validated locally first; nothing reaches the stores when the
// target status is unknown or required metadata is missing. It then loads the
// order, stores the new status and appends a status_change audit entry. Each of
// those calls is retried on its own, the transition as a whole never is, so a
// retry can not produce a duplicate audit entry.
//
// The two writes do not share a transaction. When the audit append fails after
// its retries the order keeps its new status and the result carries an
// AuditWriteFailedError warning instead of an error.
type TransitionStatusCommandHandler struct {
	orders    ports.WorkOrderRepository
	events    ports.EventRepository
	rules     *services.RuleTable
	retrier   *retry.Retrier
	publisher ports.StatusChangePublisher
	recorder  TransitionRecorder
	logger    *slog.Logger
	now       func() time.Time
}

// NewTransitionStatusCommandHandler wires the engine to its stores. The rule
// table decides which statuses exist; retrier wraps each store call.
//
// Example:
//
//	handler := NewTransitionStatusCommandHandler(orders, events, rules, retrier,
//	    WithStatusChangePublisher(publisher),
//	    WithTransitionRecorder(metrics),
//	)
func NewTransitionStatusCommandHandler(
	orders ports.WorkOrderRepository,
	events ports.EventRepository,
	rules *services.RuleTable,
	retrier *retry.Retrier,
	opts ...TransitionOption,
) *TransitionStatusCommandHandler {
	h := &TransitionStatusCommandHandler{
		orders:  orders,
		events:  events,
		rules:   rules,
		retrier: retrier,
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.logger = h.logger.With("component", "transition_engine")
	return h
}

// Handle performs one transition.
//
// Returns:
//   - ErrValueIsInvalid for an unknown target status
//   - ErrValueIsRequired naming the first missing metadata field
//   - ErrObjectNotFound when the order does not exist
//   - ErrRateLimited once a throttled store call ran out of retries
//   - a result with Warning set when only the audit append failed
func (h *TransitionStatusCommandHandler) Handle(ctx context.Context, cmd TransitionStatusCommand) (TransitionResult, error) {
	started := h.now()

	if err := cmd.Validate(); err != nil {
		return TransitionResult{}, err
	}

	rule, err := h.rules.Lookup(cmd.TargetStatus())
	if err != nil {
		h.record(UnknownStatusLabel, TransitionRejected, started)
		return TransitionResult{}, err
	}

	stored, err := rule.Prepare(cmd.Metadata())
	if err != nil {
		h.record(rule.Status.String(), TransitionRejected, started)
		return TransitionResult{}, err
	}

	order, err := retry.Run(ctx, h.retrier, "getWorkOrder", func(ctx context.Context) (*workorder.WorkOrder, error) {
		return h.orders.Get(ctx, cmd.OrderID())
	})
	if err != nil {
		h.record(rule.Status.String(), h.failureOutcome(err), started)
		return TransitionResult{}, err
	}

	from := order.Status()
	if err = order.ChangeStatus(rule.Status, stored, stored.Value(services.NoteField), h.now()); err != nil {
		h.record(rule.Status.String(), TransitionRejected, started)
		return TransitionResult{}, err
	}

	err = h.retrier.Do(ctx, "updateWorkOrder", func(ctx context.Context) error {
		return h.orders.Update(ctx, order)
	})
	if err != nil {
		h.record(rule.Status.String(), h.failureOutcome(err), started)
		return TransitionResult{}, err
	}

	result := TransitionResult{Order: order}
	description := rule.Describe(stored, cmd.Actor())

	event, err := h.appendEvent(ctx, order, description, cmd)
	if err != nil {
		result.Warning = NewAuditWriteFailedError(order.ID(), rule.Status, err)
		h.logger.WarnContext(ctx, "Status changed without audit entry",
			"order_id", order.ID().String(),
			"order_number", order.OrderNumber(),
			"status", rule.Status.String(),
			"error", err,
		)
		h.record(rule.Status.String(), TransitionAuditWarning, started)
	} else {
		result.Event = event
		h.record(rule.Status.String(), TransitionSucceeded, started)
	}

	h.logger.InfoContext(ctx, "Work order status changed",
		"order_id", order.ID().String(),
		"order_number", order.OrderNumber(),
		"from", from.String(),
		"to", rule.Status.String(),
		"user_id", cmd.Actor().ID(),
	)

	h.publish(ctx, ports.StatusChanged{
		OrderID:     order.ID().String(),
		OrderNumber: order.OrderNumber(),
		From:        from,
		To:          rule.Status,
		Metadata:    stored,
		Description: description,
		UserID:      cmd.Actor().ID(),
		UserName:    cmd.Actor().FullName(),
		AuditLogged: result.Warning == nil,
		OccurredAt:  order.UpdatedDate(),
	})

	return result, nil
}

func (h *TransitionStatusCommandHandler) appendEvent(
	ctx context.Context,
	order *workorder.WorkOrder,
	description string,
	cmd TransitionStatusCommand,
) (*workorder.WorkOrderEvent, error) {
	event, err := workorder.NewWorkOrderEvent(
		order,
		workorder.EventStatusChange,
		description,
		cmd.Actor(),
		order.StatusMetadata(),
	)
	if err != nil {
		return nil, err
	}

	return retry.Run(ctx, h.retrier, "createWorkOrderEvent", func(ctx context.Context) (*workorder.WorkOrderEvent, error) {
		return h.events.Create(ctx, event)
	})
}

func (h *TransitionStatusCommandHandler) publish(ctx context.Context, event ports.StatusChanged) {
	if h.publisher == nil {
		return
	}
	if err := h.publisher.PublishStatusChanged(ctx, event); err != nil {
		h.logger.ErrorContext(ctx, "Failed to publish status change",
			"order_id", event.OrderID,
			"status", event.To.String(),
			"error", err,
		)
	}
}

func (h *TransitionStatusCommandHandler) failureOutcome(err error) string {
	if errors.Is(err, errs.ErrObjectNotFound) {
		return TransitionRejected
	}
	return TransitionFailed
}

func (h *TransitionStatusCommandHandler) record(status, outcome string, started time.Time) {
	if h.recorder == nil {
		return
	}
	h.recorder.RecordTransition(status, outcome, h.now().Sub(started))
}
