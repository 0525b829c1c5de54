// Package commands contains business operations that modify work orders.
// Commands are built through constructors that validate their input; handlers
// load state through the ports, apply the domain rules and persist the outcome.
package commands

import (
	"context"
	"time"

	"repairshop/internal/core/ports"
)

// Unit of Work interfaces used by handlers that need an atomic write.
type (
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	WorkOrderRepoFactory interface {
		WorkOrderRepository() ports.WorkOrderRepository
	}

	EventRepoFactory interface {
		EventRepository() ports.EventRepository
	}

	// WorkOrderUoW groups an order and its audit entries in one transaction.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   _ = uow.WorkOrderRepository().Add(ctx, order)
	//   _, _ = uow.EventRepository().Create(ctx, event)
	//
	//   err = uow.Commit(ctx)
	WorkOrderUoW interface {
		TxManager
		WorkOrderRepoFactory
		EventRepoFactory
	}

	WorkOrderUoWFactory interface {
		Create() WorkOrderUoW
	}
)

// TransitionRecorder receives one observation per handled transition.
type TransitionRecorder interface {
	RecordTransition(status, outcome string, duration time.Duration)
}
