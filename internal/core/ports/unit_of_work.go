package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is a transaction boundary over the order and event stores.
// Client code manages the transaction lifecycle explicitly.
type UnitOfWork interface {
	Begin(ctx context.Context) error

	// Commit returns an error if no transaction is active or the commit fails.
	Commit(ctx context.Context) error

	// Rollback is a no-op when no transaction is active.
	Rollback(ctx context.Context) error

	// WorkOrderRepository returns a repository bound to the current transaction.
	WorkOrderRepository() WorkOrderRepository

	// EventRepository returns a repository bound to the current transaction.
	EventRepository() EventRepository
}
