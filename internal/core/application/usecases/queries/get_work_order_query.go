// Package queries contains read operations over work orders and their history.
// Queries never modify state; every read goes through the store ports under the
// same retry policy as writes.
package queries

import (
	"errors"

	"repairshop/internal/core/domain/model/kernel"
	"repairshop/internal/core/domain/model/workorder"
	"repairshop/internal/pkg/guard"
)

var (
	ErrGetWorkOrderQueryIsNotConstructed = errors.New(
		"GetWorkOrderQuery must be created via NewGetWorkOrderQuery constructor",
	)
)

// GetWorkOrderQuery asks for the current state of one order.
type GetWorkOrderQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetWorkOrderQuery rejects the nil UUID.
func NewGetWorkOrderQuery(orderID kernel.UUID) (GetWorkOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetWorkOrderQuery{}, err
	}
	return GetWorkOrderQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through NewGetWorkOrderQuery.
func (q GetWorkOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetWorkOrderQueryIsNotConstructed)
}

// OrderID returns the requested order id.
func (q GetWorkOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

// GetWorkOrderQueryResponse is the current-state view of an order.
type GetWorkOrderQueryResponse struct {
	Order          *workorder.WorkOrder
	Label          string
	Terminal       bool
	Classification workorder.Classification
}
