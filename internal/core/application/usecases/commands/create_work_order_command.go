package commands

import (
	"errors"
	"strings"

	"repairshop/internal/core/domain/model/kernel"
	"repairshop/internal/core/domain/model/workorder"
	"repairshop/internal/pkg/errs"
	"repairshop/internal/pkg/guard"
)

var (
	ErrCreateWorkOrderCommandIsNotConstructed = errors.New(
		"CreateWorkOrderCommand must be created via NewCreateWorkOrderCommand constructor",
	)
)

// CreateWorkOrderCommand registers a repair job at the counter.
type CreateWorkOrderCommand struct { //nolint:recvcheck //using for validation
	orderNumber string
	customer    workorder.CustomerRef
	priority    workorder.Priority
	assignedTo  string
	actor       kernel.Actor

	guard guard.ConstructorGuard
}

// NewCreateWorkOrderCommand validates an intake request. The order number and
// actor are required; priority accepts any casing and defaults to normal.
//
// Example:
//
//	cmd, err := NewCreateWorkOrderCommand("WO-2025-0142",
//	    workorder.CustomerRef{ID: "c-17", Name: "Marta Gil", Phone: "555-0101"},
//	    "urgent", "tech-1", actor)
func NewCreateWorkOrderCommand(
	orderNumber string,
	customer workorder.CustomerRef,
	priority string,
	assignedTo string,
	actor kernel.Actor,
) (CreateWorkOrderCommand, error) {
	cmd := CreateWorkOrderCommand{
		customer:   customer,
		assignedTo: strings.TrimSpace(assignedTo),
		guard:      guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderNumber(orderNumber),
		cmd.setPriority(priority),
		cmd.setActor(actor),
	); err != nil {
		return CreateWorkOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through NewCreateWorkOrderCommand.
func (c CreateWorkOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateWorkOrderCommandIsNotConstructed)
}

// OrderNumber returns the intake ticket number.
func (c CreateWorkOrderCommand) OrderNumber() string {
	return c.orderNumber
}

// Customer returns the customer bringing the device in.
func (c CreateWorkOrderCommand) Customer() workorder.CustomerRef {
	return c.customer
}

// Priority returns the parsed priority.
func (c CreateWorkOrderCommand) Priority() workorder.Priority {
	return c.priority
}

// AssignedTo returns the technician id, or "".
func (c CreateWorkOrderCommand) AssignedTo() string {
	return c.assignedTo
}

// Actor returns the user registering the order.
func (c CreateWorkOrderCommand) Actor() kernel.Actor {
	return c.actor
}

func (c *CreateWorkOrderCommand) setOrderNumber(orderNumber string) error {
	orderNumber = strings.TrimSpace(orderNumber)
	if orderNumber == "" {
		return errs.NewValueIsRequiredError("orderNumber")
	}
	c.orderNumber = orderNumber
	return nil
}

func (c *CreateWorkOrderCommand) setPriority(priority string) error {
	p, err := workorder.ParsePriority(priority)
	if err != nil {
		return err
	}
	c.priority = p
	return nil
}

func (c *CreateWorkOrderCommand) setActor(actor kernel.Actor) error {
	if actor.IsZero() {
		return errs.NewValueIsRequiredError("userId")
	}
	c.actor = actor
	return nil
}
