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
	ErrTransitionStatusCommandIsNotConstructed = errors.New(
		"TransitionStatusCommand must be created via NewTransitionStatusCommand constructor",
	)
)

// TransitionStatusCommand requests moving an order to a target status with the
// metadata gathered for it.
//
// Example:
//
//	cmd, err := NewTransitionStatusCommand(orderID, "waiting_parts",
//	    workorder.Metadata{"part_name": "Screen", "supplier": "Acme"}, actor)
//	if err != nil {
//	    return err
//	}
//	result, err := handler.Handle(ctx, cmd)
type TransitionStatusCommand struct { //nolint:recvcheck //using for validation
	orderID      kernel.UUID
	targetStatus string
	metadata     workorder.Metadata
	actor        kernel.Actor

	guard guard.ConstructorGuard
}

// NewTransitionStatusCommand checks the shape of the request. Whether the target
// status exists and which metadata it needs is decided by the handler.
func NewTransitionStatusCommand(
	orderID kernel.UUID,
	targetStatus string,
	metadata workorder.Metadata,
	actor kernel.Actor,
) (TransitionStatusCommand, error) {
	cmd := TransitionStatusCommand{
		metadata: metadata.Clone(),
		guard:    guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setTargetStatus(targetStatus),
		cmd.setActor(actor),
	); err != nil {
		return TransitionStatusCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through NewTransitionStatusCommand.
func (c TransitionStatusCommand) Validate() error {
	return c.guard.Validate(ErrTransitionStatusCommandIsNotConstructed)
}

// OrderID returns the order to transition.
func (c TransitionStatusCommand) OrderID() kernel.UUID {
	return c.orderID
}

// TargetStatus returns the requested status as sent. It may be a synonym or use
// any casing; the rule table resolves it.
func (c TransitionStatusCommand) TargetStatus() string {
	return c.targetStatus
}

// Metadata returns a copy of the values supplied for the target status.
func (c TransitionStatusCommand) Metadata() workorder.Metadata {
	return c.metadata.Clone()
}

// Actor returns the user performing the transition.
func (c TransitionStatusCommand) Actor() kernel.Actor {
	return c.actor
}

func (c *TransitionStatusCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *TransitionStatusCommand) setTargetStatus(targetStatus string) error {
	targetStatus = strings.TrimSpace(targetStatus)
	if targetStatus == "" {
		return errs.NewValueIsRequiredError("status")
	}
	c.targetStatus = targetStatus
	return nil
}

func (c *TransitionStatusCommand) setActor(actor kernel.Actor) error {
	if actor.IsZero() {
		return errs.NewValueIsRequiredError("userId")
	}
	c.actor = actor
	return nil
}
