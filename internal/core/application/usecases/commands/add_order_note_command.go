package commands

import (
	"errors"
	"strings"
	"unicode/utf8"

	"repairshop/internal/core/domain/model/kernel"
	"repairshop/internal/pkg/errs"
	"repairshop/internal/pkg/guard"
)

// MaxNoteLength bounds a note in characters.
const MaxNoteLength = 2000

var (
	ErrAddOrderNoteCommandIsNotConstructed = errors.New(
		"AddOrderNoteCommand must be created via NewAddOrderNoteCommand constructor",
	)
)

// AddOrderNoteCommand attaches a free-text note to an order's history without
// changing its status.
type AddOrderNoteCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	note    string
	actor   kernel.Actor

	guard guard.ConstructorGuard
}

// NewAddOrderNoteCommand trims note and checks it holds 1 to MaxNoteLength
// characters. The order id and actor are required.
func NewAddOrderNoteCommand(orderID kernel.UUID, note string, actor kernel.Actor) (AddOrderNoteCommand, error) {
	cmd := AddOrderNoteCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setNote(note),
		cmd.setActor(actor),
	); err != nil {
		return AddOrderNoteCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through NewAddOrderNoteCommand.
func (c AddOrderNoteCommand) Validate() error {
	return c.guard.Validate(ErrAddOrderNoteCommandIsNotConstructed)
}

// OrderID returns the order the note belongs to.
func (c AddOrderNoteCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Note returns the trimmed note text.
func (c AddOrderNoteCommand) Note() string {
	return c.note
}

// Actor returns the user writing the note.
func (c AddOrderNoteCommand) Actor() kernel.Actor {
	return c.actor
}

func (c *AddOrderNoteCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *AddOrderNoteCommand) setNote(note string) error {
	note = strings.TrimSpace(note)
	if note == "" {
		return errs.NewValueIsRequiredError("note")
	}
	if n := utf8.RuneCountInString(note); n > MaxNoteLength {
		return errs.NewValueIsOutOfRangeError("note", n, 1, MaxNoteLength)
	}
	c.note = note
	return nil
}

func (c *AddOrderNoteCommand) setActor(actor kernel.Actor) error {
	if actor.IsZero() {
		return errs.NewValueIsRequiredError("userId")
	}
	c.actor = actor
	return nil
}
