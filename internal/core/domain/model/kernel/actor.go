package kernel

import (
	"strings"

	"repairshop/internal/pkg/errs"
)

// RoleAdmin bypasses permission lookups.
const RoleAdmin = "admin"

// Actor is the user performing a change. Identity is resolved by the caller.
type Actor struct {
	id       string
	fullName string
	role     string
}

// NewActor validates and builds an Actor. A blank full name falls back to the id.
func NewActor(id, fullName, role string) (Actor, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Actor{}, errs.NewValueIsRequiredError("userId")
	}

	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		fullName = id
	}

	return Actor{
		id:       id,
		fullName: fullName,
		role:     strings.ToLower(strings.TrimSpace(role)),
	}, nil
}

// ID returns the user id.
func (a Actor) ID() string {
	return a.id
}

// FullName returns the display name used in audit entries.
func (a Actor) FullName() string {
	return a.fullName
}

// Role returns the lower-cased role name, possibly empty.
func (a Actor) Role() string {
	return a.role
}

// IsAdmin reports whether the actor skips permission checks.
func (a Actor) IsAdmin() bool {
	return a.role == RoleAdmin
}

// IsZero reports whether a is the zero Actor.
func (a Actor) IsZero() bool {
	return a.id == ""
}
