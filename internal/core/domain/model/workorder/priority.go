package workorder

import (
	"fmt"
	"strings"

	"repairshop/internal/pkg/errs"
)

// Priority tells the shop how soon an order should be handled. Overdue alerts
// list urgent orders first.
type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityHigh   Priority = "high"
	PriorityNormal Priority = "normal"
)

// ParsePriority accepts any casing; blank input means normal.
func ParsePriority(raw string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(raw)))
	if p == "" {
		return PriorityNormal, nil
	}
	if err := p.Validate(); err != nil {
		return "", err
	}
	return p, nil
}

// Validate accepts only the three Priority* values, in lower case.
func (p Priority) Validate() error {
	switch p {
	case PriorityUrgent, PriorityHigh, PriorityNormal:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("priority", fmt.Errorf("%q is not a priority level", string(p)))
	}
}

// Rank orders priorities for alert surfaces: urgent 0, high 1, normal 2.
// Unknown values sort with normal.
func (p Priority) Rank() int {
	switch p {
	case PriorityUrgent:
		return 0
	case PriorityHigh:
		return 1
	default:
		return 2
	}
}

// String returns the stored form of the priority.
func (p Priority) String() string {
	return string(p)
}
