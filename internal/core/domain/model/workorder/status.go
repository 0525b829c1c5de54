package workorder

import (
	"fmt"
	"regexp"
	"strings"

	"repairshop/internal/pkg/errs"
)

// Status is the operational state of a work order. Besides the built-in values
// below, deployments may configure additional statuses.
type Status string

const (
	Pending        Status = "pending"
	InProgress     Status = "in_progress"
	WaitingParts   Status = "waiting_parts"
	ExternalRepair Status = "reparacion_externa"
	Ready          Status = "ready"
	Completed      Status = "completed"
	Delivered      Status = "delivered"
	Cancelled      Status = "cancelled"
)

var builtinStatuses = []Status{
	Pending,
	InProgress,
	WaitingParts,
	ExternalRepair,
	Ready,
	Completed,
	Delivered,
	Cancelled,
}

// synonyms maps legacy and Spanish spellings found in stored data to canonical ids.
var synonyms = map[string]Status{
	"intake":           Pending,
	"recepcion":        Pending,
	"pendiente":        Pending,
	"en_reparacion":    InProgress,
	"en_progreso":      InProgress,
	"esperando_piezas": WaitingParts,
	"taller_externo":   ExternalRepair,
	"external_repair":  ExternalRepair,
	"listo":            Ready,
	"listo_recoger":    Ready,
	"ready_for_pickup": Ready,
	"completado":       Completed,
	"entregado":        Delivered,
	"picked_up":        Delivered,
	"finalizado":       Delivered,
	"cerrado":          Delivered,
	"closed":           Delivered,
	"cancelado":        Cancelled,
	"canceled":         Cancelled,
}

var statusPattern = regexp.MustCompile(`^[a-z][a-z0-9_]{0,63}$`)

var whitespace = regexp.MustCompile(`\s+`)

// BuiltinStatuses returns the statuses every deployment knows, in workflow order.
func BuiltinStatuses() []Status {
	out := make([]Status, len(builtinStatuses))
	copy(out, builtinStatuses)
	return out
}

// NormalizeStatus lowercases raw, joins words with underscores and resolves
// known synonyms. Unknown values are returned normalized but otherwise untouched.
func NormalizeStatus(raw string) Status {
	normalized := whitespace.ReplaceAllString(strings.ToLower(strings.TrimSpace(raw)), "_")
	if canonical, ok := synonyms[normalized]; ok {
		return canonical
	}
	return Status(normalized)
}

// String returns the status id.
func (s Status) String() string {
	return string(s)
}

// IsBuiltin reports whether s is one of BuiltinStatuses.
func (s Status) IsBuiltin() bool {
	for _, b := range builtinStatuses {
		if s == b {
			return true
		}
	}
	return false
}

// IsTerminal reports whether s closes a work order among the built-in statuses.
// Configured statuses carry their own terminal flag in the rule table.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// Validate checks the shape of the identifier, not its membership in a rule table.
func (s Status) Validate() error {
	if s == "" {
		return errs.NewValueIsRequiredError("status")
	}
	if !statusPattern.MatchString(string(s)) {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status identifier", string(s)))
	}
	return nil
}
