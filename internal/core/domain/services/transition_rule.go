package services

import (
	"fmt"
	"strings"

	"repairshop/internal/core/domain/model/kernel"
	"repairshop/internal/core/domain/model/workorder"
	"repairshop/internal/pkg/errs"
)

// NotAvailable replaces optional values missing from an audit description.
const NotAvailable = "N/A"

// NoteField is the metadata key holding a free-text note attached to a transition.
const NoteField = "note"

// DescribeFunc renders the audit description of a transition from the stored
// metadata (after field mapping) and the acting user.
type DescribeFunc func(metadata workorder.Metadata, actor kernel.Actor) string

// TransitionRule describes what entering a status requires and how it is audited.
type TransitionRule struct {
	Status workorder.Status
	Label  string

	// RequiredFields are input keys that must hold non-blank values, in the order
	// they are checked.
	RequiredFields []string
	OptionalFields []string

	// FieldMapping renames input keys before they are stored, e.g. workshop is
	// stored as external_workshop.
	FieldMapping map[string]string

	Terminal bool

	describe DescribeFunc
}

// Prepare validates input against the rule and returns the metadata to store.
// Blank values are dropped and unknown keys are kept. The first missing required
// field is reported as *errs.ValueIsRequiredError named after the input key.
func (r TransitionRule) Prepare(input workorder.Metadata) (workorder.Metadata, error) {
	for _, field := range r.RequiredFields {
		if input.Has(field) {
			continue
		}
		if stored, ok := r.FieldMapping[field]; ok && input.Has(stored) {
			continue
		}
		return nil, errs.NewValueIsRequiredErrorWithCause(
			field,
			fmt.Errorf("status %s requires %s", r.Status, field),
		)
	}

	out := input.Compact()
	for from, to := range r.FieldMapping {
		if v, ok := out[from]; ok {
			delete(out, from)
			if _, exists := out[to]; !exists {
				out[to] = v
			}
		}
	}
	return out, nil
}

// Describe renders the audit description. metadata is expected in stored form.
func (r TransitionRule) Describe(metadata workorder.Metadata, actor kernel.Actor) string {
	if r.describe != nil {
		return r.describe(metadata, actor)
	}
	return genericDescription(r.Label)(metadata, actor)
}

// StoredKey returns the key under which input field is stored.
func (r TransitionRule) StoredKey(field string) string {
	if to, ok := r.FieldMapping[field]; ok {
		return to
	}
	return field
}

func genericDescription(label string) DescribeFunc {
	return func(metadata workorder.Metadata, _ kernel.Actor) string {
		var b strings.Builder
		fmt.Fprintf(&b, "Estado cambiado a %s.", label)
		if note := metadata.Value(NoteField); note != "" {
			fmt.Fprintf(&b, " Nota: %s.", strings.TrimRight(note, "."))
		}
		return b.String()
	}
}

func valueOrNA(metadata workorder.Metadata, key string) string {
	if v := metadata.Value(key); v != "" {
		return v
	}
	return NotAvailable
}
