package services

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"text/template"

	"repairshop/internal/core/domain/model/kernel"
	"repairshop/internal/core/domain/model/workorder"
	"repairshop/internal/pkg/errs"
)

var ErrStatusAlreadyDefined = errors.New("status already defined")

// CustomStatus is a shop-configured status added to the built-in table.
//
// Template is an optional text/template for the audit description. It sees
// .Label, .UserName and .Metadata and may call {{field "key"}}, which renders
// NotAvailable for missing values. Without a template the generic
// "Estado cambiado a <Label>." description is used.
type CustomStatus struct {
	ID             string
	Label          string
	Terminal       bool
	RequiredFields []string
	OptionalFields []string
	Template       string
}

// RuleTable maps every known status to its TransitionRule. It imposes no
// predecessor graph: any known status may be entered from any other.
type RuleTable struct {
	rules map[workorder.Status]TransitionRule
	order []workorder.Status
}

// DefaultRuleTable returns the table of built-in statuses.
func DefaultRuleTable() *RuleTable {
	table, err := NewRuleTable()
	if err != nil {
		panic(err)
	}
	return table
}

// NewRuleTable builds the table from the built-in rules followed by custom.
// Custom entries may not redefine a built-in, reuse one of its synonyms or repeat
// each other.
func NewRuleTable(custom ...CustomStatus) (*RuleTable, error) {
	table := &RuleTable{rules: make(map[workorder.Status]TransitionRule)}

	for _, rule := range builtinRules() {
		table.add(rule)
	}

	var errList []error
	for i, c := range custom {
		rule, err := customRule(c)
		if err != nil {
			errList = append(errList, fmt.Errorf("custom status #%d: %w", i, err))
			continue
		}
		if _, exists := table.rules[rule.Status]; exists {
			errList = append(errList, fmt.Errorf("custom status #%d: %w: %s", i, ErrStatusAlreadyDefined, rule.Status))
			continue
		}
		// A synonym id would always resolve to its built-in status in Lookup.
		if canonical := workorder.NormalizeStatus(rule.Status.String()); canonical != rule.Status {
			errList = append(errList, fmt.Errorf("custom status #%d: %w: %s is an alias of %s",
				i, ErrStatusAlreadyDefined, rule.Status, canonical))
			continue
		}
		table.add(rule)
	}
	if err := errors.Join(errList...); err != nil {
		return nil, err
	}

	return table, nil
}

func (t *RuleTable) add(rule TransitionRule) {
	t.rules[rule.Status] = rule
	t.order = append(t.order, rule.Status)
}

// Rule returns the rule of an exact status id.
func (t *RuleTable) Rule(status workorder.Status) (TransitionRule, bool) {
	rule, ok := t.rules[status]
	return rule, ok
}

// Lookup normalizes raw and returns its rule, or *errs.ValueIsInvalidError when
// the status is unknown.
func (t *RuleTable) Lookup(raw string) (TransitionRule, error) {
	if strings.TrimSpace(raw) == "" {
		return TransitionRule{}, errs.NewValueIsRequiredError("status")
	}
	status := workorder.NormalizeStatus(raw)
	rule, ok := t.rules[status]
	if !ok {
		return TransitionRule{}, errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%q is not a known status", raw),
		)
	}
	return rule, nil
}

// Statuses lists every known status, built-ins first.
func (t *RuleTable) Statuses() []workorder.Status {
	return slices.Clone(t.order)
}

// IsTerminal reports whether status closes an order. Unknown statuses are open.
func (t *RuleTable) IsTerminal(status workorder.Status) bool {
	return t.rules[status].Terminal
}

type templateData struct {
	Label    string
	UserName string
	Metadata workorder.Metadata
}

func customRule(c CustomStatus) (TransitionRule, error) {
	status := workorder.Status(strings.TrimSpace(c.ID))
	if err := status.Validate(); err != nil {
		return TransitionRule{}, err
	}

	label := strings.TrimSpace(c.Label)
	if label == "" {
		return TransitionRule{}, errs.NewValueIsRequiredError("label")
	}

	rule := TransitionRule{
		Status:         status,
		Label:          label,
		RequiredFields: slices.Clone(c.RequiredFields),
		OptionalFields: slices.Clone(c.OptionalFields),
		Terminal:       c.Terminal,
	}

	if strings.TrimSpace(c.Template) == "" {
		return rule, nil
	}

	tmpl, err := template.New(string(status)).
		Funcs(template.FuncMap{"field": func(string) string { return NotAvailable }}).
		Option("missingkey=zero").
		Parse(c.Template)
	if err != nil {
		return TransitionRule{}, errs.NewValueIsInvalidErrorWithCause("template", err)
	}

	fallback := genericDescription(label)
	rule.describe = func(md workorder.Metadata, actor kernel.Actor) string {
		bound, err := tmpl.Clone()
		if err != nil {
			return fallback(md, actor)
		}
		bound.Funcs(template.FuncMap{"field": func(key string) string { return valueOrNA(md, key) }})

		var b strings.Builder
		data := templateData{Label: label, UserName: actor.FullName(), Metadata: md.Clone()}
		if err := bound.Execute(&b, data); err != nil {
			return fallback(md, actor)
		}
		if out := strings.TrimSpace(b.String()); out != "" {
			return out
		}
		return fallback(md, actor)
	}

	return rule, nil
}
