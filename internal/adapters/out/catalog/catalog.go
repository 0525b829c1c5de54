// Package catalog loads shop-defined statuses from a YAML file.
//
//	statuses:
//	  - id: quality_check
//	    label: Control de Calidad
//	    required_fields: [inspector]
//	    template: 'Control de calidad por {{field "inspector"}}.'
//	  - id: archived
//	    label: Archivado
//	    terminal: true
package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"repairshop/internal/core/domain/services"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type File struct {
	Statuses []StatusEntry `yaml:"statuses" validate:"dive"`
}

type StatusEntry struct {
	ID             string   `yaml:"id" validate:"required,max=64"`
	Label          string   `yaml:"label" validate:"required,max=128"`
	Terminal       bool     `yaml:"terminal"`
	RequiredFields []string `yaml:"required_fields" validate:"unique,dive,required,max=64"`
	OptionalFields []string `yaml:"optional_fields" validate:"unique,dive,required,max=64"`
	Template       string   `yaml:"template"`
}

// Loader parses and validates catalog documents.
type Loader struct {
	validate *validator.Validate
}

func NewLoader() *Loader {
	return &Loader{validate: validator.New(validator.WithRequiredStructEnabled())}
}

// LoadFile reads the catalog at path. An empty path yields no custom statuses.
func (l *Loader) LoadFile(path string) ([]services.CustomStatus, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read status catalog: %w", err)
	}

	return l.Load(bytes.NewReader(data))
}

// Load parses one YAML document. Unknown keys are rejected.
func (l *Loader) Load(r io.Reader) ([]services.CustomStatus, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var file File
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse status catalog: %w", err)
	}

	if err := l.validate.Struct(file); err != nil {
		return nil, fmt.Errorf("invalid status catalog: %w", err)
	}

	statuses := make([]services.CustomStatus, 0, len(file.Statuses))
	for _, entry := range file.Statuses {
		statuses = append(statuses, services.CustomStatus{
			ID:             entry.ID,
			Label:          entry.Label,
			Terminal:       entry.Terminal,
			RequiredFields: entry.RequiredFields,
			OptionalFields: entry.OptionalFields,
			Template:       entry.Template,
		})
	}

	return statuses, nil
}

// LoadRuleTable builds the rule table from the built-ins plus the catalog at path.
func (l *Loader) LoadRuleTable(path string) (*services.RuleTable, error) {
	custom, err := l.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return services.NewRuleTable(custom...)
}
