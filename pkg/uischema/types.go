package uischema

import "strings"

// Store keeps the parsed operations from UI schema documents. It is safe for
// concurrent readers when treated as immutable after construction.
type Store struct {
	operations map[string]Operation
}

// Operation describes the overrides for one OpenAPI operation.
type Operation struct {
	ID     string
	Source string
	Form   FormConfig
	Fields map[string]FieldConfig
}

// FormConfig carries form-level copy, including the action labels.
type FormConfig struct {
	Title      string            `json:"title" yaml:"title"`
	Subtitle   string            `json:"subtitle" yaml:"subtitle"`
	EmptyState string            `json:"emptyState" yaml:"emptyState"`
	Actions    ActionLabels      `json:"actions" yaml:"actions"`
	Metadata   map[string]string `json:"metadata" yaml:"metadata"`
}

// ActionLabels names the add, update and cancel controls.
type ActionLabels struct {
	Add    string `json:"add" yaml:"add"`
	Update string `json:"update" yaml:"update"`
	Cancel string `json:"cancel" yaml:"cancel"`
}

// FieldConfig customises how a single field is labelled and ordered.
type FieldConfig struct {
	Order       *int              `json:"order,omitempty" yaml:"order,omitempty"`
	Label       string            `json:"label,omitempty" yaml:"label,omitempty"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	HelpText    string            `json:"helpText,omitempty" yaml:"helpText,omitempty"`
	Placeholder string            `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Widget      string            `json:"widget,omitempty" yaml:"widget,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	OriginalKey string            `json:"-" yaml:"-"`
}

// NormalizeFieldKey trims a field key and strips a leading "fields." or
// "$." prefix some authors use.
func NormalizeFieldKey(key string) string {
	trimmed := strings.TrimSpace(key)
	for _, prefix := range []string{"$.", "fields."} {
		trimmed = strings.TrimPrefix(trimmed, prefix)
	}
	return strings.Trim(trimmed, ".")
}
