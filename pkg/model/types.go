package model

// FieldType is the simplified enum for form-friendly field kinds.
type FieldType string

const (
	FieldTypeString  FieldType = "string"
	FieldTypeInteger FieldType = "integer"
	FieldTypeNumber  FieldType = "number"
	FieldTypeBoolean FieldType = "boolean"
)

const (
	ValidationRuleMin       = "min"
	ValidationRuleMax       = "max"
	ValidationRuleMinLength = "minLength"
	ValidationRuleMaxLength = "maxLength"
	ValidationRulePattern   = "pattern"
)

// ValidationRule is a single constraint on a field. Bounds and lengths keep
// their threshold in Params["value"]; pattern rules keep the expression in
// Params["pattern"].
type ValidationRule struct {
	Kind   string            `json:"kind"`
	Params map[string]string `json:"params,omitempty"`
}

// Field is one input of the loan form.
type Field struct {
	Name        string            `json:"name"`
	Type        FieldType         `json:"type"`
	Format      string            `json:"format,omitempty"`
	Required    bool              `json:"required"`
	Label       string            `json:"label,omitempty"`
	Placeholder string            `json:"placeholder,omitempty"`
	Description string            `json:"description,omitempty"`
	HelpText    string            `json:"helpText,omitempty"`
	Widget      string            `json:"widget,omitempty"`
	Default     string            `json:"default,omitempty"`
	Enum        []string          `json:"enum,omitempty"`
	Validations []ValidationRule  `json:"validations,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// Rule returns the first validation rule of the given kind.
func (f Field) Rule(kind string) (ValidationRule, bool) {
	for _, rule := range f.Validations {
		if rule.Kind == kind {
			return rule, true
		}
	}
	return ValidationRule{}, false
}

// FormModel is what the adapters render and prompt from.
type FormModel struct {
	OperationID string            `json:"operationId"`
	Endpoint    string            `json:"endpoint"`
	Method      string            `json:"method"`
	Title       string            `json:"title,omitempty"`
	Summary     string            `json:"summary,omitempty"`
	Description string            `json:"description,omitempty"`
	Fields      []Field           `json:"fields"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// Field looks a field up by name.
func (m FormModel) Field(name string) (Field, bool) {
	for _, field := range m.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// FieldNames returns the field names in form order.
func (m FormModel) FieldNames() []string {
	names := make([]string, 0, len(m.Fields))
	for _, field := range m.Fields {
		names = append(names, field.Name)
	}
	return names
}
