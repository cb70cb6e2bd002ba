package form

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-loanform/pkg/loan"
	pkgmodel "github.com/goliatone/go-loanform/pkg/model"
	"github.com/goliatone/go-loanform/pkg/uischema"
)

// DefaultOperationID is the operation whose request body defines the form.
const DefaultOperationID = "createLoan"

// Option configures Build.
type Option func(*options)

type options struct {
	document    []byte
	path        string
	operationID string
	labeler     func(string) string
	decorators  []pkgmodel.Decorator
	skipOverlay bool
}

// WithDocument builds from the supplied OpenAPI payload instead of the
// bundled one.
func WithDocument(data []byte) Option {
	return func(o *options) {
		o.document = data
	}
}

// WithDocumentFile reads the OpenAPI document from disk.
func WithDocumentFile(path string) Option {
	return func(o *options) {
		o.path = strings.TrimSpace(path)
	}
}

// WithOperation selects a different operation id.
func WithOperation(id string) Option {
	return func(o *options) {
		if id = strings.TrimSpace(id); id != "" {
			o.operationID = id
		}
	}
}

// WithLabeler overrides the default label generation function.
func WithLabeler(labeler func(string) string) Option {
	return func(o *options) {
		if labeler != nil {
			o.labeler = labeler
		}
	}
}

// WithDecorators appends decorators run after the bundled UI overlay.
func WithDecorators(decorators ...pkgmodel.Decorator) Option {
	return func(o *options) {
		o.decorators = append(o.decorators, decorators...)
	}
}

// WithoutDefaultOverlay skips the bundled UI schema overlay.
func WithoutDefaultOverlay() Option {
	return func(o *options) {
		o.skipOverlay = true
	}
}

// Build returns the loan form model: fields from the operation's request body,
// then the UI overlay and any extra decorators.
func Build(ctx context.Context, opts ...Option) (pkgmodel.FormModel, error) {
	cfg := options{
		operationID: DefaultOperationID,
		labeler:     pkgmodel.DefaultLabeler,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	data := cfg.document
	if cfg.path != "" {
		raw, err := os.ReadFile(cfg.path)
		if err != nil {
			return pkgmodel.FormModel{}, fmt.Errorf("form: read %s: %w", cfg.path, err)
		}
		data = raw
	}
	if data == nil {
		data = defaultDocument
	}

	operations, err := ParseOperations(ctx, data)
	if err != nil {
		return pkgmodel.FormModel{}, err
	}
	op, ok := operations[cfg.operationID]
	if !ok {
		return pkgmodel.FormModel{}, fmt.Errorf("%w: %s", ErrOperationNotFound, cfg.operationID)
	}
	if op.RequestBody == nil {
		return pkgmodel.FormModel{}, fmt.Errorf("%w: %s", ErrNoRequestBody, op.ID)
	}

	form := pkgmodel.FormModel{
		OperationID: op.ID,
		Endpoint:    op.Path,
		Method:      op.Method,
		Title:       op.Summary,
		Summary:     op.Summary,
		Description: op.Description,
		Fields:      buildFields(op.RequestBody, cfg.labeler),
	}

	decorators := cfg.decorators
	if !cfg.skipOverlay {
		store, err := uischema.LoadDefault()
		if err != nil {
			return pkgmodel.FormModel{}, err
		}
		decorators = append([]pkgmodel.Decorator{uischema.NewDecorator(store)}, decorators...)
	}
	for _, decorator := range decorators {
		if decorator == nil {
			continue
		}
		if err := decorator.Decorate(&form); err != nil {
			return pkgmodel.FormModel{}, fmt.Errorf("form: decorate: %w", err)
		}
	}

	return form, nil
}

func buildFields(schema *openapi3.Schema, labeler func(string) string) []pkgmodel.Field {
	required := make(map[string]bool, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = true
	}

	names := make([]string, 0, len(schema.Properties))
	for name, ref := range schema.Properties {
		if ref == nil || ref.Value == nil || ref.Value.ReadOnly {
			continue
		}
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return fieldRank(names[i]) < fieldRank(names[j]) ||
			(fieldRank(names[i]) == fieldRank(names[j]) && names[i] < names[j])
	})

	fields := make([]pkgmodel.Field, 0, len(names))
	for _, name := range names {
		fields = append(fields, buildField(name, schema.Properties[name].Value, required[name], labeler))
	}
	return fields
}

// fieldRank keeps the record's field order; unknown properties go last.
func fieldRank(name string) int {
	for idx, known := range loan.FieldNames {
		if known == name {
			return idx
		}
	}
	return len(loan.FieldNames)
}

func buildField(name string, schema *openapi3.Schema, required bool, labeler func(string) string) pkgmodel.Field {
	field := pkgmodel.Field{
		Name:        name,
		Type:        fieldType(schema),
		Format:      schema.Format,
		Required:    required,
		Label:       labeler(name),
		Description: schema.Description,
		Metadata:    pkgmodel.ParseUIExtensions(schema.Extensions),
	}
	if schema.Default != nil {
		field.Default = fmt.Sprint(schema.Default)
	}
	for _, value := range schema.Enum {
		field.Enum = append(field.Enum, fmt.Sprint(value))
	}
	if widget, ok := field.Metadata["widget"]; ok {
		field.Widget = widget
	}
	if placeholder, ok := field.Metadata["placeholder"]; ok {
		field.Placeholder = placeholder
	}
	field.Validations = validationRules(schema)
	return field
}

func fieldType(schema *openapi3.Schema) pkgmodel.FieldType {
	if schema.Type == nil {
		return pkgmodel.FieldTypeString
	}
	for _, typ := range schema.Type.Slice() {
		switch typ {
		case openapi3.TypeInteger:
			return pkgmodel.FieldTypeInteger
		case openapi3.TypeNumber:
			return pkgmodel.FieldTypeNumber
		case openapi3.TypeBoolean:
			return pkgmodel.FieldTypeBoolean
		case openapi3.TypeString:
			return pkgmodel.FieldTypeString
		}
	}
	return pkgmodel.FieldTypeString
}

func validationRules(schema *openapi3.Schema) []pkgmodel.ValidationRule {
	var rules []pkgmodel.ValidationRule
	add := func(kind, key, value string) {
		rules = append(rules, pkgmodel.ValidationRule{Kind: kind, Params: map[string]string{key: value}})
	}
	if schema.Min != nil {
		add(pkgmodel.ValidationRuleMin, "value", formatFloat(*schema.Min))
	}
	if schema.Max != nil {
		add(pkgmodel.ValidationRuleMax, "value", formatFloat(*schema.Max))
	}
	if schema.MinLength > 0 {
		add(pkgmodel.ValidationRuleMinLength, "value", strconv.FormatUint(schema.MinLength, 10))
	}
	if schema.MaxLength != nil {
		add(pkgmodel.ValidationRuleMaxLength, "value", strconv.FormatUint(*schema.MaxLength, 10))
	}
	if schema.Pattern != "" {
		add(pkgmodel.ValidationRulePattern, "pattern", schema.Pattern)
	}
	return rules
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
