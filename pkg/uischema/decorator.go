package uischema

import (
	"sort"

	pkgmodel "github.com/goliatone/go-loanform/pkg/model"
)

// Form metadata keys written by the decorator.
const (
	MetadataSubtitle     = "layout.subtitle"
	MetadataEmptyState   = "layout.emptyState"
	MetadataActionAdd    = "actions.add"
	MetadataActionUpdate = "actions.update"
	MetadataActionCancel = "actions.cancel"
)

// Decorator applies UI schema overrides to a form model.
type Decorator struct {
	store *Store
}

var _ pkgmodel.Decorator = (*Decorator)(nil)

// NewDecorator builds a Decorator backed by the provided store. When store is
// nil or empty, the decorator becomes a no-op.
func NewDecorator(store *Store) *Decorator {
	return &Decorator{store: store}
}

// Decorate augments the supplied form model. When no matching operation is
// found the form is left untouched.
func (d *Decorator) Decorate(form *pkgmodel.FormModel) error {
	if d == nil || d.store == nil || d.store.Empty() || form == nil {
		return nil
	}

	op, ok := d.store.Operation(form.OperationID)
	if !ok {
		return nil
	}

	applyFormConfig(form, op.Form)
	applyFieldConfig(form, op)
	return nil
}

func applyFormConfig(form *pkgmodel.FormModel, cfg FormConfig) {
	if cfg.Title != "" {
		form.Title = cfg.Title
	}
	form.Metadata = mergeStringMap(form.Metadata, cfg.Metadata)

	set := func(key, value string) {
		if value == "" {
			return
		}
		if form.Metadata == nil {
			form.Metadata = make(map[string]string)
		}
		form.Metadata[key] = value
	}
	set(MetadataSubtitle, cfg.Subtitle)
	set(MetadataEmptyState, cfg.EmptyState)
	set(MetadataActionAdd, cfg.Actions.Add)
	set(MetadataActionUpdate, cfg.Actions.Update)
	set(MetadataActionCancel, cfg.Actions.Cancel)
}

func applyFieldConfig(form *pkgmodel.FormModel, op Operation) {
	originals := make(map[string]int, len(form.Fields))
	for idx := range form.Fields {
		field := &form.Fields[idx]
		originals[field.Name] = idx

		cfg, ok := op.Fields[field.Name]
		if !ok {
			continue
		}
		if cfg.Label != "" {
			field.Label = cfg.Label
		}
		if cfg.Description != "" {
			field.Description = cfg.Description
		}
		if cfg.HelpText != "" {
			field.HelpText = sanitizeHelpText(cfg.HelpText)
		}
		if cfg.Placeholder != "" {
			field.Placeholder = cfg.Placeholder
		}
		if cfg.Widget != "" {
			field.Widget = cfg.Widget
		}
		field.Metadata = mergeStringMap(field.Metadata, cfg.Metadata)
	}

	sort.SliceStable(form.Fields, func(i, j int) bool {
		return fieldOrderLess(form.Fields[i].Name, form.Fields[j].Name, op.Fields, originals)
	})
}

// fieldOrderLess puts explicitly ordered fields first, then keeps the
// original order for the rest.
func fieldOrderLess(a, b string, cfg map[string]FieldConfig, originals map[string]int) bool {
	orderA, okA := explicitOrder(cfg, a)
	orderB, okB := explicitOrder(cfg, b)
	switch {
	case okA && okB && orderA != orderB:
		return orderA < orderB
	case okA != okB:
		return okA
	default:
		return originals[a] < originals[b]
	}
}

func explicitOrder(cfg map[string]FieldConfig, name string) (int, bool) {
	field, ok := cfg[name]
	if !ok || field.Order == nil {
		return 0, false
	}
	return *field.Order, true
}

func mergeStringMap(dst, src map[string]string) map[string]string {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]string, len(src))
	}
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func cloneStringMap(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
