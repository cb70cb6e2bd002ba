package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"text/tabwriter"

	"github.com/goliatone/go-loanform/pkg/controller"
	"github.com/goliatone/go-loanform/pkg/loan"
	pkgmodel "github.com/goliatone/go-loanform/pkg/model"
)

// Page is the terminal rendering of the loan form and table. It implements
// controller.UI: rows and notices are printed as they arrive, form values are
// collected by Prompt.
type Page struct {
	driver PromptDriver
	out    io.Writer
	form   pkgmodel.FormModel
	theme  Theme

	mu    sync.Mutex
	state State
}

var _ controller.UI = (*Page)(nil)

// New builds a page. Without WithPromptDriver it prompts through survey on the
// current terminal.
func New(options ...Option) *Page {
	p := &Page{
		out:   os.Stdout,
		theme: DefaultTheme,
		state: newState(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(p)
	}
	if p.driver == nil {
		p.driver = NewSurveyDriver(p.out)
	}
	return p
}

// Snapshot returns a copy of what the page shows.
func (p *Page) Snapshot() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state.clone()
}

func (p *Page) FieldValues() loan.Values {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state.values.Clone()
}

func (p *Page) SetFieldValues(values loan.Values) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.values = values.Clone()
	if p.state.values == nil {
		p.state.values = loan.Values{}
	}
}

func (p *Page) ResetForm() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.values = loan.Values{}
}

func (p *Page) SetVisible(control controller.Control, visible bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.visible[control] = visible
}

func (p *Page) SetEmptyState(empty bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.empty = empty
}

// RenderRows stores the rows and prints them as an aligned table, or the
// empty-state message when there are none.
func (p *Page) RenderRows(records []loan.Record) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.rows = append([]loan.Record(nil), records...)

	if p.state.empty || len(records) == 0 {
		fmt.Fprintln(p.out, p.emptyMessage())
		return
	}
	writeTable(p.out, records)
}

func (p *Page) ShowNotice(notice controller.Notice) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.notice = &notice

	prefix := p.theme.SuccessPrefix
	if notice.Kind == controller.NoticeError {
		prefix = p.theme.ErrorPrefix
	}
	fmt.Fprintf(p.out, "%s %s\n", prefix, notice.Message)
}

// ClearNotice drops the active notice. Printed lines stay on screen.
func (p *Page) ClearNotice() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.notice = nil
}

func (p *Page) Confirm(ctx context.Context, message string) (bool, error) {
	return p.driver.Confirm(ctx, ConfirmConfig{Message: message})
}

// Prompt walks the form fields, using the current values as defaults, and
// stores the answers as the new form values.
func (p *Page) Prompt(ctx context.Context) error {
	values := p.FieldValues()
	rulesCache := make(map[string]validationRules)

	for _, field := range p.form.Fields {
		answer, err := p.promptField(ctx, field, values.Get(field.Name), rulesCache)
		if err != nil {
			return err
		}
		values[field.Name] = answer
	}

	p.SetFieldValues(values)
	return nil
}

func (p *Page) emptyMessage() string {
	if msg := p.form.Metadata["layout.emptyState"]; msg != "" {
		return msg
	}
	return p.theme.EmptyMessage
}

func (p *Page) promptField(ctx context.Context, field pkgmodel.Field, current string, cache map[string]validationRules) (string, error) {
	if current == "" {
		current = field.Default
	}
	switch {
	case len(field.Enum) > 0:
		return p.promptEnum(ctx, field, current, cache)
	case field.Type == pkgmodel.FieldTypeInteger || field.Type == pkgmodel.FieldTypeNumber:
		return p.promptNumber(ctx, field, current, cache)
	default:
		return p.promptString(ctx, field, current, cache)
	}
}

func (p *Page) promptString(ctx context.Context, field pkgmodel.Field, current string, cache map[string]validationRules) (string, error) {
	rules := collectValidationRules(field, cache)
	for {
		response, err := p.driver.Input(ctx, InputConfig{
			Message: displayLabel(field),
			Default: current,
			Help:    displayHelp(field),
		})
		if err != nil {
			return "", err
		}
		response = strings.TrimSpace(response)

		if !rules.required && response == "" {
			return "", nil
		}
		if err := rules.validateString(response); err != nil {
			_ = p.driver.Info(ctx, fmt.Sprintf("Invalid %s: %v", field.Name, err))
			continue
		}
		if field.Format == "date" {
			if _, err := loan.ParseDate(response); err != nil {
				_ = p.driver.Info(ctx, fmt.Sprintf("Invalid %s: expected YYYY-MM-DD", field.Name))
				continue
			}
		}
		return response, nil
	}
}

func (p *Page) promptNumber(ctx context.Context, field pkgmodel.Field, current string, cache map[string]validationRules) (string, error) {
	rules := collectValidationRules(field, cache)
	integer := field.Type == pkgmodel.FieldTypeInteger
	for {
		response, err := p.driver.Input(ctx, InputConfig{
			Message: displayLabel(field),
			Default: current,
			Help:    displayHelp(field),
		})
		if err != nil {
			return "", err
		}
		response = strings.TrimSpace(response)

		if response == "" {
			if rules.required {
				_ = p.driver.Info(ctx, fmt.Sprintf("Invalid %s: required", field.Name))
				continue
			}
			return "", nil
		}
		if err := rules.validateNumber(response, integer); err != nil {
			_ = p.driver.Info(ctx, fmt.Sprintf("Invalid %s: %v", field.Name, err))
			continue
		}
		return response, nil
	}
}

func (p *Page) promptEnum(ctx context.Context, field pkgmodel.Field, current string, cache map[string]validationRules) (string, error) {
	rules := collectValidationRules(field, cache)
	options := field.Enum
	for {
		idx, err := p.driver.Select(ctx, SelectConfig{
			Message:      displayLabel(field),
			Options:      options,
			DefaultIndex: indexOf(options, strings.ToUpper(current)),
			Help:         displayHelp(field),
		})
		if err != nil {
			return "", err
		}
		if idx < 0 || idx >= len(options) {
			_ = p.driver.Info(ctx, fmt.Sprintf("Invalid %s selection", field.Name))
			continue
		}
		selected := options[idx]
		if err := rules.validateString(selected); err != nil {
			_ = p.driver.Info(ctx, fmt.Sprintf("Invalid %s: %v", field.Name, err))
			continue
		}
		return selected, nil
	}
}

func displayLabel(field pkgmodel.Field) string {
	if field.Label != "" {
		return field.Label
	}
	return field.Name
}

func displayHelp(field pkgmodel.Field) string {
	if h := field.Metadata["cli.help"]; h != "" {
		return h
	}
	if field.HelpText != "" {
		return plainText(field.HelpText)
	}
	return field.Description
}

func writeTable(out io.Writer, records []loan.Record) {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(loan.Columns, "\t"))
	for _, rec := range records {
		fmt.Fprintln(tw, strings.Join(rec.Cells(), "\t"))
	}
	_ = tw.Flush()
}
