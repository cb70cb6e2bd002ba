package tui

import (
	"io"

	pkgmodel "github.com/goliatone/go-loanform/pkg/model"
)

// Theme captures the prefixes used when printing messages. Keep it free of
// ANSI specifics so output stays testable.
type Theme struct {
	SuccessPrefix string
	ErrorPrefix   string
	EmptyMessage  string
}

// DefaultTheme is used when no theme is configured.
var DefaultTheme = Theme{
	SuccessPrefix: "[ok]",
	ErrorPrefix:   "[error]",
	EmptyMessage:  "No loan applications found.",
}

// Option configures the page.
type Option func(*Page)

// WithPromptDriver overrides the prompt driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(p *Page) {
		if driver != nil {
			p.driver = driver
		}
	}
}

// WithOutput sets where tables and notices are printed.
func WithOutput(w io.Writer) Option {
	return func(p *Page) {
		if w != nil {
			p.out = w
		}
	}
}

// WithForm sets the form model used by Prompt.
func WithForm(form pkgmodel.FormModel) Option {
	return func(p *Page) {
		p.form = form
	}
}

// WithTheme applies message prefixes. Empty entries keep the defaults.
func WithTheme(theme Theme) Option {
	return func(p *Page) {
		if theme.SuccessPrefix != "" {
			p.theme.SuccessPrefix = theme.SuccessPrefix
		}
		if theme.ErrorPrefix != "" {
			p.theme.ErrorPrefix = theme.ErrorPrefix
		}
		if theme.EmptyMessage != "" {
			p.theme.EmptyMessage = theme.EmptyMessage
		}
	}
}
