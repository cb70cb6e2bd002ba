package gotemplate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
	"github.com/shopspring/decimal"

	"github.com/goliatone/go-loanform/pkg/loan"
	"github.com/goliatone/go-loanform/pkg/render/template"
)

// Option configures the engine before construction.
type Option func(*config)

type config struct {
	templates fs.FS
	extension string
}

// WithFS loads templates from files.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templates = files
	}
}

// WithExtension overrides the template extension appended to bare names.
func WithExtension(ext string) Option {
	return func(cfg *config) {
		trimmed := strings.TrimSpace(ext)
		if trimmed == "" {
			return
		}
		if !strings.HasPrefix(trimmed, ".") {
			trimmed = "." + trimmed
		}
		cfg.extension = trimmed
	}
}

// Engine renders pongo2 templates from an fs.FS. The money and na filters
// are available to every template.
type Engine struct {
	mu sync.RWMutex

	set       *pongo2.TemplateSet
	templates map[string]*pongo2.Template
	ext       string
}

var _ template.TemplateRenderer = (*Engine)(nil)

func New(options ...Option) (*Engine, error) {
	cfg := &config{extension: ".tmpl"}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}
	if cfg.templates == nil {
		return nil, errors.New("gotemplate: templates fs.FS is required")
	}

	registerFilters()
	return &Engine{
		set:       pongo2.NewSet("loanform", pongo2.NewFSLoader(cfg.templates)),
		templates: make(map[string]*pongo2.Template),
		ext:       cfg.extension,
	}, nil
}

// RenderTemplate executes the named template and copies the result to every
// writer in out. The extension is appended when name has none.
func (e *Engine) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	if e == nil || e.set == nil {
		return "", errors.New("gotemplate: engine is nil")
	}
	path := name
	if !strings.HasSuffix(path, e.ext) {
		path += e.ext
	}

	tmpl, err := e.lookup(path)
	if err != nil {
		return "", err
	}
	ctx, err := toContext(data)
	if err != nil {
		return "", fmt.Errorf("gotemplate: convert data: %w", err)
	}

	var buf bytes.Buffer
	e.mu.RLock()
	err = tmpl.ExecuteWriter(ctx, &buf)
	e.mu.RUnlock()
	if err != nil {
		return "", fmt.Errorf("gotemplate: execute template %q: %w", path, err)
	}

	rendered := buf.String()
	for _, w := range out {
		if _, err := io.WriteString(w, rendered); err != nil {
			return "", err
		}
	}
	return rendered, nil
}

// GlobalContext merges data into the values every render sees. Render data
// wins over globals with the same key.
func (e *Engine) GlobalContext(data any) error {
	if e == nil || e.set == nil {
		return errors.New("gotemplate: engine is nil")
	}
	ctx, err := toContext(data)
	if err != nil {
		return fmt.Errorf("gotemplate: convert globals: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.set.Globals == nil {
		e.set.Globals = make(pongo2.Context)
	}
	e.set.Globals.Update(ctx)
	return nil
}

func (e *Engine) lookup(path string) (*pongo2.Template, error) {
	e.mu.RLock()
	tmpl, ok := e.templates[path]
	e.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if tmpl, ok := e.templates[path]; ok {
		return tmpl, nil
	}
	tmpl, err := e.set.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("gotemplate: load template %q: %w", path, err)
	}
	e.templates[path] = tmpl
	return tmpl, nil
}

// toContext accepts maps as they are and flattens anything else through its
// JSON form.
func toContext(data any) (pongo2.Context, error) {
	switch v := data.(type) {
	case nil:
		return pongo2.Context{}, nil
	case pongo2.Context:
		return v, nil
	case map[string]any:
		return pongo2.Context(v), nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	out := pongo2.Context{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// pongo2 filters are process wide.
func registerFilters() {
	if !pongo2.FilterExists("money") {
		_ = pongo2.RegisterFilter("money", filterMoney)
	}
	if !pongo2.FilterExists("na") {
		_ = pongo2.RegisterFilter("na", filterPlaceholder)
	}
}

// filterMoney formats a numeric value as "$1234.50". Blank input renders the
// placeholder and unparsable input is passed through.
func filterMoney(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in.IsNil() {
		return pongo2.AsValue(loan.Placeholder), nil
	}
	raw := strings.TrimSpace(in.String())
	if raw == "" {
		return pongo2.AsValue(loan.Placeholder), nil
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return pongo2.AsValue(raw), nil
	}
	return pongo2.AsValue(loan.FormatMoney(amount)), nil
}

func filterPlaceholder(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in.IsNil() || strings.TrimSpace(in.String()) == "" {
		return pongo2.AsValue(loan.Placeholder), nil
	}
	return in, nil
}
