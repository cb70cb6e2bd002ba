package vanilla

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
	"github.com/microcosm-cc/bluemonday"
	"github.com/shopspring/decimal"

	"github.com/goliatone/go-loanform/pkg/controller"
	"github.com/goliatone/go-loanform/pkg/loan"
	pkgmodel "github.com/goliatone/go-loanform/pkg/model"
	rendertemplate "github.com/goliatone/go-loanform/pkg/render/template"
	gotemplate "github.com/goliatone/go-loanform/pkg/render/template/gotemplate"
)

const pageTemplate = "templates/page.tmpl"

// Routes are the form targets written into the page.
type Routes struct {
	Submit string
	Cancel string
	Assets string
}

// DefaultRoutes match pkg/server.
var DefaultRoutes = Routes{
	Submit: "/loans",
	Cancel: "/cancel",
	Assets: "/assets",
}

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	form             pkgmodel.FormModel
	theme            *theme.RendererConfig
	routes           Routes
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithForm sets the form model the page renders inputs for.
func WithForm(form pkgmodel.FormModel) Option {
	return func(cfg *config) {
		cfg.form = form
	}
}

// WithTheme applies a resolved go-theme configuration. See ThemeConfig.
func WithTheme(rc *theme.RendererConfig) Option {
	return func(cfg *config) {
		cfg.theme = rc
	}
}

// WithRoutes overrides the form targets. Empty entries keep the defaults.
func WithRoutes(routes Routes) Option {
	return func(cfg *config) {
		if routes.Submit != "" {
			cfg.routes.Submit = routes.Submit
		}
		if routes.Cancel != "" {
			cfg.routes.Cancel = routes.Cancel
		}
		if routes.Assets != "" {
			cfg.routes.Assets = routes.Assets
		}
	}
}

// Page is the HTML rendering of the loan form and table. It implements
// controller.UI by keeping page state in memory; Render writes the current
// state as a full document.
type Page struct {
	templates rendertemplate.TemplateRenderer
	form      pkgmodel.FormModel
	theme     *theme.RendererConfig
	routes    Routes
	policy    *bluemonday.Policy

	mu      sync.Mutex
	values  loan.Values
	visible map[controller.Control]bool
	rows    []loan.Record
	empty   bool
	notice  *controller.Notice
}

var _ controller.UI = (*Page)(nil)

// New constructs the page applying any provided options.
func New(options ...Option) (*Page, error) {
	cfg := config{templateFS: TemplatesFS(), routes: DefaultRoutes}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla: configure template renderer: %w", err)
		}
		renderer = engine
	}

	page := &Page{
		templates: renderer,
		form:      cfg.form,
		theme:     cfg.theme,
		routes:    cfg.routes,
		policy:    bluemonday.StrictPolicy(),
		values:    loan.Values{},
		visible:   map[controller.Control]bool{},
		empty:     true,
	}
	if err := renderer.GlobalContext(page.chrome()); err != nil {
		return nil, fmt.Errorf("vanilla: seed page chrome: %w", err)
	}
	return page, nil
}

func (p *Page) ContentType() string {
	return "text/html; charset=utf-8"
}

func (p *Page) FieldValues() loan.Values {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.values.Clone()
}

func (p *Page) SetFieldValues(values loan.Values) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.values = values.Clone()
	if p.values == nil {
		p.values = loan.Values{}
	}
}

func (p *Page) ResetForm() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.values = loan.Values{}
}

func (p *Page) SetVisible(control controller.Control, visible bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.visible[control] = visible
}

func (p *Page) RenderRows(records []loan.Record) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rows = append([]loan.Record(nil), records...)
}

func (p *Page) SetEmptyState(empty bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.empty = empty
}

// ShowNotice stores the notice with any markup stripped from its text.
func (p *Page) ShowNotice(notice controller.Notice) {
	notice.Message = strings.TrimSpace(p.policy.Sanitize(notice.Message))
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notice = &notice
}

func (p *Page) ClearNotice() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notice = nil
}

// Confirm reports the answer attached to ctx with WithConfirmation. The
// browser asks before posting, so a request without an answer is treated as
// declined.
func (p *Page) Confirm(ctx context.Context, _ string) (bool, error) {
	return Confirmed(ctx), nil
}

// Notice returns the active notice, if any.
func (p *Page) Notice() (controller.Notice, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.notice == nil {
		return controller.Notice{}, false
	}
	return *p.notice, true
}

// Render executes the page template against the current state. The result is
// also written to every writer in out.
func (p *Page) Render(out ...io.Writer) (string, error) {
	if p.templates == nil {
		return "", fmt.Errorf("vanilla: template renderer is nil")
	}
	result, err := p.templates.RenderTemplate(pageTemplate, p.view(), out...)
	if err != nil {
		return "", fmt.Errorf("vanilla: render template: %w", err)
	}
	return result, nil
}

// chrome is the part of the template data fixed at construction: titles,
// labels, theme and routes. It is handed to the renderer once as globals.
func (p *Page) chrome() map[string]any {
	title := p.form.Title
	if title == "" {
		title = "Loan Applications"
	}
	return map[string]any{
		"title":          title,
		"subtitle":       p.form.Metadata["layout.subtitle"],
		"classes":        chromeClasses(),
		"theme":          p.themeView(),
		"stylesheet":     p.stylesheetURL(),
		"routes":         map[string]any{"submit": p.routes.Submit, "cancel": p.routes.Cancel},
		"labels":         p.labelViews(),
		"emptyMessage":   p.metadata("layout.emptyState", "No loan applications found."),
		"columns":        loan.Columns,
		"confirmMessage": controller.MsgConfirmDelete,
	}
}

// view builds the per-render template data from the current page state.
func (p *Page) view() map[string]any {
	p.mu.Lock()
	defer p.mu.Unlock()

	data := map[string]any{
		"fields":   p.fieldViews(),
		"controls": p.controlViews(),
		"empty":    p.empty || len(p.rows) == 0,
		"rows":     p.rowViews(),
		"total":    p.total(),
	}
	if p.notice != nil {
		data["notice"] = map[string]any{
			"id":      strconv.FormatUint(p.notice.ID, 10),
			"kind":    string(p.notice.Kind),
			"message": p.notice.Message,
		}
	}
	return data
}

func (p *Page) metadata(key, fallback string) string {
	if value := p.form.Metadata[key]; value != "" {
		return value
	}
	return fallback
}

func (p *Page) labelViews() map[string]any {
	return map[string]any{
		"add":    p.metadata("actions.add", "Add Loan"),
		"update": p.metadata("actions.update", "Update Loan"),
		"cancel": p.metadata("actions.cancel", "Cancel"),
	}
}

func (p *Page) controlViews() map[string]any {
	out := make(map[string]any, len(p.visible))
	for _, control := range controller.Controls() {
		out[string(control)] = p.visible[control]
	}
	return out
}

func (p *Page) fieldViews() []any {
	out := make([]any, 0, len(p.form.Fields))
	for _, field := range p.form.Fields {
		value := p.values.Get(field.Name)
		if value == "" {
			value = field.Default
		}
		view := map[string]any{
			"name":        field.Name,
			"id":          controlID(field.Name),
			"label":       field.Label,
			"type":        inputType(string(field.Type), field.Format, field.Widget),
			"value":       value,
			"required":    field.Required,
			"placeholder": field.Placeholder,
			"help":        field.HelpText,
			"min":         ruleValue(field, pkgmodel.ValidationRuleMin, "value"),
			"max":         ruleValue(field, pkgmodel.ValidationRuleMax, "value"),
			"pattern":     ruleValue(field, pkgmodel.ValidationRulePattern, "pattern"),
			"step":        field.Metadata["step"],
		}
		if view["label"] == "" {
			view["label"] = field.Name
		}
		if field.Type == pkgmodel.FieldTypeInteger && view["step"] == "" {
			view["step"] = "1"
		}
		if len(field.Enum) > 0 {
			options := make([]any, len(field.Enum))
			for i, option := range field.Enum {
				options[i] = option
			}
			view["options"] = options
		}
		out = append(out, view)
	}
	return out
}

func ruleValue(field pkgmodel.Field, kind, param string) string {
	rule, ok := field.Rule(kind)
	if !ok {
		return ""
	}
	return rule.Params[param]
}

func (p *Page) rowViews() []any {
	out := make([]any, 0, len(p.rows))
	for _, rec := range p.rows {
		values := loan.ValuesFromRecord(rec)
		id := strconv.FormatInt(rec.ID, 10)
		row := map[string]any{
			"id":        id,
			"editURL":   p.routes.Submit + "/" + id + "/edit",
			"deleteURL": p.routes.Submit + "/" + id + "/delete",
		}
		for _, name := range loan.FieldNames {
			row[name] = values[name]
		}
		out = append(out, row)
	}
	return out
}

func (p *Page) total() string {
	sum := decimal.Zero
	for _, rec := range p.rows {
		sum = sum.Add(rec.LoanAmount)
	}
	return sum.String()
}

func (p *Page) themeView() map[string]any {
	if p.theme == nil {
		return map[string]any{}
	}
	return map[string]any{
		"name":    p.theme.Theme,
		"variant": p.theme.Variant,
		"style":   cssVarsStyle(p.theme.CSSVars),
	}
}

func (p *Page) stylesheetURL() string {
	if p.theme != nil && p.theme.AssetURL != nil {
		if url := p.theme.AssetURL(StylesheetAssetKey); url != "" {
			return url
		}
	}
	return strings.TrimSuffix(p.routes.Assets, "/") + "/" + StylesheetName
}
