package vanilla_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	theme "github.com/goliatone/go-theme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-loanform/pkg/controller"
	"github.com/goliatone/go-loanform/pkg/form"
	"github.com/goliatone/go-loanform/pkg/loan"
	"github.com/goliatone/go-loanform/pkg/renderers/vanilla"
	"github.com/goliatone/go-loanform/pkg/testsupport"
)

func newPage(t *testing.T, options ...vanilla.Option) *vanilla.Page {
	t.Helper()
	model, err := form.Build(testsupport.Context(t))
	require.NoError(t, err)

	page, err := vanilla.New(append([]vanilla.Option{vanilla.WithForm(model)}, options...)...)
	require.NoError(t, err)
	return page
}

func TestPage_RendersRowsAndTotal(t *testing.T) {
	page := newPage(t)
	page.SetEmptyState(false)
	page.RenderRows(testsupport.SampleRecords())

	html, err := page.Render()
	require.NoError(t, err)

	assert.Contains(t, html, "<title>Loan Applications</title>")
	assert.Contains(t, html, "Ada Lovelace")
	assert.Contains(t, html, "<td>$25000.00</td>")
	assert.Contains(t, html, "<td>$85000.00</td>")
	assert.Contains(t, html, "<td>N/A</td>")
	assert.Contains(t, html, `action="/loans/7/delete"`)
	assert.Contains(t, html, `action="/loans/3/edit"`)
	assert.Contains(t, html, "<td>$27181.49</td>")
	assert.NotContains(t, html, "No loan applications found.")
}

func TestPage_EmptyState(t *testing.T) {
	page := newPage(t)
	page.SetEmptyState(true)
	page.RenderRows([]loan.Record{})

	html, err := page.Render()
	require.NoError(t, err)

	assert.Contains(t, html, `<p class="loanform-empty">No loan applications found.</p>`)
	assert.NotContains(t, html, "<table")
}

func TestPage_ControlVisibility(t *testing.T) {
	page := newPage(t)

	page.SetVisible(controller.ControlAdd, true)
	page.SetVisible(controller.ControlUpdate, false)
	page.SetVisible(controller.ControlCancel, false)
	html, err := page.Render()
	require.NoError(t, err)
	assert.Contains(t, html, `data-control="add">Add Loan</button>`)
	assert.Contains(t, html, `data-control="update" class="loanform-hidden" hidden>Update Loan</button>`)

	page.SetVisible(controller.ControlAdd, false)
	page.SetVisible(controller.ControlUpdate, true)
	page.SetVisible(controller.ControlCancel, true)
	html, err = page.Render()
	require.NoError(t, err)
	assert.Contains(t, html, `data-control="add" class="loanform-hidden" hidden>Add Loan</button>`)
	assert.Contains(t, html, `data-control="update">Update Loan</button>`)
	assert.Contains(t, html, `formnovalidate>Cancel</button>`)
}

func TestPage_FieldValues(t *testing.T) {
	page := newPage(t)
	page.SetFieldValues(testsupport.SampleValues())

	html, err := page.Render()
	require.NoError(t, err)
	assert.Contains(t, html, `name="applicantName" value="Katherine Johnson"`)
	assert.Contains(t, html, `type="date" name="applicationDate" value="2024-05-20"`)
	assert.Contains(t, html, `<option value="PENDING" selected>PENDING</option>`)
	assert.Contains(t, html, `type="number" name="loanAmount" value="15000"`)

	page.ResetForm()
	html, err = page.Render()
	require.NoError(t, err)
	assert.NotContains(t, html, "Katherine Johnson")
	// Reset falls back to the schema default.
	assert.Contains(t, html, `<option value="PENDING" selected>PENDING</option>`)
}

func TestPage_NoticeIsSanitized(t *testing.T) {
	page := newPage(t)
	page.ShowNotice(controller.Notice{ID: 4, Kind: controller.NoticeError, Message: "<script>alert(1)</script>Error: <b>boom</b>"})

	n, ok := page.Notice()
	require.True(t, ok)
	assert.Equal(t, "Error: boom", n.Message)

	var buf bytes.Buffer
	html, err := page.Render(&buf)
	require.NoError(t, err)
	assert.Equal(t, html, buf.String())
	assert.Contains(t, html, `loanform-notice--error" role="status" data-notice-id="4">Error: boom</div>`)

	page.ClearNotice()
	html, err = page.Render()
	require.NoError(t, err)
	assert.NotContains(t, html, "role=\"status\"")
}

func TestPage_Confirm(t *testing.T) {
	page := newPage(t)

	ok, err := page.Confirm(context.Background(), controller.MsgConfirmDelete)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = page.Confirm(vanilla.WithConfirmation(context.Background(), true), controller.MsgConfirmDelete)
	require.NoError(t, err)
	assert.True(t, ok)
}

func testManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    "acme",
		Version: "1.0.0",
		Tokens:  map[string]string{"brand": "#123456"},
		Assets: theme.Assets{
			Prefix: "/assets/themes/acme",
			Files:  map[string]string{vanilla.StylesheetAssetKey: "theme.css"},
		},
		Variants: map[string]theme.Variant{
			"dark": {Tokens: map[string]string{"brand": "#654321"}},
		},
	}
}

func TestThemeConfig(t *testing.T) {
	cfg, err := vanilla.ThemeConfig(testManifest(), "dark")
	require.NoError(t, err)

	assert.Equal(t, "acme", cfg.Theme)
	assert.Equal(t, "#654321", cfg.Tokens["brand"])
	assert.Equal(t, "#654321", cfg.CSSVars["--brand"])
	assert.Equal(t, "/assets/themes/acme/theme.css", cfg.AssetURL(vanilla.StylesheetAssetKey))
	assert.Empty(t, cfg.AssetURL("missing"))

	_, err = vanilla.ThemeConfig(testManifest(), "sepia")
	assert.Error(t, err)

	cfg, err = vanilla.ThemeConfig(nil, "")
	assert.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestPage_Theme(t *testing.T) {
	cfg, err := vanilla.ThemeConfig(testManifest(), "")
	require.NoError(t, err)
	page := newPage(t, vanilla.WithTheme(cfg))

	html, err := page.Render()
	require.NoError(t, err)
	assert.Contains(t, html, `data-theme="acme"`)
	assert.Contains(t, html, `style="--brand: #123456;"`)
	assert.Contains(t, html, `href="/assets/themes/acme/theme.css"`)
}

func TestPage_DefaultStylesheet(t *testing.T) {
	page := newPage(t)
	html, err := page.Render()
	require.NoError(t, err)
	assert.Contains(t, html, `href="/assets/loanform.css"`)

	data, err := fsReadAll(vanilla.StylesheetName)
	require.NoError(t, err)
	assert.True(t, strings.Contains(data, ".loanform-page"))
}

func TestPage_DrivenByController(t *testing.T) {
	api := testsupport.NewFakeAPI(t, testsupport.SampleRecords()...)
	page := newPage(t)
	c := newController(t, api.URL(), page)
	ctx := testsupport.Context(t)

	require.NoError(t, c.LoadList(ctx))
	require.NoError(t, c.BeginEdit(ctx, 3))

	html, err := page.Render()
	require.NoError(t, err)
	assert.Contains(t, html, `value="Alan Turing"`)
	assert.Contains(t, html, `<option value="APPROVED" selected>APPROVED</option>`)
	assert.Contains(t, html, "Editing Loan ID: 3")
	assert.Contains(t, html, `data-control="update">Update Loan</button>`)
}

func TestDefaultManifest(t *testing.T) {
	cfg, err := vanilla.ThemeConfig(vanilla.DefaultManifest(), "dark")
	require.NoError(t, err)
	assert.Equal(t, "#0d1117", cfg.CSSVars["--surface"])
	assert.Equal(t, "#d1242f", cfg.CSSVars["--danger"])
	// No stylesheet override, so the embedded one is linked.
	assert.Empty(t, cfg.AssetURL(vanilla.StylesheetAssetKey))
}

type recordingRenderer struct {
	globals  map[string]any
	data     map[string]any
	template string
	err      error
}

func (r *recordingRenderer) RenderTemplate(name string, data any, _ ...io.Writer) (string, error) {
	r.template = name
	r.data, _ = data.(map[string]any)
	return "rendered", nil
}

func (r *recordingRenderer) GlobalContext(data any) error {
	r.globals, _ = data.(map[string]any)
	return r.err
}

func TestPage_ChromeIsSeededAsGlobals(t *testing.T) {
	renderer := &recordingRenderer{}
	page := newPage(t, vanilla.WithTemplateRenderer(renderer))

	require.NotNil(t, renderer.globals)
	assert.Equal(t, "Loan Applications", renderer.globals["title"])
	assert.Equal(t, "/assets/loanform.css", renderer.globals["stylesheet"])
	assert.Equal(t, controller.MsgConfirmDelete, renderer.globals["confirmMessage"])

	page.RenderRows(testsupport.SampleRecords())
	html, err := page.Render()
	require.NoError(t, err)
	assert.Equal(t, "rendered", html)
	assert.Equal(t, "templates/page.tmpl", renderer.template)
	assert.Contains(t, renderer.data, "rows")
	assert.NotContains(t, renderer.data, "title")
}

func TestPage_GlobalContextFailure(t *testing.T) {
	renderer := &recordingRenderer{err: errors.New("boom")}
	_, err := vanilla.New(vanilla.WithTemplateRenderer(renderer))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}
