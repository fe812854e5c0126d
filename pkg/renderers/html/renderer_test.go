package html

import (
	"context"
	"strings"
	"testing"
	"time"

	theme "github.com/goliatone/go-theme"

	"github.com/webtrix/go-leadform/pkg/formdef"
	"github.com/webtrix/go-leadform/pkg/leadsource"
	"github.com/webtrix/go-leadform/pkg/render"
	"github.com/webtrix/go-leadform/pkg/tree"
	"github.com/webtrix/go-leadform/pkg/validation"
)

func buildForm(t *testing.T, def *formdef.FormDefinition) *tree.Tree {
	t.Helper()
	built, err := tree.Build(def, tree.Options{
		Registry: validation.Default(),
		Page:     leadsource.Page{URL: "https://host.example/?utm_source=ads", Title: "Host"},
		Now:      func() time.Time { return time.Unix(1_700_000_000, 0) },
	})
	if err != nil {
		t.Fatalf("tree.Build: %v", err)
	}
	return built
}

func renderForm(t *testing.T, def *formdef.FormDefinition, options render.Options, opts ...Option) string {
	t.Helper()
	renderer, err := New(opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	out, err := renderer.Render(context.Background(), buildForm(t, def), def, options)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	return string(out)
}

func baseDefinition() *formdef.FormDefinition {
	return &formdef.FormDefinition{
		FormID: "frm_html",
		Name:   "Contact us",
		Definition: formdef.Definition{Fields: []formdef.FieldDef{
			{NameKey: "email", Label: "Work Email", Type: formdef.FieldEmail, Required: true},
			{NameKey: "lead_type", Label: "Lead Type", Type: formdef.FieldDropdown, Options: []formdef.Option{
				{Label: "Business", Value: "biz"},
			}},
			{NameKey: "notes", Type: formdef.FieldTextarea, Placeholder: "Anything else?"},
		}},
	}
}

func TestRenderBasicStructure(t *testing.T) {
	t.Parallel()

	out := renderForm(t, baseDefinition(), render.Options{Action: "/api/form/submit"})

	for _, want := range []string{
		`id="w24-form-frm_html"`,
		`class="w24-form w24-inline"`,
		`action="/api/form/submit"`,
		`<h2 class="w24-title">Contact us</h2>`,
		`name="email"`,
		`type="email"`,
		`<span class="w24-required">*</span>`,
		`placeholder="Anything else?"`,
		`class="w24-submit">Submit</button>`,
		`class="w24-close"`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderHoneypotAndMetadata(t *testing.T) {
	t.Parallel()

	out := renderForm(t, baseDefinition(), render.Options{})

	if !strings.Contains(out, `name="company_website" tabindex="-1" autocomplete="off"`) {
		t.Fatal("honeypot input missing or not neutralised")
	}
	if !strings.Contains(out, `<input type="hidden" name="utm_source" value="ads">`) {
		t.Fatal("utm metadata not rendered as hidden input")
	}
	if !strings.Contains(out, `name="w24_page_title" value="Host"`) {
		t.Fatal("page title metadata missing")
	}
}

func TestRenderDropdownSubmitsLabels(t *testing.T) {
	t.Parallel()

	out := renderForm(t, baseDefinition(), render.Options{})

	if !strings.Contains(out, `<option value="Business">Business</option>`) {
		t.Fatal("dropdown options must submit the label, not the raw value")
	}
}

func TestRenderSanitizesDefinitionMarkup(t *testing.T) {
	t.Parallel()

	def := baseDefinition()
	def.Description = `<b>Talk to sales</b><script>alert(1)</script>`
	def.CustomCSS = `.w24-title{color:red}</style><script>steal()</script>`

	out := renderForm(t, def, render.Options{})

	if !strings.Contains(out, "<b>Talk to sales</b>") {
		t.Fatal("benign description markup stripped")
	}
	if strings.Contains(out, "<script>") {
		t.Fatal("script tag survived sanitization")
	}
	if strings.Contains(out, "steal()") {
		t.Fatal("script body survived CSS sanitization")
	}
}

func TestRenderThemeVariables(t *testing.T) {
	t.Parallel()

	def := baseDefinition()
	def.Theme = formdef.Theme{PrimaryColor: "#1d4ed8", FontFamily: "Inter"}
	def.Definition.Settings.BorderRadius = "12px"

	out := renderForm(t, def, render.Options{})

	for _, want := range []string{"--w24-primary: #1d4ed8", "--w24-font: Inter", "--w24-radius: 12px"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q", want)
		}
	}
}

type stubSelector struct {
	selection *theme.Selection
}

func (s *stubSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	return s.selection, nil
}

func TestRenderSelectorTokensAreOverridable(t *testing.T) {
	t.Parallel()

	selector := &stubSelector{selection: &theme.Selection{
		Theme:   "acme",
		Variant: "dark",
		Manifest: &theme.Manifest{
			Name:   "acme",
			Tokens: map[string]string{"brand": "#123456"},
		},
	}}

	def := baseDefinition()
	out := renderForm(t, def, render.Options{}, WithThemeSelector(selector, "acme", "dark"))

	if !strings.Contains(out, "--w24-brand: #123456") {
		t.Fatal("selector tokens not flattened into CSS variables")
	}
}

func TestRenderErrorsAndValues(t *testing.T) {
	t.Parallel()

	out := renderForm(t, baseDefinition(), render.Options{
		Values: map[string]string{"email": "jane@acme.com"},
		Errors: map[string][]string{"email": {"Address already registered"}},
	})

	if !strings.Contains(out, `value="jane@acme.com"`) {
		t.Fatal("prefilled value missing")
	}
	if !strings.Contains(out, `<p class="w24-field-error">Address already registered</p>`) {
		t.Fatal("field error missing")
	}
}

func TestRenderHidesCancelWhenDisabled(t *testing.T) {
	t.Parallel()

	off := false
	def := baseDefinition()
	def.Definition.Settings.ShowCancelButton = &off

	out := renderForm(t, def, render.Options{})
	if strings.Contains(out, "w24-close") {
		t.Fatal("close affordance rendered despite being disabled")
	}
}

func TestRenderSlideInCarriesPosition(t *testing.T) {
	t.Parallel()

	def := baseDefinition()
	def.Definition.Settings.DisplayMode = formdef.DisplaySlideIn
	def.Definition.Settings.SlidePosition = formdef.SlideTopRight

	out := renderForm(t, def, render.Options{})
	if !strings.Contains(out, "w24-slide_in w24-top-right") {
		t.Fatal("slide-in position class missing")
	}
}
