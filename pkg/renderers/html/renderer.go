// Package html renders a built form tree into embeddable markup: the
// production surface injected into third-party pages.
//
// Markup structure and naming mirror the hosted embed script so the same
// stylesheet and event bridge work against either output: w24-* classes, the
// off-screen honeypot, checkbox groups submitting as "name[]", and dropdowns
// submitting the option label.
package html

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"

	theme "github.com/goliatone/go-theme"
	"github.com/microcosm-cc/bluemonday"

	"github.com/webtrix/go-leadform/pkg/formdef"
	"github.com/webtrix/go-leadform/pkg/render"
	rendertemplate "github.com/webtrix/go-leadform/pkg/render/template"
	"github.com/webtrix/go-leadform/pkg/render/template/pongo"
	"github.com/webtrix/go-leadform/pkg/tree"
)

// Option configures the renderer.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	themeSelector    theme.ThemeSelector
	themeName        string
	themeVariant     string
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

// WithTemplateRenderer injects a custom template engine implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithThemeSelector resolves design tokens from a go-theme selector. Tokens
// from the selected manifest become CSS custom properties on the container,
// with the definition's own theme values layered on top.
func WithThemeSelector(selector theme.ThemeSelector, name, variant string) Option {
	return func(cfg *config) {
		cfg.themeSelector = selector
		cfg.themeName = name
		cfg.themeVariant = variant
	}
}

// Renderer produces embeddable HTML for a form tree.
type Renderer struct {
	templates     rendertemplate.TemplateRenderer
	themeSelector theme.ThemeSelector
	themeName     string
	themeVariant  string

	richText *bluemonday.Policy
	cssText  *bluemonday.Policy
}

// New constructs the HTML renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: embeddedTemplates}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = embeddedTemplates
	}

	templates := cfg.templateRenderer
	if templates == nil {
		engine, err := pongo.New(
			pongo.WithFS(cfg.templateFS),
			pongo.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure template engine: %w", err)
		}
		templates = engine
	}

	return &Renderer{
		templates:     templates,
		themeSelector: cfg.themeSelector,
		themeName:     cfg.themeName,
		themeVariant:  cfg.themeVariant,
		richText:      bluemonday.UGCPolicy(),
		cssText:       bluemonday.StrictPolicy(),
	}, nil
}

func (r *Renderer) Name() string {
	return "html"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

var _ render.Renderer = (*Renderer)(nil)

// Render produces the full widget markup: container, chrome, every field in
// definition order, and the submit affordance.
func (r *Renderer) Render(_ context.Context, form *tree.Tree, def *formdef.FormDefinition, options render.Options) ([]byte, error) {
	if form == nil || def == nil {
		return nil, fmt.Errorf("html renderer: form tree and definition are required")
	}

	cssVars, err := r.cssVariables(def)
	if err != nil {
		return nil, err
	}

	settings := def.Definition.Settings
	data := map[string]any{
		"form_id":      form.FormID(),
		"mode":         string(settings.Mode()),
		"title":        def.Name,
		"description":  r.richText.Sanitize(def.Description),
		"custom_css":   r.sanitizeCSS(def.CustomCSS),
		"css_vars":     cssVars,
		"fields_html":  r.fieldsMarkup(form, options),
		"submit_label": submitLabel(def),
		"show_cancel":  settings.CancelAllowed(),
		"action":       options.Action,
	}
	if settings.Mode() == formdef.DisplaySlideIn {
		data["position"] = string(settings.Position())
	}

	result, err := r.templates.RenderTemplate("templates/form.tmpl", data)
	if err != nil {
		return nil, fmt.Errorf("html renderer: render template: %w", err)
	}
	return []byte(result), nil
}

// sanitizeCSS strips markup from definition-supplied CSS so a compromised
// definition cannot break out of the style element.
func (r *Renderer) sanitizeCSS(css string) string {
	return r.cssText.Sanitize(css)
}

func submitLabel(def *formdef.FormDefinition) string {
	if label := strings.TrimSpace(def.Submit.Label); label != "" {
		return label
	}
	return "Submit"
}
