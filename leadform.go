package leadform

import (
	"context"

	"github.com/webtrix/go-leadform/pkg/confload"
	"github.com/webtrix/go-leadform/pkg/formdef"
	"github.com/webtrix/go-leadform/pkg/leadsource"
	"github.com/webtrix/go-leadform/pkg/render"
	"github.com/webtrix/go-leadform/pkg/renderers/html"
	"github.com/webtrix/go-leadform/pkg/submit"
	"github.com/webtrix/go-leadform/pkg/tree"
	"github.com/webtrix/go-leadform/pkg/validation"
	"github.com/webtrix/go-leadform/pkg/visibility"
	"github.com/webtrix/go-leadform/pkg/widget"
)

// FormDefinition aliases the wire-format definition document exported via
// the root package for convenience.
type FormDefinition = formdef.FormDefinition

// FieldDef is one field declaration inside a definition.
type FieldDef = formdef.FieldDef

// Settings groups the per-form behavioral flags.
type Settings = formdef.Settings

// Page carries host page attribution captured at mount time.
type Page = leadsource.Page

// Runtime hosts widget instances and their shared collaborators.
type Runtime = widget.Runtime

// Widget is one mounted form instance.
type Widget = widget.Widget

// MountRequest describes one widget instance to bring up.
type MountRequest = widget.MountRequest

// RenderOptions describes per-request overrides renderers can use to
// prefill values or surface server-side validation errors.
type RenderOptions = render.Options

// NewRuntime exposes the widget runtime constructor from the top-level
// module. The config source is usually a *confload.Loader and the poster an
// HTTP poster aimed at the intake backend.
func NewRuntime(source widget.ConfigSource, poster submit.Poster, options ...widget.Option) *widget.Runtime {
	return widget.New(source, poster, options...)
}

// NewLoader constructs a definition loader for the given backend base URL.
func NewLoader(baseURL string, options ...confload.Option) *confload.Loader {
	return confload.New(baseURL, options...)
}

// NewPoster constructs a multipart submission poster for the given backend
// base URL.
func NewPoster(baseURL string, options ...submit.PosterOption) *submit.HTTPPoster {
	return submit.NewHTTPPoster(baseURL, options...)
}

// RenderHTML builds the field tree for a definition and renders it with the
// embedded HTML renderer. It is the simplest entry point for callers that
// just want markup for a server-rendered page.
func RenderHTML(ctx context.Context, def *formdef.FormDefinition, page leadsource.Page, options render.Options) ([]byte, error) {
	if err := formdef.Validate(def); err != nil {
		return nil, err
	}
	built, err := tree.Build(def, tree.Options{
		Registry: validation.Default(),
		Page:     page,
	})
	if err != nil {
		return nil, err
	}
	visibility.Bind(built, visibility.RulesFromDefinition(def))
	renderer, err := html.New()
	if err != nil {
		return nil, err
	}
	return renderer.Render(ctx, built, def, options)
}
