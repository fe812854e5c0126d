// Package template defines the renderer-agnostic template engine seam.
// Renderers depend on the TemplateRenderer contract; the pongo subpackage
// provides the production implementation.
package template
