package html

import "embed"

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

// TemplatesFS exposes the built-in template bundle, mainly so callers can
// fork a template without vendoring the whole package.
func TemplatesFS() embed.FS {
	return embeddedTemplates
}
