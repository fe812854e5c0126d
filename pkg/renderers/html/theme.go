package html

import (
	"fmt"
	"sort"
	"strings"

	"github.com/webtrix/go-leadform/pkg/formdef"
)

// cssVariables flattens the resolved theme into inline CSS custom
// properties. Selector tokens come first so the definition's own palette can
// override them.
func (r *Renderer) cssVariables(def *formdef.FormDefinition) (string, error) {
	var decls []string
	add := func(name, value string) {
		value = strings.TrimSpace(value)
		if value == "" {
			return
		}
		// Keep values attribute-safe; the template escapes the rest.
		value = strings.NewReplacer(";", "", "{", "", "}", "").Replace(value)
		decls = append(decls, name+": "+value)
	}

	if r.themeSelector != nil {
		selection, err := r.themeSelector.Select(r.themeName, r.themeVariant)
		if err != nil {
			return "", fmt.Errorf("html renderer: select theme %q: %w", r.themeName, err)
		}
		if selection != nil && selection.Manifest != nil {
			tokens := selection.Manifest.Tokens
			names := make([]string, 0, len(tokens))
			for name := range tokens {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				add("--w24-"+name, tokens[name])
			}
		}
	}

	add("--w24-primary", def.Theme.PrimaryColor)
	add("--w24-bg", def.Theme.BgColor)
	add("--w24-text", def.Theme.TextColor)
	add("--w24-font", def.Theme.FontFamily)

	settings := def.Definition.Settings
	add("--w24-panel-bg", settings.BackgroundColor)
	add("--w24-radius", settings.BorderRadius)
	add("--w24-shadow", settings.BoxShadow)
	add("--w24-border", settings.BorderColor)
	add("--w24-title-color", settings.TitleColor)
	add("--w24-desc-color", settings.DescriptionColor)
	add("--w24-field-color", settings.FieldColor)
	add("--w24-title-align", settings.TitleAlign)
	add("--w24-desc-align", settings.DescriptionAlign)

	return strings.Join(decls, "; "), nil
}
