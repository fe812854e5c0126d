package formdef

import (
	"errors"
	"fmt"
)

var (
	errFormIDMissing = errors.New("formdef: form id is required")
	errNoFields      = errors.New("formdef: definition has no fields")
)

// Validate sanity-checks a definition before any rendering happens: the form
// id must be present, nameKeys must be unique, and every visibility rule
// must reference a controller field that exists in the same definition.
func Validate(def *FormDefinition) error {
	if def == nil {
		return errors.New("formdef: definition is nil")
	}
	if def.FormID == "" {
		return errFormIDMissing
	}
	if len(def.Definition.Fields) == 0 {
		return errNoFields
	}

	seen := make(map[string]struct{}, len(def.Definition.Fields))
	for _, field := range def.Definition.Fields {
		key := field.Key()
		if key == "" {
			return fmt.Errorf("formdef: field %q has no nameKey", field.Label)
		}
		if _, dup := seen[key]; dup {
			return fmt.Errorf("formdef: duplicate nameKey %q", field.NameKey)
		}
		seen[key] = struct{}{}
	}

	for _, field := range def.Definition.Fields {
		rule := field.ShowWhen
		if rule == nil {
			continue
		}
		if rule.Field == "" {
			return fmt.Errorf("formdef: field %q has a show_when rule without a controller", field.NameKey)
		}
		if _, ok := seen[normalizeKey(rule.Field)]; !ok {
			return fmt.Errorf("formdef: show_when on %q references unknown field %q", field.NameKey, rule.Field)
		}
	}

	return nil
}

func normalizeKey(name string) string {
	return FieldDef{NameKey: name}.Key()
}
