// Package importer bootstraps form definitions from OpenAPI documents. A
// form owner points it at an operation's request body schema and receives a
// draft FormDefinition to refine by hand.
package importer

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/webtrix/go-leadform/pkg/formdef"
)

// Option configures an Importer.
type Option func(*Importer)

// WithExternalRefs allows the OpenAPI loader to follow external $ref
// targets. Off by default.
func WithExternalRefs() Option {
	return func(i *Importer) { i.externalRefs = true }
}

// WithFormIDPrefix overrides the prefix prepended to the operation id when
// naming the drafted form.
func WithFormIDPrefix(prefix string) Option {
	return func(i *Importer) { i.formIDPrefix = prefix }
}

// Importer converts OpenAPI request body schemas into draft form
// definitions.
type Importer struct {
	externalRefs bool
	formIDPrefix string
}

// New constructs an Importer.
func New(options ...Option) *Importer {
	i := &Importer{formIDPrefix: "frm_"}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(i)
	}
	return i
}

// FromFile loads an OpenAPI document from disk and drafts a definition from
// the named operation.
func (i *Importer) FromFile(ctx context.Context, path, operationID string) (*formdef.FormDefinition, error) {
	loader := i.loader(ctx)
	doc, err := loader.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("importer: load document: %w", err)
	}
	return i.draft(doc, operationID)
}

// FromData drafts a definition from an in-memory OpenAPI document.
func (i *Importer) FromData(ctx context.Context, data []byte, operationID string) (*formdef.FormDefinition, error) {
	if len(data) == 0 {
		return nil, errors.New("importer: document payload is empty")
	}
	loader := i.loader(ctx)
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("importer: load document: %w", err)
	}
	return i.draft(doc, operationID)
}

func (i *Importer) loader(ctx context.Context) *openapi3.Loader {
	return &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: i.externalRefs,
	}
}

func (i *Importer) draft(doc *openapi3.T, operationID string) (*formdef.FormDefinition, error) {
	if operationID == "" {
		return nil, errors.New("importer: operation id is required")
	}
	operation := findOperation(doc, operationID)
	if operation == nil {
		return nil, fmt.Errorf("importer: operation %q not found", operationID)
	}

	schema := requestSchema(operation)
	if schema == nil {
		return nil, fmt.Errorf("importer: operation %q has no request body schema", operationID)
	}
	if !hasType(schema, "object") || len(schema.Properties) == 0 {
		return nil, fmt.Errorf("importer: operation %q request body is not an object schema", operationID)
	}

	required := make(map[string]bool, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = true
	}

	names := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	var fields []formdef.FieldDef
	for _, name := range names {
		field, ok := draftField(name, schema.Properties[name], required[name])
		if !ok {
			continue
		}
		fields = append(fields, field)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("importer: operation %q produced no supported fields", operationID)
	}

	title := strings.TrimSpace(operation.Summary)
	if title == "" {
		title = humanize(operationID)
	}

	def := &formdef.FormDefinition{
		FormID:      i.formIDPrefix + operationID,
		Name:        title,
		Description: strings.TrimSpace(operation.Description),
		Definition:  formdef.Definition{Fields: fields},
	}
	if err := formdef.Validate(def); err != nil {
		return nil, fmt.Errorf("importer: drafted definition is invalid: %w", err)
	}
	return def, nil
}

func findOperation(doc *openapi3.T, operationID string) *openapi3.Operation {
	if doc == nil || doc.Paths == nil {
		return nil
	}
	for _, item := range doc.Paths.Map() {
		if item == nil {
			continue
		}
		for _, operation := range item.Operations() {
			if operation != nil && operation.OperationID == operationID {
				return operation
			}
		}
	}
	return nil
}

func requestSchema(operation *openapi3.Operation) *openapi3.Schema {
	if operation.RequestBody == nil || operation.RequestBody.Value == nil {
		return nil
	}
	content := operation.RequestBody.Value.Content
	for _, mediaType := range []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"} {
		if mt, ok := content[mediaType]; ok && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	for _, mt := range content {
		if mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

// draftField maps one schema property to a field definition. Unsupported
// shapes (nested objects, untyped schemas) are skipped rather than guessed.
func draftField(name string, ref *openapi3.SchemaRef, required bool) (formdef.FieldDef, bool) {
	if ref == nil || ref.Value == nil {
		return formdef.FieldDef{}, false
	}
	schema := ref.Value

	field := formdef.FieldDef{
		NameKey:     name,
		Label:       fieldLabel(schema, name, required),
		Placeholder: strings.TrimSpace(schema.Description),
		Required:    required,
	}
	if schema.Default != nil {
		if s, ok := schema.Default.(string); ok {
			field.Value = s
		}
	}

	if len(schema.Enum) > 0 {
		field.Type = formdef.FieldDropdown
		field.Options = enumOptions(schema.Enum)
		return field, len(field.Options) > 0
	}

	switch {
	case hasType(schema, "string"):
		switch schema.Format {
		case "email":
			field.Type = formdef.FieldEmail
		case "tel", "phone":
			field.Type = formdef.FieldTel
		default:
			if schema.MaxLength != nil && *schema.MaxLength > 255 {
				field.Type = formdef.FieldTextarea
			} else {
				field.Type = formdef.FieldText
			}
		}
		return field, true
	case hasType(schema, "integer"), hasType(schema, "number"):
		field.Type = formdef.FieldNumber
		return field, true
	case hasType(schema, "boolean"):
		field.Type = formdef.FieldRadio
		field.Options = []formdef.Option{
			{Label: "Yes", Value: "true"},
			{Label: "No", Value: "false"},
		}
		return field, true
	case hasType(schema, "array"):
		// String arrays with enumerated items become checkbox groups.
		if schema.Items == nil || schema.Items.Value == nil || len(schema.Items.Value.Enum) == 0 {
			return formdef.FieldDef{}, false
		}
		field.Type = formdef.FieldCheckboxGroup
		field.Options = enumOptions(schema.Items.Value.Enum)
		return field, len(field.Options) > 0
	default:
		return formdef.FieldDef{}, false
	}
}

func enumOptions(values []any) []formdef.Option {
	out := make([]formdef.Option, 0, len(values))
	for _, value := range values {
		s, ok := value.(string)
		if !ok || s == "" {
			continue
		}
		out = append(out, formdef.Option{Label: humanize(s), Value: s})
	}
	return out
}

func fieldLabel(schema *openapi3.Schema, name string, required bool) string {
	label := strings.TrimSpace(schema.Title)
	if label == "" {
		label = humanize(name)
	}
	if required {
		label += " *"
	}
	return label
}

func hasType(schema *openapi3.Schema, want string) bool {
	if schema == nil || schema.Type == nil {
		return false
	}
	for _, t := range schema.Type.Slice() {
		if t == want {
			return true
		}
	}
	return false
}

// humanize turns snake_case, kebab-case, and camelCase identifiers into a
// title-cased label.
func humanize(name string) string {
	var words []string
	var current strings.Builder
	flush := func() {
		if current.Len() > 0 {
			words = append(words, current.String())
			current.Reset()
		}
	}
	for _, r := range name {
		switch {
		case r == '_' || r == '-' || r == ' ' || r == '.':
			flush()
		case unicode.IsUpper(r):
			flush()
			current.WriteRune(unicode.ToLower(r))
		default:
			current.WriteRune(r)
		}
	}
	flush()

	for i, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
