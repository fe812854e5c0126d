package html

import (
	"html"
	"slices"
	"strings"

	"github.com/webtrix/go-leadform/pkg/formdef"
	"github.com/webtrix/go-leadform/pkg/render"
	"github.com/webtrix/go-leadform/pkg/tree"
)

func (r *Renderer) fieldsMarkup(form *tree.Tree, options render.Options) string {
	var builder strings.Builder
	for _, node := range form.Nodes() {
		writeField(&builder, node, options)
	}
	return builder.String()
}

func writeField(b *strings.Builder, node *tree.Node, options render.Options) {
	if node.IsHoneypot() {
		writeHoneypot(b, node)
		return
	}
	if node.IsHidden() {
		b.WriteString(`    <input type="hidden" name="`)
		b.WriteString(html.EscapeString(node.Key()))
		b.WriteString(`" value="`)
		b.WriteString(html.EscapeString(currentValue(node, options)))
		b.WriteString("\">\n")
		return
	}

	b.WriteString(`    <div class="w24-field" data-field="`)
	b.WriteString(html.EscapeString(node.Key()))
	b.WriteByte('"')
	if !node.Visible() {
		b.WriteString(" hidden")
	}
	b.WriteString(">\n")

	writeLabel(b, node)

	switch node.FieldKind() {
	case formdef.KindTextarea:
		writeTextarea(b, node, options)
	case formdef.KindDropdown, formdef.KindSalutation, formdef.KindCountryCode, formdef.KindGSTState:
		writeSelect(b, node, options)
	case formdef.KindRadio, formdef.KindCheckboxGroup:
		writeChoiceGroup(b, node)
	case formdef.KindPhone:
		writePhone(b, node, options)
	default:
		writeInput(b, node, options)
	}

	for _, message := range options.Errors[node.Key()] {
		b.WriteString(`      <p class="w24-field-error">`)
		b.WriteString(html.EscapeString(message))
		b.WriteString("</p>\n")
	}

	b.WriteString("    </div>\n")
}

// writeHoneypot emits the decoy input: present in the document, invisible to
// humans, skipped by tab order and assistive tech.
func writeHoneypot(b *strings.Builder, node *tree.Node) {
	b.WriteString(`    <div class="w24-hp" style="position:absolute;left:-9999px;" aria-hidden="true">` + "\n")
	b.WriteString(`      <input type="text" name="`)
	b.WriteString(html.EscapeString(node.Key()))
	b.WriteString(`" tabindex="-1" autocomplete="off">` + "\n")
	b.WriteString("    </div>\n")
}

func writeLabel(b *strings.Builder, node *tree.Node) {
	label := node.Label()
	if label == "" {
		return
	}
	b.WriteString(`      <label class="w24-label" for="w24-`)
	b.WriteString(html.EscapeString(node.Key()))
	b.WriteString(`">`)
	b.WriteString(html.EscapeString(label))
	if node.Required() {
		b.WriteString(` <span class="w24-required">*</span>`)
	}
	b.WriteString("</label>\n")
}

func writeInput(b *strings.Builder, node *tree.Node, options render.Options) {
	b.WriteString(`      <input class="w24-input" type="`)
	b.WriteString(inputType(node.FieldKind()))
	b.WriteString(`" id="w24-`)
	b.WriteString(html.EscapeString(node.Key()))
	b.WriteString(`" name="`)
	b.WriteString(html.EscapeString(node.Key()))
	b.WriteByte('"')
	writeCommonAttrs(b, node, options)
	b.WriteString(">\n")
}

func writePhone(b *strings.Builder, node *tree.Node, options render.Options) {
	b.WriteString(`      <input class="w24-input" type="tel" inputmode="numeric" maxlength="10" id="w24-`)
	b.WriteString(html.EscapeString(node.Key()))
	b.WriteString(`" name="`)
	b.WriteString(html.EscapeString(node.Key()))
	b.WriteByte('"')
	writeCommonAttrs(b, node, options)
	b.WriteString(">\n")
}

func writeTextarea(b *strings.Builder, node *tree.Node, options render.Options) {
	b.WriteString(`      <textarea class="w24-input" id="w24-`)
	b.WriteString(html.EscapeString(node.Key()))
	b.WriteString(`" name="`)
	b.WriteString(html.EscapeString(node.Key()))
	b.WriteByte('"')
	if placeholder := node.Placeholder(); placeholder != "" {
		b.WriteString(` placeholder="`)
		b.WriteString(html.EscapeString(placeholder))
		b.WriteByte('"')
	}
	if node.Required() {
		b.WriteString(" required")
	}
	if node.Readonly() {
		b.WriteString(" readonly")
	}
	b.WriteByte('>')
	b.WriteString(html.EscapeString(currentValue(node, options)))
	b.WriteString("</textarea>\n")
}

func writeSelect(b *strings.Builder, node *tree.Node, options render.Options) {
	b.WriteString(`      <select class="w24-input" id="w24-`)
	b.WriteString(html.EscapeString(node.Key()))
	b.WriteString(`" name="`)
	b.WriteString(html.EscapeString(node.Key()))
	b.WriteByte('"')
	if node.Required() {
		b.WriteString(" required")
	}
	b.WriteString(">\n")

	b.WriteString(`        <option value="">`)
	b.WriteString(html.EscapeString(selectPlaceholder(node)))
	b.WriteString("</option>\n")

	current := currentValue(node, options)
	for _, option := range node.Options() {
		// The backend expects the human-readable label as the submitted
		// value for plain dropdowns; fixed option sets carry real values.
		value := option.Value
		if node.FieldKind() == formdef.KindDropdown {
			value = option.Label
		}
		b.WriteString(`        <option value="`)
		b.WriteString(html.EscapeString(value))
		b.WriteByte('"')
		if current != "" && (current == option.Value || current == option.Label) {
			b.WriteString(" selected")
		}
		b.WriteByte('>')
		b.WriteString(html.EscapeString(option.Label))
		b.WriteString("</option>\n")
	}
	b.WriteString("      </select>\n")
}

func writeChoiceGroup(b *strings.Builder, node *tree.Node) {
	kind := "radio"
	name := node.Key()
	if node.FieldKind() == formdef.KindCheckboxGroup {
		kind = "checkbox"
		name += "[]"
	}

	b.WriteString(`      <div class="w24-multi-input">` + "\n")
	for _, option := range node.Options() {
		b.WriteString(`        <label class="w24-inline-option"><input type="`)
		b.WriteString(kind)
		b.WriteString(`" name="`)
		b.WriteString(html.EscapeString(name))
		b.WriteString(`" value="`)
		b.WriteString(html.EscapeString(option.Value))
		b.WriteByte('"')
		if slices.Contains(node.Values(), option.Value) {
			b.WriteString(" checked")
		}
		b.WriteByte('>')
		b.WriteString(html.EscapeString(option.Label))
		b.WriteString("</label>\n")
	}
	b.WriteString("      </div>\n")
}

func writeCommonAttrs(b *strings.Builder, node *tree.Node, options render.Options) {
	if value := currentValue(node, options); value != "" {
		b.WriteString(` value="`)
		b.WriteString(html.EscapeString(value))
		b.WriteByte('"')
	}
	if placeholder := node.Placeholder(); placeholder != "" {
		b.WriteString(` placeholder="`)
		b.WriteString(html.EscapeString(placeholder))
		b.WriteByte('"')
	}
	if node.Required() {
		b.WriteString(" required")
	}
	if node.Readonly() {
		b.WriteString(" readonly")
	}
}

func currentValue(node *tree.Node, options render.Options) string {
	if value, ok := options.Values[node.Key()]; ok {
		return value
	}
	return node.Value()
}

func inputType(kind formdef.FieldKind) string {
	switch kind {
	case formdef.KindEmail:
		return "email"
	case formdef.KindTel:
		return "tel"
	case formdef.KindNumber:
		return "number"
	default:
		return "text"
	}
}

func selectPlaceholder(node *tree.Node) string {
	if placeholder := node.Placeholder(); placeholder != "" {
		return placeholder
	}
	switch node.FieldKind() {
	case formdef.KindCountryCode:
		return "Select country code"
	case formdef.KindGSTState:
		return "Select state"
	case formdef.KindSalutation:
		return "Select salutation"
	default:
		return "Select an option"
	}
}
