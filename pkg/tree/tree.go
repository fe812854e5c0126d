// Package tree builds the mountable field tree for a form definition: one
// node per rendered control, plus the honeypot trap and the hidden metadata
// fields carrying UTM and lead-source attribution. Semantic name overrides
// are resolved exactly once here, so later stages work with concrete kinds
// instead of re-inspecting name strings.
//
// A Tree is not safe for concurrent use; the widget is a single-threaded,
// cooperative runtime and hosts must serialize calls into it.
package tree

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/webtrix/go-leadform/pkg/formdef"
	"github.com/webtrix/go-leadform/pkg/leadsource"
	"github.com/webtrix/go-leadform/pkg/validation"
)

// Options configures a tree build.
type Options struct {
	// Registry supplies live-input normalizers. Nil disables normalization.
	Registry *validation.Registry

	// Page describes the hosting page; its attribution data becomes hidden
	// metadata fields.
	Page leadsource.Page

	// Now overrides the render timestamp, for tests.
	Now func() time.Time
}

// Pair is one name/value entry of the submission payload.
type Pair struct {
	Name  string
	Value string
}

// Tree is the built, mutable runtime state of one rendered form.
type Tree struct {
	formID     string
	title      string
	nodes      []*Node
	index      map[string]*Node
	renderedAt time.Time
	onChange   []func(key string)
	focused    string
}

// Build constructs the field tree for a definition. Field declarations the
// builder cannot map degrade to plain text inputs; Build fails only on a
// nil definition or an empty field list.
func Build(def *formdef.FormDefinition, opts Options) (*Tree, error) {
	if def == nil {
		return nil, errors.New("tree: definition is nil")
	}
	if len(def.Definition.Fields) == 0 {
		return nil, fmt.Errorf("tree: form %q has no fields", def.FormID)
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	t := &Tree{
		formID:     def.FormID,
		title:      def.Name,
		index:      make(map[string]*Node),
		renderedAt: now(),
	}

	// Honeypot goes first, exactly like the DOM runtime prepends it to the
	// form element.
	t.add(&Node{
		key:      HoneypotName,
		kind:     formdef.KindText,
		honeypot: true,
		visible:  false,
		tree:     t,
	})

	for _, field := range def.Definition.Fields {
		t.addField(field, opts.Registry)
	}

	for _, meta := range leadsource.Fields(opts.Page) {
		t.add(&Node{
			key:     meta.Name,
			kind:    formdef.KindHidden,
			values:  []string{meta.Value},
			meta:    true,
			visible: false,
			tree:    t,
		})
	}

	return t, nil
}

func (t *Tree) addField(field formdef.FieldDef, registry *validation.Registry) {
	kind := formdef.ResolveKind(field)
	key := field.Key()

	switch kind {
	case formdef.KindHidden:
		t.add(&Node{
			key:     key,
			kind:    formdef.KindHidden,
			values:  field.DefaultValue(),
			visible: false,
			tree:    t,
		})
		return

	case formdef.KindPhone:
		// Phone-like fields render as a paired country-code selector plus a
		// digits-only number input.
		t.add(&Node{
			key:     key + "_country",
			kind:    formdef.KindCountryCode,
			options: CountryCodeOptions,
			values:  []string{CountryCodeOptions[0].Value},
			visible: true,
			tree:    t,
		})
		t.add(&Node{
			key:         key,
			label:       field.Label,
			kind:        formdef.KindPhone,
			placeholder: field.Placeholder,
			required:    field.Required,
			readonly:    field.Readonly,
			values:      field.DefaultValue(),
			visible:     true,
			normalize:   validation.DigitsOnly(10),
			tree:        t,
		})
		return
	}

	node := &Node{
		key:         key,
		label:       field.Label,
		kind:        kind,
		placeholder: field.Placeholder,
		required:    field.Required,
		readonly:    field.Readonly,
		values:      field.DefaultValue(),
		visible:     true,
		normalize:   resolveNormalizer(key, registry),
		tree:        t,
	}

	switch kind {
	case formdef.KindSalutation:
		node.options = SalutationOptions
	case formdef.KindCountryCode:
		node.options = CountryCodeOptions
	case formdef.KindGSTState:
		node.options = GSTStateOptions
	case formdef.KindDropdown, formdef.KindRadio, formdef.KindCheckboxGroup:
		node.options = field.Options
	}

	t.add(node)
}

func resolveNormalizer(key string, registry *validation.Registry) func(string) string {
	if entry, ok := registry.Lookup(key); ok && entry.Normalize != nil {
		return entry.Normalize
	}
	if formdef.IsNameLike(key) {
		return validation.LettersOnly
	}
	return nil
}

func (t *Tree) add(node *Node) {
	if _, dup := t.index[node.key]; dup {
		return
	}
	t.nodes = append(t.nodes, node)
	t.index[node.key] = node
}

// FormID returns the form id the tree was built for.
func (t *Tree) FormID() string { return t.formID }

// Title returns the definition name.
func (t *Tree) Title() string { return t.title }

// RenderedAt returns the build timestamp used for the render-to-submit
// duration sent with the payload.
func (t *Tree) RenderedAt() time.Time { return t.renderedAt }

// Node returns the node registered under key.
func (t *Tree) Node(key string) (*Node, bool) {
	node, ok := t.index[key]
	return node, ok
}

// Nodes returns the tree's nodes in document order.
func (t *Tree) Nodes() []*Node { return t.nodes }

// Honeypot returns the injected decoy node.
func (t *Tree) Honeypot() *Node {
	node, _ := t.Node(HoneypotName)
	return node
}

// OnChange registers a hook fired after any user-driven value change. The
// visibility engine uses this to recompute rules.
func (t *Tree) OnChange(fn func(key string)) {
	if fn != nil {
		t.onChange = append(t.onChange, fn)
	}
}

// SetValue records user input on a single-valued control, applying the
// node's live normalizer first, and fires the change hooks. It returns the
// canonical value actually stored.
func (t *Tree) SetValue(key, raw string) (string, error) {
	node, ok := t.index[key]
	if !ok {
		return "", fmt.Errorf("tree: unknown field %q", key)
	}
	if node.readonly {
		return node.Value(), nil
	}

	value := raw
	if node.normalize != nil {
		value = node.normalize(raw)
	}
	node.values = []string{value}
	t.fireChange(key)
	return value, nil
}

// SetChecked toggles one option of a checkbox group and fires the change
// hooks.
func (t *Tree) SetChecked(key, option string, checked bool) error {
	node, ok := t.index[key]
	if !ok {
		return fmt.Errorf("tree: unknown field %q", key)
	}
	if node.kind != formdef.KindCheckboxGroup {
		return fmt.Errorf("tree: field %q is not a checkbox group", key)
	}

	idx := slices.Index(node.values, option)
	switch {
	case checked && idx < 0:
		node.values = append(node.values, option)
	case !checked && idx >= 0:
		node.values = slices.Delete(node.values, idx, idx+1)
	}
	t.fireChange(key)
	return nil
}

// ClearValue wipes a node's value without firing change hooks. Hiding a
// field clears it programmatically, which must not re-enter rule
// evaluation.
func (t *Tree) ClearValue(key string) {
	if node, ok := t.index[key]; ok {
		node.values = nil
	}
}

// SetVisible flips a node's wrapper visibility.
func (t *Tree) SetVisible(key string, visible bool) {
	if node, ok := t.index[key]; ok && !node.IsHidden() {
		node.visible = visible
	}
}

// Focused returns the key of the control that last requested focus, and
// clears the request.
func (t *Tree) Focused() string {
	key := t.focused
	t.focused = ""
	return key
}

// FirstInvalid returns the first visible, required, interactive control with
// no value: the native required-field check that runs before registry
// validation.
func (t *Tree) FirstInvalid() *Node {
	for _, node := range t.nodes {
		if node.IsHidden() || !node.visible || !node.required {
			continue
		}
		if isEmpty(node.values) {
			return node
		}
	}
	return nil
}

// Payload serializes every node into submission pairs in document order.
// Hidden inputs, metadata, and the honeypot are always included; checkbox
// groups contribute one pair per checked option under the key[] convention.
func (t *Tree) Payload() []Pair {
	var out []Pair
	for _, node := range t.nodes {
		if node.kind == formdef.KindCheckboxGroup {
			for _, value := range node.values {
				out = append(out, Pair{Name: node.key + "[]", Value: value})
			}
			continue
		}
		out = append(out, Pair{Name: node.key, Value: node.Value()})
	}
	return out
}

// Control implements validation.Scope.
func (t *Tree) Control(name string) (validation.Control, bool) {
	node, ok := t.index[name]
	if !ok || node.IsHidden() {
		return nil, false
	}
	return node, true
}

// Controls implements validation.Scope, returning interactive nodes only.
func (t *Tree) Controls() []validation.Control {
	out := make([]validation.Control, 0, len(t.nodes))
	for _, node := range t.nodes {
		if node.IsHidden() {
			continue
		}
		out = append(out, node)
	}
	return out
}

func (t *Tree) fireChange(key string) {
	for _, fn := range t.onChange {
		fn(key)
	}
}

func isEmpty(values []string) bool {
	for _, v := range values {
		if v != "" {
			return false
		}
	}
	return true
}

var _ validation.Scope = (*Tree)(nil)
var _ validation.Control = (*Node)(nil)
