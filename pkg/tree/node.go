package tree

import "github.com/webtrix/go-leadform/pkg/formdef"

// Node is one entry in the built field tree: an interactive control, a
// hidden input, the honeypot, or an injected metadata field.
type Node struct {
	key         string
	label       string
	kind        formdef.FieldKind
	placeholder string
	required    bool
	readonly    bool
	options     []formdef.Option
	values      []string
	visible     bool
	honeypot    bool
	meta        bool
	normalize   func(string) string

	tree *Tree
}

// Key returns the submission name of the node.
func (n *Node) Key() string { return n.key }

// Label returns the declared label without the required marker; renderers
// append " *" themselves.
func (n *Node) Label() string { return n.label }

// FieldKind returns the resolved rendering kind.
func (n *Node) FieldKind() formdef.FieldKind { return n.kind }

// Placeholder returns the declared placeholder text.
func (n *Node) Placeholder() string { return n.placeholder }

// Options returns the selectable options for choice kinds.
func (n *Node) Options() []formdef.Option { return n.options }

// Readonly reports whether the control rejects edits.
func (n *Node) Readonly() bool { return n.readonly }

// Visible reports whether the node's wrapper is currently shown.
func (n *Node) Visible() bool { return n.visible }

// IsHidden reports whether the node materializes as a hidden input rather
// than an interactive control (declared hidden fields, the honeypot, and
// injected metadata).
func (n *Node) IsHidden() bool {
	return n.kind == formdef.KindHidden || n.honeypot || n.meta
}

// IsHoneypot reports whether the node is the injected decoy field.
func (n *Node) IsHoneypot() bool { return n.honeypot }

// IsMeta reports whether the node is an injected UTM/lead-source field.
func (n *Node) IsMeta() bool { return n.meta }

// Values returns the current value set. Single-valued controls hold at most
// one element; checkbox groups may hold several.
func (n *Node) Values() []string {
	out := make([]string, len(n.values))
	copy(out, n.values)
	return out
}

// Name implements validation.Control.
func (n *Node) Name() string { return n.key }

// Kind implements validation.Control.
func (n *Node) Kind() string { return string(n.kind) }

// Value implements validation.Control, returning the first value.
func (n *Node) Value() string {
	if len(n.values) == 0 {
		return ""
	}
	return n.values[0]
}

// Required implements validation.Control.
func (n *Node) Required() bool { return n.required }

// Focus implements validation.Control by recording this node as the focus
// target; the host surface reads it after a failed submit.
func (n *Node) Focus() {
	if n.tree != nil {
		n.tree.focused = n.key
	}
}
