package visibility

import (
	"github.com/webtrix/go-leadform/pkg/tree"
)

// Engine applies visibility rules against a live form tree. Bind it once per
// tree; it wires itself into the tree's change hook and keeps targets in sync
// from then on.
//
// Hiding a target also clears its value. A concealed GST field must not
// submit the number typed before the lead type flipped back to individual.
type Engine struct {
	tree         *tree.Tree
	rules        []Rule
	byController map[string][]Rule
}

// Bind indexes the rules by controlling field, subscribes to tree changes,
// and runs one full evaluation pass so initial values take effect before the
// form is ever shown.
func Bind(t *tree.Tree, rules []Rule) *Engine {
	eng := &Engine{
		tree:         t,
		rules:        rules,
		byController: make(map[string][]Rule, len(rules)),
	}
	for _, rule := range rules {
		eng.byController[rule.Field] = append(eng.byController[rule.Field], rule)
	}
	t.OnChange(eng.fieldChanged)
	eng.Refresh()
	return eng
}

// Refresh re-evaluates every rule against current values until the result
// settles.
func (e *Engine) Refresh() {
	for range e.rules {
		if !e.pass() {
			return
		}
	}
}

func (e *Engine) fieldChanged(key string) {
	if _, ok := e.byController[key]; !ok {
		return
	}
	// A controller may itself be a target of another rule, so a single
	// change can cascade. Rule counts are tiny; re-walk them all until the
	// pass settles instead of chasing the dependency graph.
	for range e.rules {
		if !e.pass() {
			return
		}
	}
}

// pass applies every rule once and reports whether anything flipped.
func (e *Engine) pass() bool {
	changed := false
	for _, rule := range e.rules {
		if e.apply(rule) {
			changed = true
		}
	}
	return changed
}

// apply evaluates one rule and reports whether the target's visibility
// changed.
func (e *Engine) apply(rule Rule) bool {
	target, ok := e.tree.Node(rule.Target)
	if !ok {
		return false
	}

	visible := true
	if controller, ok := e.tree.Node(rule.Field); ok {
		// A controller concealed by its own rule behaves as unanswered.
		// Hidden inputs keep their prefilled values; they were never
		// conditionally hidden.
		values := controller.Values()
		if !controller.Visible() && !controller.IsHidden() {
			values = nil
		}
		visible = Matches(rule.Operator, values, rule.Value)
	}

	flipped := target.Visible() != visible
	e.tree.SetVisible(rule.Target, visible)
	if !visible {
		e.tree.ClearValue(rule.Target)
	}
	return flipped
}
