// Package visibility evaluates conditional show/hide rules between fields.
//
// A rule binds a target field to a controlling field through an operator.
// The Engine subscribes to value changes on a form tree and re-evaluates
// affected rules, hiding targets and clearing their values so a concealed
// field never leaks stale input into a submission.
package visibility
